package service

import (
	"context"
	"mime"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wjlander/choo/internal/config"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
)

// smtpSession records what a single fake SMTP client conversation sent.
type smtpSession struct {
	mu    sync.Mutex
	lines []string
	data  string
}

func (s *smtpSession) add(line string) { s.mu.Lock(); s.lines = append(s.lines, line); s.mu.Unlock() }

func (s *smtpSession) snapshot() ([]string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...), s.data
}

// startSMTPServer accepts one connection on loopback and speaks just enough
// ESMTP for net/smtp. MAIL FROM with a nested angle address is refused the
// way real relays refuse it.
func startSMTPServer(t *testing.T) (host, port string, sess *smtpSession) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	sess = &smtpSession{}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		tp := textproto.NewConn(conn)
		defer func() { _ = tp.Close() }()
		_ = tp.PrintfLine("220 relay.test ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			sess.add(line)
			verb, _, _ := strings.Cut(line, " ")
			switch strings.ToUpper(verb) {
			case "EHLO", "HELO":
				_ = tp.PrintfLine("250-relay.test")
				_ = tp.PrintfLine("250 SIZE 10240000")
			case "MAIL":
				if strings.Count(line, "<") != 1 {
					_ = tp.PrintfLine("501 5.1.7 bad sender address syntax")
					continue
				}
				_ = tp.PrintfLine("250 2.1.0 ok")
			case "RCPT":
				_ = tp.PrintfLine("250 2.1.5 ok")
			case "DATA":
				_ = tp.PrintfLine("354 end with <CRLF>.<CRLF>")
				b, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				sess.mu.Lock()
				sess.data = string(b)
				sess.mu.Unlock()
				_ = tp.PrintfLine("250 2.0.0 queued")
			case "QUIT":
				_ = tp.PrintfLine("221 2.0.0 bye")
				return
			default:
				_ = tp.PrintfLine("502 5.5.2 not implemented")
			}
		}
	}()

	host, port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return host, port, sess
}

func TestSMTP_DisplayNameSender(t *testing.T) {
	host, port, sess := startSMTPServer(t)
	s := NewSMTP(mockSettings{vals: map[string]string{
		sdomain.KeySMTPHost: host,
		sdomain.KeySMTPPort: port,
		sdomain.KeySMTPFrom: "Riverside Club <office@club.test>",
	}}, config.Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.Send(ctx, uuid.New(), "Zoë Hart <zoe@club.test>", "Welcome Zoë", "Hello Zoë,\nwelcome aboard.")
	require.NoError(t, err)

	lines, data := sess.snapshot()
	assert.Contains(t, lines, "MAIL FROM:<office@club.test>")
	assert.Contains(t, lines, "RCPT TO:<zoe@club.test>")

	headers, body, ok := strings.Cut(data, "\n\n")
	require.True(t, ok)
	assert.Contains(t, headers, `From: "Riverside Club" <office@club.test>`)
	assert.Contains(t, headers, "<zoe@club.test>")
	assert.Contains(t, body, "welcome aboard.")

	var subject string
	for _, h := range strings.Split(headers, "\n") {
		if v, found := strings.CutPrefix(h, "Subject: "); found {
			subject = v
		}
	}
	assert.True(t, strings.HasPrefix(subject, "=?utf-8?q?"), subject)
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	require.NoError(t, err)
	assert.Equal(t, "Welcome Zoë", decoded)
}

func TestSMTP_RejectsMalformedSender(t *testing.T) {
	s := NewSMTP(mockSettings{vals: map[string]string{
		sdomain.KeySMTPHost: "127.0.0.1",
		sdomain.KeySMTPPort: "1",
		sdomain.KeySMTPFrom: "not an address",
	}}, config.Config{})
	err := s.Send(context.Background(), uuid.Nil, "a@b.test", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp sender")
}

func TestBuildMessage_StripsHeaderInjection(t *testing.T) {
	msg := string(buildMessage("club@org.test", "a@b.test", "Hi\r\nBcc: evil@x.test", "line1\nline2"))
	headers, body, ok := strings.Cut(msg, "\r\n\r\n")
	assert.True(t, ok)
	assert.Contains(t, headers, "Subject: Hi  Bcc: evil@x.test")
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Equal(t, "line1\nline2\r\n", body)
}

func TestBuildMessage_ASCIISubjectUnencoded(t *testing.T) {
	msg := string(buildMessage("club@org.test", "a@b.test", "New signup: Ana Lee", "x"))
	assert.Contains(t, msg, "\r\nSubject: New signup: Ana Lee\r\n")
}
