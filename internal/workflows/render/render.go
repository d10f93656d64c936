// Package render substitutes {{variable}} placeholders in workflow subjects and bodies.
//
// Only the exact form {{name}} is recognised. Placeholders with no value in the
// mapping, including spaced forms such as {{ name }}, are written back verbatim
// so that half-finished drafts still render.
package render

import (
	"io"
	"sort"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

// String renders tmpl with vars.
func String(tmpl string, vars map[string]string) string {
	if !strings.Contains(tmpl, startTag) {
		return tmpl
	}
	return fasttemplate.ExecuteFuncString(tmpl, startTag, endTag, func(w io.Writer, tag string) (int, error) {
		if v, ok := vars[tag]; ok {
			return w.Write([]byte(v))
		}
		return w.Write([]byte(startTag + tag + endTag))
	})
}

// Message renders subject and body independently with the same mapping.
func Message(subject, body string, vars map[string]string) (string, string) {
	return String(subject, vars), String(body, vars)
}

// Placeholders returns the distinct placeholder names referenced by tmpl, sorted.
func Placeholders(tmpl string) []string {
	seen := map[string]struct{}{}
	fasttemplate.ExecuteFuncString(tmpl, startTag, endTag, func(w io.Writer, tag string) (int, error) {
		if tag != "" && strings.TrimSpace(tag) == tag {
			seen[tag] = struct{}{}
		}
		return 0, nil
	})
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
