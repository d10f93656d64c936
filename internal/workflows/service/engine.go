package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	edomain "github.com/wjlander/choo/internal/email/domain"
	evdomain "github.com/wjlander/choo/internal/events/domain"
	evsvc "github.com/wjlander/choo/internal/events/service"
	"github.com/wjlander/choo/internal/metrics"
	sdomain "github.com/wjlander/choo/internal/settings/domain"
	domain "github.com/wjlander/choo/internal/workflows/domain"
	"github.com/wjlander/choo/internal/workflows/render"
)

var _ domain.Engine = (*Engine)(nil)

const (
	defaultDeliveryTimeout     = 10 * time.Second
	defaultDeliveryConcurrency = 8

	kindTrigger = "trigger"
	kindTest    = "test"
)

// Options tune delivery. Zero values fall back to 10s and 8 workers.
type Options struct {
	Timeout     time.Duration
	Concurrency int
}

// Engine fires matched workflows and sends operator test copies.
type Engine struct {
	repo     domain.Repository
	matcher  domain.Matcher
	resolver domain.Resolver
	dir      domain.Directory
	sender   edomain.Sender
	settings sdomain.Service
	opts     Options
	pub      evdomain.Publisher
	log      zerolog.Logger
}

func NewEngine(repo domain.Repository, m domain.Matcher, r domain.Resolver, dir domain.Directory, sender edomain.Sender, settings sdomain.Service, opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultDeliveryTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultDeliveryConcurrency
	}
	return &Engine{
		repo:     repo,
		matcher:  m,
		resolver: r,
		dir:      dir,
		sender:   sender,
		settings: settings,
		opts:     opts,
		pub:      evsvc.NewLogger(),
		log:      zerolog.Nop(),
	}
}

// SetPublisher allows tests or callers to override the event publisher.
func (e *Engine) SetPublisher(p evdomain.Publisher) { e.pub = p }

// SetLogger allows injection of a structured logger.
func (e *Engine) SetLogger(l zerolog.Logger) { e.log = l }

type delivery struct {
	idx     int
	wf      domain.Workflow
	to      domain.Address
	subject string
	body    string
}

// Fire runs every workflow matching t.Event. A failure in one workflow or
// one recipient never affects the others, and Fire itself never fails: all
// problems are recorded in the returned report.
func (e *Engine) Fire(ctx context.Context, orgID uuid.UUID, t domain.Trigger) domain.FireReport {
	report := domain.FireReport{OrganizationID: orgID, Event: t.Event}
	matched, err := e.matcher.Match(ctx, orgID, t.Event)
	if err != nil {
		report.Err = err
		e.log.Error().Err(err).Str("organization_id", orgID.String()).Str("event", string(t.Event)).Msg("workflow match failed")
		return report
	}
	metrics.IncWorkflowFire(string(t.Event), len(matched))
	if len(matched) == 0 {
		return report
	}

	vars := e.variables(ctx, orgID, t)
	timeout := e.timeout(ctx, orgID)

	report.Outcomes = make([]domain.Outcome, len(matched))
	var jobs []delivery
	for i, w := range matched {
		report.Outcomes[i] = domain.Outcome{WorkflowID: w.ID, WorkflowName: w.Name}
		addrs, err := e.resolver.Resolve(ctx, w)
		if err != nil {
			report.Outcomes[i].Err = err
			e.unresolved(ctx, w, err)
			continue
		}
		subject, body := render.Message(w.EmailSubject, w.EmailTemplate, vars)
		report.Outcomes[i].Recipients = len(addrs)
		for _, a := range addrs {
			jobs = append(jobs, delivery{idx: i, wf: w, to: a, subject: subject, body: body})
		}
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(e.opts.Concurrency)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			err := e.deliver(ctx, orgID, kindTrigger, j.to.Email, j.subject, j.body, timeout)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Outcomes[j.idx].Failures = append(report.Outcomes[j.idx].Failures,
					&domain.DeliveryError{WorkflowID: j.wf.ID, To: j.to.Email, Err: err})
				return nil
			}
			report.Outcomes[j.idx].Delivered++
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range report.Outcomes {
		for _, ferr := range o.Failures {
			e.deliveryFailed(ctx, matched[i], ferr)
		}
	}
	e.log.Info().
		Str("organization_id", orgID.String()).
		Str("event", string(t.Event)).
		Int("matched", report.Matched()).
		Int("delivered", report.Delivered()).
		Int("failed", report.Failed()).
		Msg("workflows fired")
	return report
}

// SendTest renders one workflow with sample data and sends it to the
// requested address only.
func (e *Engine) SendTest(ctx context.Context, cred domain.Credential, req domain.TestSendRequest) error {
	if !cred.Valid() {
		return domain.ErrUnauthenticated
	}
	verr := &domain.ValidationError{}
	if req.WorkflowID == uuid.Nil {
		verr.Add("workflowId", "required")
	}
	if !validEmail(req.TestEmail) {
		verr.Add("testEmail", "invalid email")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	w, err := e.repo.Get(ctx, cred.OrganizationID, req.WorkflowID)
	if err != nil {
		return domain.WrapStore("get workflow", err)
	}
	vars := req.TestData.Merge(domain.DefaultTestData)
	subject, body := render.Message(w.EmailSubject, w.EmailTemplate, vars)

	timeout := e.timeout(ctx, cred.OrganizationID)
	if err := e.deliver(ctx, cred.OrganizationID, kindTest, req.TestEmail, subject, body, timeout); err != nil {
		derr := &domain.DeliveryError{WorkflowID: w.ID, To: req.TestEmail, Err: err}
		e.log.Warn().Err(err).Str("workflow_id", w.ID.String()).Msg("test send failed")
		return derr
	}
	_ = e.pub.Publish(ctx, evdomain.Event{
		Type:           "workflow.test_sent",
		OrganizationID: cred.OrganizationID,
		ActorID:        cred.OperatorID,
		Meta:           map[string]string{"workflow_id": w.ID.String(), "to": req.TestEmail},
		Time:           time.Now(),
	})
	return nil
}

// deliver runs one send under timeout. A sender that ignores ctx still
// times out; its goroutine finishes in the background.
func (e *Engine) deliver(ctx context.Context, orgID uuid.UUID, kind, to, subject, body string, timeout time.Duration) error {
	start := time.Now()
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.sender.Send(dctx, orgID, to, subject, body) }()

	var err error
	select {
	case err = <-done:
	case <-dctx.Done():
		err = dctx.Err()
	}
	metrics.ObserveWorkflowDelivery(kind, time.Since(start).Seconds())
	switch {
	case err == nil:
		metrics.IncWorkflowDelivery(kind, "success")
	case errors.Is(err, context.DeadlineExceeded):
		metrics.IncWorkflowDelivery(kind, "timeout")
	default:
		metrics.IncWorkflowDelivery(kind, "failure")
	}
	return err
}

// variables merges the member record into the trigger variables. Explicit
// trigger values win. A failed member lookup is logged and ignored.
func (e *Engine) variables(ctx context.Context, orgID uuid.UUID, t domain.Trigger) domain.Variables {
	vars := t.Variables
	if vars == nil {
		vars = domain.Variables{}
	}
	if t.MemberID == nil || e.dir == nil {
		return vars
	}
	p, err := e.dir.Member(ctx, orgID, *t.MemberID)
	if err != nil {
		e.log.Warn().Err(err).Str("member_id", t.MemberID.String()).Msg("member lookup failed; using trigger variables only")
		return vars
	}
	return vars.Merge(p.Variables())
}

func (e *Engine) timeout(ctx context.Context, orgID uuid.UUID) time.Duration {
	if e.settings == nil {
		return e.opts.Timeout
	}
	d, err := e.settings.GetDuration(ctx, sdomain.KeyWorkflowDeliveryTimeout, &orgID, e.opts.Timeout)
	if err != nil || d <= 0 {
		return e.opts.Timeout
	}
	return d
}

func (e *Engine) unresolved(ctx context.Context, w domain.Workflow, err error) {
	metrics.IncWorkflowDelivery(kindTrigger, "unresolved")
	e.log.Warn().Err(err).Str("workflow_id", w.ID.String()).Str("organization_id", w.OrganizationID.String()).Msg("workflow recipients unresolved")
	meta := map[string]string{"workflow_id": w.ID.String(), "error": err.Error()}
	var ure *domain.UnresolvedRecipientError
	if errors.As(err, &ure) {
		meta["recipient_type"] = string(ure.RecipientType)
	}
	_ = e.pub.Publish(ctx, evdomain.Event{
		Type:           "workflow.recipient.unresolved",
		OrganizationID: w.OrganizationID,
		Meta:           meta,
		Time:           time.Now(),
	})
}

func (e *Engine) deliveryFailed(ctx context.Context, w domain.Workflow, err error) {
	meta := map[string]string{"workflow_id": w.ID.String(), "error": err.Error()}
	var de *domain.DeliveryError
	if errors.As(err, &de) {
		meta["to"] = de.To
	}
	e.log.Warn().Err(err).Str("workflow_id", w.ID.String()).Msg("workflow delivery failed")
	_ = e.pub.Publish(ctx, evdomain.Event{
		Type:           "workflow.delivery.failed",
		OrganizationID: w.OrganizationID,
		Meta:           meta,
		Time:           time.Now(),
	})
}
