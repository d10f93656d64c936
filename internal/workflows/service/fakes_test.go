package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/wjlander/choo/internal/workflows/domain"
)

type memRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.Workflow
	seq   int
	err   error
	// failGetFrom makes the n-th and later Get calls fail; 0 disables it.
	failGetFrom int
	gets        int
}

func newMemRepo() *memRepo { return &memRepo{items: map[uuid.UUID]domain.Workflow{}} }

func (r *memRepo) List(_ context.Context, orgID uuid.UUID) ([]domain.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Workflow
	for _, w := range r.items {
		if w.OrganizationID == orgID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) Get(_ context.Context, orgID, id uuid.UUID) (domain.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.Workflow{}, r.err
	}
	r.gets++
	if r.failGetFrom > 0 && r.gets >= r.failGetFrom {
		return domain.Workflow{}, errors.New("connection reset")
	}
	w, ok := r.items[id]
	if !ok || w.OrganizationID != orgID {
		return domain.Workflow{}, domain.ErrNotFound
	}
	return w, nil
}

// ListActiveForEvent deliberately ignores the event filter so the matcher's
// own re-check is exercised.
func (r *memRepo) ListActiveForEvent(_ context.Context, orgID uuid.UUID, _ domain.TriggerEvent) ([]domain.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Workflow
	for _, w := range r.items {
		if w.OrganizationID == orgID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) Create(_ context.Context, w domain.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.seq++
	w.CreatedAt = time.Date(2026, 1, 1, 0, 0, r.seq, 0, time.UTC)
	w.UpdatedAt = w.CreatedAt
	r.items[w.ID] = w
	return nil
}

func (r *memRepo) Update(_ context.Context, w domain.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cur, ok := r.items[w.ID]
	if !ok || cur.OrganizationID != w.OrganizationID {
		return domain.ErrNotFound
	}
	w.CreatedAt = cur.CreatedAt
	r.items[w.ID] = w
	return nil
}

func (r *memRepo) SetActive(_ context.Context, orgID, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	w, ok := r.items[id]
	if !ok || w.OrganizationID != orgID {
		return domain.ErrNotFound
	}
	w.IsActive = active
	r.items[id] = w
	return nil
}

func (r *memRepo) Delete(_ context.Context, orgID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	w, ok := r.items[id]
	if !ok || w.OrganizationID != orgID {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memRepo) put(w domain.Workflow) domain.Workflow {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	_ = r.Create(context.Background(), w)
	return r.items[w.ID]
}

type position struct {
	orgID  uuid.UUID
	name   string
	active bool
}

type fakePositions struct {
	items map[uuid.UUID]position
	err   error
}

func (f *fakePositions) ActivePosition(_ context.Context, orgID, id uuid.UUID) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	p, ok := f.items[id]
	if !ok || !p.active || p.orgID != orgID {
		return "", false, nil
	}
	return p.name, true, nil
}

type fakeDirectory struct {
	active  []domain.Address
	holders map[uuid.UUID][]domain.Address
	members map[uuid.UUID]domain.MemberProfile
	err     error
}

func (f *fakeDirectory) ActiveMembers(context.Context, uuid.UUID) ([]domain.Address, error) {
	return f.active, f.err
}

func (f *fakeDirectory) PositionHolders(_ context.Context, _ uuid.UUID, positionID uuid.UUID) ([]domain.Address, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.holders[positionID], nil
}

func (f *fakeDirectory) Member(_ context.Context, _ uuid.UUID, id uuid.UUID) (domain.MemberProfile, error) {
	if f.err != nil {
		return domain.MemberProfile{}, f.err
	}
	m, ok := f.members[id]
	if !ok {
		return domain.MemberProfile{}, domain.ErrNotFound
	}
	return m, nil
}

type sentMail struct {
	orgID   uuid.UUID
	to      string
	subject string
	body    string
}

// captureSender records sends. Addresses in fail return that error; addresses
// in hang block until release is closed, ignoring ctx.
type captureSender struct {
	mu      sync.Mutex
	sent    []sentMail
	fail    map[string]error
	hang    map[string]bool
	release chan struct{}
}

func newCaptureSender() *captureSender {
	return &captureSender{fail: map[string]error{}, hang: map[string]bool{}, release: make(chan struct{})}
}

func (s *captureSender) Send(_ context.Context, orgID uuid.UUID, to, subject, body string) error {
	if s.hang[strings.ToLower(to)] {
		<-s.release
	}
	if err := s.fail[strings.ToLower(to)]; err != nil {
		return err
	}
	s.mu.Lock()
	s.sent = append(s.sent, sentMail{orgID: orgID, to: to, subject: subject, body: body})
	s.mu.Unlock()
	return nil
}

func (s *captureSender) messages() []sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentMail, len(s.sent))
	copy(out, s.sent)
	sort.Slice(out, func(i, j int) bool { return out[i].to < out[j].to })
	return out
}

type fakeSettings struct {
	durations map[string]time.Duration
}

func (f fakeSettings) GetString(_ context.Context, _ string, _ *uuid.UUID, def string) (string, error) {
	return def, nil
}

func (f fakeSettings) GetDuration(_ context.Context, key string, _ *uuid.UUID, def time.Duration) (time.Duration, error) {
	if d, ok := f.durations[key]; ok {
		return d, nil
	}
	return def, nil
}

func (f fakeSettings) GetInt(_ context.Context, _ string, _ *uuid.UUID, def int) (int, error) {
	return def, nil
}
