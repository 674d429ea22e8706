package service

import (
	"context"
	"sync"

	"github.com/workshophub/portal/internal/core/domain"
	"github.com/workshophub/portal/internal/core/ports"
)

// stubBackend lets each test wire just the calls it expects; unexpected
// calls are visible as nil-function panics.
type stubBackend struct {
	loginFn            func(ctx context.Context, email, password string) (string, error)
	fetchCurrentUserFn func(ctx context.Context, token string) (ports.BackendUser, error)
	requestCodeFn      func(ctx context.Context, email string) error
	verifyEmailCodeFn  func(ctx context.Context, email, code string) error
	finalizeResetFn    func(ctx context.Context, code, secret string) (string, error)

	requestCodeCalls int
}

func (b *stubBackend) Login(ctx context.Context, email, password string) (string, error) {
	return b.loginFn(ctx, email, password)
}

func (b *stubBackend) FetchCurrentUser(ctx context.Context, token string) (ports.BackendUser, error) {
	return b.fetchCurrentUserFn(ctx, token)
}

func (b *stubBackend) RequestCode(ctx context.Context, email string) error {
	b.requestCodeCalls++
	return b.requestCodeFn(ctx, email)
}

func (b *stubBackend) VerifyEmailCode(ctx context.Context, email, code string) error {
	return b.verifyEmailCodeFn(ctx, email, code)
}

func (b *stubBackend) FinalizeReset(ctx context.Context, code, secret string) (string, error) {
	return b.finalizeResetFn(ctx, code, secret)
}

// stubSessionStore records writes so tests can assert atomicity.
type stubSessionStore struct {
	sessions map[string]domain.Session
	setCalls int
	setErr   error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Get(_ context.Context, sid string) (domain.Session, error) {
	return s.sessions[sid], nil
}

func (s *stubSessionStore) Set(_ context.Context, sid string, session domain.Session) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.setCalls++
	s.sessions[sid] = session
	return nil
}

func (s *stubSessionStore) Clear(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	return nil
}

// stubFlowRepo is an in-memory FlowRepository.
type stubFlowRepo struct {
	mu    sync.Mutex
	flows map[string]domain.Flow
}

func newStubFlowRepo() *stubFlowRepo {
	return &stubFlowRepo{flows: make(map[string]domain.Flow)}
}

func (r *stubFlowRepo) Create(_ context.Context, flow *domain.Flow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[flow.ID] = *flow
	return nil
}

func (r *stubFlowRepo) Find(_ context.Context, id string) (*domain.Flow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow, ok := r.flows[id]
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	clone := flow
	return &clone, nil
}

func (r *stubFlowRepo) Update(_ context.Context, flow *domain.Flow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.flows[flow.ID]; !ok {
		return domain.ErrFlowNotFound
	}
	r.flows[flow.ID] = *flow
	return nil
}

func (r *stubFlowRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, id)
	return nil
}

// stubLimiter models the submit lock and resend throttle in memory.
type stubLimiter struct {
	locked       map[string]bool
	resendAllow  bool
	resendChecks int
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{locked: make(map[string]bool), resendAllow: true}
}

func (l *stubLimiter) AcquireSubmit(_ context.Context, flowID string) (bool, error) {
	if l.locked[flowID] {
		return false, nil
	}
	l.locked[flowID] = true
	return true, nil
}

func (l *stubLimiter) ReleaseSubmit(_ context.Context, flowID string) error {
	delete(l.locked, flowID)
	return nil
}

func (l *stubLimiter) AllowResend(_ context.Context, flowID string) (bool, error) {
	l.resendChecks++
	return l.resendAllow, nil
}

// recordingAudit captures emitted events.
type recordingAudit struct {
	events []ports.AuthEvent
}

func (a *recordingAudit) Record(event ports.AuthEvent) {
	a.events = append(a.events, event)
}
