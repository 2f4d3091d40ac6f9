package sentryotel

import (
	"context"
	"net/http"
	"sync"

	"github.com/getsentry/sentry-go"
)

// Scope is per-execution state, typically one per request. It holds the
// native span new children attach to, along with the transaction name and any
// upstream trace the next transaction should continue.
type Scope struct {
	mu              sync.Mutex
	hub             *sentry.Hub
	span            *sentry.Span
	transactionName string
	sentryTrace     string
	baggage         string
}

// NewScope creates a scope reporting through hub. A nil hub falls back to the
// client's hub.
func NewScope(hub *sentry.Hub) *Scope {
	return &Scope{hub: hub}
}

func (s *Scope) Hub() *sentry.Hub {
	return s.hub
}

// Span returns the current native span, nil when none is active.
func (s *Scope) Span() *sentry.Span {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.span
}

func (s *Scope) SetSpan(span *sentry.Span) {
	s.mu.Lock()
	s.span = span
	s.mu.Unlock()
}

func (s *Scope) TransactionName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transactionName
}

func (s *Scope) SetTransactionName(name string) {
	s.mu.Lock()
	s.transactionName = name
	s.mu.Unlock()
}

// ContinueTrace records an upstream sentry-trace header and baggage. The next
// transaction started on this scope continues that trace.
func (s *Scope) ContinueTrace(sentryTrace, baggage string) {
	s.mu.Lock()
	s.sentryTrace = sentryTrace
	s.baggage = baggage
	s.mu.Unlock()
}

// ContinueFromRequest is ContinueTrace with the headers of r.
func (s *Scope) ContinueFromRequest(r *http.Request) {
	s.ContinueTrace(r.Header.Get(sentry.SentryTraceHeader), r.Header.Get(sentry.SentryBaggageHeader))
}

func (s *Scope) continuation() (sentryTrace, baggage string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sentryTrace, s.baggage
}

type scopeKey struct{}

// ContextWithScope returns a copy of ctx carrying s. Spans started from the
// returned context (or its descendants) nest under s's current span.
func ContextWithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFromContext returns the scope stored in ctx, or nil.
func ScopeFromContext(ctx context.Context) *Scope {
	if ctx == nil {
		return nil
	}

	s, _ := ctx.Value(scopeKey{}).(*Scope)

	return s
}
