package sentryotel

import (
	"context"
	"strconv"

	"github.com/getsentry/sentry-go"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"gofr.dev/sentry-otel/internal/model"
	"gofr.dev/sentry-otel/internal/registry"
	"gofr.dev/sentry-otel/internal/translate"
)

const otelContextKey = "otel"

type handleKind uint8

const (
	handleTransaction handleKind = iota + 1
	handleSpan
)

// handle is a native span created by the bridge, tagged with whether it was
// started as a transaction or as a child span.
type handle struct {
	kind handleKind
	span *sentry.Span
}

type entry struct {
	handle handle
	// parent is the scope's current span when this one started, nil for roots.
	parent *sentry.Span
	scope  *Scope
}

// SpanProcessor mirrors OTel spans into sentry transactions and spans.
type SpanProcessor struct {
	client *Client
	logger Logger
	spans  *registry.Registry[entry]
}

var _ sdktrace.SpanProcessor = (*SpanProcessor)(nil)

func NewSpanProcessor(client *Client, logger Logger) *SpanProcessor {
	return &SpanProcessor{
		client: client,
		logger: logger,
		spans:  registry.New[entry](),
	}
}

// OnStart creates a transaction when the scope has no current span and a
// child of the current span otherwise.
func (p *SpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if !p.client.Ready() {
		return
	}

	if isSentryRequest(s.Name(), s.SpanKind(), s.Attributes(), p.client.DestinationHost()) {
		p.logger.Debugf("skipping span %q: sentry request", s.Name())
		return
	}

	id := resolveIdentity(s.SpanContext(), s.Parent())

	key := id.key()
	if key == "" {
		return
	}

	scope := p.scopeFor(parent)
	current := scope.Span()

	var h handle

	if current != nil {
		p.logger.Infof("continuing otel span %q (%s) on parent %s", s.Name(), key, current.SpanID)

		h = handle{kind: handleSpan, span: startChild(current, id, s)}
	} else {
		p.logger.Infof("starting otel transaction %q (trace %s, span %s)", s.Name(), hexTraceID(id.traceID), key)

		h = handle{kind: handleTransaction, span: p.startTransaction(scope, id, s)}
	}

	p.bindTraceContext(scope, h.span)
	scope.SetSpan(h.span)

	p.spans.Insert(key, entry{handle: h, parent: current, scope: scope})
}

// scopeFor returns the scope carried by ctx. Without one, a span nests in the
// scope of its bridged OTel parent; any other span starts a new execution on
// its own scope and hub.
func (p *SpanProcessor) scopeFor(ctx context.Context) *Scope {
	if s := ScopeFromContext(ctx); s != nil {
		return s
	}

	if key := hexSpanID(trace.SpanContextFromContext(ctx).SpanID()); key != "" {
		if e, ok := p.spans.Get(key); ok {
			return e.scope
		}
	}

	return NewScope(p.client.Hub().Clone())
}

func (p *SpanProcessor) hubFor(scope *Scope) *sentry.Hub {
	if hub := scope.Hub(); hub != nil {
		return hub
	}

	return p.client.Hub()
}

func startChild(parent *sentry.Span, id identity, s sdktrace.ReadOnlySpan) *sentry.Span {
	span := parent.StartChild(s.Name(), sentry.WithDescription(s.Name()))
	span.SpanID = sentry.SpanID(id.spanID)
	span.StartTime = s.StartTime()

	return span
}

func (p *SpanProcessor) startTransaction(scope *Scope, id identity, s sdktrace.ReadOnlySpan) *sentry.Span {
	ctx := sentry.SetHubOnContext(context.Background(), p.hubFor(scope))

	options := []sentry.SpanOption{sentry.WithDescription(s.Name())}
	if sentryTrace, baggage := scope.continuation(); sentryTrace != "" || baggage != "" {
		options = append(options, sentry.ContinueFromHeaders(sentryTrace, baggage))
	}

	tx := sentry.StartTransaction(ctx, s.Name(), options...)
	tx.SpanID = sentry.SpanID(id.spanID)
	tx.StartTime = s.StartTime()

	if id.traceID.IsValid() {
		tx.TraceID = sentry.TraceID(id.traceID)
	}

	if id.hasParent() {
		tx.ParentSpanID = sentry.SpanID(id.parentSpanID)
	}

	return tx
}

// bindTraceContext points the hub scope's trace context at span, so events
// captured through the hub carry the ids assigned above.
func (p *SpanProcessor) bindTraceContext(scope *Scope, span *sentry.Span) {
	if hs := p.hubFor(scope).Scope(); hs != nil {
		hs.SetContext("trace", traceContext(span).Map())
	}
}

// restoreTraceContext binds the hub scope back to the finished span's parent,
// or unbinds it when a root finishes.
func (p *SpanProcessor) restoreTraceContext(e entry) {
	if e.parent != nil {
		p.bindTraceContext(e.scope, e.parent)
		return
	}

	if scope := p.hubFor(e.scope).Scope(); scope != nil {
		scope.RemoveContext("trace")
	}
}

func traceContext(span *sentry.Span) sentry.TraceContext {
	return sentry.TraceContext{
		TraceID:      span.TraceID,
		SpanID:       span.SpanID,
		ParentSpanID: span.ParentSpanID,
	}
}

// OnEnd fills in and finishes the native span registered for s, then
// restores the scope's previous current span.
func (p *SpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if !p.client.Ready() {
		return
	}

	key := hexSpanID(s.SpanContext().SpanID())
	if key == "" {
		return
	}

	e, ok := p.spans.Remove(key)
	if !ok {
		return
	}

	span := e.handle.span
	span.Op = s.Name()

	switch e.handle.kind {
	case handleTransaction:
		finishTransaction(e, s)
	case handleSpan:
		finishSpan(span, s)
	}

	span.EndTime = s.EndTime()
	span.Finish()

	e.scope.SetSpan(e.parent)
	p.restoreTraceContext(e)
}

func finishTransaction(e entry, s sdktrace.ReadOnlySpan) {
	tx := e.handle.span
	tx.Name = s.Name()
	e.scope.SetTransactionName(s.Name())

	if block := otelContext(s); block != nil {
		tx.SetContext(otelContextKey, block)
	}

	if status := translate.Status(s.Status().Code); status != sentry.SpanStatusUndefined {
		tx.Status = status
	}
}

func otelContext(s sdktrace.ReadOnlySpan) sentry.Context {
	block := sentry.Context{}

	if attrs := model.FromKeyValues(s.Attributes()).Map(); attrs != nil {
		block["attributes"] = attrs
	}

	if res := s.Resource(); res != nil {
		if attrs := model.FromKeyValues(res.Attributes()).Map(); attrs != nil {
			block["resource"] = attrs
		}
	}

	if len(block) == 0 {
		return nil
	}

	return block
}

func finishSpan(span *sentry.Span, s sdktrace.ReadOnlySpan) {
	d := translate.Describe(translate.Span{
		Name:       s.Name(),
		Kind:       s.SpanKind().String(),
		Attributes: model.FromKeyValues(s.Attributes()),
		StatusCode: s.Status().Code,
	})

	span.Op = d.Op
	span.Description = d.Description
	span.Status = d.Status

	if len(d.Data) > 0 {
		if span.Data == nil {
			span.Data = make(map[string]interface{}, len(d.Data))
		}

		for k, v := range d.Data {
			span.Data[k] = v
		}
	}

	if d.HTTPStatusCode != 0 {
		span.SetTag("http.status_code", strconv.Itoa(d.HTTPStatusCode))
	}
}

// LinkErrors returns an event processor attaching the trace context of the
// bridged span active in the event hint's context, so errors captured while
// an OTel span is in flight are correlated with its native counterpart.
func (p *SpanProcessor) LinkErrors() sentry.EventProcessor {
	return func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
		if event == nil || event.Type == "transaction" || hint == nil || hint.Context == nil {
			return event
		}

		key := hexSpanID(trace.SpanContextFromContext(hint.Context).SpanID())
		if key == "" {
			return event
		}

		e, ok := p.spans.Get(key)
		if !ok {
			return event
		}

		if event.Contexts == nil {
			event.Contexts = make(map[string]sentry.Context)
		}

		event.Contexts["trace"] = traceContext(e.handle.span).Map()

		return event
	}
}

// ForceFlush is a no-op: flushing belongs to the sentry client.
func (*SpanProcessor) ForceFlush(context.Context) error {
	return nil
}

// Shutdown is a no-op: the sentry client is closed by its owner.
func (*SpanProcessor) Shutdown(context.Context) error {
	return nil
}
