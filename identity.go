package sentryotel

import "go.opentelemetry.io/otel/trace"

// identity is the id triple of a foreign span. All-zero ids are absent.
type identity struct {
	spanID       trace.SpanID
	traceID      trace.TraceID
	parentSpanID trace.SpanID
}

func resolveIdentity(sc, parent trace.SpanContext) identity {
	return identity{
		spanID:       sc.SpanID(),
		traceID:      sc.TraceID(),
		parentSpanID: parent.SpanID(),
	}
}

// key is the registry key of the span, empty when the span id is absent.
func (id identity) key() string { return hexSpanID(id.spanID) }

func (id identity) hasParent() bool { return id.parentSpanID.IsValid() }

func hexSpanID(id trace.SpanID) string {
	if !id.IsValid() {
		return ""
	}

	return id.String()
}

func hexTraceID(id trace.TraceID) string {
	if !id.IsValid() {
		return ""
	}

	return id.String()
}
