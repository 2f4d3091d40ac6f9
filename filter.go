package sentryotel

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// isSentryRequest reports whether a span describes the sentry client's own
// upload to destination, or an HTTP client span too vague to tell.
func isSentryRequest(name string, kind trace.SpanKind, attrs []attribute.KeyValue, destination string) bool {
	if !strings.HasPrefix(name, "HTTP") {
		return false
	}

	if kind != trace.SpanKindClient && kind != trace.SpanKindInternal {
		return false
	}

	if destination == "" {
		return true
	}

	peer, ok := stringAttribute(attrs, semconv.NetPeerNameKey)
	if !ok {
		return true
	}

	return peer == destination
}

func stringAttribute(attrs []attribute.KeyValue, key attribute.Key) (string, bool) {
	for _, kv := range attrs {
		if kv.Key == key && kv.Value.Type() == attribute.STRING {
			return kv.Value.AsString(), true
		}
	}

	return "", false
}
