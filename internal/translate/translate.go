// Package translate derives the operation, description and status of a
// native span from the attributes of the OTel span it mirrors.
package translate

import (
	"strconv"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"gofr.dev/sentry-otel/internal/model"
)

const opDB = "db"

// Span is the part of a finished OTel span the rules look at.
type Span struct {
	Name       string
	Kind       string
	Attributes model.Attributes
	StatusCode codes.Code
}

// Description is what gets committed onto the native span.
type Description struct {
	Op          string
	Description string
	Status      sentry.SpanStatus
	// HTTPStatusCode is zero when no status code attribute was found.
	HTTPStatusCode int
	Data           map[string]interface{}
}

// Describe applies the HTTP rule, then the database rule when the HTTP rule
// did not match.
func Describe(s Span) Description {
	d := Description{
		Op:          s.Name,
		Description: s.Name,
		Data:        s.Attributes.Map(),
	}

	if !describeHTTP(s, &d) {
		describeDB(s, &d)
	}

	if d.HTTPStatusCode == 0 {
		d.Status = Status(s.StatusCode)
	}

	return d
}

func describeHTTP(s Span, d *Description) bool {
	method, ok := s.Attributes.String(semconv.HTTPMethodKey)
	if !ok {
		return false
	}

	d.Op = "http." + s.Kind

	description := method
	if peer, ok := s.Attributes.String(semconv.NetPeerNameKey); ok {
		description += " " + peer
	}

	if target, ok := s.Attributes.String(semconv.HTTPTargetKey); ok {
		description += target
	}

	d.Description = description

	if code, ok := httpStatusCode(s.Attributes); ok {
		d.HTTPStatusCode = code
		d.Status = sentry.HTTPtoSpanStatus(code)
	}

	return true
}

func describeDB(s Span, d *Description) bool {
	if _, ok := s.Attributes.Get(semconv.DBSystemKey); !ok {
		return false
	}

	d.Op = opDB

	if statement, ok := s.Attributes.String(semconv.DBStatementKey); ok {
		d.Description = statement
	}

	return true
}

func httpStatusCode(attrs model.Attributes) (int, bool) {
	v, ok := attrs.Get(semconv.HTTPStatusCodeKey)
	if !ok {
		return 0, false
	}

	if n, ok := v.AsInt(); ok {
		return int(n), true
	}

	if s, ok := v.AsString(); ok {
		n, err := strconv.Atoi(s)
		if err == nil {
			return n, true
		}
	}

	return 0, false
}

// Status maps an OTel status code onto the native span status.
func Status(code codes.Code) sentry.SpanStatus {
	switch code {
	case codes.Ok:
		return sentry.SpanStatusOK
	case codes.Error:
		return sentry.SpanStatusInternalError
	default:
		return sentry.SpanStatusUndefined
	}
}
