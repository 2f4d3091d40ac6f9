package model

import "go.opentelemetry.io/otel/attribute"

// Attributes is a string-keyed bag of scalar values.
type Attributes map[string]Value

// FromKeyValues builds an attribute bag, later keys overwriting earlier ones.
// Invalid values are skipped.
func FromKeyValues(kvs []attribute.KeyValue) Attributes {
	attrs := make(Attributes, len(kvs))

	for _, kv := range kvs {
		v := FromAttribute(kv.Value)
		if v.Kind() == Invalid {
			continue
		}

		attrs[string(kv.Key)] = v
	}

	return attrs
}

func (a Attributes) Get(key attribute.Key) (Value, bool) {
	v, ok := a[string(key)]
	return v, ok
}

// String returns the value stored under key when it is a string.
func (a Attributes) String(key attribute.Key) (string, bool) {
	v, ok := a[string(key)]
	if !ok {
		return "", false
	}

	return v.AsString()
}

// Map returns the bag as plain Go values, nil when the bag is empty.
func (a Attributes) Map() map[string]interface{} {
	if len(a) == 0 {
		return nil
	}

	m := make(map[string]interface{}, len(a))
	for k, v := range a {
		m[k] = v.Interface()
	}

	return m
}
