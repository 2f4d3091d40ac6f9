package model

import (
	"encoding/json"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
)

// Kind identifies which variant of a Value is populated.
type Kind uint8

const (
	Invalid Kind = iota
	String
	Int
	Float
	Bool
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is a scalar attribute value. Exactly one variant is set, selected by Kind.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	bln  bool
}

func StringValue(s string) Value { return Value{kind: String, str: s} }

func IntValue(n int64) Value { return Value{kind: Int, num: n} }

func FloatValue(f float64) Value { return Value{kind: Float, flt: f} }

func BoolValue(b bool) Value { return Value{kind: Bool, bln: b} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == String
}

func (v Value) AsInt() (int64, bool) {
	return v.num, v.kind == Int
}

func (v Value) AsFloat() (float64, bool) {
	return v.flt, v.kind == Float
}

func (v Value) AsBool() (bool, bool) {
	return v.bln, v.kind == Bool
}

// Interface returns the populated variant as a plain Go value, nil for Invalid.
func (v Value) Interface() interface{} {
	switch v.kind {
	case String:
		return v.str
	case Int:
		return v.num
	case Float:
		return v.flt
	case Bool:
		return v.bln
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case String:
		return v.str
	case Int:
		return strconv.FormatInt(v.num, 10)
	case Float:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.bln)
	default:
		return ""
	}
}

// FromAttribute converts an OTel attribute value. Slice values are
// serialized as a JSON list string.
func FromAttribute(v attribute.Value) Value {
	switch v.Type() {
	case attribute.STRING:
		return StringValue(v.AsString())
	case attribute.INT64:
		return IntValue(v.AsInt64())
	case attribute.FLOAT64:
		return FloatValue(v.AsFloat64())
	case attribute.BOOL:
		return BoolValue(v.AsBool())
	case attribute.BOOLSLICE:
		return jsonValue(v.AsBoolSlice())
	case attribute.INT64SLICE:
		return jsonValue(v.AsInt64Slice())
	case attribute.FLOAT64SLICE:
		return jsonValue(v.AsFloat64Slice())
	case attribute.STRINGSLICE:
		return jsonValue(v.AsStringSlice())
	default:
		return Value{}
	}
}

func jsonValue(slice interface{}) Value {
	data, _ := json.Marshal(slice)
	return StringValue(string(data))
}
