package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the inferred type of a single cell.
type Kind int

const (
	Null Kind = iota
	String
	Int
	Float
	Bool
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a cell. It keeps the text it was read from so that writing it
// back out reproduces the input exactly.
type Value struct {
	kind Kind
	raw  string
	i    int64
	f    float64
	b    bool
}

// Infer classifies text the way the splitter reads cells: empty text is null,
// then int64, float64 and true/false are tried before falling back to string.
func Infer(text string) Value {
	if text == "" {
		return Value{kind: Null}
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Value{kind: Int, raw: text, i: i}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !strings.ContainsAny(text, "_xXpP") {
		return Value{kind: Float, raw: text, f: f}
	}
	switch strings.ToLower(text) {
	case "true":
		return Value{kind: Bool, raw: text, b: true}
	case "false":
		return Value{kind: Bool, raw: text, b: false}
	}
	return Value{kind: String, raw: text}
}

func NullValue() Value { return Value{kind: Null} }

func StringValue(s string) Value { return Value{kind: String, raw: s} }

func IntValue(i int64) Value {
	return Value{kind: Int, raw: strconv.FormatInt(i, 10), i: i}
}

func FloatValue(f float64) Value {
	var raw string
	switch {
	case math.IsNaN(f):
		raw = "NaN"
	case math.IsInf(f, 1):
		raw = "inf"
	case math.IsInf(f, -1):
		raw = "-inf"
	default:
		raw = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return Value{kind: Float, raw: raw, f: f}
}

func BoolValue(b bool) Value {
	if b {
		return Value{kind: Bool, raw: "True", b: true}
	}
	return Value{kind: Bool, raw: "False"}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == Null }

// Text is the CSV representation of v.
func (v Value) Text() string { return v.raw }

func (v Value) String() string { return v.raw }

func (v Value) Int() (int64, bool) { return v.i, v.kind == Int }

// Float returns the numeric value of v for both Float and Int cells.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case Float:
		return v.f, true
	case Int:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) Bool() (bool, bool) { return v.b, v.kind == Bool }

// Equal compares kind and text.
func (v Value) Equal(o Value) bool { return v.kind == o.kind && v.raw == o.raw }
