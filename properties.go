package tmx

import (
	"strconv"

	"github.com/goccy/go-json"
)

// ValueKind identifies the dynamic type held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindPoints
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindPoints:
		return "points"
	default:
		return "unknown"
	}
}

// Point is a pixel coordinate pair.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Value is a dynamically typed property value.
// The As* accessors convert between kinds where a sensible conversion exists.
type Value struct {
	kind   ValueKind
	str    string
	num    int64
	float  float64
	flag   bool
	points []Point
}

func StringValue(s string) Value   { return Value{kind: KindString, str: s} }
func IntValue(i int64) Value       { return Value{kind: KindInt, num: i} }
func FloatValue(f float64) Value   { return Value{kind: KindFloat, float: f} }
func BoolValue(b bool) Value       { return Value{kind: KindBool, flag: b} }
func PointsValue(p []Point) Value  { return Value{kind: KindPoints, points: p} }
func (v Value) Kind() ValueKind    { return v.kind }
func (v Value) IsNull() bool       { return v.kind == KindNull }
func (v Value) AsPoints() []Point  { return v.points }

func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

func (v Value) AsInt() int64 {
	switch v.kind {
	case KindInt:
		return v.num
	case KindFloat:
		return int64(v.float)
	case KindBool:
		if v.flag {
			return 1
		}
		return 0
	case KindString:
		return parseInt(v.str)
	default:
		return 0
	}
}

func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindFloat:
		return v.float
	case KindInt:
		return float64(v.num)
	case KindBool:
		if v.flag {
			return 1
		}
		return 0
	case KindString:
		f, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// AsBool treats zero, empty, "0" and "false" as false.
func (v Value) AsBool() bool {
	switch v.kind {
	case KindBool:
		return v.flag
	case KindInt:
		return v.num != 0
	case KindFloat:
		return v.float != 0
	case KindString:
		return v.str != "" && v.str != "0" && v.str != "false"
	default:
		return false
	}
}

// Interface returns the value as a plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.float
	case KindBool:
		return v.flag
	case KindPoints:
		return v.points
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// Properties is a key/value annotation set.
type Properties map[string]Value

func (p Properties) Has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p Properties) Get(name string) (Value, bool) {
	v, ok := p[name]
	return v, ok
}

func (p Properties) GetString(name string) string { return p[name].AsString() }
func (p Properties) GetInt(name string) int64     { return p[name].AsInt() }
func (p Properties) GetFloat(name string) float64 { return p[name].AsFloat() }
func (p Properties) GetBool(name string) bool     { return p[name].AsBool() }

// parseInt accepts integers and truncates decimal values, defaulting to 0.
func parseInt(s string) int64 {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
