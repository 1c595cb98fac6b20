package values

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type Kind int

const (
	Empty Kind = iota
	String
	Enum
	Real
	Integer
	Reference
	List
)

func (k Kind) String() string {
	switch k {
	case String:
		return "String"
	case Enum:
		return "Enum"
	case Real:
		return "Real"
	case Integer:
		return "Integer"
	case Reference:
		return "Reference"
	case List:
		return "List"
	default:
		return "Empty"
	}
}

// type codes used by web-ifc when it serializes a line
const (
	codeString    int = 1
	codeLabel     int = 2
	codeEnum      int = 3
	codeReal      int = 4
	codeReference int = 5
	codeInteger   int = 10
)

// Value is a single attribute value of an entity. It is either a bare primitive, a typed
// wrapper pairing a literal with its type code, a reference to another line or a list of values.
type Value struct {
	kind    Kind
	wrapped bool
	code    int

	str   string
	num   float64
	ref   uint32
	items []Value
}

func NewString(s string) Value {
	return Value{kind: String, wrapped: true, code: codeString, str: s}
}

func NewEnum(s string) Value {
	return Value{kind: Enum, wrapped: true, code: codeEnum, str: s}
}

func NewReal(f float64) Value {
	return Value{kind: Real, wrapped: true, code: codeReal, num: f}
}

func NewInteger(i int64) Value {
	return Value{kind: Integer, wrapped: true, code: codeInteger, num: float64(i)}
}

func NewReference(id uint32) Value {
	return Value{kind: Reference, wrapped: true, code: codeReference, ref: id}
}

func NewList(items ...Value) Value {
	return Value{kind: List, items: items}
}

// NewReferenceList is a convenience function for the common set-of-references attribute
func NewReferenceList(ids ...uint32) Value {
	items := make([]Value, 0, len(ids))
	for _, id := range ids {
		items = append(items, NewReference(id))
	}
	return NewList(items...)
}

// Primitive returns an unwrapped string or number
func Primitive(v any) Value {
	switch p := v.(type) {
	case string:
		return Value{kind: String, str: p}
	case float64:
		return Value{kind: Real, num: p}
	case int:
		return Value{kind: Integer, num: float64(p)}
	case int64:
		return Value{kind: Integer, num: float64(p)}
	default:
		return Value{}
	}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Wrapped reports if the value carries its own type code, i.e. {type, value}
func (v Value) Wrapped() bool {
	return v.wrapped
}

func (v Value) IsEmpty() bool {
	return v.kind == Empty
}

// IsStringWrapper reports if the value is a typed wrapper around a string literal
func (v Value) IsStringWrapper() bool {
	return v.wrapped && v.kind == String
}

func (v Value) Text() (string, bool) {
	if v.kind == String || v.kind == Enum {
		return v.str, true
	}
	return "", false
}

func (v Value) Number() (float64, bool) {
	if v.kind == Real || v.kind == Integer {
		return v.num, true
	}
	return 0, false
}

func (v Value) Ref() (uint32, bool) {
	if v.kind == Reference {
		return v.ref, true
	}
	return 0, false
}

func (v Value) Items() []Value {
	if v.kind != List {
		return nil
	}
	return v.items
}

// Refs returns the references found in a list value, or the single reference of a reference value
func (v Value) Refs() []uint32 {
	if id, ok := v.Ref(); ok {
		return []uint32{id}
	}

	refs := make([]uint32, 0, len(v.items))
	for _, item := range v.Items() {
		if id, ok := item.Ref(); ok {
			refs = append(refs, id)
		}
	}
	return refs
}

// WithText returns a copy of a string or enum value with its literal replaced, keeping the type code
func (v Value) WithText(s string) Value {
	v.str = s
	return v
}

// IsPresent mirrors how loosely typed callers test a value for existence: empty values,
// empty strings and numeric zeroes are all treated as absent
func (v Value) IsPresent() bool {
	switch v.kind {
	case String, Enum:
		return v.str != ""
	case Real, Integer:
		return v.num != 0
	case Reference:
		return true
	case List:
		return len(v.items) > 0
	default:
		return false
	}
}

// Interface returns the literal as a plain go value (string, float64, int64, uint32 or []any)
func (v Value) Interface() any {
	switch v.kind {
	case String, Enum:
		return v.str
	case Real:
		return v.num
	case Integer:
		return int64(v.num)
	case Reference:
		return v.ref
	case List:
		items := make([]any, 0, len(v.items))
		for _, i := range v.items {
			items = append(items, i.Interface())
		}
		return items
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case String, Enum:
		return v.str
	case Real:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Integer:
		return strconv.FormatInt(int64(v.num), 10)
	case Reference:
		return "#" + strconv.FormatUint(uint64(v.ref), 10)
	case List:
		return fmt.Sprintf("%v", v.Interface())
	default:
		return ""
	}
}

// Clone returns a deep copy so that list items can be modified without side effects
func (v Value) Clone() Value {
	if v.kind == List {
		items := make([]Value, len(v.items))
		for i := range v.items {
			items[i] = v.items[i].Clone()
		}
		v.items = items
	}
	return v
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Empty:
		return []byte("null"), nil
	case List:
		if v.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.items)
	}

	if !v.wrapped {
		return json.Marshal(v.Interface())
	}

	wrapper := struct {
		Type  int `json:"type"`
		Value any `json:"value"`
	}{
		Type:  v.code,
		Value: v.Interface(),
	}

	if wrapper.Type == 0 {
		wrapper.Type = defaultCode(v.kind)
	}

	return json.Marshal(&wrapper)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var body any
	err := json.Unmarshal(data, &body)
	if err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	*v, err = UnmarshalV(body)
	return err
}

// UnmarshalV converts a decoded json value into a Value
func UnmarshalV(body any) (Value, error) {
	if body == nil {
		return Value{}, nil
	}

	switch typedValue := body.(type) {
	case string:
		return Primitive(typedValue), nil
	case float64:
		return Primitive(typedValue), nil
	case bool:
		return Value{kind: Enum, str: boolToEnum(typedValue)}, nil
	case []any:
		items := make([]Value, 0, len(typedValue))
		for _, i := range typedValue {
			item, err := UnmarshalV(i)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return NewList(items...), nil
	case map[string]any:
		return unmarshalWrapper(typedValue)
	default:
		return Value{}, fmt.Errorf("support for type %T not implemented", typedValue)
	}
}

func unmarshalWrapper(object map[string]any) (Value, error) {
	literal, ok := object["value"]
	if !ok {
		return Value{}, fmt.Errorf("wrapped values without a value attribute are not supported")
	}

	code := 0
	if t, ok := object["type"]; ok {
		f, ok := t.(float64)
		if !ok {
			return Value{}, fmt.Errorf("wrapped value type %v not convertible to a type code", t)
		}
		code = int(f)
	}

	switch typedLiteral := literal.(type) {
	case string:
		switch code {
		case codeEnum:
			return Value{kind: Enum, wrapped: true, code: code, str: typedLiteral}, nil
		case 0:
			code = codeString
		}
		return Value{kind: String, wrapped: true, code: code, str: typedLiteral}, nil
	case float64:
		switch code {
		case 0, codeReference:
			if typedLiteral < 0 || typedLiteral > math.MaxUint32 || typedLiteral != math.Trunc(typedLiteral) {
				return Value{}, fmt.Errorf("invalid reference %v", typedLiteral)
			}
			return Value{kind: Reference, wrapped: true, code: codeReference, ref: uint32(typedLiteral)}, nil
		case codeInteger:
			return Value{kind: Integer, wrapped: true, code: code, num: math.Trunc(typedLiteral)}, nil
		}
		return Value{kind: Real, wrapped: true, code: code, num: typedLiteral}, nil
	case bool:
		return Value{kind: Enum, wrapped: true, code: codeEnum, str: boolToEnum(typedLiteral)}, nil
	case nil:
		return Value{}, nil
	default:
		return Value{}, fmt.Errorf("wrapped value of type %T not supported", typedLiteral)
	}
}

func defaultCode(k Kind) int {
	switch k {
	case String:
		return codeString
	case Enum:
		return codeEnum
	case Real:
		return codeReal
	case Integer:
		return codeInteger
	case Reference:
		return codeReference
	}
	return 0
}

func boolToEnum(b bool) string {
	if b {
		return "T"
	}
	return "F"
}
