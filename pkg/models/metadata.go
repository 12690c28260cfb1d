package models

import (
	"database/sql/driver"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

type metadataKind int

const (
	metadataNull metadataKind = iota
	metadataString
	metadataNumber
	metadataBool
	metadataStrings
	metadataNumbers
)

// MetadataValue is one value of a Metadata bag: a string, a number, a bool,
// a list of strings, a list of numbers, or null.
type MetadataValue struct {
	kind    metadataKind
	str     string
	num     float64
	flag    bool
	strs    []string
	numbers []float64
}

func StringValue(s string) MetadataValue     { return MetadataValue{kind: metadataString, str: s} }
func NumberValue(n float64) MetadataValue    { return MetadataValue{kind: metadataNumber, num: n} }
func IntValue(n int) MetadataValue           { return NumberValue(float64(n)) }
func BoolValue(b bool) MetadataValue         { return MetadataValue{kind: metadataBool, flag: b} }
func StringsValue(s []string) MetadataValue  { return MetadataValue{kind: metadataStrings, strs: s} }
func NumbersValue(n []float64) MetadataValue { return MetadataValue{kind: metadataNumbers, numbers: n} }
func NullValue() MetadataValue               { return MetadataValue{} }
func (v MetadataValue) IsNull() bool         { return v.kind == metadataNull }

func (v MetadataValue) AsString() (string, bool) {
	return v.str, v.kind == metadataString
}

func (v MetadataValue) AsNumber() (float64, bool) {
	return v.num, v.kind == metadataNumber
}

func (v MetadataValue) AsBool() (bool, bool) {
	return v.flag, v.kind == metadataBool
}

func (v MetadataValue) AsStrings() ([]string, bool) {
	return v.strs, v.kind == metadataStrings
}

func (v MetadataValue) AsNumbers() ([]float64, bool) {
	return v.numbers, v.kind == metadataNumbers
}

func (v MetadataValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case metadataString:
		return json.Marshal(v.str)
	case metadataNumber:
		return json.Marshal(v.num)
	case metadataBool:
		return json.Marshal(v.flag)
	case metadataStrings:
		if v.strs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.strs)
	case metadataNumbers:
		if v.numbers == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.numbers)
	default:
		return []byte("null"), nil
	}
}

func (v *MetadataValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.WithStack(err)
	}

	switch r := raw.(type) {
	case nil:
		*v = NullValue()
	case string:
		*v = StringValue(r)
	case float64:
		*v = NumberValue(r)
	case bool:
		*v = BoolValue(r)
	case []interface{}:
		return v.unmarshalList(r)
	default:
		return errors.Errorf("metadata values can't be of type %T", raw)
	}
	return nil
}

// unmarshalList accepts homogeneous lists only. An empty list decodes as an
// empty string list.
func (v *MetadataValue) unmarshalList(list []interface{}) error {
	if len(list) == 0 {
		*v = StringsValue([]string{})
		return nil
	}

	switch list[0].(type) {
	case string:
		strs := make([]string, len(list))
		for i, e := range list {
			s, ok := e.(string)
			if !ok {
				return errors.New("metadata lists must contain a single type")
			}
			strs[i] = s
		}
		*v = StringsValue(strs)
	case float64:
		nums := make([]float64, len(list))
		for i, e := range list {
			n, ok := e.(float64)
			if !ok {
				return errors.New("metadata lists must contain a single type")
			}
			nums[i] = n
		}
		*v = NumbersValue(nums)
	default:
		return errors.Errorf("metadata lists can't contain %T", list[0])
	}
	return nil
}

// Metadata is the provider-specific detail bag attached to items.
type Metadata map[string]MetadataValue

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]MetadataValue(m))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return string(b), nil
}

func (m *Metadata) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.Errorf("cannot scan %T into Metadata", src)
	}

	out := Metadata{}
	if err := json.Unmarshal(data, (*map[string]MetadataValue)(&out)); err != nil {
		return errors.WithStack(err)
	}
	*m = out
	return nil
}
