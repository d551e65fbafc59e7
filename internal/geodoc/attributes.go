package geodoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// Attribute is one key/value pair from a feature's properties.
type Attribute struct {
	Key   string
	Value any
}

// Text returns the value the way it appears in a popup. Numbers print in
// their shortest form, so 12.50 reads 12.5.
func (a Attribute) Text() string {
	switch v := a.Value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.Number:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return v.String()
		}
		return formatNumber(f)
	case float64:
		return formatNumber(v)
	default:
		return fmt.Sprint(v)
	}
}

// formatNumber prints f in plain decimal notation, switching to exponent
// notation only for very large or very small magnitudes.
func formatNumber(f float64) string {
	if abs := math.Abs(f); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Attributes is a flat property mapping that remembers the order keys were
// written in the source document.
type Attributes []Attribute

// Get returns the value for key.
func (a Attributes) Get(key string) (any, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

// Map returns the attributes as a plain map.
func (a Attributes) Map() map[string]any {
	m := make(map[string]any, len(a))
	for _, attr := range a {
		m[attr.Key] = attr.Value
	}
	return m
}

// Equal reports whether both lists hold the same pairs in the same order.
func (a Attributes) Equal(b Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || !reflect.DeepEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

// UnmarshalJSON decodes a JSON object keeping its key order. Anything that is
// not an object (null, arrays, scalars) decodes to no attributes.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		*a = nil
		return nil
	}

	var out Attributes
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("properties: unexpected key token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("properties[%q]: %w", key, err)
		}
		out = append(out, Attribute{Key: key, Value: v})
	}
	*a = out
	return nil
}

// MarshalJSON encodes the attributes as an object in their stored order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(attr.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, fmt.Errorf("properties[%q]: %w", attr.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Schema describes Attributes as the JSON object it encodes to.
func (Attributes) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:                 huma.TypeObject,
		Description:          "Feature properties in source order",
		AdditionalProperties: true,
	}
}
