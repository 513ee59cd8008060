package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TotalsMarker is the resource name OASIS uses for system-wide aggregate rows.
const TotalsMarker = "Caiso_Totals"

// Field is one key=value pair of a report request.
type Field struct {
	Key   string
	Value string
}

// Request is the ordered field mapping a caller submits for a report.
// Field order is the caller's order and is carried into the upstream query.
type Request struct {
	fields []Field
}

// NewRequest builds a request from alternating key, value arguments.
// It panics on an odd number of arguments.
func NewRequest(kv ...string) *Request {
	if len(kv)%2 != 0 {
		panic("model.NewRequest: odd number of arguments")
	}
	r := &Request{}
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

// Get returns the value for key and whether it was present.
func (r *Request) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key in place or appends a new field.
func (r *Request) Set(key, value string) {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Fields returns a copy of the fields in insertion order.
func (r *Request) Fields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

func (r *Request) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Clone returns an independent copy of r.
func (r *Request) Clone() *Request {
	return &Request{fields: r.Fields()}
}

// IncludeTotals reports whether the caller explicitly selected the totals
// group, either as a whole value or as one item of a comma-separated list.
func (r *Request) IncludeTotals() bool {
	if r == nil {
		return false
	}
	for _, f := range r.fields {
		for _, part := range strings.Split(f.Value, ",") {
			if strings.TrimSpace(part) == TotalsMarker {
				return true
			}
		}
	}
	return false
}

// UnmarshalJSON decodes a JSON object keeping the order of its keys.
// Scalars are taken by their literal text; nested values and null are rejected.
func (r *Request) UnmarshalJSON(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("request data must be a JSON object")
	}

	out := Request{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		var value string
		switch v := tok.(type) {
		case string:
			value = v
		case json.Number:
			value = v.String()
		case bool:
			if v {
				value = "true"
			} else {
				value = "false"
			}
		case nil:
			return fmt.Errorf("field %q: null is not allowed", key)
		default:
			return fmt.Errorf("field %q: value must be a string, number or boolean", key)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}

// MarshalJSON encodes the request as a JSON object in field order.
func (r Request) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
