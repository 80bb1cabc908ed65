// Package slots turns the loosely shaped parameter values sent by the dialog
// platform into plain strings and bounded counts.
package slots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind is the shape of a SlotValue.
type Kind int

const (
	Absent Kind = iota
	Scalar
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "absent"
	}
}

type scalarType int

const (
	scalarString scalarType = iota
	scalarNumber
	scalarBool
)

// SlotValue is one raw parameter value: absent, a scalar, an ordered
// sequence, or a mapping whose entries keep the order they were received in.
type SlotValue struct {
	kind    Kind
	scalar  scalarType
	text    string
	items   []SlotValue
	entries []Entry
}

// Entry is one key/value pair of a mapping.
type Entry struct {
	Key   string
	Value SlotValue
}

// Str builds a string scalar.
func Str(s string) SlotValue {
	return SlotValue{kind: Scalar, scalar: scalarString, text: s}
}

// Num builds a numeric scalar.
func Num(f float64) SlotValue {
	return SlotValue{kind: Scalar, scalar: scalarNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Bool builds a boolean scalar.
func Bool(b bool) SlotValue {
	return SlotValue{kind: Scalar, scalar: scalarBool, text: strconv.FormatBool(b)}
}

// List builds a sequence.
func List(items ...SlotValue) SlotValue {
	return SlotValue{kind: Sequence, items: items}
}

// Map builds a mapping from entries in the given order.
func Map(entries ...Entry) SlotValue {
	return SlotValue{kind: Mapping, entries: entries}
}

// Kind reports the shape of the value.
func (v SlotValue) Kind() Kind {
	return v.kind
}

// Len is the number of items or entries for composite values and 0 otherwise.
func (v SlotValue) Len() int {
	switch v.kind {
	case Sequence:
		return len(v.items)
	case Mapping:
		return len(v.entries)
	default:
		return 0
	}
}

// Get returns the value stored under key when v is a mapping.
func (v SlotValue) Get(key string) (SlotValue, bool) {
	if v.kind != Mapping {
		return SlotValue{}, false
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return SlotValue{}, false
}

// Truthy mirrors what the dialog platform treats as "set": non-empty strings,
// non-zero numbers, true, and non-empty composites.
func (v SlotValue) Truthy() bool {
	switch v.kind {
	case Scalar:
		switch v.scalar {
		case scalarNumber:
			f, err := strconv.ParseFloat(v.text, 64)
			return err == nil && f != 0
		case scalarBool:
			return v.text == "true"
		default:
			return v.text != ""
		}
	case Sequence:
		return len(v.items) > 0
	case Mapping:
		return len(v.entries) > 0
	default:
		return false
	}
}

// UnmarshalJSON decodes any JSON value, keeping object key order.
func (v *SlotValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	parsed, err := decodeValue(dec)
	if err != nil {
		return fmt.Errorf("slots: decode value: %w", err)
	}
	*v = parsed
	return nil
}

func decodeValue(dec *json.Decoder) (SlotValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return SlotValue{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			items := []SlotValue{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return SlotValue{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return SlotValue{}, err
			}
			return List(items...), nil
		case '{':
			entries := []Entry{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return SlotValue{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return SlotValue{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				value, err := decodeValue(dec)
				if err != nil {
					return SlotValue{}, err
				}
				entries = append(entries, Entry{Key: key, Value: value})
			}
			if _, err := dec.Token(); err != nil {
				return SlotValue{}, err
			}
			return Map(entries...), nil
		default:
			return SlotValue{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return Str(t), nil
	case json.Number:
		return SlotValue{kind: Scalar, scalar: scalarNumber, text: t.String()}, nil
	case bool:
		return Bool(t), nil
	case nil:
		return SlotValue{}, nil
	default:
		return SlotValue{}, fmt.Errorf("unexpected token %v", tok)
	}
}
