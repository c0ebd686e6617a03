package node

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	errNotObject = errors.New("node: JSON value is not an object")
	errNotArray  = errors.New("node: JSON value is not an array")
)

// Decode parses one JSON document. Objects become *Record (key order kept),
// arrays []any, numbers json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("node: trailing data after JSON value")
	}
	return v, nil
}

// DecodeRecords parses a JSON array whose elements are all objects.
func DecodeRecords(data []byte) ([]*Record, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, errNotArray
	}
	out := make([]*Record, 0, len(arr))
	for i, e := range arr {
		rec, ok := e.(*Record)
		if !ok {
			return nil, fmt.Errorf("node: element %d: %w", i, errNotObject)
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("node: unexpected delimiter %q", t)
		}
	default:
		// string, json.Number, bool or nil
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*Record, error) {
	rec := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("node: object key %v is not a string", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		rec.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	out := []any{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
