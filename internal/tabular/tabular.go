// Package tabular projects an arbitrary JSON payload into column/row form
// for the organizer inspection view.
//
// The column set for an all-record array is the union of keys across all
// records, deduplicated, in first-seen order over a single left-to-right
// scan of the row sequence. Heterogeneous element shapes are expected, not
// exceptional: mixed records simply leave blank cells, and any non-record
// element collapses the projection to a single "value" column.
package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Projection is the render-ready tabular form of a JSON array. It is never
// mutated after construction; a new payload produces a new projection.
type Projection struct {
	Columns      []string
	Rows         []any // *Record when IsObjectRows, raw decoded values otherwise
	IsObjectRows bool
}

// Project converts raw JSON into a Projection. Returns nil when the
// top-level value is not an array (including malformed input).
func Project(data []byte) *Projection {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil
	}
	if len(elements) == 0 {
		return &Projection{Columns: []string{"value"}, Rows: []any{}}
	}

	allRecords := true
	for _, el := range elements {
		if !looksLikeRecord(el) {
			allRecords = false
			break
		}
	}

	if !allRecords {
		rows := make([]any, 0, len(elements))
		for _, el := range elements {
			v, err := decodeValue(el)
			if err != nil {
				return nil
			}
			rows = append(rows, v)
		}
		return &Projection{Columns: []string{"value"}, Rows: rows}
	}

	var columns []string
	seen := make(map[string]bool)
	rows := make([]any, 0, len(elements))
	for _, el := range elements {
		rec := &Record{}
		if err := json.Unmarshal(el, rec); err != nil {
			return nil
		}
		for _, key := range rec.Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
		rows = append(rows, rec)
	}
	if len(columns) == 0 {
		columns = []string{"value"}
	}
	return &Projection{Columns: columns, Rows: rows, IsObjectRows: true}
}

// Cell resolves the value shown for row under column. The second return
// reports presence; a missing key in a record row is absent, not an error.
func (p *Projection) Cell(row any, column string) (any, bool) {
	if !p.IsObjectRows {
		return row, true
	}
	rec, ok := row.(*Record)
	if !ok {
		return nil, false
	}
	return rec.Get(column)
}

// looksLikeRecord reports whether a raw JSON element is a plain key/value
// record (not an array, not null, not a scalar).
func looksLikeRecord(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Record is a JSON object decoded with its key order preserved. Go maps
// carry no ordering, so the keys are captured during the token scan.
type Record struct {
	keys   []string
	values map[string]any
}

// Keys returns the record's keys in document order.
func (r *Record) Keys() []string {
	return r.keys
}

// Get returns the value under key and whether the key is present.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// UnmarshalJSON implements json.Unmarshaler, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tabular: value is not an object")
	}
	r.keys = nil
	r.values = make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tabular: object key is not a string")
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if _, exists := r.values[key]; !exists {
			r.keys = append(r.keys, key)
		}
		r.values[key] = v
	}
	_, err = dec.Token() // closing brace
	return err
}

// MarshalJSON implements json.Marshaler in the captured key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatValue renders a cell value as display text. Strings render
// verbatim, numbers and booleans in their canonical textual form, null as
// "null", an absent cell as "undefined", and anything structured as its
// serialized JSON, falling back to a generic textual form when
// serialization fails. It never panics.
func FormatValue(v any, present bool) string {
	if !present {
		return "undefined"
	}
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// Pretty re-indents raw JSON for the raw-payload view, falling back to the
// input text when indentation fails.
func Pretty(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
