package tabular_test

import (
	"encoding/json"
	"testing"

	"github.com/katsuo-ito/slotsync/internal/tabular"
)

func TestProject_NotAnArray(t *testing.T) {
	inputs := []string{
		`{"a": 1}`,
		`"text"`,
		`42`,
		`null`,
		`true`,
		``,
		`not json`,
	}

	for _, input := range inputs {
		if p := tabular.Project([]byte(input)); p != nil {
			t.Errorf("Project(%q) = %+v, want nil", input, p)
		}
	}
}

func TestProject_EmptyArray(t *testing.T) {
	p := tabular.Project([]byte(`[]`))

	if p == nil {
		t.Fatal("expected projection for empty array")
	}
	if len(p.Columns) != 1 || p.Columns[0] != "value" {
		t.Errorf("expected columns [value], got %v", p.Columns)
	}
	if len(p.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(p.Rows))
	}
	if p.IsObjectRows {
		t.Error("expected IsObjectRows=false for empty array")
	}
}

func TestProject_AllRecords_UnionColumnsFirstSeen(t *testing.T) {
	p := tabular.Project([]byte(`[{"b": 1, "a": 2}, {"c": 3, "a": 4}]`))

	if p == nil {
		t.Fatal("expected projection")
	}
	if !p.IsObjectRows {
		t.Error("expected IsObjectRows=true")
	}
	want := []string{"b", "a", "c"}
	if len(p.Columns) != len(want) {
		t.Fatalf("expected columns %v, got %v", want, p.Columns)
	}
	for i := range want {
		if p.Columns[i] != want[i] {
			t.Errorf("column %d: expected %q, got %q", i, want[i], p.Columns[i])
		}
	}
}

func TestProject_MissingKeysAreAbsent(t *testing.T) {
	p := tabular.Project([]byte(`[{"a": 1}, {"b": 2}]`))

	if p == nil {
		t.Fatal("expected projection")
	}
	if len(p.Columns) != 2 || p.Columns[0] != "a" || p.Columns[1] != "b" {
		t.Fatalf("expected columns [a b], got %v", p.Columns)
	}

	// Row 0 has no "b", row 1 has no "a".
	if _, present := p.Cell(p.Rows[0], "b"); present {
		t.Error("expected b absent in row 0")
	}
	if _, present := p.Cell(p.Rows[1], "a"); present {
		t.Error("expected a absent in row 1")
	}
	if v, present := p.Cell(p.Rows[0], "a"); !present || tabular.FormatValue(v, present) != "1" {
		t.Errorf("expected a=1 in row 0, got %v (present=%v)", v, present)
	}
}

func TestProject_MixedElements_FallBackToValueColumn(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"scalar among records", `[{"a": 1}, 2]`},
		{"array among records", `[{"a": 1}, [1, 2]]`},
		{"null among records", `[{"a": 1}, null]`},
		{"all scalars", `[1, "two", true]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tabular.Project([]byte(tt.input))
			if p == nil {
				t.Fatal("expected projection")
			}
			if p.IsObjectRows {
				t.Error("expected IsObjectRows=false")
			}
			if len(p.Columns) != 1 || p.Columns[0] != "value" {
				t.Errorf("expected columns [value], got %v", p.Columns)
			}
		})
	}
}

func TestProject_RecordsWithNoKeys(t *testing.T) {
	p := tabular.Project([]byte(`[{}, {}]`))

	if p == nil {
		t.Fatal("expected projection")
	}
	if !p.IsObjectRows {
		t.Error("expected IsObjectRows=true for all-record array")
	}
	if len(p.Columns) != 1 || p.Columns[0] != "value" {
		t.Errorf("expected fallback columns [value], got %v", p.Columns)
	}
}

func TestProject_ScalarRowsKeepRawValues(t *testing.T) {
	p := tabular.Project([]byte(`[1, "two", null]`))

	if p == nil {
		t.Fatal("expected projection")
	}
	if len(p.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(p.Rows))
	}
	v, present := p.Cell(p.Rows[1], "value")
	if !present || v != "two" {
		t.Errorf("expected raw value %q, got %v", "two", v)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		present  bool
		expected string
	}{
		{"string verbatim", "hello /e/x", true, "hello /e/x"},
		{"number", json.Number("1.5"), true, "1.5"},
		{"integer number", json.Number("42"), true, "42"},
		{"bool true", true, true, "true"},
		{"bool false", false, true, "false"},
		{"null", nil, true, "null"},
		{"absent", nil, false, "undefined"},
		{"array", []any{json.Number("1"), "a"}, true, `[1,"a"]`},
		{"nested map", map[string]any{"k": "v"}, true, `{"k":"v"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tabular.FormatValue(tt.value, tt.present); got != tt.expected {
				t.Errorf("FormatValue() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatValue_UnserializableFallsBack(t *testing.T) {
	// Channels cannot be marshaled; the formatter must not panic.
	got := tabular.FormatValue(make(chan int), true)
	if got == "" {
		t.Error("expected a generic textual form, got empty string")
	}
}

func TestRecord_PreservesKeyOrderThroughMarshal(t *testing.T) {
	rec := &tabular.Record{}
	if err := json.Unmarshal([]byte(`{"z": 1, "a": {"x": 2}, "m": [1]}`), rec); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	want := []string{"z", "a", "m"}
	keys := rec.Keys()
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %q, got %q", i, want[i], keys[i])
		}
	}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"z":1,"a":{"x":2},"m":[1]}` {
		t.Errorf("unexpected marshal output %s", out)
	}
}

func TestPretty(t *testing.T) {
	got := tabular.Pretty([]byte(`[{"a":1}]`))
	want := "[\n  {\n    \"a\": 1\n  }\n]"
	if got != want {
		t.Errorf("Pretty() = %q, want %q", got, want)
	}

	// Malformed input falls back to the raw text.
	if got := tabular.Pretty([]byte("oops")); got != "oops" {
		t.Errorf("expected fallback to raw text, got %q", got)
	}
}
