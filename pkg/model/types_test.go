package model

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeOptions(t *testing.T) {
	records := []Record{
		{"id": 1, "name": "Alpha", "image": "a.png"},
		{"id": "b", "name": "Beta", "extra": true},
	}

	got, err := NormalizeOptions(records, Fields{})
	if err != nil {
		t.Fatalf("NormalizeOptions: %v", err)
	}
	want := []Option{
		{Value: int64(1), Label: "Alpha", Image: "a.png", Record: records[0]},
		{Value: "b", Label: "Beta", Record: records[1]},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeOptions mismatch (-want +got):\n%s", diff)
	}

	got[0].Record["name"] = "changed"
	if records[0]["name"] != "Alpha" {
		t.Error("normalized option must not share its record with the host")
	}
}

func TestNormalizeOptions_CustomFields(t *testing.T) {
	records := []Record{{"code": "de", "title": "Germany", "flag": "de.svg"}}
	got, err := NormalizeOptions(records, Fields{Value: "code", Label: "title", Image: "flag"})
	if err != nil {
		t.Fatalf("NormalizeOptions: %v", err)
	}
	if got[0].Value != "de" || got[0].Label != "Germany" || got[0].Image != "de.svg" {
		t.Errorf("Unexpected option %+v", got[0])
	}
}

func TestNormalizeOptions_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		field  string
		reason string
	}{
		{"missing value", Record{"name": "x"}, "id", "missing value field"},
		{"nil value", Record{"id": nil, "name": "x"}, "id", "missing value field"},
		{"map value", Record{"id": map[string]any{}, "name": "x"}, "id", "not a scalar"},
		{"missing label", Record{"id": 3}, "name", "missing label field"},
		{"numeric label", Record{"id": 3, "name": 42}, "name", "not a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeOptions([]Record{{"id": 0, "name": "ok"}, tt.record}, Fields{})
			var invalid *InvalidOptionError
			if !errors.As(err, &invalid) {
				t.Fatalf("Expected InvalidOptionError, got %v", err)
			}
			if invalid.Index != 1 {
				t.Errorf("Expected index 1, got %d", invalid.Index)
			}
			if invalid.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, invalid.Field)
			}
			if !strings.Contains(invalid.Reason, tt.reason) {
				t.Errorf("Expected reason containing %q, got %q", tt.reason, invalid.Reason)
			}
			if !strings.Contains(err.Error(), "option #1") {
				t.Errorf("Expected position in message, got %q", err.Error())
			}
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
		ok   bool
	}{
		{"int", 7, int64(7), true},
		{"uint8", uint8(7), int64(7), true},
		{"whole float", 7.0, int64(7), true},
		{"fraction", 7.5, 7.5, true},
		{"json int", json.Number("7"), int64(7), true},
		{"json float", json.Number("7.25"), 7.25, true},
		{"huge uint", uint64(math.MaxUint64), float64(math.MaxUint64), true},
		{"string", "7", "7", true},
		{"bool", true, true, true},
		{"nil", nil, nil, false},
		{"nan", math.NaN(), nil, false},
		{"slice", []int{1}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeValue(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("NormalizeValue(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSameValue(t *testing.T) {
	if !SameValue(1, 1.0) {
		t.Error("1 and 1.0 must be the same value")
	}
	if !SameValue(int32(4), json.Number("4")) {
		t.Error("int32 and json.Number must compare after normalization")
	}
	if SameValue("1", 1) {
		t.Error("string and number must differ")
	}
	if !SameValue(nil, nil) || SameValue(nil, 0) {
		t.Error("nil handling is wrong")
	}
	if SameValue([]int{1}, []int{1}) {
		t.Error("uncomparable values must never match")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}

	cfg.MaxVisibleItems = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative page size")
	}

	cfg = DefaultConfig()
	cfg.Matcher = "regex"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown matcher")
	}

	cfg = DefaultConfig()
	cfg.MaxVisibleItems = 0
	if cfg.PageSize() != DefaultMaxVisibleItems {
		t.Errorf("Expected default page size, got %d", cfg.PageSize())
	}
}

func TestOptionCloneAndIs(t *testing.T) {
	o := Option{Value: int64(2), Label: "Beta", Record: Record{"id": 2}}
	c := o.Clone()
	c.Record["id"] = 9
	if o.Record["id"] != 2 {
		t.Error("Clone must copy the record")
	}
	if !o.Is(2) || o.Is("2") {
		t.Error("Is must compare normalized values")
	}
	if CloneOptions(nil) != nil {
		t.Error("CloneOptions(nil) must stay nil")
	}
}

func TestChipIsOverflow(t *testing.T) {
	if (Chip{Option: Option{Label: "Alpha"}}).IsOverflow() {
		t.Error("a plain chip is not the overflow marker")
	}
	if !(Chip{Option: Option{Label: "+2"}, Hidden: true, Overflow: 2}).IsOverflow() {
		t.Error("Expected marker chip")
	}
}

func TestSubmissionEmpty(t *testing.T) {
	if !(Submission{}).Empty() {
		t.Error("zero submission is empty")
	}
	if (Submission{Values: []Value{int64(1)}}).Empty() {
		t.Error("submission with a value is not empty")
	}
}
