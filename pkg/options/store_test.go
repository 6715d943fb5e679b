package options

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/chipselect/pkg/model"

	"github.com/google/go-cmp/cmp"
)

func sampleOptions() []model.Option {
	return []model.Option{
		{Value: int64(1), Label: "Alpha"},
		{Value: int64(2), Label: "Beta"},
		{Value: int64(3), Label: "Gamma"},
	}
}

func generated(n int) []model.Option {
	opts := make([]model.Option, n)
	for i := range opts {
		opts[i] = model.Option{Value: int64(i), Label: fmt.Sprintf("Item %04d", i)}
	}
	return opts
}

func labels(opts []model.Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Label
	}
	return out
}

func TestSetSearchTerm_CaseInsensitiveSubstring(t *testing.T) {
	s := NewStore(100, nil)
	s.SetOptions(sampleOptions())

	s.SetSearchTerm("ga")
	if diff := cmp.Diff([]string{"Gamma"}, labels(s.CurrentView())); diff != "" {
		t.Errorf("filtered view mismatch (-want +got):\n%s", diff)
	}

	s.SetSearchTerm("A")
	if diff := cmp.Diff([]string{"Alpha", "Beta", "Gamma"}, labels(s.CurrentView())); diff != "" {
		t.Errorf("filtered view mismatch (-want +got):\n%s", diff)
	}
}

func TestSetSearchTerm_EmptyTermIsFullSet(t *testing.T) {
	s := NewStore(100, nil)
	s.SetOptions(sampleOptions())
	s.SetSearchTerm("beta")
	s.SetSearchTerm("")

	if s.FilteredLen() != 3 {
		t.Errorf("Expected full set of 3, got %d", s.FilteredLen())
	}
}

func TestSetSearchTerm_Idempotent(t *testing.T) {
	s := NewStore(10, nil)
	s.SetOptions(generated(250))

	s.SetSearchTerm("01")
	once := s.Filtered()
	s.SetSearchTerm("01")
	twice := s.Filtered()

	if diff := cmp.Diff(labels(once), labels(twice)); diff != "" {
		t.Errorf("filtering twice changed the view (-once +twice):\n%s", diff)
	}
}

func TestSetSearchTerm_Correctness(t *testing.T) {
	opts := append(generated(40), model.Option{Value: "x", Label: "MiXeD Case"})
	s := NewStore(1000, nil)
	s.SetOptions(opts)

	for _, term := range []string{"", "item", "ITEM 00", "3", "xed c", "zzz"} {
		s.SetSearchTerm(term)
		got := make(map[model.Value]bool)
		for _, o := range s.Filtered() {
			got[o.Value] = true
		}
		for _, o := range opts {
			want := strings.Contains(strings.ToLower(o.Label), strings.ToLower(term))
			if got[o.Value] != want {
				t.Errorf("term %q: option %q present=%v, want %v", term, o.Label, got[o.Value], want)
			}
		}
	}
}

func TestExtendWindow_Monotonic(t *testing.T) {
	s := NewStore(100, nil)
	s.SetOptions(generated(250))

	if s.VisibleLen() != 100 {
		t.Fatalf("Expected first page of 100, got %d", s.VisibleLen())
	}

	prev := s.VisibleLen()
	for i := 0; i < 5; i++ {
		s.ExtendWindow()
		n := len(s.CurrentView())
		if n < prev {
			t.Fatalf("window shrank from %d to %d", prev, n)
		}
		if n > s.FilteredLen() {
			t.Fatalf("window %d exceeds filtered length %d", n, s.FilteredLen())
		}
		prev = n
	}
	if prev != 250 {
		t.Errorf("Expected window to cover all 250 options, got %d", prev)
	}
	if s.ExtendWindow() {
		t.Error("ExtendWindow should be a no-op once the window covers the view")
	}
	if s.HasMore() {
		t.Error("HasMore should be false once the window covers the view")
	}
}

func TestExtendWindow_ResetOnFilterChange(t *testing.T) {
	s := NewStore(10, nil)
	s.SetOptions(generated(100))
	s.ExtendWindow()
	s.ExtendWindow()
	if s.VisibleLen() != 30 {
		t.Fatalf("Expected 30 visible, got %d", s.VisibleLen())
	}

	s.SetSearchTerm("item")
	if s.VisibleLen() != 10 {
		t.Errorf("Expected window reset to 10, got %d", s.VisibleLen())
	}

	s.ExtendWindow()
	s.SetOptions(generated(5))
	if s.VisibleLen() != 5 {
		t.Errorf("Expected window of 5 after SetOptions, got %d", s.VisibleLen())
	}
	if s.SearchTerm() != "" {
		t.Errorf("Expected SetOptions to clear the term, got %q", s.SearchTerm())
	}
}

func TestCurrentView_IsCopy(t *testing.T) {
	s := NewStore(10, nil)
	s.SetOptions(sampleOptions())

	view := s.CurrentView()
	view[0].Label = "changed"

	if got, _ := s.At(0); got.Label != "Alpha" {
		t.Errorf("mutating the view leaked into the store: %q", got.Label)
	}
}

func TestSetOptions_WorkingCopy(t *testing.T) {
	opts := sampleOptions()
	s := NewStore(10, nil)
	s.SetOptions(opts)
	opts[1].Label = "changed"

	if got, _ := s.Lookup(int64(2)); got.Label != "Beta" {
		t.Errorf("host mutation leaked into the store: %q", got.Label)
	}
}

func TestLookup_NormalizesNumbers(t *testing.T) {
	s := NewStore(10, nil)
	s.SetOptions([]model.Option{{Value: 7, Label: "Seven"}})

	for _, key := range []any{7, int64(7), 7.0, uint8(7)} {
		if _, ok := s.Lookup(key); !ok {
			t.Errorf("Lookup(%T %v) missed", key, key)
		}
	}
	if _, ok := s.Lookup("7"); ok {
		t.Error("string key must not match a numeric value")
	}
}

func TestFuzzyMatcher(t *testing.T) {
	s := NewStore(10, NewMatcher(model.MatchFuzzy))
	s.SetOptions([]model.Option{
		{Value: "a", Label: "Kubernetes"},
		{Value: "b", Label: "Kafka"},
		{Value: "c", Label: "Postgres"},
	})

	s.SetSearchTerm("kbn")
	got := labels(s.CurrentView())
	if len(got) != 1 || got[0] != "Kubernetes" {
		t.Errorf("Expected only Kubernetes for fuzzy 'kbn', got %v", got)
	}
}

func TestNearEnd(t *testing.T) {
	tests := []struct {
		offset, viewport, rendered int
		want                       bool
	}{
		{0, 10, 100, false},
		{87, 10, 100, true},
		{86, 10, 100, false},
		{0, 10, 5, true},
		{0, 10, 0, false},
	}
	for _, tt := range tests {
		if got := NearEnd(tt.offset, tt.viewport, tt.rendered, ScrollThreshold); got != tt.want {
			t.Errorf("NearEnd(%d, %d, %d) = %v, want %v", tt.offset, tt.viewport, tt.rendered, got, tt.want)
		}
	}
}
