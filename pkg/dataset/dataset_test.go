package dataset_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Dicklesworthstone/chipselect/pkg/dataset"
	"github.com/Dicklesworthstone/chipselect/pkg/loader"
	"github.com/Dicklesworthstone/chipselect/pkg/model"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := dataset.Generate(dataset.Options{Count: 50, Seed: 7})
	b := dataset.Generate(dataset.Options{Count: 50, Seed: 7})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different data (-a +b):\n%s", diff)
	}

	c := dataset.Generate(dataset.Options{Count: 50, Seed: 8})
	if cmp.Equal(a, c) {
		t.Error("Expected a different seed to change the labels")
	}
}

func TestGenerate_UniqueAndNormalizable(t *testing.T) {
	records := dataset.Generate(dataset.Options{Count: 1000, Seed: 1, WithImage: true})
	opts, err := model.NormalizeOptions(records, model.Fields{})
	if err != nil {
		t.Fatalf("NormalizeOptions: %v", err)
	}

	seen := make(map[string]bool, len(opts))
	for i, o := range opts {
		if o.Value != int64(i+1) {
			t.Fatalf("Expected id %d, got %v", i+1, o.Value)
		}
		if seen[o.Label] {
			t.Fatalf("duplicate label %q", o.Label)
		}
		seen[o.Label] = true
		if !strings.HasPrefix(o.Image, "https://") {
			t.Errorf("Expected image URL, got %q", o.Image)
		}
	}
}

func TestWriteFile_LoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen", "large.jsonl")
	if err := dataset.WriteFile(path, dataset.Options{Count: 300, Seed: 3}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	records, err := loader.LoadAll(context.Background(), []loader.Source{{Path: path}})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 300 {
		t.Fatalf("Expected 300 records, got %d", len(records))
	}

	want := dataset.Generate(dataset.Options{Count: 1, Seed: 3})[0]["name"]
	if records[0]["name"] != want {
		t.Errorf("Expected first label %v, got %v", want, records[0]["name"])
	}
}

func TestWriteJSONL_OneLinePerRecord(t *testing.T) {
	var buf bytes.Buffer
	if err := dataset.WriteJSONL(&buf, dataset.Generate(dataset.Options{Count: 3})); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 3 {
		t.Errorf("Expected 3 lines, got %d", n)
	}
}
