// Package dataset generates large deterministic option sets for demos and benchmarks.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/chipselect/pkg/model"
)

var adjectives = []string{
	"Amber", "Brisk", "Cobalt", "Dusty", "Emerald", "Frosty", "Golden", "Hidden",
	"Ivory", "Jade", "Keen", "Lunar", "Misty", "Noble", "Onyx", "Polar",
	"Quiet", "Rusty", "Silver", "Tidal", "Umber", "Vivid", "Wild", "Young",
}

var nouns = []string{
	"Falcon", "Harbor", "Meadow", "Summit", "Canyon", "Lantern", "Orchard", "Glacier",
	"Willow", "Comet", "Badger", "Delta", "Ember", "Fjord", "Grove", "Heron",
}

// Options controls generation
type Options struct {
	Count     int
	Seed      uint64
	WithImage bool
}

// Generate returns Count records with sequential integer ids and labels that
// are unique and reproducible for a given seed.
func Generate(opts Options) []model.Record {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	records := make([]model.Record, opts.Count)
	for i := range records {
		adj := adjectives[rng.IntN(len(adjectives))]
		noun := nouns[rng.IntN(len(nouns))]
		rec := model.Record{
			"id":   i + 1,
			"name": fmt.Sprintf("%s %s %d", adj, noun, i+1),
		}
		if opts.WithImage {
			rec["image"] = fmt.Sprintf("https://picsum.photos/seed/%d/32", i+1)
		}
		records[i] = rec
	}
	return records
}

// WriteJSONL writes records one per line
func WriteJSONL(w io.Writer, records []model.Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// WriteFile generates a dataset into path as JSONL
func WriteFile(path string, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSONL(f, Generate(opts)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
