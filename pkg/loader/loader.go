// Package loader reads option records from files and SQLite tables.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/chipselect/pkg/model"
)

// Source is one place option records come from. Table is only used for SQLite files.
type Source struct {
	Path  string
	Table string
}

// ParseSource parses "path" or "path#table"
func ParseSource(s string) Source {
	if i := strings.LastIndex(s, "#"); i > 0 {
		return Source{Path: s[:i], Table: s[i+1:]}
	}
	return Source{Path: s}
}

func (s Source) String() string {
	if s.Table != "" {
		return s.Path + "#" + s.Table
	}
	return s.Path
}

// Format is the storage format of a source, derived from its extension
type Format string

const (
	FormatJSONL  Format = "jsonl"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// DetectFormat returns the format for a path based on its extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("unsupported options file: %s", path)
}

// Load reads the records of a single source
func Load(ctx context.Context, src Source) ([]model.Record, error) {
	if _, err := os.Stat(src.Path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no options found at %s", src.Path)
	}

	format, err := DetectFormat(src.Path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSONL:
		return LoadJSONL(src.Path)
	case FormatJSON:
		return LoadJSON(src.Path)
	case FormatYAML:
		return LoadYAML(src.Path)
	default:
		return LoadTable(ctx, src.Path, src.Table)
	}
}

// LoadAll reads every source concurrently and concatenates the records in source order
func LoadAll(ctx context.Context, sources []Source) ([]model.Record, error) {
	results := make([][]model.Record, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			records, err := Load(ctx, src)
			if err != nil {
				return fmt.Errorf("load %s: %w", src, err)
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Record
	for _, records := range results {
		all = append(all, records...)
	}
	return all, nil
}

// LoadJSONL reads one JSON object per line. Malformed lines are skipped and
// reported in the log.
func LoadJSONL(path string) ([]model.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open options file: %w", err)
	}
	defer file.Close()

	var records []model.Record
	scanner := bufio.NewScanner(file)
	// Generated datasets can carry large records
	const maxCapacity = 1024 * 1024 * 10 // 10MB
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	skipped := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		rec, err := decodeJSONRecord(line)
		if err != nil {
			skipped++
			slog.Debug("skipping malformed options line", "path", path, "line", lineNum, "error", err)
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading options file: %w", err)
	}
	if skipped > 0 {
		slog.Warn("skipped malformed option lines", "path", path, "count", skipped)
	}

	return records, nil
}

func decodeJSONRecord(data []byte) (model.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rec model.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("not an object")
	}
	return rec, nil
}

// LoadJSON reads a JSON array of objects, or an object with an "options" array
func LoadJSON(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return recordsFrom(doc, path)
}

// LoadYAML reads a YAML sequence of mappings, or a mapping with an "options" sequence
func LoadYAML(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return recordsFrom(doc, path)
}

// recordsFrom extracts the record list from a decoded document
func recordsFrom(doc any, path string) ([]model.Record, error) {
	if m, ok := doc.(map[string]any); ok {
		inner, ok := m["options"]
		if !ok {
			return nil, fmt.Errorf("%s: expected a list or an \"options\" key", path)
		}
		doc = inner
	}

	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list of option records, got %T", path, doc)
	}

	records := make([]model.Record, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: entry %d is %T, not an object", path, i, item)
		}
		records = append(records, model.Record(m))
	}
	return records, nil
}
