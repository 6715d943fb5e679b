package main_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type listOutput struct {
	Value    any      `json:"value"`
	Chips    []string `json:"chips"`
	Summary  string   `json:"summary"`
	View     []string `json:"view"`
	Visible  int      `json:"visible"`
	Filtered int      `json:"filtered"`
	Total    int      `json:"total"`
}

func writeGreek(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "greek.jsonl")
	data := `{"id": 1, "name": "Alpha"}
{"id": 2, "name": "Beta"}
{"id": 3, "name": "Gamma"}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write options: %v", err)
	}
	return path
}

func decodeList(t *testing.T, out string) listOutput {
	t.Helper()
	var res listOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	return res
}

func TestCLI_GenThenSearchLargeList(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "large.jsonl")

	if _, err := runCsel(t, dir, "gen", "--count", "2000", "--seed", "42", "-o", data); err != nil {
		t.Fatalf("gen failed: %v", err)
	}

	out, err := runCsel(t, dir, "list", data, "--json", "--page", "50")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	all := decodeList(t, out)
	if all.Total != 2000 || all.Filtered != 2000 {
		t.Errorf("Expected 2000 options, got total=%d filtered=%d", all.Total, all.Filtered)
	}
	if all.Visible != 50 || len(all.View) != 50 {
		t.Errorf("Expected first window of 50, got %d", all.Visible)
	}

	out, err = runCsel(t, dir, "list", data, "--json", "--search", "FALCON", "--page", "50")
	if err != nil {
		t.Fatalf("list --search failed: %v", err)
	}
	res := decodeList(t, out)
	if res.Filtered == 0 || res.Filtered >= 2000 {
		t.Fatalf("Expected a strict subset to match, got %d", res.Filtered)
	}
	if res.Visible > 50 {
		t.Errorf("window exceeds page size: %d", res.Visible)
	}
	for _, label := range res.View {
		if !strings.Contains(strings.ToLower(label), "falcon") {
			t.Errorf("label %q does not match the search", label)
		}
	}
}

func TestCLI_ListChipsOverflow(t *testing.T) {
	dir := t.TempDir()
	path := writeGreek(t, dir)

	out, err := runCsel(t, dir, "list", path, "--json", "--multiple", "--select", "1,2,3", "--width", "30")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	res := decodeList(t, out)

	want := []string{"Alpha", "Beta", "+1"}
	if strings.Join(res.Chips, "|") != strings.Join(want, "|") {
		t.Errorf("Expected chips %v, got %v", want, res.Chips)
	}
	if res.Summary != "Alpha, Beta, +1" {
		t.Errorf("Expected summary 'Alpha, Beta, +1', got %q", res.Summary)
	}
	values, ok := res.Value.([]any)
	if !ok || len(values) != 3 {
		t.Errorf("Expected three values, got %#v", res.Value)
	}
}

func TestCLI_ListRendersPlaceholder(t *testing.T) {
	dir := t.TempDir()
	path := writeGreek(t, dir)

	out, err := runCsel(t, dir, "list", path)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "Select") {
		t.Errorf("Expected placeholder in rendering, got:\n%s", out)
	}

	out, err = runCsel(t, dir, "list", path, "--select", "2")
	if err != nil {
		t.Fatalf("list --select failed: %v", err)
	}
	if !strings.Contains(out, "Beta") {
		t.Errorf("Expected selected label in rendering, got:\n%s", out)
	}
}

func TestCLI_ListUnknownValueFails(t *testing.T) {
	dir := t.TempDir()
	path := writeGreek(t, dir)

	if _, err := runCsel(t, dir, "list", path, "--select", "99"); err == nil {
		t.Error("Expected failure for an unknown value")
	}
}

func TestCLI_ConfigFileSources(t *testing.T) {
	dir := t.TempDir()
	writeGreek(t, dir)
	cfg := `widget:
  multiple: true
  searchable: true
  select_all_button: true
placeholder: Pick letters
sources:
  - greek.jsonl
`
	cfgPath := filepath.Join(dir, "csel.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCsel(t, t.TempDir(), "list", "--config", cfgPath, "--json", "--select", "3,1")
	if err != nil {
		t.Fatalf("list with config failed: %v", err)
	}
	res := decodeList(t, out)
	if res.Total != 3 {
		t.Errorf("Expected 3 options from config sources, got %d", res.Total)
	}
	if res.Summary != "Alpha, Gamma" {
		t.Errorf("Expected chips in option order, got %q", res.Summary)
	}
}

func TestCLI_InteractiveNeedsTerminal(t *testing.T) {
	dir := t.TempDir()
	path := writeGreek(t, dir)

	if _, err := runCsel(t, dir, path); err == nil {
		t.Error("Expected interactive mode to refuse a non-terminal")
	}
}

func TestCLI_HistoryEmpty(t *testing.T) {
	dir := t.TempDir()

	out, err := runCsel(t, dir, "history", "--db", filepath.Join(dir, "h.db"))
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "No submissions recorded.") {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestCLI_Version(t *testing.T) {
	out, err := runCsel(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "csel ") {
		t.Errorf("Unexpected version output: %q", out)
	}
}
