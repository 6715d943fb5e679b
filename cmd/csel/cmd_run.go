package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/chipselect/pkg/app"
	"github.com/Dicklesworthstone/chipselect/pkg/history"
	"github.com/Dicklesworthstone/chipselect/pkg/loader"
	"github.com/Dicklesworthstone/chipselect/pkg/model"
	"github.com/Dicklesworthstone/chipselect/pkg/ui"
	"github.com/Dicklesworthstone/chipselect/pkg/watcher"
)

var (
	runMultiple    bool
	runFuzzy       bool
	runRequired    bool
	runWatch       bool
	runNoHistory   bool
	runHistory     string
	runPlaceholder string
	runLabel       string
	runField       string
)

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&runMultiple, "multiple", "m", false, "allow selecting several options")
	f.BoolVar(&runFuzzy, "fuzzy", false, "use fuzzy instead of substring search")
	f.BoolVar(&runRequired, "required", false, "refuse to submit an empty selection")
	f.BoolVarP(&runWatch, "watch", "w", false, "reload options when a source file changes")
	f.BoolVar(&runNoHistory, "no-history", false, "do not record submissions")
	f.StringVar(&runHistory, "history", "", "submission history database")
	f.StringVar(&runPlaceholder, "placeholder", "", "text shown when nothing is selected")
	f.StringVar(&runLabel, "label", "", "form field label")
	f.StringVar(&runField, "field", "selection", "field name stored with submissions")
}

// applyRunFlags overrides config values with flags the user actually set
func applyRunFlags(cmd *cobra.Command, cfg *loader.FileConfig) {
	flags := cmd.Flags()
	if flags.Changed("multiple") {
		cfg.Widget.Multiple = runMultiple
	}
	if flags.Changed("fuzzy") {
		cfg.Widget.Matcher = model.MatchSubstring
		if runFuzzy {
			cfg.Widget.Matcher = model.MatchFuzzy
		}
	}
	if flags.Changed("required") {
		cfg.Required = runRequired
	}
	if flags.Changed("watch") {
		cfg.Watch = runWatch
	}
	if runPlaceholder != "" {
		cfg.Placeholder = runPlaceholder
	}
	if runLabel != "" {
		cfg.Label = runLabel
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal; use 'csel list' for scripted output")
	}

	cfg, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer.Close()
	applyRunFlags(cmd, &cfg)

	sources, err := sourcesFor(cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	records, err := loader.LoadAll(ctx, sources)
	if err != nil {
		return err
	}

	var recorder app.Recorder
	if !runNoHistory {
		db, err := history.OpenDB(historyPath(cfg, runHistory))
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()
		recorder = db
	}

	form, err := app.NewForm(app.FormOptions{
		Field:    runField,
		Label:    cfg.Label,
		Required: cfg.Required,
		Select: ui.Options{
			ID:          runField,
			Records:     records,
			Fields:      cfg.Fields,
			Placeholder: cfg.Placeholder,
			Config:      cfg.Widget,
		},
		History: recorder,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(form, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if cfg.Watch {
		paths := make([]string, 0, len(sources))
		for _, s := range sources {
			paths = append(paths, s.Path)
		}
		w, err := watcher.NewWatcher(paths, func() {
			p.Send(app.Load(ctx, sources))
		}, watcher.WithLogger(slog.Default()))
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running csel: %w", err)
	}

	if last := form.LastSubmission(); last != nil {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(last)
	}
	return nil
}
