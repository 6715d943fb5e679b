package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/chipselect/pkg/app"
	"github.com/Dicklesworthstone/chipselect/pkg/loader"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Edit the widget configuration interactively",
	Long:  "configure asks for the widget settings and writes them to --config (default csel.yaml).",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("configure needs a terminal")
		}

		path := configPath
		if path == "" {
			path = "csel.yaml"
		}
		cfg := loader.DefaultFileConfig()
		if _, err := os.Stat(path); err == nil {
			loaded, err := loader.LoadConfig(path)
			if err != nil {
				return err
			}
			cfg = loaded
			// keep sources relative to the file when writing back
			for i, s := range cfg.Sources {
				src := loader.ParseSource(s)
				if rel, err := filepath.Rel(filepath.Dir(path), src.Path); err == nil {
					src.Path = rel
				}
				cfg.Sources[i] = src.String()
			}
		}

		form, apply := app.ConfigureForm(cfg)
		if err := form.Run(); err != nil {
			return err
		}
		updated, err := apply()
		if err != nil {
			return err
		}
		if err := loader.SaveConfig(path, updated); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
		return nil
	},
}
