package app

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/Dicklesworthstone/chipselect/pkg/loader"
	"github.com/Dicklesworthstone/chipselect/pkg/model"
)

// configureValues holds the form fields while huh edits them
type configureValues struct {
	multiple      bool
	searchable    bool
	selectAll     bool
	closeOnToggle bool
	keepDangling  bool
	required      bool
	matcher       string
	pageSize      string
	placeholder   string
	label         string
	valueField    string
	labelField    string
}

// ConfigureForm builds an interactive form editing cfg. Call the returned func after the
// form completes to get the edited copy.
func ConfigureForm(cfg loader.FileConfig) (*huh.Form, func() (loader.FileConfig, error)) {
	v := &configureValues{
		multiple:      cfg.Widget.Multiple,
		searchable:    cfg.Widget.Searchable,
		selectAll:     cfg.Widget.SelectAllButton,
		closeOnToggle: cfg.Widget.CloseOnMultiToggle,
		keepDangling:  cfg.Widget.KeepDangling,
		required:      cfg.Required,
		matcher:       cfg.Widget.Matcher,
		pageSize:      strconv.Itoa(cfg.Widget.PageSize()),
		placeholder:   cfg.Placeholder,
		label:         cfg.Label,
		valueField:    cfg.Fields.Value,
		labelField:    cfg.Fields.Label,
	}
	if v.matcher == "" {
		v.matcher = model.MatchSubstring
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow multiple selections?").
				Value(&v.multiple),
			huh.NewConfirm().
				Title("Show the search input?").
				Value(&v.searchable),
			huh.NewSelect[string]().
				Title("Search matching").
				Options(
					huh.NewOption("Substring (case-insensitive)", model.MatchSubstring),
					huh.NewOption("Fuzzy", model.MatchFuzzy),
				).
				Value(&v.matcher),
			huh.NewInput().
				Title("Options rendered per page").
				Value(&v.pageSize).
				Validate(validatePageSize),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show the select-all row?").
				Description("Multiple selection only").
				Value(&v.selectAll),
			huh.NewConfirm().
				Title("Close the dropdown after each toggle?").
				Value(&v.closeOnToggle),
			huh.NewConfirm().
				Title("Keep selected values missing from reloaded options?").
				Value(&v.keepDangling),
		),
		huh.NewGroup(
			huh.NewInput().Title("Field label").Value(&v.label),
			huh.NewInput().Title("Placeholder").Value(&v.placeholder),
			huh.NewConfirm().Title("Require a selection on submit?").Value(&v.required),
			huh.NewInput().Title("Record key holding the value").Value(&v.valueField),
			huh.NewInput().Title("Record key holding the label").Value(&v.labelField),
		),
	)

	apply := func() (loader.FileConfig, error) {
		return v.apply(cfg)
	}
	return form, apply
}

func (v *configureValues) apply(cfg loader.FileConfig) (loader.FileConfig, error) {
	pageSize, err := strconv.Atoi(v.pageSize)
	if err != nil {
		return cfg, fmt.Errorf("invalid page size %q: %w", v.pageSize, err)
	}

	cfg.Widget.Multiple = v.multiple
	cfg.Widget.Searchable = v.searchable
	cfg.Widget.SelectAllButton = v.selectAll
	cfg.Widget.CloseOnMultiToggle = v.closeOnToggle
	cfg.Widget.KeepDangling = v.keepDangling
	cfg.Widget.Matcher = v.matcher
	cfg.Widget.MaxVisibleItems = pageSize
	cfg.Required = v.required
	cfg.Placeholder = v.placeholder
	cfg.Label = v.label
	cfg.Fields = model.Fields{Value: v.valueField, Label: v.labelField, Image: cfg.Fields.Image}.WithDefaults()

	if err := cfg.Widget.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validatePageSize(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}
