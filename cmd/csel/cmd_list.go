package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/chipselect/pkg/layout"
	"github.com/Dicklesworthstone/chipselect/pkg/loader"
	"github.com/Dicklesworthstone/chipselect/pkg/model"
	"github.com/Dicklesworthstone/chipselect/pkg/ui"
)

var (
	listSearch   string
	listSelect   []string
	listWidth    int
	listMultiple bool
	listFuzzy    bool
	listPage     int
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list [sources...]",
	Short: "Render the widget once without a terminal",
	Long: `list builds the widget from the sources, applies --select and --search,
and prints the rendered widget, or a JSON summary with --json.`,
	RunE: runList,
}

func init() {
	f := listCmd.Flags()
	f.StringVarP(&listSearch, "search", "s", "", "search term to filter the open list")
	f.StringSliceVar(&listSelect, "select", nil, "option values to select, in order")
	f.IntVar(&listWidth, "width", 48, "widget width in cells")
	f.BoolVarP(&listMultiple, "multiple", "m", false, "multiple selection mode")
	f.BoolVar(&listFuzzy, "fuzzy", false, "use fuzzy search")
	f.IntVar(&listPage, "page", 0, "options rendered per page (0 keeps the config value)")
	f.BoolVar(&listJSON, "json", false, "print a JSON summary instead of the rendering")
}

// listResult is the --json output
type listResult struct {
	Value    any      `json:"value"`
	Chips    []string `json:"chips"`
	Summary  string   `json:"summary"`
	Hidden   int      `json:"overflow_markers"`
	View     []string `json:"view"`
	Visible  int      `json:"visible"`
	Filtered int      `json:"filtered"`
	Total    int      `json:"total"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer.Close()

	flags := cmd.Flags()
	if flags.Changed("multiple") {
		cfg.Widget.Multiple = listMultiple
	}
	if listFuzzy {
		cfg.Widget.Matcher = model.MatchFuzzy
	}
	if listPage > 0 {
		cfg.Widget.MaxVisibleItems = listPage
	}

	sources, err := sourcesFor(cfg, args)
	if err != nil {
		return err
	}
	records, err := loader.LoadAll(cmd.Context(), sources)
	if err != nil {
		return err
	}
	opts, err := model.NormalizeOptions(records, cfg.Fields)
	if err != nil {
		return err
	}

	theme := ui.DefaultTheme(lipgloss.NewRenderer(cmd.OutOrStdout()))
	sel, err := ui.New(ui.Options{
		ID:          "list",
		Options:     opts,
		Placeholder: cfg.Placeholder,
		Config:      cfg.Widget,
		Theme:       &theme,
		Width:       listWidth,
	})
	if err != nil {
		return err
	}
	sel.Update(sel.Init()())

	for _, want := range listSelect {
		opt, ok := findOption(opts, want)
		if !ok {
			return fmt.Errorf("no option with value %q", want)
		}
		sel.ToggleOption(opt)
	}
	if listSearch != "" {
		sel.Open()
		sel.SetSearchTerm(listSearch)
	}

	out := cmd.OutOrStdout()
	if !listJSON {
		fmt.Fprintln(out, sel.View())
		return nil
	}

	chips := sel.Chips()
	res := listResult{
		Value:   sel.Value(),
		Chips:   []string{},
		Summary: sel.Summary(),
		Hidden:  len(chips) - layout.Visible(chips),
	}
	for _, c := range chips {
		res.Chips = append(res.Chips, c.Option.Label)
	}
	for _, o := range sel.CurrentView() {
		res.View = append(res.View, o.Label)
	}
	res.Visible, res.Filtered, res.Total = sel.Counts()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// findOption matches a command-line value against option values by their text form
func findOption(opts []model.Option, want string) (model.Option, bool) {
	for _, o := range opts {
		if fmt.Sprint(o.Value) == want {
			return o, true
		}
	}
	return model.Option{}, false
}
