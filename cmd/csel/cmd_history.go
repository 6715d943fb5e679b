package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/chipselect/pkg/history"
)

var (
	historyDB    string
	historyField string
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := setup()
		if err != nil {
			return err
		}
		defer closer.Close()

		db, err := history.OpenDB(historyPath(cfg, historyDB))
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()

		subs, err := db.Recent(cmd.Context(), historyField, historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(subs)
		}
		if len(subs) == 0 {
			fmt.Fprintln(out, "No submissions recorded.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tFIELD\tWHEN\tLABELS")
		for _, s := range subs {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Field, s.CreatedAt.Local().Format("2006-01-02 15:04"), strings.Join(s.Labels, ", "))
		}
		return tw.Flush()
	},
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyDB, "db", "", "history database (default in the user config dir)")
	f.StringVar(&historyField, "field", "", "only show this field")
	f.IntVarP(&historyLimit, "limit", "n", 20, "maximum entries")
	f.BoolVar(&historyJSON, "json", false, "print JSON")
}
