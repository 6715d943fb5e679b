package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/chipselect/pkg/dataset"
)

var (
	genCount  int
	genSeed   uint64
	genImages bool
	genOutput string
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a large deterministic options file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if genCount <= 0 {
			return fmt.Errorf("--count must be positive")
		}
		opts := dataset.Options{Count: genCount, Seed: genSeed, WithImage: genImages}

		if genOutput == "" || genOutput == "-" {
			return dataset.WriteJSONL(cmd.OutOrStdout(), dataset.Generate(opts))
		}
		if err := dataset.WriteFile(genOutput, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d options to %s\n", genCount, genOutput)
		return nil
	},
}

func init() {
	f := genCmd.Flags()
	f.IntVarP(&genCount, "count", "n", 5000, "number of options")
	f.Uint64Var(&genSeed, "seed", 1, "random seed")
	f.BoolVar(&genImages, "images", false, "add an image URL to each option")
	f.StringVarP(&genOutput, "output", "o", "", "JSONL file to write (default stdout)")
}
