package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
)

func newSampleCmd(a *app) *cobra.Command {
	var (
		rows int
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "sample <out.csv>",
		Short: "Write a synthetic employee dataset (.csv, .tsv or .csv.xz)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows <= 0 {
				rows = a.cfg.SampleRows
			}
			t := dataset.GenerateSample(rows, seed)
			if err := dataset.SaveFile(args[0], t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", t.NumRows(), args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "number of rows (default from config sample_rows)")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")
	return cmd
}
