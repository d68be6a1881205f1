package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/log"
	"github.com/Da050/Data-Analyzer-Pro/plot"
	"github.com/Da050/Data-Analyzer-Pro/stats"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		in            input
		plotDir       string
		topValues     int
		outlierCols   []string
		outlierMethod string
	)
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Summarise a CSV/TSV (optionally .xz) or SQLite query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := in.load(cmd.Context(), args, a.cfg.MaxRows)
			if err != nil {
				return err
			}
			rep, err := stats.Analyze(t, stats.Options{
				StrongCorrelationThreshold: a.cfg.StrongCorrelation,
				TopValues:                  topValues,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printReport(out, rep)
			printQuality(out, stats.DataQuality(t))

			for _, col := range outlierCols {
				res, err := stats.DetectOutliers(t, col, stats.OutlierMethod(outlierMethod))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Outliers in %s (%s): %d rows (%.1f%%)\n", res.Column, res.Method, len(res.Rows), res.Percent)
			}

			if plotDir != "" {
				if err := analysisPlots(plotDir, t, rep); err != nil {
					return err
				}
				a.logger.Info("Plots written", log.OperationKey, log.OperationAnalyze, "plot.dir", plotDir)
			}
			return nil
		},
	}
	in.bind(cmd)
	cmd.Flags().StringVar(&plotDir, "plots", "", "write PNG charts to this directory")
	cmd.Flags().IntVar(&topValues, "top", 5, "value frequencies shown per categorical column (0 = all)")
	cmd.Flags().StringSliceVar(&outlierCols, "outliers", nil, "numeric columns to scan for outliers")
	cmd.Flags().StringVar(&outlierMethod, "outlier-method", string(stats.OutlierIQR), "outlier rule: iqr or zscore")
	return cmd
}

func printReport(w io.Writer, r *stats.Report) {
	fmt.Fprintf(w, "Rows: %d  Columns: %d\n\n", r.Rows, r.Cols)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tMISSING\tPERCENT")
	for _, m := range r.Missing {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", m.Column, m.Count, m.Percent)
	}
	tw.Flush()
	fmt.Fprintln(w)

	if len(r.Numeric) > 0 {
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NUMERIC\tCOUNT\tMEAN\tSTD\tMIN\t25%\t50%\t75%\tMAX")
		for _, s := range r.Numeric {
			fmt.Fprintf(tw, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
				s.Column, s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	for _, c := range r.Categorical {
		fmt.Fprintf(w, "%s: %d values, %d unique\n", c.Column, c.Count, c.Unique)
		for _, v := range c.Values {
			fmt.Fprintf(w, "  %-20s %d\n", v.Value, v.Count)
		}
	}
	if len(r.Categorical) > 0 {
		fmt.Fprintln(w)
	}

	switch {
	case r.CorrelationErr != nil:
		fmt.Fprintf(w, "Correlations: %v\n", r.CorrelationErr)
	case r.Correlation == nil || len(r.Correlation.Strong) == 0:
		fmt.Fprintln(w, "Correlations: no strong pairs")
	default:
		fmt.Fprintln(w, "Strong correlations:")
		for _, p := range r.Correlation.Strong {
			fmt.Fprintf(w, "  %s ~ %s: %.3f\n", p.A, p.B, p.R)
		}
	}
	fmt.Fprintln(w)
}

func printQuality(w io.Writer, q *stats.QualityReport) {
	fmt.Fprintf(w, "Data quality: %d duplicate rows, %d numeric and %d categorical columns\n",
		q.DuplicateRows, q.KindCounts[dataset.Numeric], q.KindCounts[dataset.Categorical])
	for _, c := range q.Completeness {
		if c.Percent < 100 {
			fmt.Fprintf(w, "  %s is %.1f%% complete\n", c.Column, c.Percent)
		}
	}
}

func analysisPlots(dir string, t *dataset.Table, r *stats.Report) error {
	if r.Correlation != nil {
		if err := writePNG(dir, "correlation.png", func(w io.Writer) error {
			return plot.CorrelationHeatmap(w, r.Correlation)
		}); err != nil {
			return err
		}
	}
	for _, c := range t.Columns() {
		if c.MissingCount() == c.Len() {
			continue
		}
		if err := writePNG(dir, "dist_"+c.Name+".png", func(w io.Writer) error {
			return plot.Distribution(w, c, 0)
		}); err != nil {
			return err
		}
	}
	return nil
}
