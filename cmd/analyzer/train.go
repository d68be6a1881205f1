package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pipeline"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/plot"
	"github.com/Da050/Data-Analyzer-Pro/task"
)

type trainFlags struct {
	in          input
	target      string
	features    []string
	family      string
	predictFile string
	predictOut  string
	plotDir     string
	crossVal    bool
}

func newTrainCmd(a *app) *cobra.Command {
	var f trainFlags
	cmd := &cobra.Command{
		Use:   "train [file]",
		Short: "Train a model on a table and report held-out metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTrain(cmd, args, &f)
		},
	}
	f.in.bind(cmd)
	cmd.Flags().StringVar(&f.target, "target", "", "target column")
	cmd.Flags().StringSliceVar(&f.features, "features", nil, "feature columns (default: every other column)")
	cmd.Flags().StringVar(&f.family, "family", string(pipeline.FamilyAuto), "model family: auto, linear, logistic, random_forest")
	cmd.Flags().StringVar(&f.predictFile, "predict", "", "score this file with the trained model")
	cmd.Flags().StringVar(&f.predictOut, "predict-out", "", "write predictions as CSV here (default stdout)")
	cmd.Flags().StringVar(&f.plotDir, "plots", "", "write PNG charts to this directory")
	cmd.Flags().BoolVar(&f.crossVal, "cv", false, "also run k-fold cross validation")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func (a *app) runTrain(cmd *cobra.Command, args []string, f *trainFlags) error {
	family, err := pipeline.ParseFamily(f.family)
	if err != nil {
		return err
	}
	t, err := f.in.load(cmd.Context(), args, a.cfg.MaxRows)
	if err != nil {
		return err
	}

	features := f.features
	if len(features) == 0 {
		for _, name := range t.Names() {
			if name != f.target {
				features = append(features, name)
			}
		}
	}

	opts := []pipeline.Option{
		pipeline.WithTestFraction(a.cfg.TestFraction),
		pipeline.WithRandomState(a.cfg.RandomState),
		pipeline.WithNEstimators(a.cfg.NEstimators),
		pipeline.WithMaxClassCardinality(a.cfg.MaxClassCardinality),
		pipeline.WithLogger(a.logger),
	}
	m, res, err := pipeline.Train(t, features, f.target, family, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Model %s: %s (%s), %d train / %d test rows\n",
		m.ID, m.Family, m.Task, len(m.TrainIndices), len(m.TestIndices))
	printEvaluation(out, res)

	imp, err := pipeline.FeatureImportance(m)
	switch {
	case pipeline.IsImportanceUnavailable(err):
		fmt.Fprintf(out, "Feature importance: not available for %s\n", m.Family)
	case err != nil:
		return err
	default:
		fmt.Fprintln(out, "Feature importance:")
		for _, fs := range imp {
			fmt.Fprintf(out, "  %-20s %.4f\n", fs.Feature, fs.Score)
		}
	}

	if f.crossVal {
		cv, err := pipeline.CrossValidate(t, features, f.target, family, a.cfg.CVFolds, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Cross validation %s: %.4f (+/- %.4f) over %d folds\n",
			cv.Metric, cv.Mean, 2*cv.Std, len(cv.Scores))
	}

	if f.plotDir != "" {
		if err := trainingPlots(f.plotDir, m, imp); err != nil {
			return err
		}
	}
	if f.predictFile != "" {
		return a.writePredictions(cmd, m, f)
	}
	return nil
}

func printEvaluation(w io.Writer, r *pipeline.EvaluationResult) {
	if r.Kind == task.Regression {
		fmt.Fprintf(w, "R2: %.4f  RMSE: %.4f  MSE: %.4f  MAE: %.4f\n", r.R2, r.RMSE, r.MSE, r.MAE)
		if r.Degenerate {
			fmt.Fprintln(w, "  (test target is constant; R2 is not meaningful)")
		}
		return
	}
	fmt.Fprintf(w, "Accuracy: %.4f\n", r.Accuracy)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tPRECISION\tRECALL\tF1\tSUPPORT")
	for _, c := range r.Report.Classes {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintf(tw, "macro avg\t%.3f\t%.3f\t%.3f\t%d\n",
		r.Report.MacroAvg.Precision, r.Report.MacroAvg.Recall, r.Report.MacroAvg.F1, r.Report.Support)
	fmt.Fprintf(tw, "weighted avg\t%.3f\t%.3f\t%.3f\t%d\n",
		r.Report.WeightedAvg.Precision, r.Report.WeightedAvg.Recall, r.Report.WeightedAvg.F1, r.Report.Support)
	tw.Flush()
}

func trainingPlots(dir string, m *pipeline.TrainedModel, imp pipeline.Importances) error {
	if len(imp) > 0 {
		names := make([]string, len(imp))
		scores := make([]float64, len(imp))
		for i, fs := range imp {
			names[i], scores[i] = fs.Feature, fs.Score
		}
		if err := writePNG(dir, "feature_importance.png", func(w io.Writer) error {
			return plot.FeatureImportance(w, names, scores)
		}); err != nil {
			return err
		}
	}
	if m.Task == task.Regression {
		return writePNG(dir, "predicted_vs_actual.png", func(w io.Writer) error {
			return plot.PredictedVsActual(w, m.YTest, m.YPred)
		})
	}
	return nil
}

// writePredictions scores the --predict file and writes its rows with an
// added prediction column.
func (a *app) writePredictions(cmd *cobra.Command, m *pipeline.TrainedModel, f *trainFlags) (err error) {
	t, err := dataset.LoadFile(f.predictFile, dataset.CSVOptions{MaxRows: a.cfg.MaxRows})
	if err != nil {
		return err
	}
	p, err := pipeline.Predict(m, t)
	if err != nil {
		return err
	}

	name := predictionColumn(t)
	col := dataset.NewNumericColumn(name, p.Values)
	if p.Labels != nil {
		col = dataset.NewCategoricalColumn(name, p.Labels, nil)
	}
	scored, err := dataset.NewTable(append(append([]*dataset.Column(nil), t.Columns()...), col)...)
	if err != nil {
		return errors.Wrap(err, "append predictions")
	}

	if f.predictOut == "" {
		return dataset.WriteCSV(cmd.OutOrStdout(), scored)
	}
	if err := dataset.SaveFile(f.predictOut, scored); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d predictions to %s\n", scored.NumRows(), f.predictOut)
	return nil
}

// predictionColumn returns "prediction", or "prediction_N" with the smallest
// N that t does not already use.
func predictionColumn(t *dataset.Table) string {
	name := "prediction"
	for i := 1; ; i++ {
		if _, taken := t.Column(name); !taken {
			return name
		}
		name = fmt.Sprintf("prediction_%d", i)
	}
}
