// Package analyzer profiles tabular data and trains supervised models on it.
//
// A table is loaded from a delimited file (optionally xz-compressed) or a
// SQLite query, summarised, and handed to a pipeline that imputes missing
// values, encodes categorical columns, picks regression or classification
// from the target, trains a model, and evaluates it on a held-out split.
//
// # Installation
//
//	go install github.com/Da050/Data-Analyzer-Pro/cmd/analyzer@latest
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/Da050/Data-Analyzer-Pro/dataset"
//	    "github.com/Da050/Data-Analyzer-Pro/pipeline"
//	)
//
//	func main() {
//	    t := dataset.GenerateSample(1000, 42)
//
//	    m, res, err := pipeline.Train(t,
//	        []string{"age", "education_years", "experience_years"},
//	        "income",
//	        pipeline.FamilyRandomForest,
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%s R2=%.3f\n", m.Task, res.R2)
//
//	    imp, err := pipeline.FeatureImportance(m)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, f := range imp {
//	        fmt.Println(f.Feature, f.Score)
//	    }
//	}
//
// # Packages
//
//   - dataset: the in-memory table plus CSV, SQL and sample loaders
//   - stats: descriptive statistics, correlation, data quality, outliers
//   - preprocessing: imputation, label encoding, standard scaling
//   - task: regression vs classification inference
//   - linear: LinearRegression, LogisticRegression
//   - tree: CART decision trees
//   - ensemble: random forests
//   - metrics: regression scores and classification reports
//   - pipeline: Train, Predict, FeatureImportance, CrossValidate
//   - plot: PNG charts for analysis and model results
//   - config: viper-backed settings (analyzer.yaml, ANALYZER_* env)
//   - core/model: estimator interfaces and fitted-state bookkeeping
//   - core/parallel: worker fan-out used by the forests
//
// # Determinism
//
// Every random choice (the train/test shuffle, bootstrap samples, feature
// subsets) is drawn from a seeded PCG source, so the same table, options
// and random state always yield the same model and metrics.
//
// # Errors
//
// Failures are returned as typed errors from pkg/errors (ColumnNotFoundError,
// InsufficientDataError, InvalidSelectionError, NotFittedError,
// UnsupportedFamilyError, InsufficientColumnsError) and can be matched with
// errors.As. Recoverable conditions such as unseen categories are reported
// as warnings through errors.Warn and the zerolog logger.
package analyzer
