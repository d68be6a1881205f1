package pipeline

import (
	"gonum.org/v1/gonum/stat"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/metrics"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/pkg/log"
	"github.com/Da050/Data-Analyzer-Pro/task"
)

// DefaultFolds is the fold count used by the CLI.
const DefaultFolds = 5

// CVResult holds per-fold scores: accuracy for classification, R² for
// regression.
type CVResult struct {
	Task   task.Type
	Metric string
	Scores []float64
	Mean   float64
	// Std is the population standard deviation of Scores.
	Std float64
}

// kFolds splits perm into k contiguous folds; the first len(perm)%k folds
// get one extra row.
func kFolds(perm []int, k int) [][]int {
	n := len(perm)
	folds := make([][]int, k)
	start := 0
	for i := 0; i < k; i++ {
		size := n / k
		if i < n%k {
			size++
		}
		folds[i] = perm[start : start+size]
		start += size
	}
	return folds
}

// CrossValidate scores family with k-fold cross validation over the whole
// table. Rows are shuffled with the configured seed and cut into contiguous
// folds; each fold is held out once.
func CrossValidate(t *dataset.Table, features []string, target string, family Family, folds int, opts ...Option) (*CVResult, error) {
	s := newSettings(opts)
	p, err := s.prepare(t, features, target, family)
	if err != nil {
		return nil, err
	}
	n := t.NumRows()
	if folds < 2 || folds > n {
		return nil, errors.NewValidationError("folds", "must be between 2 and the number of rows", folds)
	}

	res := &CVResult{Task: p.task, Metric: "r2_score", Scores: make([]float64, folds)}
	if p.task == task.Classification {
		res.Metric = "accuracy"
	}

	parts := kFolds(shuffle(n, s.randomState), folds)
	for i, test := range parts {
		train := make([]int, 0, n-len(test))
		for j, part := range parts {
			if j != i {
				train = append(train, part...)
			}
		}
		f, err := s.fit(p, train, test)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", i)
		}
		if p.task == task.Classification {
			res.Scores[i], err = metrics.Accuracy(f.yTest, f.yPred)
		} else {
			var sc metrics.RegressionScores
			sc, err = metrics.Regression(f.yTest, f.yPred)
			res.Scores[i] = sc.R2
		}
		if err != nil {
			return nil, err
		}
	}
	res.Mean, res.Std = stat.PopMeanStdDev(res.Scores, nil)

	s.logger.Info("Cross validation completed",
		log.ModelNameKey, string(family),
		log.TaskKey, p.task.String(),
		"cv.folds", folds,
		"cv.mean", res.Mean,
		"cv.std", res.Std,
	)
	return res, nil
}
