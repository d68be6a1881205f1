package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// OutlierMethod selects the outlier rule used by DetectOutliers.
type OutlierMethod string

const (
	// OutlierIQR flags values outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
	OutlierIQR OutlierMethod = "iqr"
	// OutlierZScore flags values whose population z-score exceeds 3 in
	// absolute value.
	OutlierZScore OutlierMethod = "zscore"
)

const (
	iqrFactor    = 1.5
	zScoreCutoff = 3.0
)

// OutlierResult lists the rows flagged by DetectOutliers.
type OutlierResult struct {
	Column  string
	Method  OutlierMethod
	Rows    []int
	Lower   float64 // IQR lower fence, NaN for zscore
	Upper   float64 // IQR upper fence, NaN for zscore
	Percent float64 // flagged rows as a percentage of all rows
}

// DetectOutliers flags outlying rows of a numeric column. Missing values are
// never flagged.
func DetectOutliers(t *dataset.Table, column string, method OutlierMethod) (*OutlierResult, error) {
	if method != OutlierIQR && method != OutlierZScore {
		return nil, errors.NewValidationError("method", "unknown outlier method", string(method))
	}
	c, err := t.Lookup("DetectOutliers", column)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.Numeric {
		return nil, errors.NewValidationError(column, "outlier detection needs a numeric column", c.Kind.String())
	}

	res := &OutlierResult{Column: column, Method: method, Lower: math.NaN(), Upper: math.NaN()}
	obs := c.Observed()
	if len(obs) == 0 {
		return res, nil
	}

	switch method {
	case OutlierIQR:
		sorted := append([]float64(nil), obs...)
		sort.Float64s(sorted)
		q1, q3 := Quantile(sorted, 0.25), Quantile(sorted, 0.75)
		iqr := q3 - q1
		res.Lower, res.Upper = q1-iqrFactor*iqr, q3+iqrFactor*iqr
		for i, v := range c.Floats {
			if !math.IsNaN(v) && (v < res.Lower || v > res.Upper) {
				res.Rows = append(res.Rows, i)
			}
		}
	case OutlierZScore:
		mean, std := stat.PopMeanStdDev(obs, nil)
		if std == 0 {
			break
		}
		for i, v := range c.Floats {
			if !math.IsNaN(v) && math.Abs((v-mean)/std) > zScoreCutoff {
				res.Rows = append(res.Rows, i)
			}
		}
	}

	if t.NumRows() > 0 {
		res.Percent = float64(len(res.Rows)) / float64(t.NumRows()) * 100
	}
	return res, nil
}
