// Package stats computes the descriptive statistics, missing-value summaries
// and correlation diagnostics shown for an uploaded table.
//
// Everything here is read-only over the table.
package stats

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/log"
)

// DefaultStrongCorrelation is the absolute Pearson r above which a column
// pair is reported as strongly correlated.
const DefaultStrongCorrelation = 0.7

// Options controls Analyze.
type Options struct {
	// StrongCorrelationThreshold is compared against |r|. Zero means
	// DefaultStrongCorrelation, so the zero Options is usable; call
	// Correlation directly to report every pair with a non-zero r.
	StrongCorrelationThreshold float64
	// TopValues limits the value frequencies kept per categorical column;
	// 0 keeps all of them.
	TopValues int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{StrongCorrelationThreshold: DefaultStrongCorrelation}
}

// Report is the result of Analyze.
type Report struct {
	Rows        int
	Cols        int
	Missing     []MissingSummary
	Numeric     []NumericSummary
	Categorical []CategoricalSummary

	// Correlation is nil when the table has fewer than two numeric columns;
	// CorrelationErr then holds the InsufficientColumnsError.
	Correlation    *CorrelationMatrix
	CorrelationErr error
}

// MissingSummary counts missing cells in one column.
type MissingSummary struct {
	Column  string
	Count   int
	Percent float64
}

// NumericSummary mirrors a describe() row: count of observed values, mean,
// sample standard deviation and the five-number summary.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// CategoricalSummary holds frequencies for one categorical column.
type CategoricalSummary struct {
	Column string
	Count  int
	Unique int
	Values []ValueCount // by count descending, then value
}

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string
	Count int
}

// Analyze computes the full statistics report for t. Failure to compute
// correlations is recorded in the report rather than returned.
func Analyze(t *dataset.Table, opt Options) (*Report, error) {
	if opt.StrongCorrelationThreshold == 0 {
		opt.StrongCorrelationThreshold = DefaultStrongCorrelation
	}
	start := time.Now()

	r := &Report{Rows: t.NumRows(), Cols: t.NumCols()}
	for _, c := range t.Columns() {
		miss := c.MissingCount()
		pct := 0.0
		if t.NumRows() > 0 {
			pct = float64(miss) / float64(t.NumRows()) * 100
		}
		r.Missing = append(r.Missing, MissingSummary{Column: c.Name, Count: miss, Percent: pct})

		switch c.Kind {
		case dataset.Numeric:
			r.Numeric = append(r.Numeric, Describe(c))
		case dataset.Categorical:
			r.Categorical = append(r.Categorical, Frequencies(c, opt.TopValues))
		}
	}

	r.Correlation, r.CorrelationErr = Correlation(t, opt.StrongCorrelationThreshold)

	log.GetLoggerWithName("stats").Debug("Analysis completed",
		log.OperationKey, log.OperationAnalyze,
		log.SamplesKey, r.Rows,
		log.FeaturesKey, r.Cols,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return r, nil
}

// Describe summarises a numeric column over its observed values. A column
// with no observed values yields Count 0 and NaN statistics.
func Describe(c *dataset.Column) NumericSummary {
	s := NumericSummary{Column: c.Name}
	obs := c.Observed()
	s.Count = len(obs)
	if s.Count == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sort.Float64s(obs)
	s.Mean = stat.Mean(obs, nil)
	if s.Count > 1 {
		s.Std = stat.StdDev(obs, nil)
	} else {
		s.Std = math.NaN()
	}
	s.Min = floats.Min(obs)
	s.Max = floats.Max(obs)
	s.Q25 = Quantile(obs, 0.25)
	s.Median = Quantile(obs, 0.5)
	s.Q75 = Quantile(obs, 0.75)
	return s
}

// Quantile returns the p-quantile of sorted using linear interpolation
// between closest ranks, position (n-1)*p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := float64(n-1) * p
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Frequencies counts the non-missing values of a categorical column. limit
// caps the number of entries returned; 0 returns all.
func Frequencies(c *dataset.Column, limit int) CategoricalSummary {
	counts := make(map[string]int)
	s := CategoricalSummary{Column: c.Name}
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		counts[c.Strings[i]]++
		s.Count++
	}
	s.Unique = len(counts)
	for v, n := range counts {
		s.Values = append(s.Values, ValueCount{Value: v, Count: n})
	}
	sort.Slice(s.Values, func(i, j int) bool {
		if s.Values[i].Count != s.Values[j].Count {
			return s.Values[i].Count > s.Values[j].Count
		}
		return s.Values[i].Value < s.Values[j].Value
	})
	if limit > 0 && len(s.Values) > limit {
		s.Values = s.Values[:limit]
	}
	return s
}
