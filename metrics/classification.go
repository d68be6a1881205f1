package metrics

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// Accuracy returns the fraction of exact matches between yTrue and yPred.
func Accuracy(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("Accuracy", yTrue, yPred); err != nil {
		return 0, err
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// ClassMetrics holds the scores for one class.
type ClassMetrics struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Averages holds averaged precision, recall and F1 over all classes.
type Averages struct {
	Precision float64
	Recall    float64
	F1        float64
}

// ClassificationReport is the per-class breakdown of a classifier's
// predictions. Classes with no predicted or no true samples score 0 for the
// undefined ratio.
type ClassificationReport struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    Averages
	WeightedAvg Averages
	Support     int
	// Confusion[i][j] counts samples of class i predicted as class j.
	Confusion *mat.Dense
}

// Labeler names a class value in reports.
type Labeler func(class float64) string

// NumericLabel formats the class value itself.
func NumericLabel(class float64) string {
	return strconv.FormatFloat(class, 'g', -1, 64)
}

// Report builds a ClassificationReport over the union of classes seen in
// yTrue and yPred, ordered by class value. A nil labeler uses NumericLabel.
func Report(yTrue, yPred []float64, label Labeler) (*ClassificationReport, error) {
	if err := checkPair("ClassificationReport", yTrue, yPred); err != nil {
		return nil, err
	}
	if label == nil {
		label = NumericLabel
	}

	classes := unionSorted(yTrue, yPred)
	index := make(map[float64]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	k := len(classes)
	confusion := mat.NewDense(k, k, nil)
	for i := range yTrue {
		a, p := index[yTrue[i]], index[yPred[i]]
		confusion.Set(a, p, confusion.At(a, p)+1)
	}

	rep := &ClassificationReport{
		Classes:   make([]ClassMetrics, k),
		Support:   len(yTrue),
		Confusion: confusion,
	}
	correct := 0.0
	for c := 0; c < k; c++ {
		tp := confusion.At(c, c)
		correct += tp
		support := mat.Sum(confusion.RowView(c))
		predicted := mat.Sum(confusion.ColView(c))

		m := ClassMetrics{Label: label(classes[c]), Support: int(support)}
		m.Precision = errors.SafeDivide(tp, predicted)
		m.Recall = errors.SafeDivide(tp, support)
		m.F1 = errors.SafeDivide(2*m.Precision*m.Recall, m.Precision+m.Recall)
		rep.Classes[c] = m

		rep.MacroAvg.Precision += m.Precision / float64(k)
		rep.MacroAvg.Recall += m.Recall / float64(k)
		rep.MacroAvg.F1 += m.F1 / float64(k)

		w := support / float64(len(yTrue))
		rep.WeightedAvg.Precision += m.Precision * w
		rep.WeightedAvg.Recall += m.Recall * w
		rep.WeightedAvg.F1 += m.F1 * w
	}
	rep.Accuracy = correct / float64(len(yTrue))
	return rep, nil
}

func unionSorted(a, b []float64) []float64 {
	seen := make(map[float64]struct{}, len(a))
	var out []float64
	for _, s := range [][]float64{a, b} {
		for _, v := range s {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	sort.Float64s(out)
	return out
}
