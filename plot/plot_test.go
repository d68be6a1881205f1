package plot

import (
	"bytes"
	"testing"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/stats"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func assertPNG(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("output is not a PNG (%d bytes)", buf.Len())
	}
}

func TestFeatureImportance(t *testing.T) {
	var buf bytes.Buffer
	err := FeatureImportance(&buf, []string{"income", "age", "city"}, []float64{0.6, 0.3, 0.1})
	if err != nil {
		t.Fatalf("FeatureImportance: %v", err)
	}
	assertPNG(t, &buf)

	if err := FeatureImportance(&buf, []string{"a"}, nil); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestPredictedVsActual(t *testing.T) {
	var buf bytes.Buffer
	if err := PredictedVsActual(&buf, []float64{1, 2, 3, 4}, []float64{1.1, 1.9, 3.2, 3.7}); err != nil {
		t.Fatalf("PredictedVsActual: %v", err)
	}
	assertPNG(t, &buf)
}

func TestCorrelationHeatmap(t *testing.T) {
	tbl := dataset.GenerateSample(50, 1)
	m, err := stats.Correlation(tbl, stats.DefaultStrongCorrelation)
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}

	var buf bytes.Buffer
	if err := CorrelationHeatmap(&buf, m); err != nil {
		t.Fatalf("CorrelationHeatmap: %v", err)
	}
	assertPNG(t, &buf)

	var insufficient *errors.InsufficientColumnsError
	if err := CorrelationHeatmap(&buf, nil); !errors.As(err, &insufficient) {
		t.Errorf("expected InsufficientColumnsError, got %v", err)
	}
}

func TestDistribution(t *testing.T) {
	tbl := dataset.GenerateSample(80, 2)
	for _, name := range []string{dataset.SampleIncome, dataset.SampleDepartment, dataset.SampleSatisfaction} {
		c, _ := tbl.Column(name)
		var buf bytes.Buffer
		if err := Distribution(&buf, c, 0); err != nil {
			t.Fatalf("Distribution(%s): %v", name, err)
		}
		assertPNG(t, &buf)
	}

	empty := dataset.NewCategoricalColumn("empty", []string{"", ""}, []bool{true, true})
	var buf bytes.Buffer
	if err := Distribution(&buf, empty, 0); err == nil {
		t.Error("expected error for a column without observed values")
	}
}
