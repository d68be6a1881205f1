package metrics

import (
	"math"
	"testing"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 2, 1, 0},
			want:  1.0,
		},
		{
			name:  "80% accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 1, 1, 0},
			want:  0.8,
		},
		{
			name:  "Zero accuracy",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{1, 1, 1},
			want:  0.0,
		},
		{
			name:    "Empty vectors",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	yTrue := []float64{0, 0, 1, 1, 1, 2}
	yPred := []float64{0, 1, 1, 1, 0, 2}
	names := map[float64]string{0: "High", 1: "Low", 2: "Medium"}

	rep, err := Report(yTrue, yPred, func(c float64) string { return names[c] })
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if len(rep.Classes) != 3 {
		t.Fatalf("expected 3 classes, got %d", len(rep.Classes))
	}
	if math.Abs(rep.Accuracy-4.0/6.0) > 1e-12 {
		t.Errorf("accuracy = %v", rep.Accuracy)
	}

	high := rep.Classes[0]
	if high.Label != "High" || high.Support != 2 {
		t.Errorf("unexpected first class %+v", high)
	}
	// class 0: tp=1, predicted=2, support=2
	if math.Abs(high.Precision-0.5) > 1e-12 || math.Abs(high.Recall-0.5) > 1e-12 || math.Abs(high.F1-0.5) > 1e-12 {
		t.Errorf("class 0 scores %+v", high)
	}
	low := rep.Classes[1]
	// class 1: tp=2, predicted=3, support=3
	if math.Abs(low.Precision-2.0/3.0) > 1e-12 || math.Abs(low.Recall-2.0/3.0) > 1e-12 {
		t.Errorf("class 1 scores %+v", low)
	}
	if rep.Classes[2].F1 != 1 {
		t.Errorf("class 2 F1 = %v", rep.Classes[2].F1)
	}

	wantMacroF1 := (0.5 + 2.0/3.0 + 1) / 3
	if math.Abs(rep.MacroAvg.F1-wantMacroF1) > 1e-12 {
		t.Errorf("macro F1 = %v, want %v", rep.MacroAvg.F1, wantMacroF1)
	}
	wantWeightedRecall := (2*0.5 + 3*(2.0/3.0) + 1*1) / 6
	if math.Abs(rep.WeightedAvg.Recall-wantWeightedRecall) > 1e-12 {
		t.Errorf("weighted recall = %v, want %v", rep.WeightedAvg.Recall, wantWeightedRecall)
	}
	if rep.Confusion.At(1, 0) != 1 || rep.Confusion.At(0, 1) != 1 {
		t.Errorf("confusion matrix mismatch")
	}
}

func TestReportPredictedOnlyClass(t *testing.T) {
	rep, err := Report([]float64{1, 1}, []float64{1, 5}, nil)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(rep.Classes) != 2 || rep.Classes[1].Label != "5" {
		t.Fatalf("classes = %+v", rep.Classes)
	}
	// Never a true sample: recall and F1 fall back to 0.
	if rep.Classes[1].Support != 0 || rep.Classes[1].Recall != 0 || rep.Classes[1].F1 != 0 {
		t.Errorf("predicted-only class scores %+v", rep.Classes[1])
	}
}
