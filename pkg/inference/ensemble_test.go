package inference

import (
	"errors"
	"testing"
)

type stubClassifier struct {
	p   float64
	err error
}

func (s stubClassifier) PredictPositiveProbability(vector []float64) (float64, error) {
	return s.p, s.err
}

func TestPredictUnweightedMean(t *testing.T) {
	ensemble, err := NewEnsemblePredictor(
		stubClassifier{p: 0.2},
		stubClassifier{p: 0.5},
		stubClassifier{p: 0.8},
	)
	if err != nil {
		t.Fatalf("NewEnsemblePredictor failed: %v", err)
	}

	score, err := ensemble.Predict(nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if score != 0.5 {
		t.Fatalf("expected mean 0.5, got %v", score)
	}
}

func TestPredictFailsWhenAnyMemberFails(t *testing.T) {
	ensemble, err := NewEnsemblePredictor(
		stubClassifier{p: 0.9},
		stubClassifier{err: errors.New("model unavailable")},
	)
	if err != nil {
		t.Fatalf("NewEnsemblePredictor failed: %v", err)
	}

	if _, err := ensemble.Predict(nil); err == nil {
		t.Fatal("expected error when a member fails")
	}
}

func TestNewEnsemblePredictorRequiresMembers(t *testing.T) {
	if _, err := NewEnsemblePredictor(); err == nil {
		t.Fatal("expected error for empty ensemble")
	}
}
