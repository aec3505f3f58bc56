package scale

import (
	"math"
	"testing"
)

func TestTransform(t *testing.T) {
	scaler, err := NewStandard([]float64{1, 2}, []float64{2, 4})
	if err != nil {
		t.Fatalf("NewStandard failed: %v", err)
	}

	out, err := scaler.Transform([]float64{3, 10})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out[0] != 1 || out[1] != 2 {
		t.Fatalf("expected [1 2], got %v", out)
	}
}

func TestTransformZeroVarianceColumn(t *testing.T) {
	scaler, err := NewStandard([]float64{5}, []float64{0})
	if err != nil {
		t.Fatalf("NewStandard failed: %v", err)
	}

	out, err := scaler.Transform([]float64{8})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out[0] != 3 {
		t.Fatalf("zero-variance column must pass through centered, got %v", out[0])
	}
}

func TestTransformRejectsNaN(t *testing.T) {
	scaler, err := NewStandard([]float64{0, 0}, []float64{1, 1})
	if err != nil {
		t.Fatalf("NewStandard failed: %v", err)
	}
	if _, err := scaler.Transform([]float64{1, math.NaN()}); err == nil {
		t.Fatal("expected error for NaN input")
	}
}

func TestTransformRejectsWrongWidth(t *testing.T) {
	scaler, err := NewStandard([]float64{0, 0}, []float64{1, 1})
	if err != nil {
		t.Fatalf("NewStandard failed: %v", err)
	}
	if _, err := scaler.Transform([]float64{1}); err == nil {
		t.Fatal("expected error for wrong-width vector")
	}
}

func TestNewStandardValidation(t *testing.T) {
	if _, err := NewStandard(nil, nil); err == nil {
		t.Fatal("expected error for empty statistics")
	}
	if _, err := NewStandard([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected error for mismatched statistics")
	}
}
