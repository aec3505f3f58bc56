package impute

import (
	"math"
	"testing"
)

func TestTransformPassthroughWithoutMissing(t *testing.T) {
	imputer, err := NewKNN(2, [][]float64{{1, 10}, {2, 20}})
	if err != nil {
		t.Fatalf("NewKNN failed: %v", err)
	}

	row := []float64{5, 50}
	out, err := imputer.Transform(row)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out[0] != 5 || out[1] != 50 {
		t.Fatalf("expected passthrough, got %v", out)
	}

	out[0] = 99
	if row[0] != 5 {
		t.Fatal("Transform must not alias the input row")
	}
}

func TestTransformFillsFromNearestNeighbors(t *testing.T) {
	samples := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
		{100, 1000},
	}
	imputer, err := NewKNN(2, samples)
	if err != nil {
		t.Fatalf("NewKNN failed: %v", err)
	}

	// Rows 0 and 1 are equidistant from 1.5; the tie resolves by index and
	// both land in the k=2 neighborhood.
	out, err := imputer.Transform([]float64{1.5, math.NaN()})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out[1] != 15 {
		t.Fatalf("expected imputed value 15, got %v", out[1])
	}
	if out[0] != 1.5 {
		t.Fatalf("observed value must be untouched, got %v", out[0])
	}
}

func TestTransformAllMissingFallsBackToColumnMean(t *testing.T) {
	samples := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
		{100, 1000},
	}
	imputer, err := NewKNN(2, samples)
	if err != nil {
		t.Fatalf("NewKNN failed: %v", err)
	}

	out, err := imputer.Transform([]float64{math.NaN(), math.NaN()})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out[0] != 26.5 {
		t.Fatalf("expected column mean 26.5, got %v", out[0])
	}
	if out[1] != 265 {
		t.Fatalf("expected column mean 265, got %v", out[1])
	}
}

func TestTransformSkipsMissingNeighborValues(t *testing.T) {
	samples := [][]float64{
		{1, math.NaN()},
		{2, 20},
		{3, 30},
	}
	imputer, err := NewKNN(2, samples)
	if err != nil {
		t.Fatalf("NewKNN failed: %v", err)
	}

	// Row 0 is nearest but has no value for the missing column, so the
	// average continues down the neighbor list until k usable values.
	out, err := imputer.Transform([]float64{1, math.NaN()})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out[1] != 25 {
		t.Fatalf("expected imputed value 25, got %v", out[1])
	}
}

func TestTransformRejectsWrongWidth(t *testing.T) {
	imputer, err := NewKNN(2, [][]float64{{1, 10}})
	if err != nil {
		t.Fatalf("NewKNN failed: %v", err)
	}
	if _, err := imputer.Transform([]float64{1, 2, 3}); err == nil {
		t.Fatal("expected error for wrong-width vector")
	}
}

func TestNewKNNValidation(t *testing.T) {
	if _, err := NewKNN(5, nil); err == nil {
		t.Fatal("expected error for empty reference matrix")
	}
	if _, err := NewKNN(5, [][]float64{{1, 2}, {3}}); err == nil {
		t.Fatal("expected error for ragged reference matrix")
	}

	imputer, err := NewKNN(0, [][]float64{{1, 2}})
	if err != nil {
		t.Fatalf("NewKNN failed: %v", err)
	}
	if imputer.Width() != 2 {
		t.Fatalf("expected width 2, got %d", imputer.Width())
	}
}
