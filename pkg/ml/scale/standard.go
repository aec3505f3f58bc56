package scale

import (
	"errors"
	"fmt"
	"math"
)

// Standard applies the per-feature affine transform (x - mean) / std using
// statistics frozen at fit time. Zero-variance columns pass through unscaled,
// matching the behaviour of the scaler the artifacts were exported from.
type Standard struct {
	means []float64
	stds  []float64
}

func NewStandard(means, stds []float64) (*Standard, error) {
	if len(means) == 0 {
		return nil, errors.New("scaler has no fitted statistics")
	}
	if len(means) != len(stds) {
		return nil, fmt.Errorf("scaler has %d means but %d stds", len(means), len(stds))
	}
	return &Standard{means: means, stds: stds}, nil
}

// Width returns the number of columns the scaler was fitted on.
func (s *Standard) Width() int {
	return len(s.means)
}

func (s *Standard) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.means) {
		return nil, fmt.Errorf("scaler: vector has %d values, want %d", len(row), len(s.means))
	}
	out := make([]float64, len(row))
	for i, v := range row {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("scaler: NaN at position %d", i)
		}
		std := s.stds[i]
		if std == 0 {
			std = 1
		}
		out[i] = (v - s.means[i]) / std
	}
	return out, nil
}
