package impute

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// KNN fills missing values in a row using the k nearest rows of a reference
// matrix frozen at fit time. Only Transform is offered; the reference matrix
// is never updated at inference time.
type KNN struct {
	neighbors int
	samples   [][]float64
	width     int
}

func NewKNN(neighbors int, samples [][]float64) (*KNN, error) {
	if neighbors <= 0 {
		neighbors = 5
	}
	if len(samples) == 0 {
		return nil, errors.New("imputer reference matrix empty")
	}
	width := len(samples[0])
	if width == 0 {
		return nil, errors.New("imputer reference matrix has zero width")
	}
	for i, row := range samples {
		if len(row) != width {
			return nil, fmt.Errorf("imputer reference row %d has %d columns, want %d", i, len(row), width)
		}
	}
	return &KNN{neighbors: neighbors, samples: samples, width: width}, nil
}

// Width returns the number of columns the imputer was fitted on.
func (k *KNN) Width() int {
	return k.width
}

// Transform returns a copy of row with every NaN replaced by the mean of the
// corresponding column across the k nearest reference rows, measured with
// NaN-aware Euclidean distance over the mutually observed coordinates.
func (k *KNN) Transform(row []float64) ([]float64, error) {
	if len(row) != k.width {
		return nil, fmt.Errorf("imputer: vector has %d values, want %d", len(row), k.width)
	}

	out := make([]float64, k.width)
	copy(out, row)

	hasMissing := false
	for _, v := range row {
		if math.IsNaN(v) {
			hasMissing = true
			break
		}
	}
	if !hasMissing {
		return out, nil
	}

	type neighbor struct {
		index    int
		distance float64
	}
	neighbors := make([]neighbor, 0, len(k.samples))
	for i, sample := range k.samples {
		d, ok := nanEuclidean(row, sample)
		if !ok {
			continue
		}
		neighbors = append(neighbors, neighbor{index: i, distance: d})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].distance != neighbors[j].distance {
			return neighbors[i].distance < neighbors[j].distance
		}
		return neighbors[i].index < neighbors[j].index
	})

	for col := 0; col < k.width; col++ {
		if !math.IsNaN(out[col]) {
			continue
		}
		var sum float64
		var count int
		for _, n := range neighbors {
			value := k.samples[n.index][col]
			if math.IsNaN(value) {
				continue
			}
			sum += value
			count++
			if count == k.neighbors {
				break
			}
		}
		if count == 0 {
			out[col] = k.columnMean(col)
			continue
		}
		out[col] = sum / float64(count)
	}

	return out, nil
}

// nanEuclidean computes Euclidean distance over coordinates observed in both
// rows, scaled up by width/observed so sparser overlaps are not rewarded.
// Returns false when the rows share no observed coordinate.
func nanEuclidean(a, b []float64) (float64, bool) {
	var sum float64
	observed := 0
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		diff := a[i] - b[i]
		sum += diff * diff
		observed++
	}
	if observed == 0 {
		return 0, false
	}
	scaled := sum * float64(len(a)) / float64(observed)
	return math.Sqrt(scaled), true
}

func (k *KNN) columnMean(col int) float64 {
	var sum float64
	var count int
	for _, sample := range k.samples {
		if math.IsNaN(sample[col]) {
			continue
		}
		sum += sample[col]
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
