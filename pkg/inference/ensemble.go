package inference

import (
	"errors"
	"fmt"
)

// Classifier is the single capability the ensemble needs from a frozen model
// backend: a calibrated positive-class probability for a normalized vector.
type Classifier interface {
	PredictPositiveProbability(vector []float64) (float64, error)
}

// EnsemblePredictor fuses the probabilities of its member classifiers by
// unweighted arithmetic mean. A member that cannot produce a probability
// fails the whole call; partial ensembles are not a supported mode.
type EnsemblePredictor struct {
	classifiers []Classifier
}

func NewEnsemblePredictor(classifiers ...Classifier) (*EnsemblePredictor, error) {
	if len(classifiers) == 0 {
		return nil, errors.New("ensemble requires at least one classifier")
	}
	return &EnsemblePredictor{classifiers: classifiers}, nil
}

func (e *EnsemblePredictor) Predict(vector []float64) (float64, error) {
	var sum float64
	for i, c := range e.classifiers {
		p, err := c.PredictPositiveProbability(vector)
		if err != nil {
			return 0, fmt.Errorf("classifier %d: %w", i, err)
		}
		sum += p
	}
	return sum / float64(len(e.classifiers)), nil
}
