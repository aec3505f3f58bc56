package tree

import (
	"errors"
	"fmt"
	"math"
)

// GradientBoosted is a frozen boosted ensemble of regression trees with a
// sigmoid link: probability = sigmoid(base + rate * sum of leaf values).
type GradientBoosted struct {
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

func (g GradientBoosted) PredictPositiveProbability(sample []float64) (float64, error) {
	if len(g.Trees) == 0 {
		return 0, errors.New("boosted ensemble has no trees")
	}
	rate := g.LearningRate
	if rate == 0 {
		rate = 1
	}
	score := g.BaseScore
	for _, t := range g.Trees {
		leaf, err := t.Leaf(sample)
		if err != nil {
			return 0, err
		}
		if len(leaf.Value) != 1 {
			return 0, fmt.Errorf("regression leaf has %d values, want 1", len(leaf.Value))
		}
		score += rate * leaf.Value[0]
	}
	return sigmoid(score), nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
