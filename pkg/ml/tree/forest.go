package tree

import "errors"

// Forest is an averaging ensemble of classification trees. Bagged and
// extremely-randomized variants differ only in how they were grown; once
// frozen they evaluate identically, so one type serves both.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// PredictPositiveProbability returns the mean positive-class fraction across
// all member trees.
func (f Forest) PredictPositiveProbability(sample []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, errors.New("forest has no trees")
	}
	var sum float64
	for _, t := range f.Trees {
		leaf, err := t.Leaf(sample)
		if err != nil {
			return 0, err
		}
		p, err := positiveFraction(leaf)
		if err != nil {
			return 0, err
		}
		sum += p
	}
	return sum / float64(len(f.Trees)), nil
}
