package inference

import (
	"fmt"

	"github.com/glycora-ai/platform/pkg/common/models"
	"github.com/glycora-ai/platform/pkg/ml/impute"
	"github.com/glycora-ai/platform/pkg/ml/scale"
)

// FeatureNormalizer applies the fitted imputer then the fitted scaler, in
// that fixed order. Both stages are transform-only; nothing is refit at
// inference time.
type FeatureNormalizer struct {
	imputer *impute.KNN
	scaler  *scale.Standard
}

func NewFeatureNormalizer(imputer *impute.KNN, scaler *scale.Standard) *FeatureNormalizer {
	return &FeatureNormalizer{imputer: imputer, scaler: scaler}
}

// Normalize transforms a raw feature vector into model space. The input must
// contain exactly the eight features in fitted column order; a wrong-length
// vector is a contract violation and surfaces as an error.
func (n *FeatureNormalizer) Normalize(raw []float64) ([]float64, error) {
	if len(raw) != models.FeatureCount {
		return nil, fmt.Errorf("normalize: vector has %d values, want %d", len(raw), models.FeatureCount)
	}
	imputed, err := n.imputer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("impute: %w", err)
	}
	scaled, err := n.scaler.Transform(imputed)
	if err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	return scaled, nil
}
