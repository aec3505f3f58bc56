package inference

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glycora-ai/platform/pkg/common/models"
	"gopkg.in/yaml.v3"
)

// Thresholds are the two band boundaries: scores below Low are LOW, scores
// in [Low, Medium) are MEDIUM, scores at or above Medium are HIGH.
type Thresholds struct {
	Low    float64 `yaml:"low" json:"low"`
	Medium float64 `yaml:"medium" json:"medium"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Low: 0.3, Medium: 0.6}
}

func (t Thresholds) Validate() error {
	if t.Low >= t.Medium {
		return fmt.Errorf("low threshold %.3f must be below medium threshold %.3f", t.Low, t.Medium)
	}
	return nil
}

// LoadThresholds reads band boundaries from a YAML file. An empty path means
// the defaults; a present but invalid file is an error so misconfiguration
// never silently reverts.
func LoadThresholds(path string) (Thresholds, error) {
	if path == "" {
		return DefaultThresholds(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Thresholds{}, err
	}
	var t Thresholds
	if err := yaml.Unmarshal(content, &t); err != nil {
		return Thresholds{}, err
	}
	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

// RiskClassifier maps a scalar probability to a risk band. Classify is a pure
// comparison chain, so out-of-range scores clamp to the outer bands instead
// of raising.
type RiskClassifier struct {
	thresholds Thresholds
}

func NewRiskClassifier(t Thresholds) (*RiskClassifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &RiskClassifier{thresholds: t}, nil
}

func (r *RiskClassifier) Classify(score float64) models.RiskLevel {
	switch {
	case score < r.thresholds.Low:
		return models.RiskLow
	case score < r.thresholds.Medium:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// SetThresholds replaces both boundaries as a unit, preserving the ordering
// invariant.
func (r *RiskClassifier) SetThresholds(t Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.thresholds = t
	return nil
}

func (r *RiskClassifier) Thresholds() Thresholds {
	return r.thresholds
}
