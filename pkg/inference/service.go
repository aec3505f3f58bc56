package inference

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/glycora-ai/platform/pkg/common/models"
)

// Service orchestrates one inference call: ordered feature vector →
// normalize → ensemble score → label at 0.5 → risk band → result. It holds
// no mutable state and performs no I/O; persistence, caching and event
// publication belong to the caller.
type Service struct {
	normalizer *FeatureNormalizer
	ensemble   *EnsemblePredictor
	risk       *RiskClassifier
}

func NewService(normalizer *FeatureNormalizer, ensemble *EnsemblePredictor, risk *RiskClassifier) *Service {
	return &Service{normalizer: normalizer, ensemble: ensemble, risk: risk}
}

// NewServiceFromArtifacts wires the canonical tri-model pipeline from a
// loaded artifact set.
func NewServiceFromArtifacts(artifacts *Artifacts, thresholds Thresholds) (*Service, error) {
	ensemble, err := NewEnsemblePredictor(
		artifacts.RandomForest,
		artifacts.ExtraTrees,
		artifacts.GradientBoosting,
	)
	if err != nil {
		return nil, err
	}
	risk, err := NewRiskClassifier(thresholds)
	if err != nil {
		return nil, err
	}
	return NewService(NewFeatureNormalizer(artifacts.Imputer, artifacts.Scaler), ensemble, risk), nil
}

// Infer runs the pipeline for one patient. For fixed artifacts and input the
// result is bit-reproducible.
func (s *Service) Infer(patient models.PatientRecord) (models.InferenceResult, error) {
	normalized, err := s.normalizer.Normalize(patient.Vector())
	if err != nil {
		return models.InferenceResult{}, fmt.Errorf("normalize features: %w", err)
	}

	score, err := s.ensemble.Predict(normalized)
	if err != nil {
		return models.InferenceResult{}, fmt.Errorf("ensemble predict: %w", err)
	}

	label := 0
	if score >= 0.5 {
		label = 1
	}

	return models.InferenceResult{
		PredictionLabel:    label,
		RiskLevel:          s.risk.Classify(score),
		ProbabilityPercent: round2(score * 100),
		RawScore:           score,
	}, nil
}

// InferPayload coerces an untyped payload into a PatientRecord and runs
// Infer on it. Coercion is lenient by contract: a missing, null or
// non-numeric field becomes 0.0 and the pipeline proceeds rather than
// rejecting the request.
func (s *Service) InferPayload(payload map[string]interface{}) (models.PatientRecord, models.InferenceResult, error) {
	patient := CoercePatient(payload)
	result, err := s.Infer(patient)
	return patient, result, err
}

// CoercePatient builds a PatientRecord from an untyped payload using the
// inbound field names, defaulting every unparseable numeric field to 0.0.
func CoercePatient(payload map[string]interface{}) models.PatientRecord {
	record := models.PatientRecord{
		Pregnancies:              safeFloat(payload["Pregnancies"]),
		Glucose:                  safeFloat(payload["Glucose"]),
		BloodPressure:            safeFloat(payload["BloodPressure"]),
		SkinThickness:            safeFloat(payload["SkinThickness"]),
		Insulin:                  safeFloat(payload["Insulin"]),
		BMI:                      safeFloat(payload["BMI"]),
		DiabetesPedigreeFunction: safeFloat(payload["DiabetesPedigreeFunction"]),
		Age:                      safeFloat(payload["Age"]),
	}
	if id, ok := payload["user_id"]; ok {
		record.UserID = stringify(id)
	}
	if name, ok := payload["name"].(string); ok {
		record.Name = name
	}
	if gender, ok := payload["gender"].(string); ok {
		record.Gender = gender
	}
	return record
}

// safeFloat coerces a payload value to float64, returning 0.0 when the value
// is absent or not numeric. Garbage input degrades instead of aborting the
// pipeline; tightening this to a validation error would be a contract change.
func safeFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0.0
}

// IsCoercible reports whether safeFloat would preserve the value instead of
// defaulting it to 0.0. The ingress layer uses it to count degraded requests.
func IsCoercible(value interface{}) bool {
	switch v := value.(type) {
	case float64, float32, int, int64:
		return true
	case json.Number:
		_, err := v.Float64()
		return err == nil
	case string:
		_, err := strconv.ParseFloat(v, 64)
		return err == nil
	default:
		return false
	}
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds half away from zero to three decimals; the ingress layer
// uses it for the wire score.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
