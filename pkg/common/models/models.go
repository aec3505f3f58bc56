package models

import (
	"time"

	"github.com/google/uuid"
)

// FeatureCount is the width of the model input vector.
const FeatureCount = 8

// FeatureNames lists the clinical features in the column order the transform
// and model artifacts were fitted on. The order is load-bearing: the imputer
// and scaler apply per-column statistics positionally, so reordering corrupts
// predictions without raising an error.
var FeatureNames = []string{
	"Pregnancies",
	"Glucose",
	"BloodPressure",
	"SkinThickness",
	"Insulin",
	"BMI",
	"DiabetesPedigreeFunction",
	"Age",
}

// PatientRecord is the normalized representation of one patient's input.
// The eight numeric fields feed the inference pipeline; the identity fields
// are carried for persistence and reporting only.
type PatientRecord struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Gender string `json:"gender,omitempty"`

	Pregnancies              float64 `json:"pregnancies"`
	Glucose                  float64 `json:"glucose"`
	BloodPressure            float64 `json:"blood_pressure"`
	SkinThickness            float64 `json:"skin_thickness"`
	Insulin                  float64 `json:"insulin"`
	BMI                      float64 `json:"bmi"`
	DiabetesPedigreeFunction float64 `json:"diabetes_pedigree_function"`
	Age                      float64 `json:"age"`
}

// Vector returns the feature vector in fitted column order.
func (p PatientRecord) Vector() []float64 {
	return []float64{
		p.Pregnancies,
		p.Glucose,
		p.BloodPressure,
		p.SkinThickness,
		p.Insulin,
		p.BMI,
		p.DiabetesPedigreeFunction,
		p.Age,
	}
}

// RiskLevel is one of the three ordered risk bands.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// InferenceResult is the structured outcome of one inference call.
// PredictionLabel is 1 iff RawScore >= 0.5; ProbabilityPercent is
// RawScore*100 rounded to two decimals.
type InferenceResult struct {
	PredictionLabel    int       `json:"prediction"`
	RiskLevel          RiskLevel `json:"risk_level"`
	ProbabilityPercent float64   `json:"probability_percent"`
	RawScore           float64   `json:"raw_score"`
}

// PredictionResponse is the ingress wire shape for a prediction.
type PredictionResponse struct {
	Prediction  int     `json:"prediction"`
	RiskLevel   string  `json:"riskLevel"`
	Probability float64 `json:"probability"`
	Score       float64 `json:"score"`
}

// HistoryEntry is one immutable row of a user's prediction history.
type HistoryEntry struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	Date          time.Time `json:"date"`
	Pregnancies   float64   `json:"pregnancies"`
	Glucose       float64   `json:"glucose"`
	BMI           float64   `json:"bmi"`
	BloodPressure float64   `json:"blood_pressure"`
	SkinThickness float64   `json:"skin_thickness"`
	Insulin       float64   `json:"insulin"`
	DPF           float64   `json:"dpf"`
	Age           float64   `json:"age"`
	Prediction    int       `json:"prediction"`
	Probability   float64   `json:"probability"`
	RiskLevel     string    `json:"risk_level"`
}

// MonthlyReport aggregates one calendar month of a user's history.
type MonthlyReport struct {
	AvgGlucose   float64 `json:"avg_glucose"`
	AvgBMI       float64 `json:"avg_bmi"`
	AvgBP        float64 `json:"avg_bp"`
	AvgRisk      float64 `json:"avg_risk"`
	DiabeticDays int     `json:"diabetic_days"`
	NormalDays   int     `json:"normal_days"`
	TotalRecords int     `json:"total_records"`
}

// ProfileStats summarizes a user's prediction activity.
type ProfileStats struct {
	TotalPredictions   int64      `json:"total_predictions"`
	DiabeticCount      int64      `json:"diabetic_count"`
	NormalCount        int64      `json:"normal_count"`
	LastPredictionDate *time.Time `json:"last_prediction_date,omitempty"`
}

// Identity models
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // prediction.completed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
