package serving

import (
	"context"
	"math"
	"time"

	"github.com/glycora-ai/platform/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DailyReport is the persistence model for one immutable prediction row.
// Payload keeps the raw inbound request for auditability.
type DailyReport struct {
	ID            int64             `gorm:"primaryKey;autoIncrement;column:id"`
	UserID        string            `gorm:"index;column:user_id"`
	CreatedAt     time.Time         `gorm:"index;column:created_at"`
	Pregnancies   float64           `gorm:"column:pregnancies"`
	Glucose       float64           `gorm:"column:glucose"`
	BMI           float64           `gorm:"column:bmi"`
	BloodPressure float64           `gorm:"column:blood_pressure"`
	SkinThickness float64           `gorm:"column:skin_thickness"`
	Insulin       float64           `gorm:"column:insulin"`
	DPF           float64           `gorm:"column:dpf"`
	Age           float64           `gorm:"column:age"`
	Prediction    int               `gorm:"column:prediction"`
	Probability   float64           `gorm:"column:probability"`
	RiskLevel     string            `gorm:"column:risk_level"`
	Payload       datatypes.JSONMap `gorm:"column:payload"`
}

// TableName overrides gorm naming.
func (DailyReport) TableName() string {
	return "daily_reports"
}

// Repository handles prediction history rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&DailyReport{})
}

// Append records one prediction. Rows are never updated afterwards.
func (r *Repository) Append(ctx context.Context, userID string, patient models.PatientRecord, result models.InferenceResult, payload map[string]interface{}) error {
	row := DailyReport{
		UserID:        userID,
		CreatedAt:     time.Now().UTC(),
		Pregnancies:   patient.Pregnancies,
		Glucose:       patient.Glucose,
		BMI:           patient.BMI,
		BloodPressure: patient.BloodPressure,
		SkinThickness: patient.SkinThickness,
		Insulin:       patient.Insulin,
		DPF:           patient.DiabetesPedigreeFunction,
		Age:           patient.Age,
		Prediction:    result.PredictionLabel,
		Probability:   result.ProbabilityPercent,
		RiskLevel:     string(result.RiskLevel),
		Payload:       datatypes.JSONMap(payload),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// History returns the user's prediction rows, newest first.
func (r *Repository) History(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	var rows []DailyReport
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]models.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, mapRow(row))
	}
	return entries, nil
}

type monthlyAggregates struct {
	AvgGlucose   float64 `gorm:"column:avg_glucose"`
	AvgBMI       float64 `gorm:"column:avg_bmi"`
	AvgBP        float64 `gorm:"column:avg_bp"`
	AvgRisk      float64 `gorm:"column:avg_risk"`
	DiabeticDays int     `gorm:"column:diabetic_days"`
	TotalRecords int     `gorm:"column:total_records"`
}

// Monthly aggregates one calendar month of a user's history. A month with no
// rows yields the zero report rather than an error.
func (r *Repository) Monthly(ctx context.Context, userID string, month, year int) (models.MonthlyReport, error) {
	var agg monthlyAggregates
	err := r.db.WithContext(ctx).Model(&DailyReport{}).
		Select(
			"COALESCE(AVG(glucose), 0) AS avg_glucose, "+
				"COALESCE(AVG(bmi), 0) AS avg_bmi, "+
				"COALESCE(AVG(blood_pressure), 0) AS avg_bp, "+
				"COALESCE(AVG(probability), 0) AS avg_risk, "+
				"COALESCE(SUM(prediction), 0) AS diabetic_days, "+
				"COUNT(*) AS total_records").
		Where("user_id = ? AND EXTRACT(MONTH FROM created_at) = ? AND EXTRACT(YEAR FROM created_at) = ?",
			userID, month, year).
		Scan(&agg).Error
	if err != nil {
		return models.MonthlyReport{}, err
	}

	return models.MonthlyReport{
		AvgGlucose:   roundTo2(agg.AvgGlucose),
		AvgBMI:       roundTo2(agg.AvgBMI),
		AvgBP:        roundTo2(agg.AvgBP),
		AvgRisk:      roundTo2(agg.AvgRisk),
		DiabeticDays: agg.DiabeticDays,
		NormalDays:   agg.TotalRecords - agg.DiabeticDays,
		TotalRecords: agg.TotalRecords,
	}, nil
}

// Stats summarizes a user's prediction activity for the profile view.
func (r *Repository) Stats(ctx context.Context, userID string) (models.ProfileStats, error) {
	var stats models.ProfileStats

	base := r.db.WithContext(ctx).Model(&DailyReport{}).Where("user_id = ?", userID)
	if err := base.Count(&stats.TotalPredictions).Error; err != nil {
		return models.ProfileStats{}, err
	}
	if err := r.db.WithContext(ctx).Model(&DailyReport{}).
		Where("user_id = ? AND prediction = 1", userID).
		Count(&stats.DiabeticCount).Error; err != nil {
		return models.ProfileStats{}, err
	}
	stats.NormalCount = stats.TotalPredictions - stats.DiabeticCount

	if stats.TotalPredictions > 0 {
		var last DailyReport
		err := r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			First(&last).Error
		if err != nil {
			return models.ProfileStats{}, err
		}
		stats.LastPredictionDate = &last.CreatedAt
	}

	return stats, nil
}

func mapRow(row DailyReport) models.HistoryEntry {
	return models.HistoryEntry{
		ID:            row.ID,
		UserID:        row.UserID,
		Date:          row.CreatedAt,
		Pregnancies:   row.Pregnancies,
		Glucose:       row.Glucose,
		BMI:           row.BMI,
		BloodPressure: row.BloodPressure,
		SkinThickness: row.SkinThickness,
		Insulin:       row.Insulin,
		DPF:           row.DPF,
		Age:           row.Age,
		Prediction:    row.Prediction,
		Probability:   row.Probability,
		RiskLevel:     row.RiskLevel,
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
