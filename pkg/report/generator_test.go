package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/glycora-ai/platform/pkg/common/models"
)

func fixtureData() Data {
	return Data{
		Patient: models.PatientRecord{
			UserID:                   "patient-1",
			Name:                     "Jane Doe",
			Gender:                   "female",
			Pregnancies:              6,
			Glucose:                  148,
			BloodPressure:            72,
			SkinThickness:            35,
			Insulin:                  0,
			BMI:                      33.6,
			DiabetesPedigreeFunction: 0.627,
			Age:                      50,
		},
		Result: models.InferenceResult{
			PredictionLabel:    1,
			RiskLevel:          models.RiskHigh,
			ProbabilityPercent: 72.45,
			RawScore:           0.7245,
		},
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestExportHTML(t *testing.T) {
	generator, err := NewGenerator(t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	path, err := generator.ExportHTML(fixtureData())
	if err != nil {
		t.Fatalf("ExportHTML failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(content)
	for _, want := range []string{
		"Jane Doe",
		"Glucose",
		"148",
		"Diabetic",
		"72.45%",
		"HIGH",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q:\n%s", want, html)
		}
	}
	if !strings.Contains(path, "diabetes_report_patient-1_20260830T120000.html") {
		t.Fatalf("unexpected file name %q", path)
	}
}

func TestExportPDF(t *testing.T) {
	generator, err := NewGenerator(t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	path, err := generator.ExportPDF(fixtureData())
	if err != nil {
		t.Fatalf("ExportPDF failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat report: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty PDF")
	}
}

func TestPredictionText(t *testing.T) {
	if got := predictionText(1); got != "Diabetic" {
		t.Fatalf("predictionText(1) = %q", got)
	}
	if got := predictionText(0); got != "Not Diabetic" {
		t.Fatalf("predictionText(0) = %q", got)
	}
}

func TestFileNameAnonymousFallback(t *testing.T) {
	g := &Generator{outputDir: "."}
	name := g.fileName(Data{}, "pdf")
	if !strings.HasPrefix(name, "diabetes_report_anonymous_") {
		t.Fatalf("unexpected anonymous file name %q", name)
	}
}
