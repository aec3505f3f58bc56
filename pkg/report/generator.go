package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/glycora-ai/platform/pkg/common/models"
	"github.com/go-pdf/fpdf"
)

// Data is everything a patient report renders: the inputs, the outcome and
// when the prediction was made.
type Data struct {
	Patient     models.PatientRecord
	Result      models.InferenceResult
	GeneratedAt time.Time
}

type row struct {
	Label string
	Value string
}

// Generator renders patient reports into an output directory.
type Generator struct {
	outputDir string
}

func NewGenerator(outputDir string) (*Generator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	return &Generator{outputDir: outputDir}, nil
}

// ExportPDF writes a PDF report and returns its path.
func (g *Generator) ExportPDF(data Data) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, "Diabetes Risk Prediction Report", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	for _, r := range rows(data) {
		pdf.CellFormat(190, 8, fmt.Sprintf("%s: %s", r.Label, r.Value), "", 1, "L", false, 0, "")
	}

	path := filepath.Join(g.outputDir, g.fileName(data, "pdf"))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf report: %w", err)
	}
	return path, nil
}

var htmlReport = template.Must(template.New("report").Parse(`<html>
<head><title>Diabetes Report</title></head>
<body>
<h2>Diabetes Risk Prediction Report</h2>
<table border="1">
{{- range .Rows}}
<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// ExportHTML writes an HTML report and returns its path.
func (g *Generator) ExportHTML(data Data) (string, error) {
	path := filepath.Join(g.outputDir, g.fileName(data, "html"))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write html report: %w", err)
	}
	defer file.Close()

	err = htmlReport.Execute(file, struct{ Rows []row }{Rows: rows(data)})
	if err != nil {
		return "", fmt.Errorf("render html report: %w", err)
	}
	return path, nil
}

func (g *Generator) fileName(data Data, ext string) string {
	user := data.Patient.UserID
	if user == "" {
		user = "anonymous"
	}
	ts := data.GeneratedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return fmt.Sprintf("diabetes_report_%s_%s.%s", user, ts.Format("20060102T150405"), ext)
}

func rows(data Data) []row {
	out := []row{}
	if data.Patient.Name != "" {
		out = append(out, row{"Name", data.Patient.Name})
	}
	if data.Patient.Gender != "" {
		out = append(out, row{"Gender", data.Patient.Gender})
	}
	out = append(out,
		row{"Pregnancies", formatFloat(data.Patient.Pregnancies)},
		row{"Glucose", formatFloat(data.Patient.Glucose)},
		row{"Blood Pressure", formatFloat(data.Patient.BloodPressure)},
		row{"Skin Thickness", formatFloat(data.Patient.SkinThickness)},
		row{"Insulin", formatFloat(data.Patient.Insulin)},
		row{"BMI", formatFloat(data.Patient.BMI)},
		row{"Diabetes Pedigree Function", formatFloat(data.Patient.DiabetesPedigreeFunction)},
		row{"Age", formatFloat(data.Patient.Age)},
		row{"Prediction", predictionText(data.Result.PredictionLabel)},
		row{"Probability", fmt.Sprintf("%.2f%%", data.Result.ProbabilityPercent)},
		row{"Risk Level", string(data.Result.RiskLevel)},
	)
	return out
}

func predictionText(label int) string {
	if label == 1 {
		return "Diabetic"
	}
	return "Not Diabetic"
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
