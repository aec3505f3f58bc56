package inference

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/glycora-ai/platform/pkg/common/models"
)

func writeArtifactFile(t *testing.T, dir, name string, payload map[string]interface{}) {
	t.Helper()
	content, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func classificationTrees() []map[string]interface{} {
	return []map[string]interface{}{
		{"nodes": []map[string]interface{}{
			{"feature": -1, "threshold": 0, "left": 0, "right": 0, "value": []float64{1, 3}},
		}},
	}
}

func writeArtifactSet(t *testing.T, dir string) {
	t.Helper()
	names := models.FeatureNames

	writeArtifactFile(t, dir, imputerFile, map[string]interface{}{
		"feature_names": names,
		"neighbors":     5,
		"samples": []interface{}{
			[]interface{}{0.0, 0.0, 0.0, 0.0, nil, 0.0, 0.0, 0.0},
			[]interface{}{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0},
		},
	})
	writeArtifactFile(t, dir, scalerFile, map[string]interface{}{
		"feature_names": names,
		"means":         []float64{0, 0, 0, 0, 0, 0, 0, 0},
		"stds":          []float64{1, 1, 1, 1, 1, 1, 1, 1},
	})
	writeArtifactFile(t, dir, randomForestFile, map[string]interface{}{
		"feature_names": names,
		"trees":         classificationTrees(),
	})
	writeArtifactFile(t, dir, extraTreesFile, map[string]interface{}{
		"feature_names": names,
		"trees":         classificationTrees(),
	})
	writeArtifactFile(t, dir, gradientBoostingFile, map[string]interface{}{
		"feature_names": names,
		"base_score":    0.0,
		"learning_rate": 0.1,
		"trees": []map[string]interface{}{
			{"nodes": []map[string]interface{}{
				{"feature": -1, "threshold": 0, "left": 0, "right": 0, "value": []float64{0}},
			}},
		},
	})
}

func TestLoadArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeArtifactSet(t, dir)

	artifacts, err := LoadArtifacts(dir)
	if err != nil {
		t.Fatalf("LoadArtifacts failed: %v", err)
	}
	if artifacts.Imputer.Width() != models.FeatureCount {
		t.Fatalf("imputer width %d", artifacts.Imputer.Width())
	}
	if artifacts.Scaler.Width() != models.FeatureCount {
		t.Fatalf("scaler width %d", artifacts.Scaler.Width())
	}
	if len(artifacts.RandomForest.Trees) != 1 || len(artifacts.ExtraTrees.Trees) != 1 {
		t.Fatal("expected one tree per forest")
	}
	if artifacts.GradientBoosting.LearningRate != 0.1 {
		t.Fatalf("learning rate %v", artifacts.GradientBoosting.LearningRate)
	}

	svc, err := NewServiceFromArtifacts(artifacts, DefaultThresholds())
	if err != nil {
		t.Fatalf("NewServiceFromArtifacts failed: %v", err)
	}
	result, err := svc.Infer(samplePatient())
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	if result.RiskLevel == "" {
		t.Fatal("expected a classified result")
	}
}

func TestLoadArtifactsMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeArtifactSet(t, dir)
	if err := os.Remove(filepath.Join(dir, gradientBoostingFile)); err != nil {
		t.Fatalf("remove fixture: %v", err)
	}

	if _, err := LoadArtifacts(dir); err == nil {
		t.Fatal("expected error for missing artifact file")
	}
}

func TestLoadArtifactsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	writeArtifactSet(t, dir)

	names := append([]string{}, models.FeatureNames...)
	names[1] = "BloodSugar"
	writeArtifactFile(t, dir, scalerFile, map[string]interface{}{
		"feature_names": names,
		"means":         []float64{0, 0, 0, 0, 0, 0, 0, 0},
		"stds":          []float64{1, 1, 1, 1, 1, 1, 1, 1},
	})

	if _, err := LoadArtifacts(dir); err == nil {
		t.Fatal("expected error for renamed feature column")
	}
}

func TestLoadArtifactsRejectsWrongWidth(t *testing.T) {
	dir := t.TempDir()
	writeArtifactSet(t, dir)

	writeArtifactFile(t, dir, imputerFile, map[string]interface{}{
		"feature_names": models.FeatureNames,
		"neighbors":     5,
		"samples": []interface{}{
			[]interface{}{0.0, 0.0},
		},
	})

	if _, err := LoadArtifacts(dir); err == nil {
		t.Fatal("expected error for imputer fitted on wrong width")
	}
}

func TestLoadArtifactsCorruptJSON(t *testing.T) {
	dir := t.TempDir()
	writeArtifactSet(t, dir)
	if err := os.WriteFile(filepath.Join(dir, randomForestFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadArtifacts(dir); err == nil {
		t.Fatal("expected error for corrupt artifact")
	}
}
