package inference

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/glycora-ai/platform/pkg/common/models"
	"github.com/glycora-ai/platform/pkg/ml/impute"
	"github.com/glycora-ai/platform/pkg/ml/scale"
	"github.com/glycora-ai/platform/pkg/ml/tree"
)

// Artifact file names expected in the artifact directory.
const (
	imputerFile          = "imputer.json"
	scalerFile           = "scaler.json"
	randomForestFile     = "random_forest.json"
	extraTreesFile       = "extra_trees.json"
	gradientBoostingFile = "gradient_boosting.json"
)

// Artifacts holds the frozen transforms and classifiers loaded once at
// process start. Instances are read-only after Load and safe for
// unsynchronized concurrent use across inference calls.
type Artifacts struct {
	Imputer          *impute.KNN
	Scaler           *scale.Standard
	RandomForest     tree.Forest
	ExtraTrees       tree.Forest
	GradientBoosting tree.GradientBoosted
}

type imputerArtifact struct {
	FeatureNames []string     `json:"feature_names"`
	Neighbors    int          `json:"neighbors"`
	Samples      [][]*float64 `json:"samples"`
}

type scalerArtifact struct {
	FeatureNames []string  `json:"feature_names"`
	Means        []float64 `json:"means"`
	Stds         []float64 `json:"stds"`
}

type forestArtifact struct {
	FeatureNames []string    `json:"feature_names"`
	Trees        []tree.Tree `json:"trees"`
}

type boostedArtifact struct {
	FeatureNames []string    `json:"feature_names"`
	BaseScore    float64     `json:"base_score"`
	LearningRate float64     `json:"learning_rate"`
	Trees        []tree.Tree `json:"trees"`
}

// LoadArtifacts reads every model artifact from dir and validates that each
// was fitted on the expected feature schema. Any missing file or schema
// mismatch is a startup-fatal condition for callers; no artifact is loaded
// lazily or refreshed afterwards.
func LoadArtifacts(dir string) (*Artifacts, error) {
	var imp imputerArtifact
	if err := readArtifact(dir, imputerFile, &imp); err != nil {
		return nil, err
	}
	if err := checkSchema(imputerFile, imp.FeatureNames); err != nil {
		return nil, err
	}
	samples := make([][]float64, len(imp.Samples))
	for i, row := range imp.Samples {
		samples[i] = make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				samples[i][j] = math.NaN()
			} else {
				samples[i][j] = *v
			}
		}
	}
	imputer, err := impute.NewKNN(imp.Neighbors, samples)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", imputerFile, err)
	}
	if imputer.Width() != models.FeatureCount {
		return nil, fmt.Errorf("artifact %s fitted on %d features, want %d", imputerFile, imputer.Width(), models.FeatureCount)
	}

	var sc scalerArtifact
	if err := readArtifact(dir, scalerFile, &sc); err != nil {
		return nil, err
	}
	if err := checkSchema(scalerFile, sc.FeatureNames); err != nil {
		return nil, err
	}
	scaler, err := scale.NewStandard(sc.Means, sc.Stds)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", scalerFile, err)
	}
	if scaler.Width() != models.FeatureCount {
		return nil, fmt.Errorf("artifact %s fitted on %d features, want %d", scalerFile, scaler.Width(), models.FeatureCount)
	}

	rf, err := loadForest(dir, randomForestFile)
	if err != nil {
		return nil, err
	}
	et, err := loadForest(dir, extraTreesFile)
	if err != nil {
		return nil, err
	}

	var gb boostedArtifact
	if err := readArtifact(dir, gradientBoostingFile, &gb); err != nil {
		return nil, err
	}
	if err := checkSchema(gradientBoostingFile, gb.FeatureNames); err != nil {
		return nil, err
	}
	if len(gb.Trees) == 0 {
		return nil, fmt.Errorf("artifact %s has no trees", gradientBoostingFile)
	}

	return &Artifacts{
		Imputer:          imputer,
		Scaler:           scaler,
		RandomForest:     rf,
		ExtraTrees:       et,
		GradientBoosting: tree.GradientBoosted{BaseScore: gb.BaseScore, LearningRate: gb.LearningRate, Trees: gb.Trees},
	}, nil
}

func loadForest(dir, name string) (tree.Forest, error) {
	var artifact forestArtifact
	if err := readArtifact(dir, name, &artifact); err != nil {
		return tree.Forest{}, err
	}
	if err := checkSchema(name, artifact.FeatureNames); err != nil {
		return tree.Forest{}, err
	}
	if len(artifact.Trees) == 0 {
		return tree.Forest{}, fmt.Errorf("artifact %s has no trees", name)
	}
	return tree.Forest{Trees: artifact.Trees}, nil
}

func readArtifact(dir, name string, dst interface{}) error {
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", name, err)
	}
	if err := json.Unmarshal(content, dst); err != nil {
		return fmt.Errorf("parse artifact %s: %w", name, err)
	}
	return nil
}

// checkSchema enforces that the artifact was fitted on the canonical feature
// columns in the canonical order.
func checkSchema(name string, names []string) error {
	if len(names) != len(models.FeatureNames) {
		return fmt.Errorf("artifact %s has %d feature names, want %d", name, len(names), len(models.FeatureNames))
	}
	for i, want := range models.FeatureNames {
		if names[i] != want {
			return fmt.Errorf("artifact %s feature %d is %q, want %q", name, i, names[i], want)
		}
	}
	return nil
}
