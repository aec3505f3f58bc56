package tree

import (
	"math"
	"testing"
)

func splitTree() Tree {
	return Tree{Nodes: []Node{
		{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
		{Feature: -1, Value: []float64{3, 1}},
		{Feature: -1, Value: []float64{0, 4}},
	}}
}

func TestLeafRouting(t *testing.T) {
	tr := splitTree()

	// <= threshold routes left.
	leaf, err := tr.Leaf([]float64{0.5})
	if err != nil {
		t.Fatalf("Leaf failed: %v", err)
	}
	if leaf.Value[0] != 3 {
		t.Fatalf("expected left leaf, got %v", leaf.Value)
	}

	leaf, err = tr.Leaf([]float64{0.6})
	if err != nil {
		t.Fatalf("Leaf failed: %v", err)
	}
	if leaf.Value[1] != 4 {
		t.Fatalf("expected right leaf, got %v", leaf.Value)
	}
}

func TestLeafErrors(t *testing.T) {
	if _, err := (Tree{}).Leaf([]float64{1}); err == nil {
		t.Fatal("expected error for empty tree")
	}

	tr := splitTree()
	if _, err := tr.Leaf(nil); err == nil {
		t.Fatal("expected error for out-of-range feature index")
	}

	bad := Tree{Nodes: []Node{{Feature: 0, Threshold: 0, Left: 5, Right: 5}}}
	if _, err := bad.Leaf([]float64{1}); err == nil {
		t.Fatal("expected error for out-of-range child index")
	}
}

func TestForestAveragesTrees(t *testing.T) {
	forest := Forest{Trees: []Tree{
		{Nodes: []Node{{Feature: -1, Value: []float64{3, 1}}}},
		{Nodes: []Node{{Feature: -1, Value: []float64{0, 4}}}},
	}}

	p, err := forest.PredictPositiveProbability([]float64{0})
	if err != nil {
		t.Fatalf("PredictPositiveProbability failed: %v", err)
	}
	if p != 0.625 {
		t.Fatalf("expected mean 0.625, got %v", p)
	}
}

func TestForestErrors(t *testing.T) {
	if _, err := (Forest{}).PredictPositiveProbability([]float64{0}); err == nil {
		t.Fatal("expected error for empty forest")
	}

	badLeaf := Forest{Trees: []Tree{{Nodes: []Node{{Feature: -1, Value: []float64{1}}}}}}
	if _, err := badLeaf.PredictPositiveProbability([]float64{0}); err == nil {
		t.Fatal("expected error for non-classification leaf")
	}

	zeroWeight := Forest{Trees: []Tree{{Nodes: []Node{{Feature: -1, Value: []float64{0, 0}}}}}}
	if _, err := zeroWeight.PredictPositiveProbability([]float64{0}); err == nil {
		t.Fatal("expected error for zero-weight leaf")
	}
}

func TestGradientBoostedSigmoidLink(t *testing.T) {
	gb := GradientBoosted{
		BaseScore:    -0.5,
		LearningRate: 0.5,
		Trees: []Tree{
			{Nodes: []Node{{Feature: -1, Value: []float64{1}}}},
			{Nodes: []Node{{Feature: -1, Value: []float64{2}}}},
		},
	}

	p, err := gb.PredictPositiveProbability([]float64{0})
	if err != nil {
		t.Fatalf("PredictPositiveProbability failed: %v", err)
	}
	want := 1 / (1 + math.Exp(-1.0))
	if math.Abs(p-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, p)
	}
}

func TestGradientBoostedDefaultsLearningRate(t *testing.T) {
	gb := GradientBoosted{Trees: []Tree{
		{Nodes: []Node{{Feature: -1, Value: []float64{0}}}},
	}}

	p, err := gb.PredictPositiveProbability([]float64{0})
	if err != nil {
		t.Fatalf("PredictPositiveProbability failed: %v", err)
	}
	if p != 0.5 {
		t.Fatalf("expected sigmoid(0)=0.5, got %v", p)
	}
}

func TestGradientBoostedErrors(t *testing.T) {
	if _, err := (GradientBoosted{}).PredictPositiveProbability([]float64{0}); err == nil {
		t.Fatal("expected error for empty ensemble")
	}

	bad := GradientBoosted{Trees: []Tree{{Nodes: []Node{{Feature: -1, Value: []float64{1, 2}}}}}}
	if _, err := bad.PredictPositiveProbability([]float64{0}); err == nil {
		t.Fatal("expected error for non-regression leaf")
	}
}
