package tree

import (
	"errors"
	"fmt"
)

// Node is one entry of a flat-array decision tree. Internal nodes route on
// sample[Feature] <= Threshold; a node with Feature < 0 is a leaf and Value
// holds its payload (class weights for classification trees, a single
// regression value for boosted trees).
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

// Tree is a single frozen decision tree rooted at Nodes[0].
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Leaf walks the tree for sample and returns the leaf node reached.
func (t Tree) Leaf(sample []float64) (Node, error) {
	if len(t.Nodes) == 0 {
		return Node{}, errors.New("tree has no nodes")
	}
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := t.Nodes[idx]
		if node.Feature < 0 {
			return node, nil
		}
		if node.Feature >= len(sample) {
			return Node{}, fmt.Errorf("tree references feature %d but sample has %d values", node.Feature, len(sample))
		}
		if sample[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return Node{}, fmt.Errorf("tree child index %d out of range", idx)
		}
	}
	return Node{}, errors.New("tree walk did not terminate")
}

// positiveFraction interprets a classification leaf's Value as class weights
// [negative, positive] and returns the positive share.
func positiveFraction(leaf Node) (float64, error) {
	if len(leaf.Value) != 2 {
		return 0, fmt.Errorf("classification leaf has %d values, want 2", len(leaf.Value))
	}
	total := leaf.Value[0] + leaf.Value[1]
	if total <= 0 {
		return 0, errors.New("classification leaf has non-positive weight")
	}
	return leaf.Value[1] / total, nil
}
