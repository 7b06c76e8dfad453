// Package model loads the trained random-forest artifacts and evaluates them.
package model

import (
	"errors"
	"fmt"
)

// TreeNode is one node in a regression tree, stored as a flat array entry.
// Internal nodes route on Threshold; leaves carry the predicted Value.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	Left       int     `json:"left"`
	Right      int     `json:"right"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

// Tree is a single regression tree as a flat node array rooted at index 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Forest is a random-forest regressor: the prediction is the mean of the
// per-tree predictions.
type Forest struct {
	name  string
	trees []Tree
}

// NewForest builds a forest from deserialized trees. An empty forest cannot
// predict anything and is rejected.
func NewForest(name string, trees []Tree) (*Forest, error) {
	if len(trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	for i, tree := range trees {
		if len(tree.Nodes) == 0 {
			return nil, fmt.Errorf("tree %d has no nodes", i)
		}
	}
	return &Forest{name: name, trees: trees}, nil
}

// Name returns the model name recorded in the artifact, e.g. "Random Forest".
func (f *Forest) Name() string {
	return f.name
}

// NumTrees returns the ensemble size.
func (f *Forest) NumTrees() int {
	return len(f.trees)
}

// Predict evaluates the forest on a feature vector and returns the mean of
// the per-tree outputs. Errors indicate a malformed vector or a corrupt tree,
// both internal failures: the caller has already validated user input.
func (f *Forest) Predict(features []float64) (float64, error) {
	var sum float64
	for i := range f.trees {
		v, err := predictTree(&f.trees[i], features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return sum / float64(len(f.trees)), nil
}

// predictTree walks a tree iteratively from the root. Visits are bounded by
// the node count so a cyclic artifact cannot loop forever.
func predictTree(tree *Tree, features []float64) (float64, error) {
	idx := 0
	for steps := 0; steps <= len(tree.Nodes); steps++ {
		if idx < 0 || idx >= len(tree.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		node := &tree.Nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, fmt.Errorf("feature index %d out of range for vector of length %d", node.FeatureIdx, len(features))
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return 0, errors.New("tree walk exceeded node count, tree is cyclic")
}
