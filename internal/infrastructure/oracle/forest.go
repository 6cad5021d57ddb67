package oracle

import (
	"fmt"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
)

// LeafFeature marks a node as a leaf.
const LeafFeature = -1

// Node is one node of a regression tree. Internal nodes send a vector left
// when its feature value is <= Threshold.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Value     float64 `json:"value"`
}

// IsLeaf reports whether the node is a leaf.
func (n Node) IsLeaf() bool { return n.Feature == LeafFeature }

// Tree is a flattened regression tree rooted at node 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t Tree) validate() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.IsLeaf() {
			continue
		}
		if n.Feature < 0 || n.Feature >= model.FeatureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		// Children always come after their parent, which rules out cycles.
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d: child index %d out of range", i, child)
			}
		}
	}
	return nil
}

func (t Tree) predict(fv model.FeatureVector) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return n.Value
		}
		if fv[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Forest averages the output of its regression trees. It is immutable after
// construction and safe for concurrent use.
type Forest struct {
	trees []Tree
}

// NewForest validates the trees and builds a Forest.
func NewForest(trees []Tree) (*Forest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", ErrInvalidModel)
	}

	owned := make([]Tree, len(trees))
	for i, t := range trees {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", ErrInvalidModel, i, err)
		}
		owned[i] = Tree{Nodes: append([]Node(nil), t.Nodes...)}
	}

	return &Forest{trees: owned}, nil
}

// Predict returns the mean prediction of all trees.
func (f *Forest) Predict(fv model.FeatureVector) (float64, error) {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(fv)
	}
	return sum / float64(len(f.trees)), nil
}

// Size returns the number of trees.
func (f *Forest) Size() int { return len(f.trees) }
