package model

import (
	"context"
	"fmt"
	"slices"
)

const leafChild = -1

var defaultClasses = []int{0, 1}

// Tree is a single decision tree laid out as a flat node list, root first.
type Tree struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
}

// Node is either a split (Left and Right set) or a leaf (both -1) carrying
// per-class weights in Value.
type Node struct {
	Feature   int       `json:"feature" yaml:"feature"`
	Threshold float64   `json:"threshold" yaml:"threshold"`
	Left      int       `json:"left" yaml:"left"`
	Right     int       `json:"right" yaml:"right"`
	Value     []float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

func (n *Node) isLeaf() bool {
	return n.Left == leafChild && n.Right == leafChild
}

type forest struct {
	features []string
	classes  []int
	trees    []Tree
}

func newForest(a *Artifact) (*forest, error) {
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("forest model has no trees")
	}

	classes := a.Classes
	if len(classes) == 0 {
		classes = defaultClasses
	}

	for ti, t := range a.Trees {
		if err := validateTree(t, len(a.Features), len(classes)); err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
	}

	return &forest{
		features: slices.Clone(a.Features),
		classes:  slices.Clone(classes),
		trees:    a.Trees,
	}, nil
}

// validateTree makes sure traversal terminates: children always point
// forward in the node list.
func validateTree(t Tree, width, classes int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, n := range t.Nodes {
		if n.isLeaf() {
			if len(n.Value) != classes {
				return fmt.Errorf("leaf %d has %d values, expected %d", i, len(n.Value), classes)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return fmt.Errorf("node %d splits on feature %d of %d", i, n.Feature, width)
		}
		for _, c := range []int{n.Left, n.Right} {
			if c <= i || c >= len(t.Nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, c)
			}
		}
	}
	return nil
}

func (f *forest) Features() []string {
	return slices.Clone(f.features)
}

func (f *forest) Predict(_ context.Context, rows [][]float64) ([]int, error) {
	if err := checkWidth(rows, len(f.features)); err != nil {
		return nil, err
	}

	out := make([]int, len(rows))
	for i, row := range rows {
		out[i] = f.classes[argmax(f.proba(row))]
	}
	return out, nil
}

// proba averages the normalized leaf distributions of all trees.
func (f *forest) proba(row []float64) []float64 {
	p := make([]float64, len(f.classes))
	for _, t := range f.trees {
		leaf := t.leaf(row)
		var sum float64
		for _, v := range leaf.Value {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for k, v := range leaf.Value {
			p[k] += v / sum
		}
	}
	return p
}

func (t Tree) leaf(row []float64) *Node {
	n := &t.Nodes[0]
	for !n.isLeaf() {
		if row[n.Feature] <= n.Threshold {
			n = &t.Nodes[n.Left]
		} else {
			n = &t.Nodes[n.Right]
		}
	}
	return n
}

// argmax returns the first index of the largest value.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
