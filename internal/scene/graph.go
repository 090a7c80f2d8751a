package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Graph is an in-memory scene graph that maps node names to their local
// 4x4 transforms. It is safe for concurrent use.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*mat.Dense
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*mat.Dense),
	}
}

// Upsert stores a copy of transform under name, replacing any previous one.
func (g *Graph) Upsert(name string, transform mat.Matrix) error {
	if name == "" {
		return errors.New("scene: node name is empty")
	}
	if isNil(transform) {
		return fmt.Errorf("scene: node %q: transform is nil", name)
	}
	if r, c := transform.Dims(); r != 4 || c != 4 {
		return fmt.Errorf("scene: node %q: transform must be 4x4, got %dx%d", name, r, c)
	}

	m := mat.DenseCopyOf(transform)
	g.mu.Lock()
	g.nodes[name] = m
	g.mu.Unlock()
	return nil
}

func isNil(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	d, ok := m.(*mat.Dense)
	return ok && d == nil
}

// Lookup returns a copy of the transform stored under name.
func (g *Graph) Lookup(name string) (*mat.Dense, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.nodes[name]
	if !ok {
		return nil, false
	}
	return mat.DenseCopyOf(m), true
}

// Names returns the node names in sorted order.
func (g *Graph) Names() []string {
	g.mu.RLock()
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	g.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}
