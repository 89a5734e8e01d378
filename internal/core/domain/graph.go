// Package domain contains the core value types and errors of the argument engine.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrNodeAlreadyExists is returned when a node with the same name is added twice.
	ErrNodeAlreadyExists = zerr.New("node already exists")

	// ErrMissingDependency is returned when a node references a name absent from the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when the static dependency graph contains a cycle.
	ErrCycleDetected = zerr.New("cycle detected")
)

// Node is an argument seen as a vertex of the static dependency graph.
type Node struct {
	Name         InternedString
	Dependencies []InternedString
}

// Graph is the static dependency graph of a catalog. It is used for planning and
// diagnostics only; runtime cycle detection happens during resolution.
type Graph struct {
	nodes          map[InternedString]Node
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[InternedString]Node),
	}
}

// AddNode adds a node to the graph.
// It returns an error if a node with the same name already exists.
func (g *Graph) AddNode(n *Node) error {
	if _, exists := g.nodes[n.Name]; exists {
		return zerr.With(zerr.Wrap(ErrNodeAlreadyExists, "cannot add node"), "name", n.Name.String())
	}
	g.nodes[n.Name] = *n
	return nil
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Validate checks for cycles using a depth-first topological sort and populates
// the execution order, dependencies first.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.nodes))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		node, exists := g.nodes[u]
		if !exists {
			return zerr.With(zerr.Wrap(ErrMissingDependency, "cannot order graph"), "dependency", u.String())
		}

		for _, dep := range node.Dependencies {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	// Sorted roots keep plans stable between runs.
	names := make([]InternedString, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})

	for _, name := range names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	start := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-start+1)
	for _, node := range path[start:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(zerr.Wrap(ErrCycleDetected, "cannot order graph"), "cycle", FormatCycle(parts))
}

// FormatCycle renders a cycle path as "a -> b -> a".
func FormatCycle(names []string) string {
	return strings.Join(names, " -> ")
}

// Walk returns an iterator that yields nodes in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.nodes[name]) {
				return
			}
		}
	}
}
