// Package graph builds the control-flow graph of a disassembled script from
// the transfers the disassembler followed.
package graph

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"evscript/internal/script"
)

// Flow is a directed graph keyed by byte address.
type Flow = graph.Graph[int, int]

// Build turns the recorded edges of s into a graph. Every entrypoint is a
// vertex even when nothing leaves it. Vertices are labelled with the first
// label at their address, edges with their kind.
func Build(s *script.Script) (Flow, error) {
	g := graph.New(graph.IntHash, graph.Directed())

	addVertex := func(addr int) error {
		name := fmt.Sprintf("%06x", addr)
		if names := s.Labels[addr]; len(names) > 0 {
			name = names[0]
		}
		err := g.AddVertex(addr, graph.VertexAttribute("label", name))
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return err
		}
		return nil
	}

	for _, ep := range s.Entrypoints {
		if err := addVertex(ep); err != nil {
			return nil, err
		}
	}

	for _, e := range s.Edges {
		if err := addVertex(e.From); err != nil {
			return nil, err
		}
		if err := addVertex(e.To); err != nil {
			return nil, err
		}
		err := g.AddEdge(e.From, e.To, graph.EdgeAttribute("label", e.Kind.String()))
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("failed to add edge %#x -> %#x: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// Reachable returns every vertex reachable from start, in address order.
func Reachable(g Flow, start int) ([]int, error) {
	var out []int
	err := graph.BFS(g, start, func(addr int) bool {
		out = append(out, addr)
		return false
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(out)
	return out, nil
}

// Path returns the shortest chain of transfers from one address to another.
func Path(g Flow, from, to int) ([]int, error) {
	return graph.ShortestPath(g, from, to)
}

// WriteDOT renders g in Graphviz format.
func WriteDOT(w io.Writer, g Flow) error {
	return draw.DOT(g, w, draw.GraphAttribute("rankdir", "TB"))
}
