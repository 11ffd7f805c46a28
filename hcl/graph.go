// Package hcl realizes the contract of the declarative hardware-control
// signal language as a constructive Go builder API: architecture wiring
// code registers unit nodes and intermediate signals (with explicit
// read/write dependency lists) and gets back a static topological order
// and its cycle cost, exactly the artifacts the original declarative
// compiler would have produced from parsed signal definitions.
package hcl

import "fmt"

type nodeKind int

const (
	kindUnit nodeKind = iota
	kindIntermediate
)

type node struct {
	name string
	kind nodeKind
}

// Graph is the static dataflow graph: unit nodes and intermediate-signal
// nodes connected by producer->consumer edges. Stage-register
// destinations never appear as edges here -- they are mux targets
// consumed only at the cycle boundary, which is what keeps this graph
// acyclic despite the logical feedback pipeline registers introduce.
type Graph struct {
	nodes map[string]*node
	order []string
	edges map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: map[string]*node{}, edges: map[string][]string{}}
}

// AddUnit registers a unit node. Safe to call more than once for the same
// name.
func (g *Graph) AddUnit(name string) {
	g.addNode(name, kindUnit)
}

func (g *Graph) addNode(name string, kind nodeKind) {
	if _, ok := g.nodes[name]; ok {
		return
	}
	g.nodes[name] = &node{name: name, kind: kind}
	g.order = append(g.order, name)
}

// AddIntermediate registers an intermediate signal named name. reads lists
// the producer node names (unit names, whose output ports feed this
// signal, or other intermediate names) this signal's source expression
// depends on. writesUnitInput lists the unit node names this signal feeds
// as an input. Next-stage destinations are deliberately not represented
// as edges (see the Graph doc comment).
func (g *Graph) AddIntermediate(name string, reads []string, writesUnitInput []string) {
	g.addNode(name, kindIntermediate)
	for _, r := range reads {
		g.edges[r] = append(g.edges[r], name)
	}
	for _, w := range writesUnitInput {
		g.edges[name] = append(g.edges[name], w)
	}
}

// OrderNode is one scheduled node of a built Order.
type OrderNode struct {
	Name   string
	IsUnit bool
}

// Order is the immutable, once-computed topological schedule of a
// Graph, together with its cycle cost.
type Order struct {
	Nodes   []OrderNode
	MaxDist int
}

// Build computes the topological order via Kahn's algorithm, and the
// cycle cost (max_dist): the number of unit nodes on the longest
// dependency chain. It fails if the graph has a cycle.
func (g *Graph) Build() (*Order, error) {
	indeg := make(map[string]int, len(g.order))
	for _, n := range g.order {
		indeg[n] = 0
	}
	for _, consumers := range g.edges {
		for _, c := range consumers {
			indeg[c]++
		}
	}

	queue := make([]string, 0, len(g.order))
	for _, n := range g.order {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}

	dist := map[string]int{}
	result := make([]OrderNode, 0, len(g.order))

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		nd := g.nodes[n]

		if nd.kind == kindUnit && dist[n] == 0 {
			dist[n] = 1
		}

		result = append(result, OrderNode{Name: n, IsUnit: nd.kind == kindUnit})

		for _, c := range g.edges[n] {
			cand := dist[n]
			if g.nodes[c].kind == kindUnit {
				cand++
			}
			if cand > dist[c] {
				dist[c] = cand
			}
			indeg[c]--
			if indeg[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(result) != len(g.order) {
		return nil, fmt.Errorf("hcl: dataflow graph has a cycle")
	}

	maxDist := 0
	for _, n := range g.order {
		if g.nodes[n].kind == kindUnit && dist[n] > maxDist {
			maxDist = dist[n]
		}
	}

	return &Order{Nodes: result, MaxDist: maxDist}, nil
}
