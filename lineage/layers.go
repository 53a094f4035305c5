package lineage

// Plan is the layered execution order for a graph.
type Plan struct {
	// Layers holds every layer in execution order. When the graph has a
	// cycle, the last layer is the remainder.
	Layers [][]string
	// Remainder holds the nodes never released by in-degree propagation,
	// in first-seen order. Empty for an acyclic graph.
	Remainder []string
}

// HasCycle reports whether some nodes could only be scheduled as remainder.
func (p Plan) HasCycle() bool { return len(p.Remainder) > 0 }

// Order flattens the layers into a single sequence, keeping the first
// occurrence of each node.
func (p Plan) Order() []string {
	seen := make(map[string]bool)
	var order []string
	for _, layer := range p.Layers {
		for _, n := range layer {
			if seen[n] {
				continue
			}
			seen[n] = true
			order = append(order, n)
		}
	}
	return order
}

// LayerOf returns the index of the layer holding node.
func (p Plan) LayerOf(node string) (int, bool) {
	for i, layer := range p.Layers {
		for _, n := range layer {
			if n == node {
				return i, true
			}
		}
	}
	return 0, false
}

// Layers builds the graph for edges and returns its plan.
func Layers(edges []Edge) Plan {
	return BuildGraph(edges).Layers()
}

// Layers runs breadth-first Kahn layering over g. Layer 0 holds the nodes
// with in-degree 0; each following layer holds the children whose
// in-degree dropped to 0 while the previous layer was removed. Nodes left
// over form one trailing layer. g is not modified.
func (g *Graph) Layers() Plan {
	indeg := make(map[string]int, len(g.InDegree))
	for n, d := range g.InDegree {
		indeg[n] = d
	}

	var queue []string
	for _, n := range g.Nodes {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}

	var plan Plan
	seen := make(map[string]bool, len(g.Nodes))
	for len(queue) > 0 {
		plan.Layers = append(plan.Layers, queue)

		var next []string
		for _, n := range queue {
			seen[n] = true
			for _, c := range g.Adjacency[n] {
				indeg[c]--
				if indeg[c] == 0 {
					next = append(next, c)
				}
			}
		}
		queue = next
	}

	for _, n := range g.Nodes {
		if !seen[n] {
			plan.Remainder = append(plan.Remainder, n)
		}
	}
	if len(plan.Remainder) > 0 {
		plan.Layers = append(plan.Layers, plan.Remainder)
	}
	return plan
}
