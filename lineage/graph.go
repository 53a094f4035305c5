package lineage

// Graph is the deduplicated dependency graph of a lineage extract.
// It is read-only once built.
type Graph struct {
	// Nodes lists every parent and child in first-seen order.
	Nodes []string
	// Adjacency maps a node to its distinct children in insertion order.
	Adjacency map[string][]string
	// InDegree counts distinct parents per node. Every node has an entry.
	InDegree map[string]int

	edges []Edge
	first map[pair]Edge
}

// BuildGraph deduplicates edges by (parent, child). The first occurrence of
// a pair wins; later ones leave adjacency and in-degree untouched. The raw
// edge list is retained for Edges.
func BuildGraph(edges []Edge) *Graph {
	g := &Graph{
		Adjacency: make(map[string][]string),
		InDegree:  make(map[string]int),
		edges:     edges,
		first:     make(map[pair]Edge, len(edges)),
	}

	for _, e := range edges {
		g.addNode(e.Parent)
		g.addNode(e.Child)

		k := e.key()
		if _, dup := g.first[k]; dup {
			continue
		}
		g.first[k] = e
		g.Adjacency[e.Parent] = append(g.Adjacency[e.Parent], e.Child)
		g.InDegree[e.Child]++
	}
	return g
}

func (g *Graph) addNode(name string) {
	if _, ok := g.InDegree[name]; ok {
		return
	}
	g.InDegree[name] = 0
	g.Nodes = append(g.Nodes, name)
}

// Edge returns the first occurrence of parent -> child.
func (g *Graph) Edge(parent, child string) (Edge, bool) {
	e, ok := g.first[pair{parent, child}]
	return e, ok
}

// Edges returns the raw edges the graph was built from, duplicates included.
func (g *Graph) Edges() []Edge { return g.edges }

// Len returns the number of distinct nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// Children returns the distinct children of node.
func (g *Graph) Children(node string) []string { return g.Adjacency[node] }

// Parents returns the distinct parents of node in first-seen order.
func (g *Graph) Parents(node string) []string {
	var parents []string
	for _, n := range g.Nodes {
		for _, c := range g.Adjacency[n] {
			if c == node {
				parents = append(parents, n)
				break
			}
		}
	}
	return parents
}
