package graph

import "sync"

// Node is a single vertex with its outgoing dependency edges.
type Node[K comparable] struct {
	ID           K
	Dependencies []K
}

// Graph is a directed dependency graph keyed by an arbitrary comparable
// identity. Edges point from a node to the nodes it depends on.
type Graph[K comparable] struct {
	mu         sync.RWMutex
	nodes      map[K]*Node[K]
	edges      map[K][]K
	cycleValid bool
	hasCycle   bool
}

func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		nodes: make(map[K]*Node[K]),
		edges: make(map[K][]K),
	}
}

// AddNode inserts or replaces a node. Replacing is deliberate: declaration
// semantics in the engine are last-wins per key.
func (g *Graph[K]) AddNode(id K, dependencies []K) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes[id] = &Node[K]{
		ID:           id,
		Dependencies: dependencies,
	}
	g.edges[id] = dependencies
	g.cycleValid = false
}

func (g *Graph[K]) RemoveNode(id K) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.nodes, id)
	delete(g.edges, id)
	g.cycleValid = false
}

func (g *Graph[K]) HasNode(id K) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.nodes[id]
	return exists
}

func (g *Graph[K]) GetDependencies(id K) []K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps, exists := g.edges[id]
	if !exists {
		return nil
	}

	result := make([]K, len(deps))
	copy(result, deps)
	return result
}

func (g *Graph[K]) GetDependents(id K) []K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []K
	for nodeID, deps := range g.edges {
		for _, dep := range deps {
			if dep == id {
				dependents = append(dependents, nodeID)
				break
			}
		}
	}
	return dependents
}

func (g *Graph[K]) Nodes() []K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]K, 0, len(g.nodes))
	for id := range g.nodes {
		nodes = append(nodes, id)
	}
	return nodes
}

func (g *Graph[K]) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

func (g *Graph[K]) Clone() *Graph[K] {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := New[K]()
	for id, node := range g.nodes {
		deps := make([]K, len(node.Dependencies))
		copy(deps, node.Dependencies)
		clone.nodes[id] = &Node[K]{
			ID:           node.ID,
			Dependencies: deps,
		}
		clone.edges[id] = deps
	}
	return clone
}

// Validate returns the dependency keys that are referenced by edges but have
// no node of their own. Keys satisfied elsewhere (for example by a parent
// scope) can be excluded via known.
func (g *Graph[K]) Validate(known func(K) bool) []K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []K
	seen := make(map[K]bool)

	for _, deps := range g.edges {
		for _, dep := range deps {
			if _, exists := g.nodes[dep]; exists || seen[dep] {
				continue
			}
			if known != nil && known(dep) {
				continue
			}
			missing = append(missing, dep)
			seen[dep] = true
		}
	}

	return missing
}
