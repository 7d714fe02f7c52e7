package graph

import "errors"

var ErrCycleDetected = errors.New("cycle detected in graph")

func (g *Graph[K]) TopologicalSort() ([]K, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodeCount := len(g.nodes)
	dependents := make(map[K][]K, nodeCount)
	inDegree := make(map[K]int, nodeCount)

	for id := range g.nodes {
		inDegree[id] = 0
	}

	for id, deps := range g.edges {
		for _, dep := range deps {
			if _, exists := g.nodes[dep]; exists {
				dependents[dep] = append(dependents[dep], id)
				inDegree[id]++
			}
		}
	}

	var queue []K
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	var sorted []K
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(g.nodes) {
		return nil, ErrCycleDetected
	}

	return sorted, nil
}

func (g *Graph[K]) ReverseTopologicalSort() ([]K, error) {
	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	n := len(sorted)
	reversed := make([]K, n)
	for i, v := range sorted {
		reversed[n-1-i] = v
	}

	return reversed, nil
}

// StartupOrder is the order in which nodes can be instantiated so that every
// dependency precedes its dependents.
func (g *Graph[K]) StartupOrder() ([]K, error) {
	return g.TopologicalSort()
}

// ShutdownOrder is StartupOrder reversed: dependents tear down before the
// nodes they depend on.
func (g *Graph[K]) ShutdownOrder() ([]K, error) {
	return g.ReverseTopologicalSort()
}

// ResolutionOrder is the instantiation order for a single target: its
// transitive dependencies depth-first, target last.
func (g *Graph[K]) ResolutionOrder(target K) ([]K, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, exists := g.nodes[target]; !exists {
		return []K{target}, nil
	}

	visited := make(map[K]bool)
	visiting := make(map[K]bool)
	var order []K

	var visit func(id K) error
	visit = func(id K) error {
		if visiting[id] {
			return ErrCycleDetected
		}
		if visited[id] {
			return nil
		}

		visiting[id] = true

		for _, dep := range g.edges[id] {
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		visiting[id] = false
		visited[id] = true
		order = append(order, id)
		return nil
	}

	if err := visit(target); err != nil {
		return nil, err
	}

	return order, nil
}
