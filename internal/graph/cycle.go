package graph

type cycleDetector[K comparable] struct {
	graph   *Graph[K]
	index   int
	stack   []K
	onStack map[K]bool
	indices map[K]int
	lowlink map[K]int
	sccs    [][]K
}

// DetectCycles returns every strongly connected component that forms a cycle,
// including single nodes that depend on themselves.
func (g *Graph[K]) DetectCycles() [][]K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	detector := &cycleDetector[K]{
		graph:   g,
		onStack: make(map[K]bool),
		indices: make(map[K]int),
		lowlink: make(map[K]int),
	}

	for id := range g.nodes {
		if _, visited := detector.indices[id]; !visited {
			detector.strongConnect(id)
		}
	}

	var cycles [][]K
	for _, scc := range detector.sccs {
		if len(scc) > 1 {
			cycles = append(cycles, scc)
		} else if len(scc) == 1 {
			id := scc[0]
			for _, dep := range g.edges[id] {
				if dep == id {
					cycles = append(cycles, scc)
					break
				}
			}
		}
	}

	return cycles
}

func (d *cycleDetector[K]) strongConnect(id K) {
	d.indices[id] = d.index
	d.lowlink[id] = d.index
	d.index++
	d.stack = append(d.stack, id)
	d.onStack[id] = true

	for _, dep := range d.graph.edges[id] {
		if _, exists := d.graph.nodes[dep]; !exists {
			continue
		}

		if _, visited := d.indices[dep]; !visited {
			d.strongConnect(dep)
			d.lowlink[id] = min(d.lowlink[id], d.lowlink[dep])
		} else if d.onStack[dep] {
			d.lowlink[id] = min(d.lowlink[id], d.indices[dep])
		}
	}

	if d.lowlink[id] == d.indices[id] {
		var scc []K
		for {
			n := len(d.stack) - 1
			w := d.stack[n]
			d.stack = d.stack[:n]
			d.onStack[w] = false
			scc = append(scc, w)
			if w == id {
				break
			}
		}
		d.sccs = append(d.sccs, scc)
	}
}

func (g *Graph[K]) HasCycle() bool {
	g.mu.RLock()
	if g.cycleValid {
		result := g.hasCycle
		g.mu.RUnlock()
		return result
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cycleValid {
		return g.hasCycle
	}

	g.hasCycle = g.hasCycleUnsafe()
	g.cycleValid = true
	return g.hasCycle
}

func (g *Graph[K]) hasCycleUnsafe() bool {
	white := make(map[K]bool, len(g.nodes))
	gray := make(map[K]bool, len(g.nodes))

	for id := range g.nodes {
		white[id] = true
	}

	var dfs func(id K) bool
	dfs = func(id K) bool {
		white[id] = false
		gray[id] = true

		for _, dep := range g.edges[id] {
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			if gray[dep] {
				return true
			}
			if white[dep] && dfs(dep) {
				return true
			}
		}

		gray[id] = false
		return false
	}

	for id := range g.nodes {
		if white[id] {
			if dfs(id) {
				return true
			}
		}
	}

	return false
}

// FindCyclePath returns one concrete cycle reachable from start, as a path
// whose first and last element coincide, or nil if none is reachable.
func (g *Graph[K]) FindCyclePath(start K) []K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[K]bool)
	path := make([]K, 0)
	inPath := make(map[K]bool)

	var dfs func(id K) []K
	dfs = func(id K) []K {
		if inPath[id] {
			cyclePath := make([]K, 0)
			found := false
			for _, p := range path {
				if p == id {
					found = true
				}
				if found {
					cyclePath = append(cyclePath, p)
				}
			}
			cyclePath = append(cyclePath, id)
			return cyclePath
		}

		if visited[id] {
			return nil
		}

		visited[id] = true
		path = append(path, id)
		inPath[id] = true

		for _, dep := range g.edges[id] {
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		inPath[id] = false
		return nil
	}

	return dfs(start)
}

func (g *Graph[K]) GetAllCyclePaths() [][]K {
	cycles := g.DetectCycles()
	if len(cycles) == 0 {
		return nil
	}

	var allPaths [][]K
	for _, scc := range cycles {
		if len(scc) > 0 {
			path := g.FindCyclePath(scc[0])
			if path != nil {
				allPaths = append(allPaths, path)
			}
		}
	}

	return allPaths
}
