// # internal/index/closure.go
package index

// Direction selects which edge relation a traversal follows.
type Direction int

const (
	// Forward follows imports: "files this file depends on".
	Forward Direction = iota
	// Backward follows importedBy: "files that depend on this file".
	Backward
)

// closureCache memoizes reachability sets per (path, direction). It is a
// performance memo only, never authoritative, and is dropped entirely
// whenever the graph mutates.
type closureCache struct {
	forward  map[string]map[string]struct{}
	backward map[string]map[string]struct{}
}

func newClosureCache() *closureCache {
	return &closureCache{
		forward:  make(map[string]map[string]struct{}),
		backward: make(map[string]map[string]struct{}),
	}
}

func (c *closureCache) bucket(dir Direction) map[string]map[string]struct{} {
	if dir == Forward {
		return c.forward
	}
	return c.backward
}

// reachable computes all distinct files reachable from start, excluding
// start itself. A visited set guards against cycles: a node already
// expanded is never re-expanded, so cycle participants are counted exactly
// once and traversal always terminates. Cached sets of intermediate nodes
// are unioned in instead of being re-traversed.
func (c *closureCache) reachable(g *Graph, start string, dir Direction) map[string]struct{} {
	memo := c.bucket(dir)
	if cached, ok := memo[start]; ok {
		return cached
	}

	adjacency := g.imports
	if dir == Backward {
		adjacency = g.importedBy
	}

	result := make(map[string]struct{})
	visited := map[string]struct{}{start: {}}
	queue := make([]string, 0, len(adjacency[start]))
	for next := range adjacency[start] {
		queue = append(queue, next)
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if _, seen := visited[curr]; seen {
			continue
		}
		visited[curr] = struct{}{}
		result[curr] = struct{}{}

		if cached, ok := memo[curr]; ok {
			for p := range cached {
				visited[p] = struct{}{}
				result[p] = struct{}{}
			}
			continue
		}

		for next := range adjacency[curr] {
			if _, seen := visited[next]; !seen {
				queue = append(queue, next)
			}
		}
	}

	// A node is never counted as reachable from itself, even inside a
	// cycle.
	delete(result, start)

	memo[start] = result
	return result
}

func (c *closureCache) invalidate() {
	c.forward = make(map[string]map[string]struct{})
	c.backward = make(map[string]map[string]struct{})
}
