// # internal/index/detect.go
package index

// Cycles finds import cycles via depth-first traversal with an explicit
// recursion stack. Each cycle is reported once, as a closed walk whose
// first and last element are the same node: a direct self-import is
// [A A], an N-node cycle has length N+1. Acyclic graphs yield an empty
// list.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	for _, node := range g.Nodes() {
		if !visited[node] {
			g.findCycles(node, visited, onStack, []string{}, &cycles)
		}
	}

	return cycles
}

func (g *Graph) findCycles(curr string, visited, onStack map[string]bool, path []string, cycles *[][]string) {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	for _, next := range sortedKeys(g.imports[curr]) {
		if onStack[next] {
			start := -1
			for i, p := range path {
				if p == next {
					start = i
					break
				}
			}
			if start != -1 {
				cycle := make([]string, 0, len(path)-start+1)
				cycle = append(cycle, path[start:]...)
				cycle = append(cycle, next)
				*cycles = append(*cycles, cycle)
			}
		} else if !visited[next] {
			g.findCycles(next, visited, onStack, path, cycles)
		}
	}

	onStack[curr] = false
}
