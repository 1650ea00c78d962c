package graph

import (
	"path/filepath"
	"sort"
)

// Impact computes the documents that must be recompiled after the given
// files changed: every document transitively reachable from a changed path
// via reverse edges, plus any changed path that is itself a document.
//
// Traversal is breadth-first over Dependents with a visited set, so an
// inclusion cycle cannot hang the analysis. An empty result means the impact
// is unknown (a changed path the graph has never seen), and callers must
// fall back to recompiling every document rather than doing nothing.
func (g *Graph) Impact(changed []string) []string {
	frontier := make([]string, 0, len(changed))
	for _, path := range changed {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		frontier = append(frontier, path)
	}

	visited := make(map[string]struct{})
	impacted := make(map[string]struct{})

	for len(frontier) > 0 {
		path := frontier[0]
		frontier = frontier[1:]

		if _, seen := visited[path]; seen {
			continue
		}
		visited[path] = struct{}{}

		if g.IsDocument(path) {
			impacted[path] = struct{}{}
		}
		for dependent := range g.Dependents[path] {
			if _, seen := visited[dependent]; !seen {
				frontier = append(frontier, dependent)
			}
		}
	}

	result := make([]string, 0, len(impacted))
	for doc := range impacted {
		result = append(result, doc)
	}
	sort.Strings(result)
	return result
}
