// Package graph builds and queries the inclusion dependency graph for a
// stencil site.
//
// A Graph is an immutable snapshot of the template universe: every document
// under the pages root, every fragment under the partials root, and the
// inclusion edges between them. Snapshots are rebuilt wholesale on every
// rebuild cycle rather than patched incrementally; the corpus is small
// relative to flush latency and a full re-scan sidesteps edge-removal bugs.
package graph

import (
	"os"

	"github.com/stencilhq/stencil/internal/scanner"
)

// Graph is a snapshot of the inclusion relationships between template files.
// All paths are absolute. Includes and Dependents are exact transposes of
// one another: B is in Includes[A] iff A is in Dependents[B].
type Graph struct {
	// Documents are top-level templates that each produce one output file.
	Documents map[string]struct{}
	// Fragments are reusable templates producing no direct output.
	Fragments map[string]struct{}
	// Includes maps each file to the set of files it includes.
	Includes map[string]map[string]struct{}
	// Dependents maps each file to the set of files that include it.
	Dependents map[string]map[string]struct{}
}

// Build scans the pages and partials roots and produces a fresh snapshot.
// Inclusion references that do not resolve to an existing file are dropped:
// authors reference files that do not exist yet while editing, and the graph
// must absorb that without complaint. Filesystem failures other than "not
// found" are propagated.
func Build(pagesRoot, partialsRoot string) (*Graph, error) {
	documents, err := scanner.ListTemplates(pagesRoot)
	if err != nil {
		return nil, err
	}
	fragments, err := scanner.ListTemplates(partialsRoot)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		Documents:  make(map[string]struct{}, len(documents)),
		Fragments:  make(map[string]struct{}, len(fragments)),
		Includes:   make(map[string]map[string]struct{}),
		Dependents: make(map[string]map[string]struct{}),
	}
	for _, doc := range documents {
		g.Documents[doc] = struct{}{}
	}
	for _, frag := range fragments {
		g.Fragments[frag] = struct{}{}
	}

	scans, err := scanner.ScanFiles(append(documents, fragments...))
	if err != nil {
		return nil, err
	}

	for _, scan := range scans {
		for _, target := range scan.Refs {
			if _, err := os.Stat(target); err != nil {
				continue
			}
			g.addEdge(scan.Path, target)
		}
	}

	return g, nil
}

// addEdge records a forward edge and its reverse counterpart together so the
// two maps never diverge.
func (g *Graph) addEdge(from, to string) {
	if g.Includes[from] == nil {
		g.Includes[from] = make(map[string]struct{})
	}
	g.Includes[from][to] = struct{}{}

	if g.Dependents[to] == nil {
		g.Dependents[to] = make(map[string]struct{})
	}
	g.Dependents[to][from] = struct{}{}
}

// IsDocument reports whether path is a tracked top-level document.
func (g *Graph) IsDocument(path string) bool {
	_, ok := g.Documents[path]
	return ok
}

// DocumentList returns the tracked documents as a slice, in no particular
// order.
func (g *Graph) DocumentList() []string {
	docs := make([]string, 0, len(g.Documents))
	for doc := range g.Documents {
		docs = append(docs, doc)
	}
	return docs
}
