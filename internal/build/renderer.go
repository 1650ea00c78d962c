// Package build compiles stencil documents into output files.
//
// The renderer strips comments, splices fragment text into inclusion
// directives recursively, injects the client entry reference, and writes the
// result under the output root mirroring the document's location relative to
// the pages root. Rendering is deterministic: the same document and fragment
// contents always produce byte-identical output.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stencilhq/stencil/internal/errors"
	"github.com/stencilhq/stencil/internal/graph"
	"github.com/stencilhq/stencil/internal/logging"
	"github.com/stencilhq/stencil/internal/scanner"
)

// maxIncludeDepth bounds recursive fragment expansion. A fragment set that
// is cyclic at render time expands to nothing past this depth instead of
// recursing forever.
const maxIncludeDepth = 64

var entryPattern = regexp.MustCompile(`\bentry\(\s*\)`)

// Renderer compiles documents against graph snapshots.
type Renderer struct {
	pagesRoot    string
	partialsRoot string
	outputRoot   string
	entryRef     string
	logger       logging.Logger

	// fragments caches loaded fragment text for the snapshot it was
	// built from. The scheduler renders single-threaded, so a plain
	// pointer comparison is enough to invalidate it.
	snapshot  *graph.Graph
	fragments map[string]string
}

// NewRenderer creates a renderer. entryRef is the reference string injected
// for the entry() directive in rendered output.
func NewRenderer(pagesRoot, partialsRoot, outputRoot, entryRef string, logger logging.Logger) *Renderer {
	return &Renderer{
		pagesRoot:    pagesRoot,
		partialsRoot: partialsRoot,
		outputRoot:   outputRoot,
		entryRef:     entryRef,
		logger:       logger.WithComponent("renderer"),
	}
}

// BuildDocument compiles one document and writes its output file, creating
// any missing directories. A document missing from disk is a no-op: rebuild
// requests race with deletion during editing and that is not an error. The
// write is unconditional; idempotence for unchanged content is the concern
// of collaborators using WriteFileAtomic, not of document output.
func (r *Renderer) BuildDocument(ctx context.Context, doc string, g *graph.Graph) error {
	content, err := os.ReadFile(doc)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Debug(ctx, "document vanished before render", "document", doc)
			return nil
		}
		return errors.IOError("READ_DOCUMENT", doc, err)
	}

	fragments, err := r.fragmentSet(g)
	if err != nil {
		return err
	}

	rendered := r.render(doc, string(content), fragments)

	outPath, err := r.OutputPath(doc)
	if err != nil {
		return errors.RenderError(doc, err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return errors.IOError("MKDIR_OUTPUT", filepath.Dir(outPath), err)
	}
	if err := os.WriteFile(outPath, []byte(rendered), 0644); err != nil {
		return errors.IOError("WRITE_OUTPUT", outPath, err)
	}

	return nil
}

// OutputPath maps a document path to its output file: the same relative
// location under the output root with the template extension swapped for the
// output extension.
func (r *Renderer) OutputPath(doc string) (string, error) {
	rel, err := filepath.Rel(r.pagesRoot, doc)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("document %s is not under pages root %s", doc, r.pagesRoot)
	}
	rel = strings.TrimSuffix(rel, scanner.TemplateExt) + scanner.OutputExt
	return filepath.Join(r.outputRoot, rel), nil
}

// fragmentSet loads the text of every fragment in the snapshot, keyed by
// fragment identifier: the path relative to the partials root with the
// template extension stripped.
func (r *Renderer) fragmentSet(g *graph.Graph) (map[string]string, error) {
	if g == r.snapshot && r.fragments != nil {
		return r.fragments, nil
	}

	fragments := make(map[string]string, len(g.Fragments))
	for frag := range g.Fragments {
		content, err := os.ReadFile(frag)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.IOError("READ_FRAGMENT", frag, err)
		}
		fragments[r.fragmentID(frag)] = string(content)
	}

	r.snapshot = g
	r.fragments = fragments
	return fragments, nil
}

func (r *Renderer) fragmentID(path string) string {
	rel, err := filepath.Rel(r.partialsRoot, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, scanner.TemplateExt))
}

// render strips comments, expands inclusion directives, and injects the
// entry reference.
func (r *Renderer) render(doc, src string, fragments map[string]string) string {
	expanded := r.expand(doc, scanner.StripComments(src), fragments, 0)
	return entryPattern.ReplaceAllLiteralString(expanded, r.entryRef)
}

// expand splices fragment text into each inclusion directive of src, which
// belongs to the file at from. References resolve relative to the including
// file, exactly as the graph builder resolves them; a reference naming no
// known fragment expands to nothing, which is how a deleted fragment's
// content drops out of dependent documents.
func (r *Renderer) expand(from, src string, fragments map[string]string, depth int) string {
	if depth >= maxIncludeDepth {
		return ""
	}

	return scanner.ReplaceIncludes(src, func(ref string) string {
		target := scanner.ResolveInclude(from, ref)
		text, ok := fragments[r.fragmentID(target)]
		if !ok {
			return ""
		}
		return r.expand(target, scanner.StripComments(text), fragments, depth+1)
	})
}
