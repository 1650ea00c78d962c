package scanner

import (
	"os"
	"path/filepath"
	"strings"
)

// TemplateExt is the extension of stencil template sources. OutputExt is the
// extension compiled documents are written with.
const (
	TemplateExt = ".tmpl"
	OutputExt   = ".html"
)

// ResolveInclude maps a textual inclusion reference to an absolute candidate
// path, resolving relative to the directory of the including file the way
// relative links in documents normally work.
//
// A reference that already carries the template extension is used as-is.
// Otherwise the extension-appended form is preferred; if that candidate is
// missing but the bare reference names an existing file, the bare form wins.
// Resolution never fails: existence of the final candidate is the caller's
// concern, because authors legitimately reference files that do not exist
// yet while editing.
func ResolveInclude(includingFile, ref string) string {
	base := filepath.Dir(includingFile)
	candidate := filepath.Join(base, ref)

	if strings.HasSuffix(ref, TemplateExt) {
		return candidate
	}

	withExt := candidate + TemplateExt
	if _, err := os.Stat(withExt); err == nil {
		return withExt
	}
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return withExt
}
