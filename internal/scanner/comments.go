// Package scanner provides template source analysis for stencil documents.
//
// The scanner strips structured comment regions from raw template text,
// extracts string-literal inclusion references, resolves those references to
// files on disk, and enumerates the template universe under the configured
// pages and partials roots. It is the front end of the dependency graph
// builder: everything the graph knows about a template file flows through
// this package first.
package scanner

import "strings"

// Comment delimiters for .tmpl sources. Comments may nest, so stripping
// counts depth instead of searching for the first closing delimiter.
const (
	commentOpen  = "{#"
	commentClose = "#}"
)

// StripComments removes every comment region from src while keeping the
// newline count of the input intact, so line numbers reported against the
// stripped text still match the original file.
//
// Inside a comment, an escaped delimiter (`\{#` or `\#}`) is consumed without
// changing the nesting depth. An unterminated comment swallows the rest of
// the input silently; active editing routinely produces half-written comments
// and they are not an error.
func StripComments(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	depth := 0
	i := 0
	for i < len(src) {
		if depth == 0 {
			if strings.HasPrefix(src[i:], commentOpen) {
				depth = 1
				i += len(commentOpen)
				continue
			}
			out.WriteByte(src[i])
			i++
			continue
		}

		// Escaped delimiters never affect depth.
		if src[i] == '\\' && (strings.HasPrefix(src[i+1:], commentOpen) || strings.HasPrefix(src[i+1:], commentClose)) {
			i += 1 + len(commentOpen)
			continue
		}
		if strings.HasPrefix(src[i:], commentOpen) {
			depth++
			i += len(commentOpen)
			continue
		}
		if strings.HasPrefix(src[i:], commentClose) {
			depth--
			i += len(commentClose)
			continue
		}
		if src[i] == '\n' {
			out.WriteByte('\n')
		}
		i++
	}

	return out.String()
}
