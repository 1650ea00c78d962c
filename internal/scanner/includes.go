package scanner

import "regexp"

// includePattern matches the inclusion directive with a single- or
// double-quoted string-literal argument. References built from variables or
// expressions do not match and are therefore invisible to the dependency
// graph; that is a documented limitation of textual scanning, not a bug.
var includePattern = regexp.MustCompile(`\binclude\(\s*(?:"([^"\n]*)"|'([^'\n]*)')\s*\)`)

// ExtractIncludes returns the string-literal inclusion references found in
// src, in source order. Callers are expected to pass comment-stripped text;
// references inside comments would otherwise leak into the graph.
func ExtractIncludes(src string) []string {
	matches := includePattern.FindAllStringSubmatch(src, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		ref := m[1]
		if ref == "" && m[2] != "" {
			ref = m[2]
		}
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		return nil
	}

	return refs
}

// ReplaceIncludes rewrites every string-literal inclusion directive in src
// with the value returned by expand for its reference. Non-literal directives
// are left untouched, consistent with extraction.
func ReplaceIncludes(src string, expand func(ref string) string) string {
	return includePattern.ReplaceAllStringFunc(src, func(match string) string {
		m := includePattern.FindStringSubmatch(match)
		ref := m[1]
		if ref == "" && m[2] != "" {
			ref = m[2]
		}
		if ref == "" {
			return match
		}
		return expand(ref)
	})
}
