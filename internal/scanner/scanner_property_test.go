//go:build property

package scanner

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestStripCommentsProperties validates invariants of comment stripping over
// generated template fragments.
func TestStripCommentsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4242)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	fragment := gen.OneConstOf(
		"text", "\n", "<div>", "</div>", "include(\"nav\")",
		"{# note #}", "{# outer {# inner #} #}", "{# open\n", "#}", " ",
	)
	source := gen.SliceOf(fragment).Map(func(parts []string) string {
		return strings.Join(parts, "")
	})

	properties.Property("stripping preserves newline count", prop.ForAll(
		func(src string) bool {
			return strings.Count(src, "\n") == strings.Count(StripComments(src), "\n")
		},
		source,
	))

	properties.Property("stripped output opens no comment regions", prop.ForAll(
		func(src string) bool {
			return !strings.Contains(StripComments(src), commentOpen)
		},
		source,
	))

	properties.Property("stripping is idempotent", prop.ForAll(
		func(src string) bool {
			once := StripComments(src)
			return StripComments(once) == once
		},
		source,
	))

	properties.Property("stripping never grows the input", prop.ForAll(
		func(src string) bool {
			return len(StripComments(src)) <= len(src)
		},
		source,
	))

	properties.TestingRun(t)
}
