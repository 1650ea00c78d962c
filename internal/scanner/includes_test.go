package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIncludes(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "double quoted",
			input:    `<div>include("nav")</div>`,
			expected: []string{"nav"},
		},
		{
			name:     "single quoted",
			input:    `include('footer')`,
			expected: []string{"footer"},
		},
		{
			name:     "multiple in source order",
			input:    "include(\"header\")\nbody\ninclude('footer')",
			expected: []string{"header", "footer"},
		},
		{
			name:     "whitespace around argument",
			input:    `include(  "nav"  )`,
			expected: []string{"nav"},
		},
		{
			name:     "relative path reference",
			input:    `include("../partials/nav")`,
			expected: []string{"../partials/nav"},
		},
		{
			name:     "variable argument is invisible",
			input:    `include(name)`,
			expected: nil,
		},
		{
			name:     "concatenated argument is invisible",
			input:    `include("a" + suffix)`,
			expected: nil,
		},
		{
			name:     "empty literal ignored",
			input:    `include("")`,
			expected: nil,
		},
		{
			name:     "prefixed identifier does not match",
			input:    `preinclude("nav")`,
			expected: nil,
		},
		{
			name:     "no directives",
			input:    "<p>plain</p>",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractIncludes(tc.input))
		})
	}
}
