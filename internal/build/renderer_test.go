package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilhq/stencil/internal/graph"
	"github.com/stencilhq/stencil/internal/logging"
)

type fixture struct {
	pages    string
	partials string
	output   string
	renderer *Renderer
	graph    *graph.Graph
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	f := &fixture{
		pages:    filepath.Join(root, "pages"),
		partials: filepath.Join(root, "partials"),
		output:   filepath.Join(root, "dist"),
	}
	f.renderer = NewRenderer(f.pages, f.partials, f.output, "/assets/main.js", logging.NewNop())

	g, err := graph.Build(f.pages, f.partials)
	require.NoError(t, err)
	f.graph = g
	return f
}

func (f *fixture) build(t *testing.T, doc string) string {
	t.Helper()
	docPath := filepath.Join(f.pages, doc)
	require.NoError(t, f.renderer.BuildDocument(context.Background(), docPath, f.graph))

	outPath, err := f.renderer.OutputPath(docPath)
	require.NoError(t, err)
	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	return string(content)
}

func TestBuildDocumentExpandsFragments(t *testing.T) {
	f := newFixture(t, map[string]string{
		"pages/index.tmpl":  `<body>include("../partials/nav")</body>`,
		"partials/nav.tmpl": "<nav>menu</nav>",
	})

	assert.Equal(t, "<body><nav>menu</nav></body>", f.build(t, "index.tmpl"))
}

func TestBuildDocumentNestedFragments(t *testing.T) {
	f := newFixture(t, map[string]string{
		"pages/index.tmpl":   `include("../partials/nav")`,
		"partials/nav.tmpl":  `<nav>include("logo")</nav>`,
		"partials/logo.tmpl": "<img>",
	})

	assert.Equal(t, "<nav><img></nav>", f.build(t, "index.tmpl"))
}

func TestBuildDocumentStripsComments(t *testing.T) {
	f := newFixture(t, map[string]string{
		"pages/index.tmpl": "<p>kept</p>{# removed #}",
	})

	assert.Equal(t, "<p>kept</p>", f.build(t, "index.tmpl"))
}

func TestBuildDocumentInjectsEntryReference(t *testing.T) {
	f := newFixture(t, map[string]string{
		"pages/index.tmpl": `<script type="module" src="entry()"></script>`,
	})

	assert.Equal(t, `<script type="module" src="/assets/main.js"></script>`, f.build(t, "index.tmpl"))
}

func TestBuildDocumentMissingFragmentExpandsEmpty(t *testing.T) {
	f := newFixture(t, map[string]string{
		"pages/index.tmpl": `a include("../partials/ghost") b`,
	})

	assert.Equal(t, "a  b", f.build(t, "index.tmpl"))
}

func TestBuildDocumentDeterministic(t *testing.T) {
	f := newFixture(t, map[string]string{
		"pages/index.tmpl":  `include("../partials/nav") entry()`,
		"partials/nav.tmpl": "<nav></nav>",
	})

	first := f.build(t, "index.tmpl")
	second := f.build(t, "index.tmpl")
	assert.Equal(t, first, second)
}

func TestBuildDocumentMirrorsSubdirectories(t *testing.T) {
	f := newFixture(t, map[string]string{
		"pages/blog/post.tmpl": "<article></article>",
	})

	f.build(t, filepath.Join("blog", "post.tmpl"))

	content, err := os.ReadFile(filepath.Join(f.output, "blog", "post.html"))
	require.NoError(t, err)
	assert.Equal(t, "<article></article>", string(content))
}

func TestBuildDocumentMissingDocumentIsNoOp(t *testing.T) {
	f := newFixture(t, map[string]string{
		"pages/index.tmpl": "<p></p>",
	})

	gone := filepath.Join(f.pages, "gone.tmpl")
	require.NoError(t, f.renderer.BuildDocument(context.Background(), gone, f.graph))

	_, err := os.Stat(filepath.Join(f.output, "gone.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildDocumentCyclicFragmentsTerminate(t *testing.T) {
	f := newFixture(t, map[string]string{
		"pages/index.tmpl": `include("../partials/x")`,
		"partials/x.tmpl":  `x include("y")`,
		"partials/y.tmpl":  `y include("x")`,
	})

	// Expansion is depth-bounded; the exact tail content is less
	// important than the render finishing at all.
	out := f.build(t, "index.tmpl")
	assert.Contains(t, out, "x")
}

func TestOutputPathSwapsExtension(t *testing.T) {
	f := newFixture(t, map[string]string{})

	out, err := f.renderer.OutputPath(filepath.Join(f.pages, "about.tmpl"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.output, "about.html"), out)
}

func TestOutputPathRejectsForeignDocument(t *testing.T) {
	f := newFixture(t, map[string]string{})

	_, err := f.renderer.OutputPath("/elsewhere/doc.tmpl")
	assert.Error(t, err)
}
