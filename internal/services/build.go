// Package services wires the scanner, graph, renderer, and watcher into the
// two operations the CLI exposes: a blocking full build and the development
// watch loop.
package services

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/stencilhq/stencil/internal/build"
	"github.com/stencilhq/stencil/internal/config"
	"github.com/stencilhq/stencil/internal/errors"
	"github.com/stencilhq/stencil/internal/graph"
	"github.com/stencilhq/stencil/internal/logging"
)

// BuildService compiles every document of a project in one blocking pass,
// suitable for a production build pipeline.
type BuildService struct {
	config *config.Config
	logger logging.Logger
}

// NewBuildService creates a build service.
func NewBuildService(cfg *config.Config, logger logging.Logger) *BuildService {
	return &BuildService{
		config: cfg,
		logger: logger.WithComponent("build"),
	}
}

// BuildResult summarizes a full build.
type BuildResult struct {
	Duration      time.Duration
	DocumentCount int
	Failures      []errors.RenderFailure
}

// Build scans the project, renders every document, and writes the build
// manifest. It returns only on completion or on the first unrecoverable
// error; individual document render failures are collected and reported in
// the result instead of aborting the pass.
func (s *BuildService) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()

	pagesRoot, partialsRoot, outputRoot, err := projectRoots(s.config)
	if err != nil {
		return nil, err
	}

	g, err := graph.Build(pagesRoot, partialsRoot)
	if err != nil {
		return nil, err
	}

	renderer := build.NewRenderer(pagesRoot, partialsRoot, outputRoot, s.config.Build.Entry, s.logger)
	collector := errors.NewCollector()

	docs := g.DocumentList()
	manifest := build.Manifest{Documents: make([]build.ManifestEntry, 0, len(docs))}

	for _, doc := range docs {
		if err := renderer.BuildDocument(ctx, doc, g); err != nil {
			collector.Add(doc, err)
			s.logger.Error(ctx, err, "rendering document", "document", doc)
			continue
		}

		outPath, err := renderer.OutputPath(doc)
		if err != nil {
			collector.Add(doc, err)
			continue
		}
		content, err := os.ReadFile(outPath)
		if err != nil {
			collector.Add(doc, errors.IOError("READ_OUTPUT", outPath, err))
			continue
		}
		manifest.Documents = append(manifest.Documents, build.ManifestEntry{
			Source:   doc,
			Output:   outPath,
			Checksum: build.ContentChecksum(content),
		})
	}

	if err := build.WriteManifest(outputRoot, manifest); err != nil {
		return nil, err
	}

	result := &BuildResult{
		Duration:      time.Since(start),
		DocumentCount: len(docs),
		Failures:      collector.Failures(),
	}
	s.logger.Info(ctx, "build complete",
		"documents", result.DocumentCount,
		"failures", len(result.Failures),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// projectRoots resolves the configured roots to absolute paths so they
// compare cleanly against the absolute paths the scanner produces.
func projectRoots(cfg *config.Config) (pages, partials, output string, err error) {
	if pages, err = filepath.Abs(cfg.Site.Pages); err != nil {
		return "", "", "", err
	}
	if partials, err = filepath.Abs(cfg.Site.Partials); err != nil {
		return "", "", "", err
	}
	if output, err = filepath.Abs(cfg.Site.Output); err != nil {
		return "", "", "", err
	}
	return pages, partials, output, nil
}
