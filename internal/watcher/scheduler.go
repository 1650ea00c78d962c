package watcher

import (
	"context"
	"time"

	"github.com/stencilhq/stencil/internal/graph"
	"github.com/stencilhq/stencil/internal/logging"
)

// DocumentBuilder compiles documents against a graph snapshot. The build
// package provides the production implementation.
type DocumentBuilder interface {
	// BuildDocument compiles one document. A document that has vanished
	// from disk is a no-op, not an error.
	BuildDocument(ctx context.Context, doc string, g *graph.Graph) error
}

// Scheduler drives one rebuild cycle per debounced batch of changes.
//
// It owns the current graph snapshot: the snapshot is rebuilt wholesale at
// the start of every flush and replaced, never mutated, so no locking is
// needed around it. Within a flush the ordering is strict: graph rebuild,
// then impact analysis, then rendering. A flush always runs to completion;
// events arriving mid-flush accumulate in the debouncer for the next one.
type Scheduler struct {
	pagesRoot    string
	partialsRoot string
	builder      DocumentBuilder
	logger       logging.Logger
	current      *graph.Graph
}

// NewScheduler creates a scheduler for the given roots.
func NewScheduler(pagesRoot, partialsRoot string, builder DocumentBuilder, logger logging.Logger) *Scheduler {
	return &Scheduler{
		pagesRoot:    pagesRoot,
		partialsRoot: partialsRoot,
		builder:      builder,
		logger:       logger.WithComponent("scheduler"),
	}
}

// Graph returns the snapshot from the most recent flush, or nil before the
// first one.
func (s *Scheduler) Graph() *graph.Graph {
	return s.current
}

// Flush runs one complete rebuild cycle for a batch of changed files. When
// impact analysis comes back empty the impact is unknown (a path the graph
// has never tracked, or the very first run), and every document is
// recompiled rather than none.
func (s *Scheduler) Flush(ctx context.Context, events []ChangeEvent) error {
	start := time.Now()

	changed := make([]string, 0, len(events))
	for _, event := range events {
		changed = append(changed, event.Path)
	}

	g, err := graph.Build(s.pagesRoot, s.partialsRoot)
	if err != nil {
		return err
	}
	s.current = g

	targets := g.Impact(changed)
	full := len(targets) == 0
	if full {
		targets = g.DocumentList()
	}

	rendered := 0
	for _, doc := range targets {
		if err := s.builder.BuildDocument(ctx, doc, g); err != nil {
			// One broken document must not starve the rest of the
			// flush.
			s.logger.Error(ctx, err, "rendering document", "document", doc)
			continue
		}
		rendered++
	}

	s.logger.Info(ctx, "flush complete",
		"changed", len(changed),
		"rendered", rendered,
		"full_rebuild", full,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Handler adapts the scheduler to the watcher's ChangeHandler signature.
func (s *Scheduler) Handler(ctx context.Context) ChangeHandler {
	return func(events []ChangeEvent) error {
		return s.Flush(ctx, events)
	}
}
