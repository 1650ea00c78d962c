package services

import (
	"context"

	"github.com/stencilhq/stencil/internal/build"
	"github.com/stencilhq/stencil/internal/config"
	"github.com/stencilhq/stencil/internal/logging"
	"github.com/stencilhq/stencil/internal/watcher"
)

// WatchService runs the development loop: watch the pages and partials
// roots, coalesce change bursts, and rebuild only the impacted documents.
type WatchService struct {
	config *config.Config
	logger logging.Logger
}

// NewWatchService creates a watch service.
func NewWatchService(cfg *config.Config, logger logging.Logger) *WatchService {
	return &WatchService{
		config: cfg,
		logger: logger.WithComponent("watch"),
	}
}

// Run performs an initial full build, then watches for template changes
// until ctx is canceled.
func (s *WatchService) Run(ctx context.Context) error {
	pagesRoot, partialsRoot, outputRoot, err := projectRoots(s.config)
	if err != nil {
		return err
	}

	// Initial pass so the site is complete before the first edit.
	if _, err := NewBuildService(s.config, s.logger).Build(ctx); err != nil {
		return err
	}

	renderer := build.NewRenderer(pagesRoot, partialsRoot, outputRoot, s.config.Build.Entry, s.logger)
	scheduler := watcher.NewScheduler(pagesRoot, partialsRoot, renderer, s.logger)

	fw, err := watcher.NewFileWatcher(s.config.Watch.Debounce(), s.logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddFilter(watcher.TemplateFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.ExcludeDirFilter(outputRoot))
	fw.AddHandler(scheduler.Handler(ctx))

	for _, root := range []string{pagesRoot, partialsRoot} {
		if err := fw.AddRecursive(root); err != nil {
			return err
		}
	}

	fw.Start(ctx)
	s.logger.Info(ctx, "watching for changes",
		"pages", pagesRoot,
		"partials", partialsRoot,
		"debounce_ms", s.config.Watch.DebounceMS,
	)

	<-ctx.Done()
	return ctx.Err()
}
