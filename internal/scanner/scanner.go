package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// FileScan is the per-file result of a universe scan: the file's absolute
// path and the absolute candidate paths of every string-literal inclusion
// reference found in its comment-stripped source.
type FileScan struct {
	Path string
	Refs []string
}

// scanJob pairs a file path with a slot in the shared result slice so worker
// output lands in deterministic order regardless of scheduling.
type scanJob struct {
	index int
	path  string
}

// ListTemplates enumerates every template file under root recursively,
// returning absolute paths. A missing root contributes zero files rather
// than an error; any other filesystem failure is propagated because it
// indicates an environment problem, not a normal editing state.
func ListTemplates(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return walkEntryError(absRoot, path, err)
		}
		if d.IsDir() || !strings.HasSuffix(path, TemplateExt) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("walking %s: %w", absRoot, err)
	}

	return files, nil
}

// walkEntryError decides whether a walk error ends the listing. Entries can
// vanish between directory read and visit during active editing; such an
// entry is skipped and the files already collected are kept. Only the root
// itself missing, or any failure that is not "not found", aborts the walk.
func walkEntryError(root, path string, err error) error {
	if os.IsNotExist(err) && path != root {
		return nil
	}
	return err
}

// ScanFiles reads and analyzes the given template files, extracting resolved
// inclusion references from each. Reads run on a small worker pool since each
// file is independent; results are merged back serially. A file that vanishes
// between enumeration and read is skipped silently, which tolerates scans
// racing with deletion during active editing.
func ScanFiles(paths []string) ([]FileScan, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]FileScan, len(paths))
	errs := make([]error, len(paths))
	jobs := make(chan scanJob)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results[job.index], errs[job.index] = scanFile(job.path)
			}
		}()
	}

	for i, path := range paths {
		jobs <- scanJob{index: i, path: path}
	}
	close(jobs)
	wg.Wait()

	merged := make([]FileScan, 0, len(paths))
	for i, scan := range results {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if scan.Path == "" {
			// Deleted mid-scan.
			continue
		}
		merged = append(merged, scan)
	}

	return merged, nil
}

func scanFile(path string) (FileScan, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileScan{}, nil
		}
		return FileScan{}, fmt.Errorf("reading %s: %w", path, err)
	}

	stripped := StripComments(string(content))

	var refs []string
	for _, ref := range ExtractIncludes(stripped) {
		refs = append(refs, ResolveInclude(path, ref))
	}

	return FileScan{Path: path, Refs: refs}, nil
}
