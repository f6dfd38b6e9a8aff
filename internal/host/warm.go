package host

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WarmProject transpiles every known document concurrently, so the
// first real snapshot request for each one hits a populated cache
// instead of paying for the transpile inline. jobs<=0 uses GOMAXPROCS.
func (h *Host) WarmProject(ctx context.Context, jobs int) error {
	h.mu.Lock()
	paths := make([]string, len(h.order))
	copy(paths, h.order)
	h.mu.Unlock()

	if len(paths) == 0 {
		return nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for _, srcPath := range paths {
		srcPath := srcPath
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			h.mu.Lock()
			meta, ok := h.files[srcPath]
			if ok {
				h.ensureTranspiled(meta)
			}
			h.mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
