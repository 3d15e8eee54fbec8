package audiotag

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one buffer to edit in SaveMany.
type Job struct {
	// Data is the original file content. It is not modified.
	Data []byte

	// Edit stages changes on the opened handle. nil saves an unchanged copy.
	Edit func(h *Handle) error

	// Options are passed to Open.
	Options []Option
}

// SaveMany opens, edits and saves independent buffers concurrently.
//
// Jobs run on up to runtime.NumCPU() goroutines. Results are returned in
// the same order as the jobs. Each handle is released whether its job
// succeeds or not. The first failure cancels the jobs that have not started
// and is returned with the job index; no results are returned then.
//
// Example:
//
//	outs, err := audiotag.SaveMany(ctx,
//	    audiotag.Job{Data: a, Edit: func(h *audiotag.Handle) error { return h.WriteText(audiotag.Album, "X") }},
//	    audiotag.Job{Data: b, Edit: func(h *audiotag.Handle) error { return h.WriteText(audiotag.Album, "X") }},
//	)
func SaveMany(ctx context.Context, jobs ...Job) ([][]byte, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([][]byte, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := job.run()
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (j Job) run() ([]byte, error) {
	h, err := Open(j.Data, j.Options...)
	if err != nil {
		return nil, err
	}
	defer h.Release() //nolint:errcheck // first release of a live handle cannot fail

	if j.Edit != nil {
		if err := j.Edit(h); err != nil {
			return nil, fmt.Errorf("edit: %w", err)
		}
	}
	return h.Save()
}
