// Package scheduler owns the bounded worker pool that fans a batch of
// independent per-file jobs out across threads and collects their
// results. One file's failure never aborts or delays its siblings.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/wb-go/wbf/zlog"

	"github.com/optimg/optimg/internal/model"
	"github.com/optimg/optimg/internal/naming"
	"github.com/optimg/optimg/internal/processor"
	"github.com/optimg/optimg/internal/storage"
)

// maxWorkers caps the pool size; the CLI validates the same bound.
const maxWorkers = 16

// Mirror replicates successful outputs to a secondary store. Mirror
// failures are logged and never fail the job: the local file is the
// source of truth.
type Mirror interface {
	Save(ctx context.Context, objectName string, data []byte) error
}

// Scheduler runs jobs on a fixed-size worker pool. Workers share only
// the processor's immutable spec and an atomic progress counter.
type Scheduler struct {
	workers  int
	proc     *processor.Processor
	mirror   Mirror // nil when no mirror is configured
	progress atomic.Uint64
}

// New creates a scheduler with the given pool size. A size of zero
// selects the logical core count, capped at the supported maximum.
func New(workers int, proc *processor.Processor, mirror Mirror) *Scheduler {
	if workers == 0 {
		workers = DefaultWorkers()
	}
	return &Scheduler{workers: workers, proc: proc, mirror: mirror}
}

// DefaultWorkers is the pool size used when -t/--threads is not given.
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n > maxWorkers {
		n = maxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Workers returns the configured pool size.
func (s *Scheduler) Workers() int { return s.workers }

// Run dispatches exactly one task per job and blocks until every
// dispatched job has finished. Cancelling ctx stops new dispatch but
// lets in-flight jobs finish naturally; completion order carries no
// relation to input order.
func (s *Scheduler) Run(ctx context.Context, jobs []Job) Report {
	jobCh := make(chan Job)
	results := make(chan model.JobResult)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				res := s.runJob(ctx, job)
				done := s.progress.Add(1)
				logResult(res, done, uint64(len(jobs)))
				results <- res
			}
		}()
	}

	go func() {
		defer close(jobCh)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				zlog.Logger.Warn().Msg("interrupted, waiting for in-flight jobs")
				return
			case jobCh <- job:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	report := Report{Total: len(jobs)}
	for res := range results {
		report.add(res)
	}
	return report
}

// runJob processes a single file end to end: read → backup → decode →
// pipeline → encode → write → mirror. Every error is caught here and
// folded into the job's result; nothing crosses the job boundary.
func (s *Scheduler) runJob(ctx context.Context, job Job) model.JobResult {
	data, err := os.ReadFile(job.InputPath)
	if err != nil {
		return model.Failed(job.ID, job.InputPath, fmt.Errorf("failed to read input: %w", err))
	}

	// Rename the original away before anything can overwrite it. If a
	// later stage fails, the input survives at the backup path.
	if job.Backup {
		if _, err := naming.Backup(job.InputPath); err != nil {
			return model.Failed(job.ID, job.InputPath, err)
		}
	}

	out, err := s.proc.Process(data, job.Encoder, job.InputPath)
	if err != nil {
		return model.Failed(job.ID, job.InputPath, err)
	}

	if err := storage.WriteFile(job.OutputPath, out); err != nil {
		return model.Failed(job.ID, job.InputPath, err)
	}

	if s.mirror != nil {
		if err := s.mirror.Save(ctx, job.OutputPath, out); err != nil {
			zlog.Logger.Warn().Err(err).
				Str("file", job.OutputPath).
				Msg("failed to mirror output")
		}
	}

	return model.Success(job.ID, job.InputPath, job.OutputPath, int64(len(data)), int64(len(out)))
}

func logResult(res model.JobResult, done, total uint64) {
	if res.Succeeded() {
		saved := 0.0
		if res.BytesIn > 0 {
			saved = 100 * (1 - float64(res.BytesWritten)/float64(res.BytesIn))
		}
		zlog.Logger.Info().
			Str("job", res.JobID.String()).
			Str("input", res.InputPath).
			Str("output", res.OutputPath).
			Int64("bytes_in", res.BytesIn).
			Int64("bytes_out", res.BytesWritten).
			Str("saved", fmt.Sprintf("%.1f%%", saved)).
			Msgf("[%d/%d] done", done, total)
		return
	}

	zlog.Logger.Error().
		Str("job", res.JobID.String()).
		Str("input", res.InputPath).
		Str("kind", string(res.Kind)).
		Err(res.Err).
		Msgf("[%d/%d] failed", done, total)
}
