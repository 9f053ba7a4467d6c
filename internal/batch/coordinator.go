package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MundoTango/media-pipeline/internal/logging"
	"github.com/MundoTango/media-pipeline/internal/mediatypes"
	"github.com/MundoTango/media-pipeline/internal/metrics"
)

// ErrShuttingDown is returned for jobs submitted after Shutdown began.
var ErrShuttingDown = errors.New("batch: coordinator is shutting down")

// Processor is the pipeline contract the coordinator drives.
type Processor interface {
	Process(ctx context.Context, src mediatypes.SourceFile) (*mediatypes.ProcessingResult, error)
}

// Progress reports one completed item of a batch.
type Progress struct {
	Index     int
	Completed int
	Total     int
}

// Coordinator runs pipeline invocations with bounded per-class concurrency.
type Coordinator struct {
	proc       Processor
	imageSlots chan struct{}
	videoSlots chan struct{}

	mu           sync.Mutex
	shuttingDown bool
	wg           sync.WaitGroup

	onProgress func(Progress)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithProgress installs a completion callback. It is a side-channel only:
// it runs after each item reaches a terminal state and has no effect on the
// primary results.
func WithProgress(fn func(Progress)) Option {
	return func(c *Coordinator) { c.onProgress = fn }
}

// New creates a coordinator with the given per-class pool sizes.
func New(proc Processor, imageWorkers, videoWorkers int, opts ...Option) *Coordinator {
	if imageWorkers < 1 {
		imageWorkers = 1
	}
	if videoWorkers < 1 {
		videoWorkers = 1
	}

	c := &Coordinator{
		proc:       proc,
		imageSlots: make(chan struct{}, imageWorkers),
		videoSlots: make(chan struct{}, videoWorkers),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Job is the future for one submitted file.
type Job struct {
	entry mediatypes.BatchEntry
	done  chan struct{}
}

// Done is closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} { return j.done }

// Entry blocks until the job is done and returns its batch entry.
func (j *Job) Entry() mediatypes.BatchEntry {
	<-j.done
	return j.entry
}

// Submit enqueues one file and returns its Job future. The index is carried
// through to the resulting entry so batches preserve input order.
func (c *Coordinator) Submit(ctx context.Context, index int, src mediatypes.SourceFile) *Job {
	job := &Job{done: make(chan struct{})}

	c.mu.Lock()
	if c.shuttingDown {
		c.mu.Unlock()
		job.entry = errEntry(index, ErrShuttingDown)
		close(job.done)
		return job
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer close(job.done)
		job.entry = c.run(ctx, index, src)
	}()

	return job
}

// run executes one job: acquire the class slot, invoke the pipeline, and
// convert any outcome into a batch entry. Panics are contained to the entry
// so one pathological file cannot take down its siblings.
func (c *Coordinator) run(ctx context.Context, index int, src mediatypes.SourceFile) (entry mediatypes.BatchEntry) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Job %d (%s) panicked: %v", index, src.Path, r)
			entry = errEntry(index, fmt.Errorf("job panicked: %v", r))
		}
	}()

	slots := c.imageSlots
	if src.IsVideo() {
		slots = c.videoSlots
	}

	select {
	case slots <- struct{}{}:
		defer func() { <-slots }()
	case <-ctx.Done():
		return errEntry(index, ctx.Err())
	}

	res, err := c.proc.Process(ctx, src)
	if err != nil {
		return errEntry(index, err)
	}
	return mediatypes.BatchEntry{Index: index, Result: res}
}

// ProcessBatch runs every file through the pipeline and returns one entry
// per input, in input order, regardless of completion order. Individual
// failures never abort the batch.
func (c *Coordinator) ProcessBatch(ctx context.Context, files []mediatypes.SourceFile) mediatypes.BatchResult {
	metrics.BatchesTotal.Inc()
	metrics.BatchSize.Observe(float64(len(files)))

	jobs := make([]*Job, len(files))
	for i, f := range files {
		jobs[i] = c.Submit(ctx, i, f)
	}

	result := make(mediatypes.BatchResult, len(files))
	completed := 0
	for i, job := range jobs {
		result[i] = job.Entry()
		completed++
		if c.onProgress != nil {
			c.onProgress(Progress{Index: i, Completed: completed, Total: len(files)})
		}
	}

	logging.Info("Batch done: %d/%d succeeded", result.Succeeded(), len(result))
	return result
}

// Shutdown stops admitting new jobs and waits for in-flight ones. Callers
// that need encodes killed rather than drained should cancel the submit
// context and shut the video engine down as well.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	c.shuttingDown = true
	c.mu.Unlock()

	c.wg.Wait()
}

func errEntry(index int, err error) mediatypes.BatchEntry {
	return mediatypes.BatchEntry{Index: index, Err: err, Error: err.Error()}
}
