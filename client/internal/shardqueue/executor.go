// Package shardqueue provides a sharded work queue that runs jobs FIFO per
// shard while allowing parallelism across shards. Keys hash to shards, so
// jobs for the same key never run concurrently and run in submission order.
//
// Recoverable job errors are retried with exponential backoff; errors the
// SDK classifies as irrecoverable, or wrapped with backoff.Permanent, fail
// fast.
package shardqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apierrors "github.com/Kayz-mann/trip-planner/client/internal/errors"
	"github.com/Kayz-mann/trip-planner/client/internal/job"
)

// Job is a unit of work executed by a ShardExecutor.
type Job interface {
	Run(ctx context.Context) error
}

type queuedJob struct {
	ctx  context.Context
	job  Job
	done chan error // nil for fire-and-forget submissions
}

func (qj queuedJob) finish(err error) {
	if qj.done != nil {
		qj.done <- err
	}
}

// ShardExecutor executes Jobs on one worker goroutine per shard.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob // len == cfg.Shards
	logger zerolog.Logger

	stopCtx context.Context // canceled in Stop()
	stop    context.CancelFunc
	closed  uint32 // 0 → running, 1 → closed

	wg sync.WaitGroup
}

// NewShardExecutor constructs the executor and starts its shard workers.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()
	stopCtx, stop := context.WithCancel(context.Background())
	p := &ShardExecutor{
		cfg:     cfg,
		queues:  make([]chan queuedJob, cfg.Shards),
		logger:  log.With().Str("component", "shardqueue").Logger(),
		stopCtx: stopCtx,
		stop:    stop,
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job for the shard derived from key and returns once it is
// queued.
//
//   - Returns ErrExecutorClosed if the executor is stopped.
//   - Returns *QueueFullError (errors.Is ErrQueueFull) if the shard is still
//     full after EnqueueTimeout.
//   - Returns ctx.Err() if ctx is done first.
//
// ctx is also the job's context: a job whose ctx is done before it starts is
// skipped.
func (p *ShardExecutor) Submit(ctx context.Context, key string, j Job) error {
	return p.enqueue(queuedJob{ctx: ctx, job: j}, key)
}

// Do enqueues job like Submit and waits for its final outcome, after any
// retries. If ctx is done first Do returns ctx.Err() and the job observes the
// same cancellation.
func (p *ShardExecutor) Do(ctx context.Context, key string, j Job) error {
	qj := queuedJob{ctx: ctx, job: j, done: make(chan error, 1)}
	if err := p.enqueue(qj, key); err != nil {
		return err
	}
	select {
	case err := <-qj.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Barrier waits until every job submitted for key before the call has run.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	return p.Do(ctx, key, job.New(func(context.Context) error { return nil }))
}

// Stop rejects new work, lets every worker drain its queue, and waits for
// them to exit. It is idempotent and safe for concurrent use.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return
	}
	p.logger.Debug().Int("shards", p.cfg.Shards).Msg("stopping executor, draining shards")
	p.stop()
	p.wg.Wait()
	p.logger.Debug().Msg("executor stopped")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (p *ShardExecutor) enqueue(qj queuedJob, key string) error {
	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}
	if err := qj.ctx.Err(); err != nil {
		return err
	}

	shard := p.shardFor(key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-p.stopCtx.Done():
		return ErrExecutorClosed
	case <-qj.ctx.Done():
		return qj.ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()
	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			p.execute(qj, label)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.stopCtx.Done():
			// Drain remaining jobs in FIFO order, one attempt each.
			drained := 0
			for {
				select {
				case qj := <-ch:
					_, err := p.attempt(qj, label)
					p.finish(qj, err)
					drained++
				default:
					if drained > 0 {
						p.logger.Debug().Int("shard", idx).Int("drained", drained).Msg("worker drained queue")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// execute runs qj with retries and reports its final outcome.
func (p *ShardExecutor) execute(qj queuedJob, label string) {
	if qj.job == nil {
		p.finish(qj, nil)
		return
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.MaxElapsedTime = 0

	// Waits between attempts end early when the job's ctx is done or the
	// executor stops.
	waitCtx, cancel := context.WithCancel(qj.ctx)
	defer cancel()
	unhook := context.AfterFunc(p.stopCtx, cancel)
	defer unhook()

	var lastErr error
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.cfg.MaxAttempts-1)), waitCtx)
	err := backoff.RetryNotify(func() error {
		var permanent bool
		permanent, lastErr = p.attempt(qj, label)
		if permanent {
			return backoff.Permanent(lastErr)
		}
		return lastErr
	}, policy, func(err error, wait time.Duration) {
		retriesTotal.WithLabelValues(label).Inc()
		p.logger.Debug().Err(err).Dur("wait", wait).Str("shard", label).Msg("retrying job")
	})

	if err != nil && !errors.Is(err, lastErr) {
		// Backoff gave up on waitCtx rather than on the job's own error.
		if cerr := qj.ctx.Err(); cerr != nil {
			err = cerr
		} else {
			err = fmt.Errorf("%w: %w", ErrExecutorClosed, lastErr)
		}
	}
	p.finish(qj, err)
}

// attempt runs the job once and reports whether a failure must not be
// retried: the job's ctx is done, the job panicked, the SDK classifies the
// error as irrecoverable, or the job wrapped it with backoff.Permanent.
func (p *ShardExecutor) attempt(qj queuedJob, label string) (permanent bool, err error) {
	if qj.job == nil {
		return false, nil
	}
	if cerr := qj.ctx.Err(); cerr != nil {
		return true, cerr
	}
	start := time.Now()
	defer func() {
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Str("shard", label).Msg("job panicked")
			permanent, err = true, fmt.Errorf("%w: %v", ErrJobPanic, r)
		}
	}()

	err = qj.job.Run(qj.ctx)
	if err == nil {
		return false, nil
	}
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return true, perm.Err
	}
	return apierrors.IsIrrecoverable(err) || qj.ctx.Err() != nil, err
}

func (p *ShardExecutor) finish(qj queuedJob, err error) {
	if err != nil {
		p.safeHandleError(err)
	}
	qj.finish(err)
}

func (p *ShardExecutor) safeHandleError(err error) {
	if p.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("error handler panicked")
		}
	}()
	p.cfg.ErrorHandler(err)
}

func (p *ShardExecutor) shardFor(key string) int {
	return job.ShardIndex(key, p.cfg.Shards)
}
