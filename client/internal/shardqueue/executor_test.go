package shardqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	apierrors "github.com/Kayz-mann/trip-planner/client/internal/errors"
	"github.com/Kayz-mann/trip-planner/client/internal/job"
)

func fastConfig() Config {
	return Config{Shards: 2, QueueSize: 8, MaxAttempts: 3, BaseBackoff: time.Millisecond, MaxInterval: 5 * time.Millisecond}
}

func TestDo_FIFOPerKey(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(fastConfig())
	defer ex.Stop()

	var (
		mu    sync.Mutex
		order []int
	)
	for i := 0; i < 20; i++ {
		i := i
		if err := ex.Submit(context.Background(), "https://img/a.png", job.New(func(context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if err := ex.Barrier(context.Background(), "https://img/a.png"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if v != i {
			t.Fatalf("out of order at %d: %v", i, order)
		}
	}
	if len(order) != 20 {
		t.Fatalf("ran %d jobs", len(order))
	}
}

func TestDo_RetriesRecoverableErrors(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(fastConfig())
	defer ex.Stop()

	var attempts int32
	err := ex.Do(context.Background(), "k", job.New(func(context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return apierrors.NewHTTPError("fetch image", 503, "")
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestDo_ReturnsLastErrorAfterMaxAttempts(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(fastConfig())
	defer ex.Stop()

	var attempts int32
	err := ex.Do(context.Background(), "k", job.New(func(context.Context) error {
		n := atomic.AddInt32(&attempts, 1)
		return fmt.Errorf("attempt %d failed", n)
	}))
	if err == nil || err.Error() != "attempt 3 failed" {
		t.Fatalf("expected last attempt error, got %v", err)
	}
}

func TestDo_IrrecoverableFailsFast(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(fastConfig())
	defer ex.Stop()

	for _, jobErr := range []error{
		apierrors.NewHTTPError("fetch image", 404, ""),
		backoff.Permanent(errors.New("not an image")),
	} {
		var attempts int32
		err := ex.Do(context.Background(), "k", job.New(func(context.Context) error {
			atomic.AddInt32(&attempts, 1)
			return jobErr
		}))
		if err == nil || atomic.LoadInt32(&attempts) != 1 {
			t.Fatalf("%v: expected a single failed attempt, got %d attempts err=%v", jobErr, attempts, err)
		}
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			t.Fatalf("permanent wrapper leaked to caller: %v", err)
		}
	}
}

func TestDo_PanicBecomesError(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(fastConfig())
	defer ex.Stop()

	err := ex.Do(context.Background(), "k", job.New(func(context.Context) error { panic("decode exploded") }))
	if !errors.Is(err, ErrJobPanic) {
		t.Fatalf("expected ErrJobPanic, got %v", err)
	}
	// Worker must survive the panic.
	if err := ex.Do(context.Background(), "k", job.New(func(context.Context) error { return nil })); err != nil {
		t.Fatalf("worker did not survive panic: %v", err)
	}
}

func TestDo_CallerCancelWhileQueued(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4})
	defer ex.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	if err := ex.Submit(context.Background(), "k", job.New(func(context.Context) error {
		close(started)
		<-release
		return nil
	})); err != nil {
		t.Fatalf("submit blocker: %v", err)
	}
	<-started

	var ran int32
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- ex.Do(ctx, "k", job.New(func(context.Context) error {
			atomic.StoreInt32(&ran, 1)
			return nil
		}))
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	close(release)
	if err := ex.Barrier(context.Background(), "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if atomic.LoadInt32(&ran) != 0 {
		t.Fatal("canceled job must not run")
	}
}

func TestSubmit_QueueFull(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond})
	release := make(chan struct{})
	started := make(chan struct{})
	_ = ex.Submit(context.Background(), "k", job.New(func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started
	_ = ex.Submit(context.Background(), "k", job.New(func(context.Context) error { return nil }))

	err := ex.Submit(context.Background(), "k", job.New(func(context.Context) error { return nil }))
	var qf *QueueFullError
	if !errors.Is(err, ErrQueueFull) || !errors.As(err, &qf) || qf.Capacity != 1 {
		t.Fatalf("expected queue full, got %v", err)
	}
	close(release)
	ex.Stop()
}

func TestSubmit_AfterStop(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{})
	ex.Stop()
	ex.Stop() // idempotent
	if err := ex.Submit(context.Background(), "k", job.New(func(context.Context) error { return nil })); !errors.Is(err, ErrExecutorClosed) {
		t.Fatalf("expected ErrExecutorClosed, got %v", err)
	}
	if err := ex.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestStop_DrainsQueuedJobs(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 16})
	var ran int32
	for i := 0; i < 10; i++ {
		_ = ex.Submit(context.Background(), "k", job.New(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}))
	}
	ex.Stop()
	if got := atomic.LoadInt32(&ran); got != 10 {
		t.Fatalf("expected all 10 jobs drained, got %d", got)
	}
}

func TestErrorHandler_CalledOnceAndPanicRecovered(t *testing.T) {
	t.Parallel()
	var calls int32
	cfg := Config{Shards: 1, MaxAttempts: 1}
	cfg.ErrorHandler = func(error) {
		atomic.AddInt32(&calls, 1)
		panic("handler panic")
	}
	ex := NewShardExecutor(cfg)
	defer ex.Stop()

	if err := ex.Do(context.Background(), "k", job.New(func(context.Context) error { return errors.New("boom") })); err == nil {
		t.Fatal("expected error")
	}
	if err := ex.Do(context.Background(), "k", job.New(func(context.Context) error { return nil })); err != nil {
		t.Fatalf("worker broken after handler panic: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("error handler calls = %d, want 1", got)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SQ_SHARDS", "8")
	t.Setenv("SQ_QUEUE_SIZE", "256")
	t.Setenv("SQ_ENQUEUE_TIMEOUT", "250ms")
	t.Setenv("SQ_MAX_ATTEMPTS", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Shards != 8 || cfg.QueueSize != 256 || cfg.EnqueueTimeout != 250*time.Millisecond || cfg.MaxAttempts != 5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.BaseBackoff != 100*time.Millisecond || cfg.MaxInterval != 5*time.Second {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
