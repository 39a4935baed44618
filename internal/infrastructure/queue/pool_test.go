package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPool_DoRunsOnWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPool(2, zerolog.Nop())
	p.Start(ctx)

	var n atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Do(ctx, func() { n.Add(1) }); err != nil {
				t.Errorf("Do error: %v", err)
			}
		}()
	}
	wg.Wait()

	if n.Load() != 20 {
		t.Fatalf("expected 20 jobs run, got %d", n.Load())
	}
}

func TestPool_UnstartedRunsInline(t *testing.T) {
	p := NewPool(1, zerolog.Nop())
	ran := false
	if err := p.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if !ran {
		t.Fatalf("expected inline execution")
	}

	var nilPool *Pool
	ran = false
	if err := nilPool.Do(context.Background(), func() { ran = true }); err != nil || !ran {
		t.Fatalf("nil pool should run inline, err=%v ran=%v", err, ran)
	}
}

func TestPool_DoHonoursCallerContext(t *testing.T) {
	poolCtx, stop := context.WithCancel(context.Background())
	defer stop()

	p := NewPool(1, zerolog.Nop())
	p.Start(poolCtx)

	release := make(chan struct{})
	busy := make(chan struct{})
	go func() {
		_ = p.Do(poolCtx, func() {
			close(busy)
			<-release
		})
	}()
	defer close(release)
	<-busy

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// The only worker is blocked, so this call can only end via ctx.
	err := p.Do(ctx, func() {})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestPool_StoppedPoolRejectsWork(t *testing.T) {
	poolCtx, stop := context.WithCancel(context.Background())
	p := NewPool(1, zerolog.Nop())
	p.Start(poolCtx)
	stop()

	deadline := time.After(time.Second)
	for {
		err := p.Do(context.Background(), func() {})
		if errors.Is(err, ErrPoolStopped) {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expected ErrPoolStopped, last err %v", err)
		case <-time.After(5 * time.Millisecond):
		}
	}
}
