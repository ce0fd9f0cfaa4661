package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunParallel_Empty(t *testing.T) {
	if err := RunParallel(context.Background(), nil); err != nil {
		t.Errorf("Expected nil for empty task list, got: %v", err)
	}
}

func TestRunParallel_AllSucceed(t *testing.T) {
	var count atomic.Int32
	tasks := []Task{
		{Name: "a", Func: func(context.Context) error { count.Add(1); return nil }},
		{Name: "b", Func: func(context.Context) error { count.Add(1); return nil }},
		{Name: "c", Func: func(context.Context) error { count.Add(1); return nil }},
	}

	if err := RunParallel(context.Background(), tasks); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if count.Load() != 3 {
		t.Errorf("Expected 3 tasks to run, got: %d", count.Load())
	}
}

func TestRunParallel_FirstErrorReturned(t *testing.T) {
	wantErr := errors.New("boom")
	var ran atomic.Int32
	tasks := []Task{
		{Name: "ok", Func: func(context.Context) error { ran.Add(1); return nil }},
		{Name: "bad", Func: func(context.Context) error { ran.Add(1); return wantErr }},
	}

	err := RunParallel(context.Background(), tasks)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected wrapped task error, got: %v", err)
	}
	// All tasks still run to completion.
	if ran.Load() != 2 {
		t.Errorf("Expected both tasks to run, got: %d", ran.Load())
	}
}

func TestRunBounded_LimitRespected(t *testing.T) {
	const limit = 2
	var mu sync.Mutex
	running, peak := 0, 0

	block := make(chan struct{})
	var tasks []Task
	for range 6 {
		tasks = append(tasks, Task{Name: "t", Func: func(context.Context) error {
			mu.Lock()
			running++
			if running > peak {
				peak = running
			}
			mu.Unlock()

			<-block

			mu.Lock()
			running--
			mu.Unlock()
			return nil
		}})
	}

	done := make(chan error, 1)
	go func() { done <- RunBounded(context.Background(), tasks, limit) }()

	close(block)
	if err := <-done; err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > limit {
		t.Errorf("Concurrency limit exceeded: peak %d > limit %d", peak, limit)
	}
}
