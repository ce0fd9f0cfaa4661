// Package async provides utilities for parallel task execution.
//
// It contains helpers for running multiple independent operations
// concurrently with a concurrency bound, used for parallel instance
// creation and per-node setup steps.
package async

import (
	"context"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes all tasks concurrently and waits for every task to
// finish. If any task returns an error, the first error is returned after
// all tasks complete.
func RunParallel(ctx context.Context, tasks []Task) error {
	return RunBounded(ctx, tasks, len(tasks))
}

// RunBounded executes tasks with at most limit running concurrently.
// All tasks run to completion; the first error encountered is returned.
func RunBounded(ctx context.Context, tasks []Task, limit int) error {
	if len(tasks) == 0 {
		return nil
	}
	if limit <= 0 || limit > len(tasks) {
		limit = len(tasks)
	}

	type result struct {
		name string
		err  error
	}

	sem := make(chan struct{}, limit)
	resultChan := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			sem <- struct{}{}
			defer func() { <-sem }()
			resultChan <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var firstError error
	for range len(tasks) {
		res := <-resultChan
		if res.err != nil && firstError == nil {
			firstError = fmt.Errorf("%s: %w", res.name, res.err)
		}
	}

	return firstError
}
