package tts

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	// DefaultMaxWorkers bounds concurrent synthesis calls. Three balances
	// throughput against the remote API's rate limits.
	DefaultMaxWorkers = 3

	// DefaultRequestTimeout applies to each chunk's synthesis call
	// independently.
	DefaultRequestTimeout = 30 * time.Second
)

// SynthesizeFunc converts one chunk of text into audio bytes. It may fail;
// the dispatcher records the failure without affecting other chunks.
type SynthesizeFunc func(ctx context.Context, text string) ([]byte, error)

// Result is the outcome of synthesizing a single chunk. Exactly one of
// Audio and Err is set. Results always come back in original chunk order,
// regardless of which chunk finished first.
type Result struct {
	Index int
	Audio []byte
	Err   error
}

// ProgressEvent reports the settlement of one chunk. Completed counts all
// settled chunks (success or failure) including this one.
type ProgressEvent struct {
	Index     int
	Completed int
	Total     int
	Err       error
}

// DispatchOptions tunes a Dispatch call. The zero value gets defaults.
type DispatchOptions struct {
	// MaxWorkers is the maximum number of synthesis calls in flight.
	MaxWorkers int

	// Timeout applies to each chunk's synthesis call independently.
	Timeout time.Duration

	// OnProgress, if set, is invoked once per settled chunk. It is called
	// from worker goroutines and must be safe for concurrent use.
	OnProgress func(ProgressEvent)
}

// Dispatch fans the chunks out to fn with bounded concurrency and fans the
// results back in, keyed by original index.
//
// Every chunk is submitted; a chunk's failure neither cancels nor blocks its
// siblings, and there is no retry. Dispatch blocks until all submissions
// settle, then returns a result slice whose order equals the input order.
// Each slot is written by exactly one worker, so no locking is needed beyond
// the semaphore bounding admission.
//
// Cancelling ctx stops chunks that have not yet been admitted; chunks
// already in flight run to completion, failure, or timeout.
func Dispatch(ctx context.Context, chunks []string, fn SynthesizeFunc, opts DispatchOptions) []Result {
	results := make([]Result, len(chunks))
	for i := range results {
		results[i].Index = i
	}
	if len(chunks) == 0 {
		return results
	}

	workers := opts.MaxWorkers
	if workers < 1 {
		workers = DefaultMaxWorkers
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var completed atomic.Int64

	settle := func(i int, audio []byte, err error) {
		if err != nil {
			results[i].Err = &ChunkError{Index: i, Err: err}
		} else {
			results[i].Audio = audio
		}
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressEvent{
				Index:     i,
				Completed: int(completed.Add(1)),
				Total:     len(chunks),
				Err:       results[i].Err,
			})
		}
	}

	for i, text := range chunks {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				settle(i, nil, err)
				return
			}
			defer sem.Release(1)

			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			audio, err := fn(callCtx, text)
			settle(i, audio, err)
		}(i, text)
	}

	wg.Wait()
	return results
}
