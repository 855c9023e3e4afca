// Package mock provides a deterministic tts.Engine for tests.
package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dgnsrekt/ttspipe/tts"
)

// Engine implements tts.Engine without touching the network. By default it
// echoes "voice|text" back as the audio payload so tests can assert content
// and ordering. Failures and delays can be injected per call.
type Engine struct {
	mu    sync.Mutex
	calls []string

	delay    time.Duration
	failWith error
	failText string // when set, only calls containing this substring fail

	// SynthesizeFunc, when set, fully replaces the default behavior.
	SynthesizeFunc func(ctx context.Context, text string, voice tts.Voice) ([]byte, error)
}

var _ tts.Engine = (*Engine)(nil)

// New creates a mock engine.
func New() *Engine {
	return &Engine{}
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return "mock"
}

// SetDelay makes every call sleep for d before returning.
func (e *Engine) SetDelay(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = d
}

// SetFailure makes calls fail with err. When substring is non-empty, only
// calls whose text contains it fail; all others succeed.
func (e *Engine) SetFailure(err error, substring string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failWith = err
	e.failText = substring
}

// Calls returns the texts synthesized so far, in completion order.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.calls))
	copy(out, e.calls)
	return out
}

// CallCount returns how many synthesize calls were made.
func (e *Engine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// Synthesize records the call and returns the configured outcome.
func (e *Engine) Synthesize(ctx context.Context, text string, voice tts.Voice) ([]byte, error) {
	e.mu.Lock()
	e.calls = append(e.calls, text)
	delay := e.delay
	failWith := e.failWith
	failText := e.failText
	custom := e.SynthesizeFunc
	e.mu.Unlock()

	if custom != nil {
		return custom(ctx, text, voice)
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if failWith != nil && (failText == "" || strings.Contains(text, failText)) {
		return nil, failWith
	}

	return []byte(voice.String() + "|" + text), nil
}
