package tts

import "context"

// Engine is the abstraction over a speech synthesis backend. The pipeline
// treats it as an opaque, potentially slow, potentially failing capability.
//
// Implementations must be safe for concurrent use: the dispatcher calls
// Synthesize from multiple goroutines at once.
type Engine interface {
	// Synthesize converts one chunk of text into encoded audio bytes.
	// Cancelling ctx aborts the call.
	Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error)

	// Name returns the engine identifier, used in logs.
	Name() string
}
