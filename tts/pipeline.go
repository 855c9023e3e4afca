package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttspipe/tts/chunk"
)

// Pipeline runs the chunk → dispatch → reassemble sequence against one
// engine with one immutable configuration snapshot.
type Pipeline struct {
	engine Engine
	cfg    Config
	logger *log.Logger
}

// NewPipeline builds a pipeline. The logger may be nil, in which case the
// package default is used.
func NewPipeline(cfg Config, engine Engine, logger *log.Logger) (*Pipeline, error) {
	if engine == nil {
		return nil, errors.New("pipeline requires an engine")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{engine: engine, cfg: cfg, logger: logger}, nil
}

// Conversion is the outcome of one Convert call: per-chunk results in
// original order plus the settings they were produced with. Results are
// single-use values; nothing is cached between calls.
type Conversion struct {
	Voice   Voice
	Format  string
	Chunks  []string
	Results []Result
}

// Succeeded counts chunks that produced audio.
func (c *Conversion) Succeeded() int {
	n := 0
	for _, r := range c.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts chunks whose synthesis errored.
func (c *Conversion) Failed() int {
	return len(c.Results) - c.Succeeded()
}

// Audio returns the successful audio buffers in original chunk order,
// skipping failed slots.
func (c *Conversion) Audio() [][]byte {
	out := make([][]byte, 0, len(c.Results))
	for _, r := range c.Results {
		if r.Err == nil {
			out = append(out, r.Audio)
		}
	}
	return out
}

// Errors returns the per-chunk failures, if any.
func (c *Conversion) Errors() []error {
	var out []error
	for _, r := range c.Results {
		if r.Err != nil {
			out = append(out, r.Err)
		}
	}
	return out
}

// Convert synthesizes text with the given voice.
//
// Input validation happens before any network call: empty or whitespace-only
// text returns ErrEmptyInput, an unknown voice returns ErrInvalidVoice. An
// empty voice selects the configured default.
//
// Per-chunk synthesis failures are recorded in the returned Conversion and
// never abort sibling chunks. If every chunk fails, the Conversion is
// returned alongside ErrAllChunksFailed so callers can still inspect the
// per-index detail.
func (p *Pipeline) Convert(ctx context.Context, text string, voice Voice) (*Conversion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	if voice == "" {
		voice = Voice(p.cfg.Voice)
	}
	if !voice.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVoice, voice)
	}

	chunks := chunk.Split(text, p.cfg.MaxChunkChars)
	p.logger.Debug("text split into chunks",
		"engine", p.engine.Name(),
		"chars", len(text),
		"chunks", len(chunks),
		"voice", voice,
	)

	results := Dispatch(ctx, chunks, func(ctx context.Context, t string) ([]byte, error) {
		return p.engine.Synthesize(ctx, t, voice)
	}, DispatchOptions{
		MaxWorkers: p.cfg.MaxWorkers,
		Timeout:    p.cfg.RequestTimeout,
		OnProgress: func(ev ProgressEvent) {
			if ev.Err != nil {
				p.logger.Warn("chunk failed", "chunk", ev.Index+1, "total", ev.Total, "error", ev.Err)
				return
			}
			p.logger.Debug("chunk processed", "chunk", ev.Index+1, "total", ev.Total)
		},
	})

	conv := &Conversion{
		Voice:   voice,
		Format:  p.cfg.ResponseFormat,
		Chunks:  chunks,
		Results: results,
	}

	if conv.Succeeded() == 0 {
		return conv, ErrAllChunksFailed
	}
	return conv, nil
}
