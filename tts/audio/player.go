package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// PlayerConfig describes the PCM stream the player expects. The speech
// API emits 24kHz mono signed 16-bit little endian when asked for pcm.
type PlayerConfig struct {
	SampleRate int
	Channels   int
}

// DefaultPlayerConfig returns the configuration matching the pcm
// response format.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 24000,
		Channels:   1,
	}
}

// Player plays raw PCM16 audio through the system audio device. The
// underlying device context is initialized once and reused across
// playbacks.
type Player struct {
	context    *oto.Context
	sampleRate int
	channels   int
}

// NewPlayer opens the system audio device and waits for it to become
// ready.
func NewPlayer(cfg PlayerConfig) (*Player, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.Channels != 1 && cfg.Channels != 2 {
		return nil, fmt.Errorf("channels must be 1 or 2, got %d", cfg.Channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	return &Player{
		context:    ctx,
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
	}, nil
}

// Play blocks until the given PCM buffer has finished playing or the
// context is canceled.
func (p *Player) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return errors.New("audio data is empty")
	}

	player := p.context.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	player.Play()

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-tick.C:
		}
	}

	return nil
}

// PlayAll plays a sequence of PCM buffers back to back, stopping at the
// first error.
func (p *Player) PlayAll(ctx context.Context, chunks [][]byte) error {
	for i, c := range chunks {
		if err := p.Play(ctx, c); err != nil {
			return fmt.Errorf("playback failed on segment %d: %w", i, err)
		}
	}
	return nil
}
