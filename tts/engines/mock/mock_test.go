package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/ttspipe/tts"
)

func TestSynthesizeEchoesVoiceAndText(t *testing.T) {
	e := New()

	audio, err := e.Synthesize(context.Background(), "hello", tts.VoiceFable)
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	if string(audio) != "fable|hello" {
		t.Errorf("audio = %q, want %q", audio, "fable|hello")
	}
}

func TestSynthesizeRecordsCalls(t *testing.T) {
	e := New()

	for _, text := range []string{"one", "two", "three"} {
		if _, err := e.Synthesize(context.Background(), text, tts.VoiceAlloy); err != nil {
			t.Fatal(err)
		}
	}

	if e.CallCount() != 3 {
		t.Errorf("call count = %d, want 3", e.CallCount())
	}
	calls := e.Calls()
	if len(calls) != 3 || calls[0] != "one" || calls[2] != "three" {
		t.Errorf("calls = %v", calls)
	}
}

func TestSetFailure(t *testing.T) {
	boom := errors.New("injected")
	e := New()
	e.SetFailure(boom, "")

	if _, err := e.Synthesize(context.Background(), "anything", tts.VoiceAlloy); !errors.Is(err, boom) {
		t.Errorf("error = %v, want injected failure", err)
	}
}

func TestSetFailureSubstring(t *testing.T) {
	boom := errors.New("injected")
	e := New()
	e.SetFailure(boom, "poison")

	if _, err := e.Synthesize(context.Background(), "healthy text", tts.VoiceAlloy); err != nil {
		t.Errorf("unexpected error for non-matching text: %v", err)
	}
	if _, err := e.Synthesize(context.Background(), "this has poison in it", tts.VoiceAlloy); !errors.Is(err, boom) {
		t.Errorf("error = %v, want injected failure", err)
	}
}

func TestDelayedSynthesizeHonorsContext(t *testing.T) {
	e := New()
	e.SetDelay(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := e.Synthesize(ctx, "slow", tts.VoiceAlloy); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestSynthesizeFuncOverride(t *testing.T) {
	e := New()
	e.SynthesizeFunc = func(_ context.Context, text string, _ tts.Voice) ([]byte, error) {
		return []byte("custom:" + text), nil
	}

	audio, err := e.Synthesize(context.Background(), "x", tts.VoiceAlloy)
	if err != nil {
		t.Fatal(err)
	}
	if string(audio) != "custom:x" {
		t.Errorf("audio = %q", audio)
	}
}
