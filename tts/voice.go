package tts

import (
	"fmt"
	"strings"
)

// Voice selects one of the preset voices offered by the synthesis API. The
// value is forwarded verbatim in the request body; the pipeline itself only
// validates that it names a known preset.
type Voice string

// Preset voices supported by the speech deployment.
const (
	VoiceAlloy   Voice = "alloy"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceOnyx    Voice = "onyx"
	VoiceNova    Voice = "nova"
	VoiceShimmer Voice = "shimmer"
)

// DefaultVoice is used when the caller does not pick one.
const DefaultVoice = VoiceAlloy

// Voices returns all preset voices in display order.
func Voices() []Voice {
	return []Voice{VoiceAlloy, VoiceEcho, VoiceFable, VoiceOnyx, VoiceNova, VoiceShimmer}
}

// IsValid reports whether v names a known preset.
func (v Voice) IsValid() bool {
	switch v {
	case VoiceAlloy, VoiceEcho, VoiceFable, VoiceOnyx, VoiceNova, VoiceShimmer:
		return true
	}
	return false
}

// String returns the wire value of the voice.
func (v Voice) String() string {
	return string(v)
}

// ParseVoice converts a user-supplied string into a Voice, ignoring case.
// An empty string selects the default.
func ParseVoice(s string) (Voice, error) {
	if s == "" {
		return DefaultVoice, nil
	}
	v := Voice(strings.ToLower(s))
	if !v.IsValid() {
		return "", fmt.Errorf("%w: %q (valid voices: %v)", ErrInvalidVoice, s, Voices())
	}
	return v, nil
}
