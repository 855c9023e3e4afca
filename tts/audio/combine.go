// Package audio provides helpers for working with synthesized audio:
// joining per-chunk payloads into a single output and playing raw PCM
// through the system audio device.
package audio

import "bytes"

// Combine joins per-chunk audio payloads into a single byte stream, in
// order. For MP3 this produces a playable file because most decoders
// resynchronize on frame headers; ID3 tags and encoder padding between
// segments are tolerated but the result is not a spec-clean single
// stream. Container formats such as WAV or FLAC cannot be joined this
// way. Callers that need a clean file should re-encode.
func Combine(chunks [][]byte) []byte {
	var total int
	for _, c := range chunks {
		total += len(c)
	}
	if total == 0 {
		return nil
	}

	buf := bytes.NewBuffer(make([]byte, 0, total))
	for _, c := range chunks {
		buf.Write(c)
	}
	return buf.Bytes()
}

// MIMEType maps a response format name to its media type. Unknown
// formats fall back to application/octet-stream.
func MIMEType(format string) string {
	switch format {
	case "mp3":
		return "audio/mpeg"
	case "opus":
		return "audio/ogg"
	case "aac":
		return "audio/aac"
	case "flac":
		return "audio/flac"
	case "wav":
		return "audio/wav"
	case "pcm":
		return "audio/pcm"
	default:
		return "application/octet-stream"
	}
}
