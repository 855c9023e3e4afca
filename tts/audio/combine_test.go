package audio

import (
	"bytes"
	"testing"
)

func TestCombineOrder(t *testing.T) {
	chunks := [][]byte{
		[]byte("first"),
		[]byte("second"),
		[]byte("third"),
	}

	got := Combine(chunks)
	want := []byte("firstsecondthird")

	if !bytes.Equal(got, want) {
		t.Errorf("Combine() = %q, want %q", got, want)
	}
}

func TestCombineEmpty(t *testing.T) {
	if got := Combine(nil); got != nil {
		t.Errorf("Combine(nil) = %v, want nil", got)
	}
	if got := Combine([][]byte{{}, {}}); got != nil {
		t.Errorf("Combine(empty chunks) = %v, want nil", got)
	}
}

func TestCombineSingle(t *testing.T) {
	got := Combine([][]byte{[]byte("only")})
	if !bytes.Equal(got, []byte("only")) {
		t.Errorf("Combine() = %q, want %q", got, "only")
	}
}

func TestCombineDoesNotAliasInput(t *testing.T) {
	chunk := []byte("aaaa")
	got := Combine([][]byte{chunk})

	chunk[0] = 'z'
	if got[0] != 'a' {
		t.Error("Combine() result shares memory with input")
	}
}

func TestMIMEType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"mp3", "audio/mpeg"},
		{"opus", "audio/ogg"},
		{"aac", "audio/aac"},
		{"flac", "audio/flac"},
		{"wav", "audio/wav"},
		{"pcm", "audio/pcm"},
		{"", "application/octet-stream"},
		{"ogg", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := MIMEType(tt.format); got != tt.want {
			t.Errorf("MIMEType(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
