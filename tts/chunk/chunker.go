// Package chunk splits text into request-sized pieces for TTS synthesis.
//
// Cloud TTS endpoints cap the amount of text accepted per request, so long
// input has to be cut up before dispatch. The splitter prefers sentence
// boundaries and falls back to word boundaries for sentences that are too
// long on their own. Boundaries never land mid-word.
package chunk

import (
	"strings"
)

// DefaultLimit is the default maximum number of characters per chunk.
// Chosen to stay under typical TTS API token budgets at roughly 3-4
// characters per token.
const DefaultLimit = 4000

// Split cuts text into ordered chunks of at most limit characters each.
//
// Text at or under the limit is returned as a single chunk, byte for byte.
// Longer text is split into sentences first; sentences are greedily
// accumulated into chunks joined by single spaces. A sentence that alone
// exceeds the limit is further split on word boundaries, and the resulting
// pieces flow through the same greedy accumulation, so a long sentence's
// tail can still share a chunk with the sentences around it.
//
// The limit is advisory for pathological input: a single word longer than
// the limit is emitted as its own chunk rather than being broken mid-word.
//
// A non-positive limit disables splitting.
func Split(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	current := ""

	// Greedily appends one piece (a sentence or a word-level sub-chunk) to
	// the running chunk, closing the chunk when the piece doesn't fit.
	appendPiece := func(piece string) {
		switch {
		case current == "":
			current = piece
		case len(current)+1+len(piece) <= limit:
			current += " " + piece
		default:
			chunks = append(chunks, strings.TrimSpace(current))
			current = piece
		}
	}

	for _, sentence := range Sentences(text) {
		if len(sentence) > limit {
			for _, piece := range splitWords(sentence, limit) {
				appendPiece(piece)
			}
			continue
		}
		appendPiece(sentence)
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}

// Sentences splits text at sentence boundaries: immediately after a '.',
// '!', or '?' that is followed by whitespace. This is a heuristic, not real
// sentence detection — abbreviations, decimal numbers, and ellipses will be
// mis-split. That is an accepted limitation; the pieces are only used to
// find good chunk boundaries, never shown to the user.
func Sentences(text string) []string {
	var out []string
	start := 0
	i := 0
	for i < len(text) {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && i+1 < len(text) && isSpace(text[i+1]) {
			out = append(out, text[start:i+1])
			i++
			for i < len(text) && isSpace(text[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// splitWords greedily packs the words of an oversized sentence into pieces
// of at most limit characters. A word longer than the limit becomes its own
// piece.
func splitWords(sentence string, limit int) []string {
	var out []string
	current := ""
	for _, word := range strings.Fields(sentence) {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= limit:
			current += " " + word
		default:
			out = append(out, current)
			current = word
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
