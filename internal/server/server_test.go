package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttspipe/tts"
	"github.com/dgnsrekt/ttspipe/tts/engines/mock"
)

func testServer() *Server {
	logger := log.New(io.Discard) // quiet logger for tests
	srv := New(":0", logger)
	srv.newEngine = func(cfg tts.Config) (tts.Engine, error) {
		if cfg.Endpoint == "" {
			return nil, tts.ErrMissingEndpoint
		}
		if cfg.APIKey == "" {
			return nil, tts.ErrMissingAPIKey
		}
		return mock.New(), nil
	}
	return srv
}

func initialize(t *testing.T, srv *Server) {
	t.Helper()

	body := `{"endpoint":"https://example.openai.azure.com","api_key":"secret"}`
	req := httptest.NewRequest("POST", "/api/initialize", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("initialize failed: status %d: %s", w.Code, w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got '%s'", resp.Status)
	}
}

func TestInitializeMissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing endpoint", `{"api_key":"secret"}`},
		{"missing api key", `{"endpoint":"https://example.openai.azure.com"}`},
		{"empty body", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer()

			req := httptest.NewRequest("POST", "/api/initialize", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			srv.Handler().ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
			if srv.config() != nil {
				t.Error("config stored despite rejected credentials")
			}
		})
	}
}

func TestInitializeInvalidJSON(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest("POST", "/api/initialize", bytes.NewBufferString(`{not json}`))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestConvertNotInitialized(t *testing.T) {
	srv := testServer()

	body := `{"text":"Hello, world."}`
	req := httptest.NewRequest("POST", "/api/convert", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != "client not initialized" {
		t.Errorf("expected error 'client not initialized', got '%s'", resp.Error)
	}
}

func TestConvertSuccess(t *testing.T) {
	srv := testServer()
	initialize(t, srv)

	body := `{"text":"Hello, world.","voice":"nova"}`
	req := httptest.NewRequest("POST", "/api/convert", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp ConvertResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if !resp.Success {
		t.Error("expected success to be true")
	}
	if resp.TotalChunks != 1 {
		t.Errorf("expected 1 total chunk, got %d", resp.TotalChunks)
	}
	if len(resp.AudioChunks) != 1 {
		t.Fatalf("expected 1 audio chunk, got %d", len(resp.AudioChunks))
	}

	chunk := resp.AudioChunks[0]
	if chunk.Index != 0 {
		t.Errorf("expected index 0, got %d", chunk.Index)
	}
	if chunk.Type != "audio/mpeg" {
		t.Errorf("expected type audio/mpeg, got %s", chunk.Type)
	}
	// The mock engine echoes "voice|text" so the payload round-trips
	// through the base64 encoding intact.
	if got := string(chunk.Data); got != "nova|Hello, world." {
		t.Errorf("unexpected chunk payload: %q", got)
	}
}

func TestConvertEmptyText(t *testing.T) {
	srv := testServer()
	initialize(t, srv)

	body := `{"text":"   "}`
	req := httptest.NewRequest("POST", "/api/convert", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != "text is required" {
		t.Errorf("expected error 'text is required', got '%s'", resp.Error)
	}
}

func TestConvertInvalidVoice(t *testing.T) {
	srv := testServer()
	initialize(t, srv)

	body := `{"text":"Hello.","voice":"robocop"}`
	req := httptest.NewRequest("POST", "/api/convert", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestConvertAllChunksFailed(t *testing.T) {
	srv := testServer()
	initialize(t, srv)

	srv.newEngine = func(cfg tts.Config) (tts.Engine, error) {
		eng := mock.New()
		eng.SetFailure(errors.New("synthesis exploded"), "")
		return eng, nil
	}

	body := `{"text":"Hello, world."}`
	req := httptest.NewRequest("POST", "/api/convert", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestConvertSplitsLongText(t *testing.T) {
	srv := testServer()
	initialize(t, srv)

	// Each sentence is well under the limit but together they exceed
	// it, so the text splits into multiple chunks.
	var sb strings.Builder
	for i := 0; i < 4; i++ {
		sb.WriteString(strings.Repeat("a", 2500))
		sb.WriteString(". ")
	}

	payload, err := json.Marshal(ConvertRequest{Text: sb.String()})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/api/convert", bytes.NewReader(payload))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp ConvertResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.TotalChunks < 2 {
		t.Errorf("expected multiple chunks, got %d", resp.TotalChunks)
	}
	if len(resp.AudioChunks) != resp.TotalChunks {
		t.Errorf("expected %d audio chunks, got %d", resp.TotalChunks, len(resp.AudioChunks))
	}
	for i, chunk := range resp.AudioChunks {
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
	}
}
