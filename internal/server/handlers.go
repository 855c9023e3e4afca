package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgnsrekt/ttspipe/tts"
	"github.com/dgnsrekt/ttspipe/tts/audio"
)

// InitializeRequest carries the credentials for /api/initialize.
type InitializeRequest struct {
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"api_key"`
}

// ConvertRequest is the request body for /api/convert.
type ConvertRequest struct {
	Text       string `json:"text"`
	Voice      string `json:"voice,omitempty"`
	MaxWorkers int    `json:"max_workers,omitempty"`
}

// AudioChunk is one synthesized segment in a ConvertResponse. Data is
// base64 encoded by the JSON marshaler.
type AudioChunk struct {
	Index int    `json:"index"`
	Data  []byte `json:"data"`
	Type  string `json:"type"`
}

// ConvertResponse is the response body for /api/convert.
type ConvertResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	AudioChunks []AudioChunk `json:"audio_chunks"`
	TotalChunks int          `json:"total_chunks"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the response body for /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleHealthz handles GET /healthz requests.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleInitialize handles POST /api/initialize requests. It validates
// the credentials by constructing a client, then stores a configuration
// snapshot for later conversions.
func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req InitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("failed to decode initialize request", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	cfg := tts.DefaultConfig()
	cfg.Endpoint = req.Endpoint
	cfg.APIKey = req.APIKey

	if _, err := s.newEngine(cfg); err != nil {
		s.logger.Warn("initialize rejected", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	s.setConfig(cfg)
	s.logger.Info("client initialized", "endpoint", cfg.Endpoint)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "client initialized",
	})
}

// handleConvert handles POST /api/convert requests. The full pipeline
// runs synchronously and the response carries every synthesized
// segment.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("failed to decode convert request", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	snapshot := s.config()
	if snapshot == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "client not initialized"})
		return
	}

	cfg := *snapshot
	if req.MaxWorkers > 0 {
		cfg.MaxWorkers = req.MaxWorkers
	}

	voice, err := tts.ParseVoice(req.Voice)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	engine, err := s.newEngine(cfg)
	if err != nil {
		s.logger.Error("failed to build engine", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to build engine"})
		return
	}

	pipeline, err := tts.NewPipeline(cfg, engine, s.logger)
	if err != nil {
		s.logger.Error("failed to build pipeline", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to build pipeline"})
		return
	}

	conv, err := pipeline.Convert(r.Context(), req.Text, voice)
	switch {
	case errors.Is(err, tts.ErrEmptyInput):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "text is required"})
		return
	case errors.Is(err, tts.ErrAllChunksFailed):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "all chunks failed"})
		return
	case err != nil:
		s.logger.Error("conversion failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	mime := audio.MIMEType(cfg.ResponseFormat)
	chunks := make([]AudioChunk, 0, conv.Succeeded())
	for i, data := range conv.Audio() {
		chunks = append(chunks, AudioChunk{Index: i, Data: data, Type: mime})
	}

	msg := "conversion complete"
	if failed := conv.Failed(); failed > 0 {
		msg = "conversion completed with failures"
		s.logger.Warn("partial conversion", "failed", failed, "total", len(conv.Chunks))
	}

	writeJSON(w, http.StatusOK, ConvertResponse{
		Success:     true,
		Message:     msg,
		AudioChunks: chunks,
		TotalChunks: len(conv.Chunks),
	})
}
