package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/ragserve/internal/loader"
	"github.com/hyperjump/ragserve/internal/rag"
	"github.com/hyperjump/ragserve/internal/store"
)

type chunkParams struct {
	Size    int `json:"size"`
	Overlap int `json:"overlap"`
}

type ingestRequest struct {
	Texts     []string          `json:"texts"`
	URLs      []string          `json:"urls"`
	Markdown  []string          `json:"md"`
	Namespace string            `json:"namespace"`
	Metadata  map[string]string `json:"metadata"`
	Chunk     *chunkParams      `json:"chunk"`
}

type chatRequest struct {
	Query     string            `json:"query"`
	Namespace string            `json:"namespace"`
	TopK      int               `json:"topK"`
	Filter    map[string]string `json:"filter"`
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Texts) == 0 && len(req.URLs) == 0 && len(req.Markdown) == 0 {
		respondError(w, http.StatusBadRequest, "texts, urls, or md is required")
		return
	}
	docs, err := s.loader.Load(r.Context(), loader.Sources{
		Texts:    req.Texts,
		URLs:     req.URLs,
		Markdown: req.Markdown,
	})
	if err != nil {
		s.logger.Error("document load failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	var cc rag.ChunkConfig
	if req.Chunk != nil {
		cc = rag.ChunkConfig{Size: req.Chunk.Size, Overlap: req.Chunk.Overlap}
	}
	namespace := s.namespaceOf(req.Namespace)
	res, err := s.orchestrator.Ingest(r.Context(), docs, namespace, req.Metadata, cc)
	if err != nil {
		if errors.Is(err, loader.ErrChunkConfig) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("ingest failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":        true,
		"chunks":    res.Chunks,
		"upserted":  res.Upserted,
		"namespace": namespace,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	answer, contexts, err := s.orchestrator.RetrieveAndAnswer(r.Context(), req.Query, s.namespaceOf(req.Namespace), req.TopK, req.Filter)
	if err != nil {
		s.logger.Error("chat failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if contexts == nil {
		contexts = []store.Result{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"answer":   answer,
		"contexts": contexts,
	})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	summary, err := s.orchestrator.Summarize(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("summarize failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	sentiment, err := s.orchestrator.Sentiment(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("sentiment failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sentiment": sentiment})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// namespaceOf resolves a request namespace against the configured default.
func (s *Server) namespaceOf(requested string) string {
	if requested != "" {
		return requested
	}
	if s.config.Store.Namespace != "" {
		return s.config.Store.Namespace
	}
	return store.DefaultNamespace
}

type errorMessage struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error errorMessage `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Error: errorMessage{Message: message}})
}
