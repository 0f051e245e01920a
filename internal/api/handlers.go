package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"classmind.io/agentic-rag/internal/auth"
	"classmind.io/agentic-rag/internal/core"
	"classmind.io/agentic-rag/internal/store"
)

const anonymousIdentity = "anonymous"

// allowedSourceExtensions filters the document list to file types the
// ingestion pipeline accepts.
var allowedSourceExtensions = []string{".pdf", ".docx", ".txt", ".csv", ".png", ".jpg", ".jpeg"}

type identityKey struct{}

// SourceLister exposes the distinct source documents of the fragment index.
type SourceLister interface {
	ListSources(ctx context.Context) ([]string, error)
}

// HistoryReader reads back a user's recorded exchanges.
type HistoryReader interface {
	ListEntriesByUser(ctx context.Context, userIdentity string, limit int) ([]store.ChatEntry, error)
}

type APIHandler struct {
	pipeline  *core.Pipeline
	retriever *core.Retriever
	sources   SourceLister
	history   HistoryReader
	logger    *zap.Logger
}

func NewAPIHandler(pipeline *core.Pipeline, retriever *core.Retriever, sources SourceLister, history HistoryReader, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		pipeline:  pipeline,
		retriever: retriever,
		sources:   sources,
		history:   history,
		logger:    logger,
	}
}

// IdentityMiddleware attaches the subject of a valid bearer token to the
// request context. A missing or invalid token is not an error here; callers
// without one are attributed through the request body or as anonymous.
func (h *APIHandler) IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if identity, err := auth.ValidateJWT(tokenString); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey{}, identity))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func identityFromContext(ctx context.Context) string {
	if identity, ok := ctx.Value(identityKey{}).(string); ok {
		return identity
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type QueryRequest struct {
	Query          string            `json:"query"`
	SelectedSource string            `json:"selectedSource,omitempty"`
	History        []store.ChatEntry `json:"history,omitempty"`
	UserIdentity   string            `json:"userIdentity,omitempty"`
}

type QueryResponse struct {
	Answer  string            `json:"answer"`
	Persona string            `json:"persona"`
	History []store.ChatEntry `json:"history"`
}

func (h *APIHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Missing query")
		return
	}

	identity := identityFromContext(r.Context())
	if identity == "" {
		identity = req.UserIdentity
	}
	if identity == "" {
		identity = anonymousIdentity
	}

	state := &core.QueryState{
		Query:          req.Query,
		SelectedSource: req.SelectedSource,
		UserIdentity:   identity,
		History:        req.History,
	}

	if err := h.pipeline.Run(r.Context(), state); err != nil {
		if errors.Is(err, core.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("pipeline run failed", zap.String("user", identity), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer:  state.Answer,
		Persona: string(state.Persona),
		History: state.History,
	})
}

func (h *APIHandler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	sources, err := h.sources.ListSources(r.Context())
	if err != nil {
		h.logger.Error("failed to list sources", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	var documents []string
	for _, source := range sources {
		lower := strings.ToLower(source)
		for _, ext := range allowedSourceExtensions {
			if strings.HasSuffix(lower, ext) {
				documents = append(documents, source)
				break
			}
		}
	}
	sort.Strings(documents)
	if documents == nil {
		documents = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"documents": documents})
}

type SuggestRequest struct {
	Prefix         string `json:"prefix"`
	SelectedSource string `json:"selectedSource"`
}

func (h *APIHandler) SuggestHandler(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	suggestions, err := h.retriever.SuggestWords(r.Context(), req.Prefix, req.SelectedSource)
	if err != nil {
		h.logger.Error("suggestion lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to compute suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == "" {
		identity = r.URL.Query().Get("user")
	}
	if identity == "" {
		identity = anonymousIdentity
	}

	entries, err := h.history.ListEntriesByUser(r.Context(), identity, 50)
	if err != nil {
		h.logger.Error("failed to read chat history", zap.String("user", identity), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to read history")
		return
	}
	if entries == nil {
		entries = []store.ChatEntry{}
	}

	writeJSON(w, http.StatusOK, map[string][]store.ChatEntry{"history": entries})
}

type TokenRequest struct {
	UserIdentity string `json:"userIdentity"`
}

func (h *APIHandler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.UserIdentity == "" {
		writeError(w, http.StatusBadRequest, "User identity is required")
		return
	}

	token, err := auth.GenerateJWT(req.UserIdentity)
	if err != nil {
		h.logger.Error("failed to generate token", zap.String("user", req.UserIdentity), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
