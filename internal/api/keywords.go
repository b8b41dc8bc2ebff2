package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/linkeditor/internal/metrics"
	"github.com/joestump/linkeditor/internal/store"
)

type keywordsAPIHandler struct {
	keywords store.KeywordStoreIface
	log      *zap.SugaredLogger
}

func registerKeywordRoutes(r chi.Router, keywords store.KeywordStoreIface, log *zap.SugaredLogger) {
	h := &keywordsAPIHandler{keywords: keywords, log: log}
	r.Get("/keywords", instrument("keyword_list", h.List))
	r.Post("/keywords", instrument("keyword_create", h.Create))
	r.Get("/keywords/{id}", instrument("keyword", h.Get))
	r.Delete("/keywords/{id}", instrument("keyword_delete", h.Delete))
}

// Get answers the editor's keyword lookup.
// GET /api/v1/keywords/{id}
func (h *keywordsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	k, err := h.keywords.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "keyword not found", CodeNotFound)
		return
	}
	if err != nil {
		h.log.Errorw("failed to load keyword", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
		return
	}
	writeJSON(w, http.StatusOK, toKeywordResponse(k))
}

// List returns all keywords ordered by name.
// GET /api/v1/keywords
func (h *keywordsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.keywords.List(r.Context())
	if err != nil {
		h.log.Errorw("failed to list keywords", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list keywords", CodeInternal)
		return
	}
	resp := make([]KeywordResponse, len(list))
	for i, k := range list {
		resp[i] = toKeywordResponse(k)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a keyword.
// POST /api/v1/keywords
func (h *keywordsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateKeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", CodeBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeValidation)
		return
	}

	k, err := h.keywords.Create(r.Context(), req.Keyword, req.Description)
	switch {
	case errors.Is(err, store.ErrKeywordTaken):
		writeError(w, http.StatusConflict, err.Error(), CodeConflict)
		return
	case errors.Is(err, store.ErrKeywordEmpty):
		writeError(w, http.StatusBadRequest, err.Error(), CodeValidation)
		return
	case err != nil:
		h.log.Errorw("failed to create keyword", "keyword", req.Keyword, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
		return
	}

	metrics.KeywordsTotal.Inc()
	writeJSON(w, http.StatusCreated, toKeywordResponse(k))
}

// Delete removes a keyword.
// DELETE /api/v1/keywords/{id}
func (h *keywordsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.keywords.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "keyword not found", CodeNotFound)
		return
	}
	if err != nil {
		h.log.Errorw("failed to delete keyword", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
		return
	}
	metrics.KeywordsTotal.Dec()
	w.WriteHeader(http.StatusNoContent)
}
