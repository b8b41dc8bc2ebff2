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

type linksAPIHandler struct {
	links store.LinkStoreIface
	log   *zap.SugaredLogger
}

func registerLinkRoutes(r chi.Router, links store.LinkStoreIface, log *zap.SugaredLogger) {
	h := &linksAPIHandler{links: links, log: log}
	r.Get("/links", instrument("link_list", h.List))
	r.Post("/links", instrument("link_create", h.Create))
	r.Get("/links/{id}", instrument("link", h.Get))
	r.Put("/links/{id}", instrument("link_update", h.Update))
	r.Delete("/links/{id}", instrument("link_delete", h.Delete))
	r.Get("/links/{id}/short-description", instrument("title", h.ShortDescription))
}

// ShortDescription answers the editor's title lookup.
// GET /api/v1/links/{id}/short-description
//
// The body is an array with a single element so clients can read the first
// entry regardless of how many descriptions a link may grow.
func (h *linksAPIHandler) ShortDescription(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}
	titles, ok := h.regionalTitles(w, r, l.ID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, []ShortDescriptionResponse{toShortDescriptionResponse(l, titles)})
}

// Get returns a single link with its regional titles.
// GET /api/v1/links/{id}
func (h *linksAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}
	titles, ok := h.regionalTitles(w, r, l.ID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toLinkResponse(l, titles))
}

func (h *linksAPIHandler) regionalTitles(w http.ResponseWriter, r *http.Request, id string) ([]*store.RegionalTitle, bool) {
	titles, err := h.links.ListRegionalTitles(r.Context(), id)
	if err != nil {
		h.log.Errorw("failed to load regional titles", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
		return nil, false
	}
	return titles, true
}

func (h *linksAPIHandler) load(w http.ResponseWriter, r *http.Request) (*store.Link, bool) {
	id := chi.URLParam(r, "id")
	l, err := h.links.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "link not found", CodeNotFound)
		return nil, false
	}
	if err != nil {
		h.log.Errorw("failed to load link", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
		return nil, false
	}
	return l, true
}

// List returns all links ordered by slug. With ?slug= it returns the link
// with that slug, or an empty list.
// GET /api/v1/links
func (h *linksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	var links []*store.Link
	if slug := r.URL.Query().Get("slug"); slug != "" {
		l, err := h.links.GetBySlug(r.Context(), slug)
		switch {
		case err == nil:
			links = []*store.Link{l}
		case !errors.Is(err, store.ErrNotFound):
			h.log.Errorw("failed to find link", "slug", slug, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
			return
		}
	} else {
		var err error
		links, err = h.links.List(r.Context())
		if err != nil {
			h.log.Errorw("failed to list links", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
			return
		}
	}
	resp := make([]LinkResponse, 0, len(links))
	for _, l := range links {
		resp = append(resp, toLinkResponse(l, nil))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a link.
// POST /api/v1/links
func (h *linksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", CodeBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeValidation)
		return
	}

	l, err := h.links.Create(r.Context(), store.LinkInput{
		Slug:             req.Slug,
		URL:              req.URL,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
	})
	switch {
	case errors.Is(err, store.ErrSlugTaken):
		writeError(w, http.StatusConflict, err.Error(), CodeConflict)
		return
	case errors.Is(err, store.ErrSlugInvalid), errors.Is(err, store.ErrSlugReserved):
		writeError(w, http.StatusBadRequest, err.Error(), CodeValidation)
		return
	case err != nil:
		h.log.Errorw("failed to create link", "slug", req.Slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
		return
	}

	if len(req.RegionalTitles) > 0 {
		if err := h.links.SetRegionalTitles(r.Context(), l.ID, toStoreTitles(req.RegionalTitles)); err != nil {
			h.log.Errorw("failed to set regional titles", "id", l.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
			return
		}
	}

	metrics.LinksTotal.Inc()
	h.respondWithLink(w, r, http.StatusCreated, l)
}

// Update replaces the writable fields of a link.
// PUT /api/v1/links/{id}
func (h *linksAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", CodeBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeValidation)
		return
	}

	id := chi.URLParam(r, "id")
	l, err := h.links.Update(r.Context(), id, store.LinkInput{
		URL:              req.URL,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
	})
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "link not found", CodeNotFound)
		return
	}
	if err != nil {
		h.log.Errorw("failed to update link", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
		return
	}
	if req.RegionalTitles != nil {
		if err := h.links.SetRegionalTitles(r.Context(), l.ID, toStoreTitles(req.RegionalTitles)); err != nil {
			h.log.Errorw("failed to set regional titles", "id", l.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
			return
		}
	}
	h.respondWithLink(w, r, http.StatusOK, l)
}

// Delete removes a link.
// DELETE /api/v1/links/{id}
func (h *linksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.links.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "link not found", CodeNotFound)
		return
	}
	if err != nil {
		h.log.Errorw("failed to delete link", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", CodeInternal)
		return
	}
	metrics.LinksTotal.Dec()
	w.WriteHeader(http.StatusNoContent)
}

func (h *linksAPIHandler) respondWithLink(w http.ResponseWriter, r *http.Request, status int, l *store.Link) {
	titles, ok := h.regionalTitles(w, r, l.ID)
	if !ok {
		return
	}
	writeJSON(w, status, toLinkResponse(l, titles))
}
