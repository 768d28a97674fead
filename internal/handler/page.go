package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
)

// PageHandler handles page HTTP requests, including publication and the
// page link graph.
type PageHandler struct {
	pageService services.PageService
	linkService services.LinkService
	binService  services.BinService
	logger      *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	pageService services.PageService,
	linkService services.LinkService,
	binService services.BinService,
	logger *slog.Logger,
) *PageHandler {
	return &PageHandler{
		pageService: pageService,
		linkService: linkService,
		binService:  binService,
		logger:      logger,
	}
}

// CreatePage creates a new unpublished page
// POST /api/pages
func (h *PageHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	var req services.CreatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = userID

	page, err := h.pageService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, page)
}

// GetPage retrieves a page by ID
// GET /api/pages/{id}
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	page, err := h.pageService.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// ListPages lists the user's pages with optional filters
// GET /api/pages?folder_id=...&root=true&search=...&published=true
func (h *PageHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	filters := repositories.PageFilters{
		Search: r.URL.Query().Get("search"),
	}
	if folderID := r.URL.Query().Get("folder_id"); folderID != "" {
		filters.FolderID = &folderID
	}
	if r.URL.Query().Get("root") == "true" {
		filters.RootOnly = true
	}
	if published := r.URL.Query().Get("published"); published != "" {
		val := published == "true"
		filters.Published = &val
	}

	pages, err := h.pageService.List(r.Context(), userID, filters)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pages)
}

// UpdatePage mutates title, content and/or folder
// PATCH /api/pages/{id}
func (h *PageHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	var req services.UpdatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	page, err := h.pageService.Update(r.Context(), r.PathValue("id"), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// MovePage places the page in another folder; null folder_id moves to root
// POST /api/pages/{id}/move
func (h *PageHandler) MovePage(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	var req struct {
		FolderID *string `json:"folder_id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	page, err := h.pageService.Move(r.Context(), r.PathValue("id"), userID, req.FolderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// DeletePage moves the page to the bin
// DELETE /api/pages/{id}
func (h *PageHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	if err := h.binService.DeletePage(r.Context(), r.PathValue("id"), userID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PublishPage claims a slug and marks the page published
// POST /api/pages/{id}/publish
func (h *PageHandler) PublishPage(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	var req struct {
		Slug string `json:"slug"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	page, err := h.pageService.Publish(r.Context(), r.PathValue("id"), userID, req.Slug)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// UnpublishPage clears the published state, keeping the slug reserved
// POST /api/pages/{id}/unpublish
func (h *PageHandler) UnpublishPage(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	page, err := h.pageService.Unpublish(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// GetPublicPage serves a published page by slug, no authentication
// GET /api/public/pages/{slug}
func (h *PageHandler) GetPublicPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageService.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// GetPageLinks returns outgoing and incoming edges of a page
// GET /api/pages/{id}/links
func (h *PageHandler) GetPageLinks(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	links, err := h.linkService.Links(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, links)
}

// GetPageBacklinks returns incoming edges of a page
// GET /api/pages/{id}/backlinks
func (h *PageHandler) GetPageBacklinks(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	backlinks, err := h.linkService.Backlinks(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, backlinks)
}

// CreatePageLink adds an explicit edge from this page to a target page
// POST /api/pages/{id}/links
func (h *PageHandler) CreatePageLink(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	var req struct {
		ToPageID string `json:"to_page_id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	link, err := h.linkService.CreateLink(r.Context(), userID, r.PathValue("id"), req.ToPageID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, link)
}

// DeletePageLink removes the edge to the target page
// DELETE /api/pages/{id}/links/{target}
func (h *PageHandler) DeletePageLink(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	if err := h.linkService.DeleteLink(r.Context(), userID, r.PathValue("id"), r.PathValue("target")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
