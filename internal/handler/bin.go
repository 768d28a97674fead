package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
)

// BinHandler handles bin (trash) HTTP requests
type BinHandler struct {
	binService services.BinService
	logger     *slog.Logger
}

// NewBinHandler creates a new bin handler
func NewBinHandler(binService services.BinService, logger *slog.Logger) *BinHandler {
	return &BinHandler{
		binService: binService,
		logger:     logger,
	}
}

// ListBin lists the user's bin items, newest deletion first
// GET /api/bin
func (h *BinHandler) ListBin(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	items, err := h.binService.List(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

// RestoreItem replays a bin item's snapshot into live storage
// POST /api/bin/{id}/restore
func (h *BinHandler) RestoreItem(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	if err := h.binService.Restore(r.Context(), r.PathValue("id"), userID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteItem permanently discards a single bin item
// DELETE /api/bin/{id}
func (h *BinHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	deleted, err := h.binService.PermanentlyDelete(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		handleError(w, err)
		return
	}
	if !deleted {
		httputil.RespondError(w, http.StatusNotFound, "bin item not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EmptyBin discards all of the user's bin items
// DELETE /api/bin
func (h *BinHandler) EmptyBin(w http.ResponseWriter, r *http.Request) {
	userID := requireUserID(w, r)
	if userID == "" {
		return
	}

	count, err := h.binService.EmptyBin(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}
