package http

import (
	"errors"
	"net/http"

	"github.com/skipmark/skipmark-server/internal/api/respond"
	"github.com/skipmark/skipmark-server/internal/api/validate"
	"github.com/skipmark/skipmark-server/internal/model"
	"github.com/skipmark/skipmark-server/internal/services"
)

type LockReasonHandler struct {
	svc *services.LockReasonService
}

func NewLockReasonHandler(svc *services.LockReasonService) *LockReasonHandler {
	return &LockReasonHandler{svc: svc}
}

// GetLockReason GET /api/lockReason?videoID=&categories=[...]|category=...
func (h *LockReasonHandler) GetLockReason(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	categories, err := validate.StringList(q.Get("categories"), q["category"])
	if err != nil {
		if errors.Is(err, validate.ErrInvalidJSON) {
			respond.WriteBadRequest(w, "Bad parameter: categories (invalid JSON)")
			return
		}
		respond.WriteBadRequest(w, "Categories parameter does not match format requirements")
		return
	}

	out, err := h.svc.LockReasons(r.Context(), q.Get("videoID"), categories)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		respond.WriteInternalError(w, "Internal Server Error")
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
