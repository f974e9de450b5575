package http

import (
	"errors"
	"net/http"

	"github.com/skipmark/skipmark-server/internal/api/respond"
	"github.com/skipmark/skipmark-server/internal/api/validate"
	"github.com/skipmark/skipmark-server/internal/model"
	"github.com/skipmark/skipmark-server/internal/services"
)

type UserInfoHandler struct {
	svc *services.UserInfoService
}

func NewUserInfoHandler(svc *services.UserInfoService) *UserInfoHandler {
	return &UserInfoHandler{svc: svc}
}

// GetUserInfo GET /api/userInfo?userID=|publicUserID=&values=[...]|value=...
func (h *UserInfoHandler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	values, err := validate.StringList(q.Get("values"), q["value"])
	if err != nil {
		if errors.Is(err, validate.ErrInvalidJSON) {
			respond.WriteBadRequest(w, "Invalid values JSON")
			return
		}
		respond.WriteBadRequest(w, "Invalid values")
		return
	}

	out, err := h.svc.UserInfo(r.Context(), services.UserInfoRequest{
		UserID:       q.Get("userID"),
		PublicUserID: q.Get("publicUserID"),
		Values:       values,
	})
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
