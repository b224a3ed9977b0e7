package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codemasterhq/codemaster/internal/service"
	"github.com/codemasterhq/codemaster/internal/store"
	"github.com/codemasterhq/codemaster/pkg/httpx"
	"github.com/codemasterhq/codemaster/pkg/slogx"
)

// ProfileHandler serves the authenticated user's own account.
type ProfileHandler struct {
	UserService   *service.UserService
	SecureCookies bool
}

// HandleCheck confirms the session is valid and returns the account. The
// session middleware has already done all the checking.
func (h *ProfileHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := h.UserService.GetUser(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load account", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to load account")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{User: toUserResponse(u)})
}

// HandleDelete removes the account and its submissions. The cookie is
// cleared; any other live token for this account dies at the authenticator's
// existence check.
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.UserService.DeleteAccount(ctx, httpx.UserIDFromCtx(ctx)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Account not found")
			return
		}
		log.Error("account deletion failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to delete account")
		return
	}

	clearSessionCookie(w, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

func (h *ProfileHandler) HandleGetPicture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := h.UserService.GetUser(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		// The account can vanish between the middleware check and here.
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Account not found")
			return
		}
		slogx.FromContext(ctx).Error("failed to load account", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to load account")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"image": u.ProfileImage})
}

func (h *ProfileHandler) HandleSetPicture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req profileImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	u, err := h.UserService.UpdateProfileImage(ctx, httpx.UserIDFromCtx(ctx), req.Image)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Account not found")
			return
		}
		log.Error("profile image update failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to update image")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{User: toUserResponse(u)})
}
