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

// VideosHandler manages editorial video uploads. Admin only.
type VideosHandler struct {
	VideoService *service.VideoService
}

// HandleCreateGrant presigns an upload slot for the problem's editorial.
// The client PUTs the file to the returned URL, then calls HandleSave.
func (h *VideosHandler) HandleCreateGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	problemID := r.PathValue("problemId")

	grant, err := h.VideoService.CreateUploadGrant(ctx, problemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Problem not found")
			return
		}
		slogx.FromContext(ctx).Error("upload grant failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create upload grant")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"uploadUrl": grant.UploadURL,
		"objectKey": grant.ObjectKey,
	})
}

func (h *VideosHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req saveVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	v, err := h.VideoService.SaveVideo(ctx, service.SaveVideoInput{
		ProblemID: req.ProblemID,
		ObjectKey: req.ObjectKey,
		Duration:  req.Duration,
	}, httpx.UserIDFromCtx(ctx))
	if err != nil {
		log.Error("editorial save failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to save editorial")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"problemId": v.ProblemID,
		"secureUrl": v.SecureURL,
		"duration":  v.Duration,
	})
}

func (h *VideosHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	problemID := r.PathValue("problemId")

	if err := h.VideoService.DeleteVideo(ctx, problemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Editorial not found")
			return
		}
		slogx.FromContext(ctx).Error("editorial deletion failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to delete editorial")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Editorial deleted"})
}
