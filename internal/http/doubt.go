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

// DoubtHandler fronts the problem-scoped AI tutor.
type DoubtHandler struct {
	DoubtService *service.DoubtService
}

func (h *DoubtHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	answer, err := h.DoubtService.Answer(ctx, req.ProblemID, req.history())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Problem not found")
			return
		}
		log.Error("doubt chat failed", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "model_unavailable", "Assistant is unavailable")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": answer})
}
