package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/service"
	"github.com/codemasterhq/codemaster/internal/store"
	"github.com/codemasterhq/codemaster/pkg/httpx"
	"github.com/codemasterhq/codemaster/pkg/slogx"
)

type SubmissionsHandler struct {
	SubmissionService *service.SubmissionService
}

// HandleRun executes code against the visible test cases without recording
// anything. Used by the editor's "run" button.
func (h *SubmissionsHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	problemID := r.PathValue("problemId")

	req, ok := decodeSubmitRequest(w, r)
	if !ok {
		return
	}

	res, err := h.SubmissionService.Run(ctx, problemID, domain.Language(req.Language), req.Code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Problem not found")
			return
		}
		slogx.FromContext(ctx).Error("run failed", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "judge_unavailable", "Code execution failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRunResponse(res))
}

// HandleSubmit judges code against the hidden test cases and records the
// verdict.
func (h *SubmissionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	problemID := r.PathValue("problemId")

	req, ok := decodeSubmitRequest(w, r)
	if !ok {
		return
	}

	sub, err := h.SubmissionService.Submit(ctx, httpx.UserIDFromCtx(ctx), problemID,
		domain.Language(req.Language), req.Code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Problem not found")
			return
		}
		slogx.FromContext(ctx).Error("submission failed", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "judge_unavailable", "Code execution failed")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toSubmissionResponse(sub))
}

// HandleList returns the user's own submission history for a problem.
func (h *SubmissionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	problemID := r.PathValue("problemId")

	subs, err := h.SubmissionService.ListForProblem(ctx, httpx.UserIDFromCtx(ctx), problemID)
	if err != nil {
		slogx.FromContext(ctx).Error("submission listing failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list submissions")
		return
	}

	out := make([]submissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubmissionResponse(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func decodeSubmitRequest(w http.ResponseWriter, r *http.Request) (submitRequest, bool) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return submitRequest{}, false
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return submitRequest{}, false
	}
	return req, true
}
