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

type ProblemsHandler struct {
	ProblemService *service.ProblemService
}

func (h *ProblemsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req problemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	p, err := h.ProblemService.Create(ctx, req.toInput(), httpx.UserIDFromCtx(ctx))
	if err != nil {
		if errors.Is(err, service.ErrReferenceSolutionRejected) {
			httpx.WriteError(w, http.StatusBadRequest, "reference_solution_rejected", err.Error())
			return
		}
		log.Error("problem creation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create problem")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProblemResponse(p, nil))
}

func (h *ProblemsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	id := r.PathValue("id")

	var req problemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	p, err := h.ProblemService.Update(ctx, id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Problem not found")
		case errors.Is(err, service.ErrReferenceSolutionRejected):
			httpx.WriteError(w, http.StatusBadRequest, "reference_solution_rejected", err.Error())
		default:
			log.Error("problem update failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to update problem")
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProblemResponse(p, nil))
}

func (h *ProblemsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.ProblemService.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Problem not found")
			return
		}
		slogx.FromContext(ctx).Error("problem deletion failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to delete problem")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Problem deleted"})
}

func (h *ProblemsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	p, video, err := h.ProblemService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Problem not found")
			return
		}
		slogx.FromContext(ctx).Error("problem lookup failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to load problem")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProblemResponse(p, video))
}

func (h *ProblemsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	problems, err := h.ProblemService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("problem listing failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list problems")
		return
	}

	out := make([]problemSummary, 0, len(problems))
	for _, p := range problems {
		out = append(out, toProblemSummary(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleSolved lists the problems the authenticated user has had accepted.
func (h *ProblemsHandler) HandleSolved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	problems, err := h.ProblemService.ListSolvedByUser(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("solved listing failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list solved problems")
		return
	}

	out := make([]problemSummary, 0, len(problems))
	for _, p := range problems {
		out = append(out, toProblemSummary(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
