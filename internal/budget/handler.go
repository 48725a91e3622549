package budget

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/budget-approval/internal"
	"github.com/frahmantamala/budget-approval/internal/auth"
	"github.com/frahmantamala/budget-approval/internal/transport"
	"github.com/frahmantamala/budget-approval/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// SubmitRequest creates a pending budget request for the session user.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingSession)
		return
	}

	var dto CreateBudgetRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.UserID = sessionUser.ID

	req, err := h.Service.SubmitRequest(dto)
	if err != nil {
		h.Logger.Error("submit budget request failed", "error", err, "user_id", sessionUser.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Budget request submitted successfully!",
		"data":    req,
	})
}

// ListOwnRequests returns the session user's own requests.
func (h *Handler) ListOwnRequests(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingSession)
		return
	}

	requests, err := h.Service.ListOwnRequests(sessionUser.ID)
	if err != nil {
		h.Logger.Error("list own budget requests failed", "error", err, "user_id", sessionUser.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requests)
}

// ListPending returns all undecided requests for manager review.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.ListPending()
	if err != nil {
		h.Logger.Error("list pending budget requests failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requests)
}

// ListAll returns every request across all users.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.ListAll()
	if err != nil {
		h.Logger.Error("list all budget requests failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requests)
}

// UpdateStatus applies a manager decision to a pending request.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid budget request id")
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.SetStatus(id, dto)
	if err != nil {
		h.Logger.Error("update budget request status failed", "error", err, "request_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Budget request %s successfully!", req.Status),
		"data":    req,
	})
}

// GetSummary returns per-status counts and totals for the admin dashboard.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.GetSummary()
	if err != nil {
		h.Logger.Error("budget summary failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}
