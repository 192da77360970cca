package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SakshamTolani/ProductPro/internal/domain"
	"github.com/SakshamTolani/ProductPro/internal/service"
	"github.com/SakshamTolani/ProductPro/pkg/httputil"
	"github.com/SakshamTolani/ProductPro/pkg/validator"
)

// ReviewHandler handles HTTP requests for the moderated edit workflow.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// DecideRequest is the JSON request body for deciding a change request.
type DecideRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// --- Handlers ---

// SubmitChange handles PUT /api/v1/products/{id}/edit
// The body is the partial-field diff itself; unknown fields are rejected.
func (h *ReviewHandler) SubmitChange(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var changes domain.ProductChanges
	if err := httputil.DecodeStrict(r.Body, &changes); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	result, err := h.service.SubmitChange(r.Context(), actorFromContext(r), id.String(), changes)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusOK
	if !result.Applied {
		// Queued for moderation rather than applied.
		status = http.StatusAccepted
	}

	httputil.WriteJSON(w, status, httputil.Response{Data: result})
}

// Decide handles POST /api/v1/reviews/{id}/decide
func (h *ReviewHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req DecideRequest
	if err := httputil.DecodeStrict(r.Body, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.Decide(r.Context(), actorFromContext(r), id.String(), domain.Decision(req.Decision))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// ListPending handles GET /api/v1/reviews/pending
func (h *ReviewHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := parsePagination(w, r)
	if !ok {
		return
	}

	result, err := h.service.ListPending(r.Context(), actorFromContext(r), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(result.Reviews, result.TotalCount, result.Page, result.PerPage))
}

// ListSubmissions handles GET /api/v1/reviews/my
func (h *ReviewHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := parsePagination(w, r)
	if !ok {
		return
	}

	result, err := h.service.ListSubmissions(r.Context(), actorFromContext(r), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(result.Reviews, result.TotalCount, result.Page, result.PerPage))
}

// GetSubmission handles GET /api/v1/reviews/{id}
func (h *ReviewHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	review, err := h.service.GetSubmission(r.Context(), actorFromContext(r), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// GetMyStats handles GET /api/v1/users/me/stats
func (h *ReviewHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	stats, err := h.service.UserStats(r.Context(), actor, actor.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// GetUserStats handles GET /api/v1/users/{id}/stats
func (h *ReviewHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	stats, err := h.service.UserStats(r.Context(), actorFromContext(r), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}
