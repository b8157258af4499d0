package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/digitalshelf/storefront/internal/service"
	"github.com/digitalshelf/storefront/pkg/httputil"
	"github.com/digitalshelf/storefront/pkg/validator"
)

// RatingHandler handles HTTP requests for rating endpoints.
type RatingHandler struct {
	service *service.RatingService
	logger  *slog.Logger
}

// NewRatingHandler creates a new rating HTTP handler.
func NewRatingHandler(svc *service.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitRatingRequest is the JSON request body for submitting a rating.
type SubmitRatingRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	Score     int    `json:"score" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

type submitRatingResponse struct {
	Rating  any  `json:"rating"`
	Updated bool `json:"updated"`
}

// SubmitRating handles POST /api/v1/products/{id}/ratings
func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rating, updated, err := h.service.Submit(r.Context(), &service.SubmitRatingInput{
		ProductID: chi.URLParam(r, "id"),
		UserEmail: req.UserEmail,
		Score:     req.Score,
		Comment:   req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusCreated
	if updated {
		status = http.StatusOK
	}

	httputil.WriteJSON(w, status, httputil.Response{Data: submitRatingResponse{
		Rating:  rating,
		Updated: updated,
	}})
}

// ListRatings handles GET /api/v1/products/{id}/ratings
func (h *RatingHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
