package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/digitalshelf/storefront/internal/service"
	"github.com/digitalshelf/storefront/pkg/httputil"
	"github.com/digitalshelf/storefront/pkg/validator"
)

// SubscriberHandler handles HTTP requests for newsletter subscription endpoints.
type SubscriberHandler struct {
	service *service.SubscriberService
	logger  *slog.Logger
}

// NewSubscriberHandler creates a new subscriber HTTP handler.
func NewSubscriberHandler(svc *service.SubscriberService, logger *slog.Logger) *SubscriberHandler {
	return &SubscriberHandler{
		service: svc,
		logger:  logger,
	}
}

// SubscribeRequest is the JSON request body for a newsletter subscription.
type SubscribeRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ProductID string `json:"product_id"`
	Source    string `json:"source" validate:"omitempty,oneof=product_download landing import"`
}

// Subscribe handles POST /api/v1/subscribers. Subscribing an email that is
// already on file succeeds; the response just omits the subscriber record.
func (h *SubscriberHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Subscribe(r.Context(), &service.SubscribeInput{
		Email:     req.Email,
		ProductID: req.ProductID,
		Source:    req.Source,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusCreated
	if result.AlreadySubscribed {
		status = http.StatusOK
	}

	httputil.WriteJSON(w, status, httputil.Response{Data: result})
}
