package http

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/digitalshelf/storefront/internal/newsletter"
	"github.com/digitalshelf/storefront/internal/repository"
	"github.com/digitalshelf/storefront/internal/service"
	apperrors "github.com/digitalshelf/storefront/pkg/errors"
	"github.com/digitalshelf/storefront/pkg/httputil"
	"github.com/digitalshelf/storefront/pkg/pagination"
	"github.com/digitalshelf/storefront/pkg/validator"
)

// AdminHandler handles HTTP requests for the admin endpoints: catalog
// management, rating moderation, and the subscriber list with its
// newsletter sync controls.
type AdminHandler struct {
	products    *service.ProductService
	ratings     *service.RatingService
	subscribers *service.SubscriberService
	syncer      *newsletter.Syncer
	logger      *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(
	products *service.ProductService,
	ratings *service.RatingService,
	subscribers *service.SubscriberService,
	syncer *newsletter.Syncer,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		products:    products,
		ratings:     ratings,
		subscribers: subscribers,
		syncer:      syncer,
		logger:      logger,
	}
}

// UpsertProductRequest is the JSON request body for creating or replacing a product.
type UpsertProductRequest struct {
	Title           string `json:"title" validate:"required,min=1,max=255"`
	Description     string `json:"description"`
	LongDescription string `json:"long_description"`
	Image           string `json:"image" validate:"omitempty,url"`
	Price           int64  `json:"price" validate:"gte=0"`
	DownloadURL     string `json:"download_url" validate:"omitempty,url"`
}

// SyncSubscribersRequest is the JSON request body for the sync endpoint.
// With action "sync-all" it triggers a full sync of pending subscribers;
// otherwise it records the outcome of an externally performed sync for a
// single email.
type SyncSubscribersRequest struct {
	Action  string `json:"action" validate:"omitempty,oneof=sync-all"`
	Email   string `json:"email" validate:"omitempty,email"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type syncResponse struct {
	Stats *newsletter.SyncResult `json:"stats,omitempty"`
}

// UpsertProduct handles PUT /api/v1/admin/products/{id}
func (h *AdminHandler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req UpsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.products.Upsert(r.Context(), &service.UpsertProductInput{
		ID:              chi.URLParam(r, "id"),
		Title:           req.Title,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Image:           req.Image,
		Price:           req.Price,
		DownloadURL:     req.DownloadURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAllRatings handles GET /api/v1/admin/ratings
func (h *AdminHandler) ListAllRatings(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)

	result, err := h.ratings.ListAll(r.Context(), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// DeleteRating handles DELETE /api/v1/admin/ratings/{id}
func (h *AdminHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	if err := h.ratings.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSubscribers handles GET /api/v1/admin/subscribers. The pending=true
// shortcut narrows the list to subscribers not yet synced to the newsletter
// platform; format=csv streams the page as a CSV attachment.
func (h *AdminHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p := pagination.FromRequest(r)
	filter := repository.SubscriberFilter{Page: p.Page}
	// Absent an explicit per_page the subscriber list uses the service's
	// larger default so an export catches the whole backlog.
	if q.Get("per_page") != "" {
		filter.PerPage = p.PerPage
	}

	if q.Get("pending") == "true" {
		pending := false
		filter.Synced = &pending
	} else if v := q.Get("synced"); v != "" {
		if synced, err := strconv.ParseBool(v); err == nil {
			filter.Synced = &synced
		}
	}
	if v := q.Get("product_id"); v != "" {
		filter.ProductID = &v
	}
	if v := q.Get("source"); v != "" {
		filter.Source = &v
	}

	result, err := h.subscribers.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if q.Get("format") == "csv" {
		h.writeSubscribersCSV(w, r, result)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

func (h *AdminHandler) writeSubscribersCSV(w http.ResponseWriter, r *http.Request, result *service.SubscriberListResult) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="subscribers.csv"`)

	cw := csv.NewWriter(w)
	record := []string{"email", "product_id", "source", "subscribed_at", "synced", "sync_attempts", "sync_error"}
	if err := cw.Write(record); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
		return
	}

	for _, sub := range result.Subscribers {
		record = []string{
			sub.Email,
			sub.ProductID,
			sub.Source,
			sub.SubscribedAt.Format("2006-01-02T15:04:05Z07:00"),
			strconv.FormatBool(sub.Synced),
			strconv.Itoa(sub.SyncAttempts),
			sub.SyncError,
		}
		if err := cw.Write(record); err != nil {
			h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
			return
		}
	}

	cw.Flush()
}

// DeleteSubscriber handles DELETE /api/v1/admin/subscribers
func (h *AdminHandler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("email query parameter is required"), h.logger)
		return
	}

	if err := h.subscribers.Delete(r.Context(), email); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SyncSubscribers handles POST /api/v1/admin/subscribers/sync
func (h *AdminHandler) SyncSubscribers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req SyncSubscribersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if req.Action == "sync-all" {
		result, err := h.syncer.SyncPending(r.Context())
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: syncResponse{Stats: result}})
		return
	}

	if req.Email == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("email is required"), h.logger)
		return
	}

	if err := h.syncer.RecordResult(r.Context(), req.Email, req.Success, req.Error); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: syncResponse{}})
}
