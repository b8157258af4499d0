package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/digitalshelf/storefront/internal/domain"
	"github.com/digitalshelf/storefront/internal/newsletter"
	"github.com/digitalshelf/storefront/internal/repository"
	"github.com/digitalshelf/storefront/internal/service"
	apperrors "github.com/digitalshelf/storefront/pkg/errors"
)

func putJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	return rec
}

func TestUpsertProduct_Success(t *testing.T) {
	products := new(mockProductRepository)
	router := testRouter(t, products, new(mockRatingRepository), new(mockSubscriberRepository), &stubPlatform{})

	products.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ID == "prod-1" && p.Title == "Icon Pack" && p.Price == 1999
	})).Return(nil)

	rec := putJSON(t, router, "/api/v1/admin/products/prod-1", UpsertProductRequest{
		Title: "Icon Pack",
		Price: 1999,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	products.AssertExpectations(t)
}

func TestUpsertProduct_MissingTitle(t *testing.T) {
	products := new(mockProductRepository)
	router := testRouter(t, products, new(mockRatingRepository), new(mockSubscriberRepository), &stubPlatform{})

	rec := putJSON(t, router, "/api/v1/admin/products/prod-1", UpsertProductRequest{
		Price: 1999,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	products.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestDeleteProduct_Success(t *testing.T) {
	products := new(mockProductRepository)
	router := testRouter(t, products, new(mockRatingRepository), new(mockSubscriberRepository), &stubPlatform{})

	products.On("Delete", mock.Anything, "prod-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/prod-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	products.AssertExpectations(t)
}

func TestListAllRatings_Success(t *testing.T) {
	ratings := new(mockRatingRepository)
	router := testRouter(t, new(mockProductRepository), ratings, new(mockSubscriberRepository), &stubPlatform{})

	ratings.On("ListAll", mock.Anything, 1, 20).
		Return([]domain.Rating{{ID: "rating-1"}}, 41, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ratings", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data service.AdminRatingListResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 41, resp.Data.TotalCount)
	assert.Equal(t, 3, resp.Data.TotalPages)
	ratings.AssertExpectations(t)
}

func TestDeleteRating_NotFound(t *testing.T) {
	ratings := new(mockRatingRepository)
	router := testRouter(t, new(mockProductRepository), ratings, new(mockSubscriberRepository), &stubPlatform{})

	ratings.On("Delete", mock.Anything, "nope").
		Return(apperrors.NotFound("rating", "nope"))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/ratings/nope", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSubscribers_PendingFilter(t *testing.T) {
	subscribers := new(mockSubscriberRepository)
	router := testRouter(t, new(mockProductRepository), new(mockRatingRepository), subscribers, &stubPlatform{})

	subscribers.On("List", mock.Anything, mock.MatchedBy(func(f repository.SubscriberFilter) bool {
		return f.Synced != nil && !*f.Synced
	})).Return([]domain.Subscriber{{Email: "fan@example.com"}}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/subscribers?pending=true", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	subscribers.AssertExpectations(t)
}

func TestListSubscribers_CSVExport(t *testing.T) {
	subscribers := new(mockSubscriberRepository)
	router := testRouter(t, new(mockProductRepository), new(mockRatingRepository), subscribers, &stubPlatform{})

	subscribers.On("List", mock.Anything, mock.Anything).
		Return([]domain.Subscriber{{
			Email:        "fan@example.com",
			ProductID:    "prod-1",
			Source:       domain.SourceProductDownload,
			SubscribedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Synced:       true,
		}}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/subscribers?format=csv", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "email,product_id,source")
	assert.Contains(t, rec.Body.String(), "fan@example.com,prod-1,product_download,2025-06-01T12:00:00Z,true,0,")
}

func TestDeleteSubscriber_RequiresEmail(t *testing.T) {
	subscribers := new(mockSubscriberRepository)
	router := testRouter(t, new(mockProductRepository), new(mockRatingRepository), subscribers, &stubPlatform{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/subscribers", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	subscribers.AssertNotCalled(t, "DeleteByEmail", mock.Anything, mock.Anything)
}

func TestDeleteSubscriber_Success(t *testing.T) {
	subscribers := new(mockSubscriberRepository)
	router := testRouter(t, new(mockProductRepository), new(mockRatingRepository), subscribers, &stubPlatform{})

	subscribers.On("DeleteByEmail", mock.Anything, "fan@example.com").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/subscribers?email=Fan@Example.com", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	subscribers.AssertExpectations(t)
}

func TestSyncSubscribers_SyncAll(t *testing.T) {
	subscribers := new(mockSubscriberRepository)
	router := testRouter(t, new(mockProductRepository), new(mockRatingRepository), subscribers, &stubPlatform{})

	subscribers.On("ListUnsynced", mock.Anything, 100).
		Return([]domain.Subscriber{{Email: "a@example.com"}, {Email: "b@example.com"}}, nil)
	subscribers.On("MarkSynced", mock.Anything, "a@example.com", mock.Anything).Return(nil)
	subscribers.On("MarkSynced", mock.Anything, "b@example.com", mock.Anything).Return(nil)

	rec := postJSON(t, router, "/api/v1/admin/subscribers/sync", SyncSubscribersRequest{
		Action: "sync-all",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Stats newsletter.SyncResult `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Data.Stats.Processed)
	assert.Equal(t, 2, resp.Data.Stats.Successful)
	assert.Equal(t, 0, resp.Data.Stats.Failed)
	subscribers.AssertExpectations(t)
}

func TestSyncSubscribers_ConcurrentRunRejected(t *testing.T) {
	subscribers := new(mockSubscriberRepository)
	platform := &stubPlatform{
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	router := testRouter(t, new(mockProductRepository), new(mockRatingRepository), subscribers, platform)

	subscribers.On("ListUnsynced", mock.Anything, 100).
		Return([]domain.Subscriber{{Email: "a@example.com"}}, nil)
	subscribers.On("MarkSynced", mock.Anything, "a@example.com", mock.Anything).Return(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		postJSON(t, router, "/api/v1/admin/subscribers/sync", SyncSubscribersRequest{Action: "sync-all"})
	}()

	// Wait until the first run holds the sync lock.
	<-platform.started

	rec := postJSON(t, router, "/api/v1/admin/subscribers/sync", SyncSubscribersRequest{Action: "sync-all"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "SYNC_IN_PROGRESS", errResp.Code)

	close(platform.block)
	wg.Wait()
}

func TestSyncSubscribers_RecordSingleResult(t *testing.T) {
	subscribers := new(mockSubscriberRepository)
	router := testRouter(t, new(mockProductRepository), new(mockRatingRepository), subscribers, &stubPlatform{})

	subscribers.On("MarkSyncFailed", mock.Anything, "fan@example.com", mock.Anything, "captcha wall").
		Return(nil)

	rec := postJSON(t, router, "/api/v1/admin/subscribers/sync", SyncSubscribersRequest{
		Email: "fan@example.com",
		Error: "captcha wall",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	subscribers.AssertExpectations(t)
}

func TestSyncSubscribers_MissingEmail(t *testing.T) {
	subscribers := new(mockSubscriberRepository)
	router := testRouter(t, new(mockProductRepository), new(mockRatingRepository), subscribers, &stubPlatform{})

	rec := postJSON(t, router, "/api/v1/admin/subscribers/sync", SyncSubscribersRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
