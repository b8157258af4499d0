package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/digitalshelf/storefront/internal/domain"
	"github.com/digitalshelf/storefront/internal/event"
	"github.com/digitalshelf/storefront/internal/repository"
	apperrors "github.com/digitalshelf/storefront/pkg/errors"
)

// SubscriberService implements the business logic for subscriber operations.
type SubscriberService struct {
	repo     repository.SubscriberRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewSubscriberService creates a new subscriber service.
func NewSubscriberService(repo repository.SubscriberRepository, producer *event.Producer, logger *slog.Logger) *SubscriberService {
	return &SubscriberService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// SubscribeInput holds the parameters for a newsletter subscription.
type SubscribeInput struct {
	Email     string `json:"email"`
	ProductID string `json:"product_id"`
	Source    string `json:"source"`
}

// SubscribeResult reports the outcome of a subscription attempt.
type SubscribeResult struct {
	Subscriber *domain.Subscriber `json:"subscriber,omitempty"`

	// AlreadySubscribed is set when the email was on file before this call.
	AlreadySubscribed bool `json:"already_subscribed"`
}

// SubscriberListResult contains a page of subscribers.
type SubscriberListResult struct {
	Subscribers []domain.Subscriber `json:"subscribers"`
	TotalCount  int                 `json:"total_count"`
	Page        int                 `json:"page"`
	PerPage     int                 `json:"per_page"`
}

// Subscribe records a newsletter subscription. The email is lowercased and
// trimmed before storage; a duplicate email is treated as success.
func (s *SubscriberService) Subscribe(ctx context.Context, input *SubscribeInput) (*SubscribeResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.InvalidInput("email is not a valid address")
	}

	source := input.Source
	if source == "" {
		source = domain.SourceProductDownload
	}

	sub := &domain.Subscriber{
		ID:           uuid.New().String(),
		Email:        email,
		ProductID:    input.ProductID,
		Source:       source,
		SubscribedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.DebugContext(ctx, "email already subscribed",
				slog.String("email", email),
			)
			return &SubscribeResult{AlreadySubscribed: true}, nil
		}
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	if err := s.producer.PublishSubscriberCreated(ctx, sub); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish subscriber.created event",
			slog.String("subscriber_id", sub.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "subscriber created",
		slog.String("subscriber_id", sub.ID),
		slog.String("source", sub.Source),
	)

	return &SubscribeResult{Subscriber: sub}, nil
}

// List returns subscribers matching the filter.
func (s *SubscriberService) List(ctx context.Context, filter repository.SubscriberFilter) (*SubscriberListResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 100
	}

	subs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}

	return &SubscriberListResult{
		Subscribers: subs,
		TotalCount:  total,
		Page:        filter.Page,
		PerPage:     filter.PerPage,
	}, nil
}

// Delete removes a subscriber by email address.
func (s *SubscriberService) Delete(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}

	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "subscriber deleted", slog.String("email", email))

	return nil
}
