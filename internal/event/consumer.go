package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/digitalshelf/storefront/internal/newsletter"
	pkgkafka "github.com/digitalshelf/storefront/pkg/kafka"
)

// ConsumerGroupID identifies the storefront's newsletter sync consumer group.
const ConsumerGroupID = "storefront-newsletter-sync"

// NewSubscriberSyncConsumer returns a consumer that pushes each newly
// captured subscriber to the newsletter platform in the background.
func NewSubscriberSyncConsumer(brokers []string, syncer *newsletter.Syncer, logger *slog.Logger) *pkgkafka.Consumer {
	cfg := pkgkafka.ConsumerConfig{
		Brokers: brokers,
		GroupID: ConsumerGroupID,
		Topic:   TopicSubscriberCreated,
	}

	return pkgkafka.NewConsumer(cfg, SubscriberSyncHandler(syncer, logger), logger)
}

// SubscriberSyncHandler handles subscriber.created events by syncing the
// email toward the newsletter platform. Sync failures are recorded in the
// subscriber's bookkeeping and do not fail the handler; a later sync run
// retries them.
func SubscriberSyncHandler(syncer *newsletter.Syncer, logger *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, event *pkgkafka.Event) error {
		var data SubscriberCreatedData
		if err := event.UnmarshalData(&data); err != nil {
			return fmt.Errorf("decode subscriber.created event: %w", err)
		}

		if err := syncer.SyncEmail(ctx, data.Email); err != nil {
			logger.WarnContext(ctx, "background newsletter sync failed",
				slog.String("email", data.Email),
				slog.String("error", err.Error()),
			)
		}

		return nil
	}
}
