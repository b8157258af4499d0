package domain

import (
	"time"
)

// Subscriber sources.
const (
	SourceProductDownload = "product_download"
	SourceLanding         = "landing"
	SourceImport          = "import"
)

// Subscriber represents an email newsletter subscription captured by the
// storefront, along with its sync state toward the external mailing list.
type Subscriber struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	ProductID       string     `json:"product_id,omitempty"`
	Source          string     `json:"source"`
	SubscribedAt    time.Time  `json:"subscribed_at"`
	Synced          bool       `json:"synced"`
	SyncAttempts    int        `json:"sync_attempts"`
	LastSyncAttempt *time.Time `json:"last_sync_attempt,omitempty"`
	SyncError       string     `json:"sync_error,omitempty"`
}
