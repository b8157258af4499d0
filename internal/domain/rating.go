package domain

import (
	"time"
)

// Rating score bounds.
const (
	MinScore = 1
	MaxScore = 5
)

// Rating represents a product rating submitted by a visitor. A visitor is
// identified by email; each (product, email) pair holds at most one rating.
type Rating struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserEmail string    `json:"user_email"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingSummary contains aggregate rating statistics for a product. Average
// is the unrounded arithmetic mean; rounding is left to presentation.
type RatingSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Summarize computes aggregate statistics over a set of ratings. An empty
// set yields a zero count and a zero average.
func Summarize(ratings []Rating) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}

	return RatingSummary{
		Count:   len(ratings),
		Average: float64(sum) / float64(len(ratings)),
	}
}
