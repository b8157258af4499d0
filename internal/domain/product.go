package domain

import (
	"time"
)

// Product represents a digital product in the storefront catalog.
type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LongDescription string    `json:"long_description,omitempty"`
	Image           string    `json:"image,omitempty"`
	Price           int64     `json:"price"`
	DownloadURL     string    `json:"download_url,omitempty"`
	SalesCount      int       `json:"sales_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
