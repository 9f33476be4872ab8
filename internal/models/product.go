package models

import "time"

// Product represents a single inventory item. The store assigns ID and both
// timestamps on insert; UpdatedAt is refreshed on every update.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
