package entity

import "time"

// Product is a catalog entry redeemable for points.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PricePoints int       `json:"pricePoints"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsNewSince reports whether the product was added after t.
func (p *Product) IsNewSince(t time.Time) bool {
	return p.CreatedAt.After(t)
}
