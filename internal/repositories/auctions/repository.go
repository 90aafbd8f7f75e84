// Package auctions provides the repository interface and types for the
// player-to-player auction house.
package auctions

import (
	"context"
	"time"
)

// Auction is one posted listing. Amount is the remaining stock, Price the
// per-unit cost in coins.
type Auction struct {
	ID        string    `json:"id"`
	SellerID  string    `json:"seller_id"`
	Seller    string    `json:"seller"`
	Item      string    `json:"item"`
	Amount    int       `json:"amount"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	EndsAt    time.Time `json:"ends_at"`
}

// Expired reports whether the listing has passed its end time.
func (a *Auction) Expired(now time.Time) bool {
	return !now.Before(a.EndsAt)
}

// Repository stores auction listings keyed by auction id.
type Repository interface {
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// CreateInput contains the listing to store
type CreateInput struct {
	Auction *Auction
}

// CreateOutput contains the stored listing
type CreateOutput struct {
	Auction *Auction
}

// GetInput contains parameters for retrieving a listing
type GetInput struct {
	AuctionID string
}

// GetOutput contains the retrieved listing
type GetOutput struct {
	Auction *Auction
}

// UpdateInput contains the listing to overwrite
type UpdateInput struct {
	Auction *Auction
}

// UpdateOutput contains the updated listing
type UpdateOutput struct {
	Auction *Auction
}

// DeleteInput contains parameters for removing a listing
type DeleteInput struct {
	AuctionID string
}

// DeleteOutput confirms a removal
type DeleteOutput struct{}

// ListInput contains parameters for listing auctions
type ListInput struct{}

// ListOutput contains all stored listings
type ListOutput struct {
	Auctions []*Auction
}
