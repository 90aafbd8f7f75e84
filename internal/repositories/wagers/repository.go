// Package wagers provides the repository interface and types for open
// coinflip wagers.
package wagers

import (
	"context"
	"time"
)

// Wager is one open coinflip. The creator's stake is escrowed until the
// wager is taken or expires.
type Wager struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creator_id"`
	Creator   string    `json:"creator"`
	Amount    int       `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository stores open wagers keyed by wager id.
type Repository interface {
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// CreateInput contains the wager to store
type CreateInput struct {
	Wager *Wager
}

// CreateOutput contains the stored wager
type CreateOutput struct {
	Wager *Wager
}

// GetInput contains parameters for retrieving a wager
type GetInput struct {
	WagerID string
}

// GetOutput contains the retrieved wager
type GetOutput struct {
	Wager *Wager
}

// DeleteInput contains parameters for removing a wager
type DeleteInput struct {
	WagerID string
}

// DeleteOutput confirms a removal
type DeleteOutput struct{}

// ListInput contains parameters for listing wagers
type ListInput struct{}

// ListOutput contains all open wagers
type ListOutput struct {
	Wagers []*Wager
}
