// Package players provides the repository interface and types for persisted
// player records.
package players

import (
	"context"

	"github.com/KirkDiggler/heroes-api/internal/entities"
)

// Repository stores player records keyed by player id. Snapshot exports
// every record to a file with atomic-replace semantics so a crash never
// leaves a half-written export.
type Repository interface {
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
	Set(ctx context.Context, input SetInput) (*SetOutput, error)
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
	List(ctx context.Context, input ListInput) (*ListOutput, error)
	Snapshot(ctx context.Context, input SnapshotInput) (*SnapshotOutput, error)
}

// GetInput contains parameters for retrieving a player record
type GetInput struct {
	PlayerID string
}

// GetOutput contains the retrieved player record
type GetOutput struct {
	Player *entities.PlayerRecord
}

// SetInput contains parameters for storing a player record
type SetInput struct {
	Player *entities.PlayerRecord
}

// SetOutput contains the stored player record
type SetOutput struct {
	Player *entities.PlayerRecord
}

// DeleteInput contains parameters for deleting a player record
type DeleteInput struct {
	PlayerID string
}

// DeleteOutput confirms a deletion
type DeleteOutput struct{}

// ListInput contains parameters for listing player records
type ListInput struct{}

// ListOutput contains all stored player records
type ListOutput struct {
	Players []*entities.PlayerRecord
}

// SnapshotInput contains parameters for exporting all records to a file
type SnapshotInput struct {
	Path string
}

// SnapshotOutput reports how many records were exported
type SnapshotOutput struct {
	Count int
}
