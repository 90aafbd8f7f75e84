package roster

import (
	"context"

	"github.com/KirkDiggler/heroes-api/internal/entities"
)

// Service defines the interface for profile and roster operations
type Service interface {
	// Profile lifecycle
	CreateProfile(ctx context.Context, input *CreateProfileInput) (*CreateProfileOutput, error)
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*GetPlayerOutput, error)
	ChooseStarter(ctx context.Context, input *ChooseStarterInput) (*ChooseStarterOutput, error)

	// Roster and team management
	ListRoster(ctx context.Context, input *ListRosterInput) (*ListRosterOutput, error)
	GetEntity(ctx context.Context, input *GetEntityInput) (*GetEntityOutput, error)
	AddToTeam(ctx context.Context, input *AddToTeamInput) (*AddToTeamOutput, error)
	RemoveFromTeam(ctx context.Context, input *RemoveFromTeamInput) (*RemoveFromTeamOutput, error)
	MoveSlot(ctx context.Context, input *MoveSlotInput) (*MoveSlotOutput, error)
	Lock(ctx context.Context, input *LockInput) (*LockOutput, error)
	Unlock(ctx context.Context, input *UnlockInput) (*UnlockOutput, error)
	ListLocked(ctx context.Context, input *ListLockedInput) (*ListLockedOutput, error)
	ClearBarracks(ctx context.Context, input *ClearBarracksInput) (*ClearBarracksOutput, error)

	// Item use
	Heal(ctx context.Context, input *HealInput) (*HealOutput, error)
	UseElixir(ctx context.Context, input *UseElixirInput) (*UseElixirOutput, error)
}

// CreateProfileInput contains parameters for creating a new player profile
type CreateProfileInput struct {
	PlayerID string
	Username string
}

// CreateProfileOutput contains the freshly created player record
type CreateProfileOutput struct {
	Player *entities.PlayerRecord
}

// GetPlayerInput contains parameters for fetching a player record
type GetPlayerInput struct {
	PlayerID string
}

// GetPlayerOutput contains the player record
type GetPlayerOutput struct {
	Player *entities.PlayerRecord
}

// ChooseStarterInput contains parameters for picking a starting hero
type ChooseStarterInput struct {
	PlayerID string
	Name     string
}

// ChooseStarterOutput contains the generated starter
type ChooseStarterOutput struct {
	Starter *entities.Entity
}

// ListRosterInput contains parameters for listing owned entities
type ListRosterInput struct {
	PlayerID string
}

// ListRosterOutput contains the roster and resolved team
type ListRosterOutput struct {
	Roster []*entities.Entity
	Team   []*entities.Entity
}

// GetEntityInput contains parameters for resolving one roster entity
type GetEntityInput struct {
	PlayerID string
	EntityID string
}

// GetEntityOutput contains the resolved entity
type GetEntityOutput struct {
	Entity *entities.Entity
}

// AddToTeamInput contains parameters for adding an entity to the team
type AddToTeamInput struct {
	PlayerID string
	EntityID string
}

// AddToTeamOutput contains the updated team order
type AddToTeamOutput struct {
	Team []string
}

// RemoveFromTeamInput contains parameters for removing an entity from the team
type RemoveFromTeamInput struct {
	PlayerID string
	EntityID string
}

// RemoveFromTeamOutput contains the updated team order
type RemoveFromTeamOutput struct {
	Team []string
}

// MoveSlotInput contains parameters for reordering the team
type MoveSlotInput struct {
	PlayerID string
	EntityID string
	Slot     int // target position, zero-based
}

// MoveSlotOutput contains the updated team order
type MoveSlotOutput struct {
	Team []string
}

// LockInput contains parameters for protecting an entity
type LockInput struct {
	PlayerID string
	EntityID string
}

// LockOutput contains the locked entity
type LockOutput struct {
	Entity *entities.Entity
}

// UnlockInput contains parameters for unprotecting an entity
type UnlockInput struct {
	PlayerID string
	EntityID string
}

// UnlockOutput contains the unlocked entity
type UnlockOutput struct {
	Entity *entities.Entity
}

// ListLockedInput contains parameters for listing protected entities
type ListLockedInput struct {
	PlayerID string
}

// ListLockedOutput contains all locked roster entities
type ListLockedOutput struct {
	Entities []*entities.Entity
}

// ClearBarracksInput contains parameters for releasing stored entities
type ClearBarracksInput struct {
	PlayerID string
}

// ClearBarracksOutput reports what was released
type ClearBarracksOutput struct {
	Released int
}

// HealInput contains parameters for using a Potion on the team
type HealInput struct {
	PlayerID string
}

// HealOutput contains the healed team
type HealOutput struct {
	Team []*entities.Entity
}

// UseElixirInput contains parameters for feeding Elixirs to an entity
type UseElixirInput struct {
	PlayerID string
	EntityID string
	Count    int
}

// UseElixirOutput reports the levels gained
type UseElixirOutput struct {
	Entity       *entities.Entity
	LevelsGained int
	Consumed     int
}
