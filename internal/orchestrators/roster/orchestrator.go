// Package roster implements the orchestrator for player profiles, roster
// and team management, and consumable item use.
package roster

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/errors"
	"github.com/KirkDiggler/heroes-api/internal/generator"
	"github.com/KirkDiggler/heroes-api/internal/pkg/clock"
	"github.com/KirkDiggler/heroes-api/internal/pkg/lock"
	"github.com/KirkDiggler/heroes-api/internal/repositories/players"
	"github.com/KirkDiggler/heroes-api/internal/stats"
)

const (
	// New profile grants
	startingCoins = 20000

	itemPotion = "Potion"
	itemElixir = "Elixir"
)

// StarterNames are the heroes a new player may choose from.
var StarterNames = []string{"Damon", "Rilon", "Ivy"}

const starterLevel = 10

var startingBag = map[string]int{
	"Potion":         10,
	"Contract":       10,
	"Great Contract": 2,
}

// Config holds the dependencies for the roster orchestrator
type Config struct {
	PlayerRepo players.Repository
	Catalog    *catalog.Catalog
	Generator  *generator.Generator
	Clock      clock.Clock

	// Locks is the player-record lock set shared by every orchestrator
	// that writes player records
	Locks *lock.Keyed
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.PlayerRepo == nil {
		vb.RequiredField("PlayerRepo")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Locks == nil {
		vb.RequiredField("Locks")
	}

	return vb.Build()
}

type orchestrator struct {
	playerRepo players.Repository
	catalog    *catalog.Catalog
	generator  *generator.Generator
	clock      clock.Clock
	locks      *lock.Keyed
}

// NewOrchestrator creates a new roster orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		playerRepo: cfg.PlayerRepo,
		catalog:    cfg.Catalog,
		generator:  cfg.Generator,
		clock:      cfg.Clock,
		locks:      cfg.Locks,
	}, nil
}

// CreateProfile provisions a brand-new player record with the starting
// grants. All boss badges start unearned.
func (o *orchestrator) CreateProfile(ctx context.Context, input *CreateProfileInput) (*CreateProfileOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}
	if input.Username == "" {
		return nil, errors.InvalidArgument("username is required")
	}
	defer o.locks.Acquire(input.PlayerID)()

	if _, err := o.playerRepo.Get(ctx, players.GetInput{PlayerID: input.PlayerID}); err == nil {
		return nil, errors.AlreadyExistsf("player %s already has a profile", input.PlayerID)
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	badges := make(map[string]bool, len(catalog.BossLeaders))
	for _, leader := range catalog.BossLeaders {
		badges[leader.Domain] = false
	}

	bag := make(map[string]int, len(startingBag))
	for item, qty := range startingBag {
		bag[item] = qty
	}

	player := &entities.PlayerRecord{
		ID:            input.PlayerID,
		Username:      input.Username,
		Coins:         startingCoins,
		Level:         1,
		Badges:        badges,
		Bag:           bag,
		Codex:         make(map[string]bool),
		BossCooldowns: make(map[string]int64),
	}

	out, err := o.playerRepo.Set(ctx, players.SetInput{Player: player})
	if err != nil {
		return nil, err
	}

	slog.Info("Player profile created",
		"player_id", input.PlayerID,
		"username", input.Username,
	)

	return &CreateProfileOutput{Player: out.Player}, nil
}

// GetPlayer fetches a player record
func (o *orchestrator) GetPlayer(ctx context.Context, input *GetPlayerInput) (*GetPlayerOutput, error) {
	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	return &GetPlayerOutput{Player: player}, nil
}

// ChooseStarter generates the chosen starting hero and places it on the
// roster, the active team, and the codex. A player only gets one starter.
func (o *orchestrator) ChooseStarter(ctx context.Context, input *ChooseStarterInput) (*ChooseStarterOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if len(player.Roster) > 0 {
		return nil, errors.FailedPrecondition("starter already chosen")
	}

	if !isStarterName(input.Name) {
		return nil, errors.InvalidArgumentf("unknown starter %q, choose one of %s", input.Name, strings.Join(StarterNames, ", "))
	}

	starter, err := o.generator.Starter(input.Name)
	if err != nil {
		return nil, err
	}
	starter.RecruitedAt = o.clock.Now().Unix()

	player.Roster = append(player.Roster, starter)
	player.ActiveTeam = append(player.ActiveTeam, starter.InstanceID)
	if player.Codex == nil {
		player.Codex = make(map[string]bool)
	}
	player.Codex[starter.TemplateID] = true

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	slog.Info("Starter chosen",
		"player_id", input.PlayerID,
		"starter", starter.Name,
		"level", starter.Level,
		"shiny", starter.Shiny,
	)

	return &ChooseStarterOutput{Starter: starter}, nil
}

// ListRoster returns all owned entities and the resolved active team
func (o *orchestrator) ListRoster(ctx context.Context, input *ListRosterInput) (*ListRosterOutput, error) {
	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	return &ListRosterOutput{Roster: player.Roster, Team: player.Team()}, nil
}

// GetEntity resolves one roster entity by id or unambiguous prefix
func (o *orchestrator) GetEntity(ctx context.Context, input *GetEntityInput) (*GetEntityOutput, error) {
	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	entity := player.FindEntity(input.EntityID)
	if entity == nil {
		return nil, errors.NotFoundf("entity %s not found on roster", input.EntityID)
	}
	return &GetEntityOutput{Entity: entity}, nil
}

// AddToTeam appends a roster entity to the active team
func (o *orchestrator) AddToTeam(ctx context.Context, input *AddToTeamInput) (*AddToTeamOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	entity := player.FindEntity(input.EntityID)
	if entity == nil {
		return nil, errors.NotFoundf("entity %s not found on roster", input.EntityID)
	}
	if player.InTeam(entity.InstanceID) {
		return nil, errors.AlreadyExistsf("%s is already on the team", entity.Name)
	}
	if len(player.ActiveTeam) >= entities.TeamMax {
		return nil, errors.FailedPreconditionf("team is full (%d members)", entities.TeamMax)
	}

	player.ActiveTeam = append(player.ActiveTeam, entity.InstanceID)
	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	return &AddToTeamOutput{Team: player.ActiveTeam}, nil
}

// RemoveFromTeam drops an entity from the active team. Locked entities
// stay put until unlocked.
func (o *orchestrator) RemoveFromTeam(ctx context.Context, input *RemoveFromTeamInput) (*RemoveFromTeamOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	entity := player.FindEntity(input.EntityID)
	if entity == nil {
		return nil, errors.NotFoundf("entity %s not found on roster", input.EntityID)
	}
	if entity.Locked {
		return nil, errors.FailedPreconditionf("%s is locked", entity.Name)
	}
	if !player.InTeam(entity.InstanceID) {
		return nil, errors.FailedPreconditionf("%s is not on the team", entity.Name)
	}

	team := make([]string, 0, len(player.ActiveTeam)-1)
	for _, id := range player.ActiveTeam {
		if id != entity.InstanceID {
			team = append(team, id)
		}
	}
	player.ActiveTeam = team

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	return &RemoveFromTeamOutput{Team: player.ActiveTeam}, nil
}

// MoveSlot reorders an entity within the active team
func (o *orchestrator) MoveSlot(ctx context.Context, input *MoveSlotInput) (*MoveSlotOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	entity := player.FindEntity(input.EntityID)
	if entity == nil {
		return nil, errors.NotFoundf("entity %s not found on roster", input.EntityID)
	}
	if entity.Locked {
		return nil, errors.FailedPreconditionf("%s is locked", entity.Name)
	}
	if !player.InTeam(entity.InstanceID) {
		return nil, errors.FailedPreconditionf("%s is not on the team", entity.Name)
	}
	if input.Slot < 0 || input.Slot >= len(player.ActiveTeam) {
		return nil, errors.InvalidArgumentf("slot must be in [0, %d]", len(player.ActiveTeam)-1)
	}

	team := make([]string, 0, len(player.ActiveTeam))
	for _, id := range player.ActiveTeam {
		if id != entity.InstanceID {
			team = append(team, id)
		}
	}
	team = append(team[:input.Slot], append([]string{entity.InstanceID}, team[input.Slot:]...)...)
	player.ActiveTeam = team

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	return &MoveSlotOutput{Team: player.ActiveTeam}, nil
}

// Lock protects an entity from release and team changes
func (o *orchestrator) Lock(ctx context.Context, input *LockInput) (*LockOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	entity, player, err := o.findEntity(ctx, input.PlayerID, input.EntityID)
	if err != nil {
		return nil, err
	}

	entity.Locked = true
	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}
	return &LockOutput{Entity: entity}, nil
}

// Unlock removes an entity's protection
func (o *orchestrator) Unlock(ctx context.Context, input *UnlockInput) (*UnlockOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	entity, player, err := o.findEntity(ctx, input.PlayerID, input.EntityID)
	if err != nil {
		return nil, err
	}

	entity.Locked = false
	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}
	return &UnlockOutput{Entity: entity}, nil
}

// ListLocked returns all protected roster entities
func (o *orchestrator) ListLocked(ctx context.Context, input *ListLockedInput) (*ListLockedOutput, error) {
	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	var locked []*entities.Entity
	for _, e := range player.Roster {
		if e.Locked {
			locked = append(locked, e)
		}
	}
	return &ListLockedOutput{Entities: locked}, nil
}

// ClearBarracks releases every roster entity that is neither on the active
// team nor locked.
func (o *orchestrator) ClearBarracks(ctx context.Context, input *ClearBarracksInput) (*ClearBarracksOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	kept := make([]*entities.Entity, 0, len(player.Roster))
	released := 0
	for _, e := range player.Roster {
		if e.Locked || player.InTeam(e.InstanceID) {
			kept = append(kept, e)
			continue
		}
		released++
	}
	player.Roster = kept

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	slog.Info("Barracks cleared",
		"player_id", input.PlayerID,
		"released", released,
		"kept", len(kept),
	)

	return &ClearBarracksOutput{Released: released}, nil
}

// Heal consumes one Potion and restores the whole active team to full hp
func (o *orchestrator) Heal(ctx context.Context, input *HealInput) (*HealOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	if !player.BagRemove(itemPotion, 1) {
		return nil, errors.FailedPrecondition("no Potions in bag")
	}

	team := player.Team()
	for _, e := range team {
		e.CurrentHP = e.Stats.HP
	}

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	return &HealOutput{Team: team}, nil
}

// UseElixir consumes up to Count Elixirs on one entity, each granting a
// level up to the cap. Stats are recomputed at the new level.
func (o *orchestrator) UseElixir(ctx context.Context, input *UseElixirInput) (*UseElixirOutput, error) {
	if input.Count <= 0 {
		return nil, errors.InvalidArgument("count must be positive")
	}
	defer o.locks.Acquire(input.PlayerID)()

	entity, player, err := o.findEntity(ctx, input.PlayerID, input.EntityID)
	if err != nil {
		return nil, err
	}

	held := player.BagCount(itemElixir)
	if held == 0 {
		return nil, errors.FailedPrecondition("no Elixirs in bag")
	}

	usable := input.Count
	if usable > held {
		usable = held
	}
	if room := stats.MaxLevel - entity.Level; usable > room {
		usable = room
	}
	if usable <= 0 {
		return nil, errors.FailedPreconditionf("%s is already at the level cap", entity.Name)
	}

	player.BagRemove(itemElixir, usable)
	entity.Level += usable

	tmpl, ok := o.catalog.Template(entity.TemplateID)
	if !ok {
		return nil, errors.Internalf("template %s not found for entity %s", entity.TemplateID, entity.InstanceID)
	}
	stats.Recompute(entity, tmpl.Stats)

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	slog.Info("Elixirs used",
		"player_id", input.PlayerID,
		"entity", entity.Name,
		"levels_gained", usable,
		"new_level", entity.Level,
	)

	return &UseElixirOutput{Entity: entity, LevelsGained: usable, Consumed: usable}, nil
}

func (o *orchestrator) getPlayer(ctx context.Context, playerID string) (*entities.PlayerRecord, error) {
	if playerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	out, err := o.playerRepo.Get(ctx, players.GetInput{PlayerID: playerID})
	if err != nil {
		return nil, err
	}
	return out.Player, nil
}

func (o *orchestrator) findEntity(ctx context.Context, playerID, entityID string) (*entities.Entity, *entities.PlayerRecord, error) {
	player, err := o.getPlayer(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}

	entity := player.FindEntity(entityID)
	if entity == nil {
		return nil, nil, errors.NotFoundf("entity %s not found on roster", entityID)
	}
	return entity, player, nil
}

func isStarterName(name string) bool {
	for _, starter := range StarterNames {
		if strings.EqualFold(starter, name) {
			return true
		}
	}
	return false
}
