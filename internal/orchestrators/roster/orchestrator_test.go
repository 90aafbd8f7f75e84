package roster_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/generator"
	"github.com/KirkDiggler/heroes-api/internal/orchestrators/roster"
	"github.com/KirkDiggler/heroes-api/internal/pkg/clock"
	"github.com/KirkDiggler/heroes-api/internal/pkg/idgen"
	"github.com/KirkDiggler/heroes-api/internal/pkg/lock"
	"github.com/KirkDiggler/heroes-api/internal/pkg/rng"
	"github.com/KirkDiggler/heroes-api/internal/repositories/players"
	"github.com/KirkDiggler/heroes-api/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	service roster.Service
	repo    players.Repository
	clock   *clock.Fixed
	cleanup func()
	ctx     context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	repo, err := players.NewRedisRepository(&players.Config{
		Client: client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo

	baseStats := entities.Stats{HP: 45, Attack: 49, Defense: 49, Magic: 65, Speed: 45}
	skills := []catalog.Skill{
		{Name: "Ember", Type: "Magical", Power: "40", Accuracy: "100", Unlock: "1"},
		{Name: "Inferno", Type: "Magical", Power: "90", Accuracy: "85", Unlock: "40"},
	}
	heroes := []*catalog.Template{
		{ID: "h-damon", Name: "Damon", Element: "fire", Rarity: entities.RarityRare, Stats: baseStats, Skills: skills},
		{ID: "h-rilon", Name: "Rilon", Element: "water", Rarity: entities.RarityRare, Stats: baseStats},
		{ID: "h-ivy", Name: "Ivy", Element: "nature", Rarity: entities.RarityRare, Stats: baseStats},
	}
	cat, err := catalog.New(heroes, nil, nil, nil, nil)
	s.Require().NoError(err)

	gen, err := generator.New(&generator.Config{
		Catalog: cat,
		RNG:     rng.New(42),
		IDGen:   idgen.NewSequential("h"),
	})
	s.Require().NoError(err)

	service, err := roster.NewOrchestrator(&roster.Config{
		PlayerRepo: repo,
		Catalog:    cat,
		Generator:  gen,
		Clock:      s.clock,
		Locks:      lock.NewKeyed(),
	})
	s.Require().NoError(err)
	s.service = service
}

func (s *OrchestratorTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *OrchestratorTestSuite) createProfile() *entities.PlayerRecord {
	out, err := s.service.CreateProfile(s.ctx, &roster.CreateProfileInput{
		PlayerID: "player-1",
		Username: "tester",
	})
	s.Require().NoError(err)
	return out.Player
}

func (s *OrchestratorTestSuite) chooseStarter(name string) *entities.Entity {
	out, err := s.service.ChooseStarter(s.ctx, &roster.ChooseStarterInput{
		PlayerID: "player-1",
		Name:     name,
	})
	s.Require().NoError(err)
	return out.Starter
}

func (s *OrchestratorTestSuite) TestCreateProfile() {
	player := s.createProfile()

	s.Equal(20000, player.Coins)
	s.Equal(1, player.Level)
	s.Equal(10, player.BagCount("Potion"))
	s.Equal(10, player.BagCount("Contract"))
	s.Equal(2, player.BagCount("Great Contract"))

	s.Len(player.Badges, len(catalog.BossLeaders))
	for domain, earned := range player.Badges {
		s.False(earned, "badge %s should start unearned", domain)
	}
}

func (s *OrchestratorTestSuite) TestCreateProfile_Duplicate() {
	s.createProfile()

	_, err := s.service.CreateProfile(s.ctx, &roster.CreateProfileInput{
		PlayerID: "player-1",
		Username: "tester",
	})
	s.Error(err)
}

func (s *OrchestratorTestSuite) TestChooseStarter() {
	s.createProfile()
	starter := s.chooseStarter("damon")

	s.Equal("Damon", starter.Name)
	s.Equal(10, starter.Level)

	// only skills unlocked at or below level 10
	s.Require().Len(starter.Moveset, 1)
	s.Equal("Ember", starter.Moveset[0].Name)

	out, err := s.service.GetPlayer(s.ctx, &roster.GetPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Len(out.Player.Roster, 1)
	s.Equal([]string{starter.InstanceID}, out.Player.ActiveTeam)
	s.True(out.Player.Codex["h-damon"])
}

func (s *OrchestratorTestSuite) TestChooseStarter_OnlyOnce() {
	s.createProfile()
	s.chooseStarter("Ivy")

	_, err := s.service.ChooseStarter(s.ctx, &roster.ChooseStarterInput{
		PlayerID: "player-1",
		Name:     "Damon",
	})
	s.Error(err)
}

func (s *OrchestratorTestSuite) TestChooseStarter_UnknownName() {
	s.createProfile()

	_, err := s.service.ChooseStarter(s.ctx, &roster.ChooseStarterInput{
		PlayerID: "player-1",
		Name:     "Pikachu",
	})
	s.Error(err)
}

func (s *OrchestratorTestSuite) seedRoster(count int) *entities.PlayerRecord {
	player := s.createProfile()
	for i := 0; i < count; i++ {
		player.Roster = append(player.Roster, &entities.Entity{
			TemplateID: "h-damon",
			InstanceID: "hseed" + string(rune('a'+i)),
			Name:       "Damon",
			Kind:       entities.KindHero,
			Level:      10,
			Stats:      entities.Stats{HP: 30, Attack: 14, Defense: 14, Magic: 17, Speed: 14},
			CurrentHP:  30,
		})
	}
	_, err := s.repo.Set(s.ctx, players.SetInput{Player: player})
	s.Require().NoError(err)
	return player
}

func (s *OrchestratorTestSuite) TestTeamManagement() {
	s.seedRoster(3)

	// add two members
	out, err := s.service.AddToTeam(s.ctx, &roster.AddToTeamInput{PlayerID: "player-1", EntityID: "hseeda"})
	s.Require().NoError(err)
	s.Equal([]string{"hseeda"}, out.Team)

	out, err = s.service.AddToTeam(s.ctx, &roster.AddToTeamInput{PlayerID: "player-1", EntityID: "hseedb"})
	s.Require().NoError(err)
	s.Equal([]string{"hseeda", "hseedb"}, out.Team)

	// duplicates rejected
	_, err = s.service.AddToTeam(s.ctx, &roster.AddToTeamInput{PlayerID: "player-1", EntityID: "hseeda"})
	s.Error(err)

	// move to front
	moved, err := s.service.MoveSlot(s.ctx, &roster.MoveSlotInput{PlayerID: "player-1", EntityID: "hseedb", Slot: 0})
	s.Require().NoError(err)
	s.Equal([]string{"hseedb", "hseeda"}, moved.Team)

	// remove
	removed, err := s.service.RemoveFromTeam(s.ctx, &roster.RemoveFromTeamInput{PlayerID: "player-1", EntityID: "hseeda"})
	s.Require().NoError(err)
	s.Equal([]string{"hseedb"}, removed.Team)
}

func (s *OrchestratorTestSuite) TestTeamCapacity() {
	s.seedRoster(7)

	ids := []string{"hseeda", "hseedb", "hseedc", "hseedd", "hseede", "hseedf"}
	for _, id := range ids {
		_, err := s.service.AddToTeam(s.ctx, &roster.AddToTeamInput{PlayerID: "player-1", EntityID: id})
		s.Require().NoError(err)
	}

	_, err := s.service.AddToTeam(s.ctx, &roster.AddToTeamInput{PlayerID: "player-1", EntityID: "hseedg"})
	s.Error(err)
}

func (s *OrchestratorTestSuite) TestLockProtects() {
	s.seedRoster(2)

	_, err := s.service.AddToTeam(s.ctx, &roster.AddToTeamInput{PlayerID: "player-1", EntityID: "hseeda"})
	s.Require().NoError(err)

	_, err = s.service.Lock(s.ctx, &roster.LockInput{PlayerID: "player-1", EntityID: "hseeda"})
	s.Require().NoError(err)

	_, err = s.service.RemoveFromTeam(s.ctx, &roster.RemoveFromTeamInput{PlayerID: "player-1", EntityID: "hseeda"})
	s.Error(err)

	locked, err := s.service.ListLocked(s.ctx, &roster.ListLockedInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Len(locked.Entities, 1)

	_, err = s.service.Unlock(s.ctx, &roster.UnlockInput{PlayerID: "player-1", EntityID: "hseeda"})
	s.Require().NoError(err)

	_, err = s.service.RemoveFromTeam(s.ctx, &roster.RemoveFromTeamInput{PlayerID: "player-1", EntityID: "hseeda"})
	s.NoError(err)
}

func (s *OrchestratorTestSuite) TestClearBarracks() {
	s.seedRoster(4)

	// one on team, one locked, two releasable
	_, err := s.service.AddToTeam(s.ctx, &roster.AddToTeamInput{PlayerID: "player-1", EntityID: "hseeda"})
	s.Require().NoError(err)
	_, err = s.service.Lock(s.ctx, &roster.LockInput{PlayerID: "player-1", EntityID: "hseedb"})
	s.Require().NoError(err)

	out, err := s.service.ClearBarracks(s.ctx, &roster.ClearBarracksInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal(2, out.Released)

	listed, err := s.service.ListRoster(s.ctx, &roster.ListRosterInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Len(listed.Roster, 2)
}

func (s *OrchestratorTestSuite) TestHeal() {
	player := s.seedRoster(2)
	_ = player

	_, err := s.service.AddToTeam(s.ctx, &roster.AddToTeamInput{PlayerID: "player-1", EntityID: "hseeda"})
	s.Require().NoError(err)

	// wound the team member
	got, err := s.service.GetPlayer(s.ctx, &roster.GetPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	got.Player.FindEntity("hseeda").CurrentHP = 3
	_, err = s.repo.Set(s.ctx, players.SetInput{Player: got.Player})
	s.Require().NoError(err)

	out, err := s.service.Heal(s.ctx, &roster.HealInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Team, 1)
	s.Equal(out.Team[0].Stats.HP, out.Team[0].CurrentHP)

	after, err := s.service.GetPlayer(s.ctx, &roster.GetPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal(9, after.Player.BagCount("Potion"))
}

func (s *OrchestratorTestSuite) TestHeal_NoPotions() {
	player := s.seedRoster(1)
	player.Bag = map[string]int{}
	_, err := s.repo.Set(s.ctx, players.SetInput{Player: player})
	s.Require().NoError(err)

	_, err = s.service.Heal(s.ctx, &roster.HealInput{PlayerID: "player-1"})
	s.Error(err)
}

func (s *OrchestratorTestSuite) TestUseElixir() {
	player := s.seedRoster(1)
	player.BagAdd("Elixir", 5)
	_, err := s.repo.Set(s.ctx, players.SetInput{Player: player})
	s.Require().NoError(err)

	out, err := s.service.UseElixir(s.ctx, &roster.UseElixirInput{
		PlayerID: "player-1",
		EntityID: "hseeda",
		Count:    3,
	})
	s.Require().NoError(err)
	s.Equal(3, out.LevelsGained)
	s.Equal(13, out.Entity.Level)

	after, err := s.service.GetPlayer(s.ctx, &roster.GetPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal(2, after.Player.BagCount("Elixir"))
	s.Equal(13, after.Player.FindEntity("hseeda").Level)
}

func (s *OrchestratorTestSuite) TestUseElixir_ClampsAtCap() {
	player := s.seedRoster(1)
	player.BagAdd("Elixir", 10)
	player.FindEntity("hseeda").Level = 98
	_, err := s.repo.Set(s.ctx, players.SetInput{Player: player})
	s.Require().NoError(err)

	out, err := s.service.UseElixir(s.ctx, &roster.UseElixirInput{
		PlayerID: "player-1",
		EntityID: "hseeda",
		Count:    10,
	})
	s.Require().NoError(err)
	s.Equal(2, out.LevelsGained)
	s.Equal(100, out.Entity.Level)

	after, err := s.service.GetPlayer(s.ctx, &roster.GetPlayerInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Equal(8, after.Player.BagCount("Elixir"))
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
