package generator_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/generator"
	"github.com/KirkDiggler/heroes-api/internal/pkg/idgen"
	"github.com/KirkDiggler/heroes-api/internal/pkg/rng"
)

type GeneratorTestSuite struct {
	suite.Suite
	catalog *catalog.Catalog
}

func (s *GeneratorTestSuite) SetupTest() {
	baseStats := entities.Stats{HP: 45, Attack: 49, Defense: 49, Magic: 65, Speed: 45}
	skills := []catalog.Skill{
		{Name: "Ember", Type: "Magical", Power: "40", Accuracy: "100", Unlock: "1"},
		{Name: "Flame Lash", Type: "Physical", Power: "55", Accuracy: "95", Unlock: "12"},
		{Name: "Inferno", Type: "Magical", Power: "90", Accuracy: "85", Unlock: "40"},
		{Name: "Flame Ward", Type: "Support", Power: "-", Unlock: "5"},
		{Name: "Cataclysm", Type: "Magical", Power: "120", Accuracy: "70", Unlock: "80"},
	}

	heroes := []*catalog.Template{
		{ID: "h-common", Name: "Wren", Element: "nature", Rarity: entities.RarityCommon, Stats: baseStats, Skills: skills},
		{ID: "h-uncommon", Name: "Borin", Element: "earth", Rarity: entities.RarityUncommon, Stats: baseStats},
		{ID: "h-rare", Name: "Damon", Element: "fire", Rarity: entities.RarityRare, Stats: baseStats, Skills: skills},
		{ID: "h-epic", Name: "Sylva", Element: "air", Rarity: entities.RarityEpic, Stats: baseStats},
		{ID: "h-legendary", Name: "Aurelia", Element: "holy", Rarity: entities.RarityLegendary, Stats: baseStats},
	}
	monsters := []*catalog.Template{
		{ID: "m-common", Name: "Ghoul", Element: "shadow", Rarity: entities.RarityCommon, Stats: baseStats, Types: []string{"Undead"}},
		{ID: "m-rare", Name: "Wraith", Element: "shadow", Rarity: entities.RarityRare, Stats: baseStats, Types: []string{"Undead"}},
	}

	c, err := catalog.New(heroes, monsters, nil, nil, nil)
	s.Require().NoError(err)
	s.catalog = c
}

func (s *GeneratorTestSuite) newGenerator(seed int64) *generator.Generator {
	gen, err := generator.New(&generator.Config{
		Catalog: s.catalog,
		RNG:     rng.New(seed),
		IDGen:   idgen.NewSequential("h"),
	})
	s.Require().NoError(err)
	return gen
}

func (s *GeneratorTestSuite) TestWild_RarityDistribution() {
	gen := s.newGenerator(42)

	counts := map[entities.Rarity]int{}
	const draws = 20000
	for i := 0; i < draws; i++ {
		e, err := gen.Wild(entities.KindHero)
		s.Require().NoError(err)
		counts[e.Rarity]++
	}

	// hero weights are 50 / 29.9 / 15 / 5 / 0.1
	s.InDelta(0.50, float64(counts[entities.RarityCommon])/draws, 0.02)
	s.InDelta(0.299, float64(counts[entities.RarityUncommon])/draws, 0.02)
	s.InDelta(0.15, float64(counts[entities.RarityRare])/draws, 0.02)
	s.InDelta(0.05, float64(counts[entities.RarityEpic])/draws, 0.01)
	s.Less(counts[entities.RarityLegendary], draws/100)
}

func (s *GeneratorTestSuite) TestWild_LevelsWithinRarityBounds() {
	gen := s.newGenerator(7)

	for i := 0; i < 2000; i++ {
		e, err := gen.Wild(entities.KindHero)
		s.Require().NoError(err)

		switch e.Rarity {
		case entities.RarityCommon:
			s.GreaterOrEqual(e.Level, 3)
			s.LessOrEqual(e.Level, 15)
		case entities.RarityLegendary:
			s.GreaterOrEqual(e.Level, 50)
			s.LessOrEqual(e.Level, 70)
		}
	}
}

func (s *GeneratorTestSuite) TestWild_MonsterFallsBackToCommon() {
	gen := s.newGenerator(3)

	// the monster catalog has no uncommon/epic/legendary pool, so those
	// draws land on the common pool instead of failing
	for i := 0; i < 2000; i++ {
		e, err := gen.Wild(entities.KindMonster)
		s.Require().NoError(err)
		s.Contains([]string{"m-common", "m-rare"}, e.TemplateID)
	}
}

func (s *GeneratorTestSuite) TestWild_Materialization() {
	gen := s.newGenerator(11)

	e, err := gen.Wild(entities.KindHero)
	s.Require().NoError(err)

	s.NotEmpty(e.InstanceID)
	s.Equal(e.Stats.HP, e.CurrentHP)
	s.Zero(e.XP)
	s.Zero(e.EVs.Attack)
	s.GreaterOrEqual(e.IVs.HP, 0)
	s.LessOrEqual(e.IVs.HP, 31)
	s.NotEmpty(e.Moveset)
}

func (s *GeneratorTestSuite) TestWild_Deterministic() {
	a := s.newGenerator(99)
	b := s.newGenerator(99)

	for i := 0; i < 50; i++ {
		ea, err := a.Wild(entities.KindHero)
		s.Require().NoError(err)
		eb, err := b.Wild(entities.KindHero)
		s.Require().NoError(err)

		s.Equal(ea.TemplateID, eb.TemplateID)
		s.Equal(ea.Level, eb.Level)
		s.Equal(ea.IVs, eb.IVs)
	}
}

func (s *GeneratorTestSuite) TestForced_LevelBounds() {
	gen := s.newGenerator(5)

	for i := 0; i < 500; i++ {
		e, err := gen.Forced(entities.KindHero, entities.RarityLegendary)
		s.Require().NoError(err)
		s.Equal(entities.RarityLegendary, e.Rarity)
		s.GreaterOrEqual(e.Level, 70)
		s.LessOrEqual(e.Level, 85)
	}
}

func (s *GeneratorTestSuite) TestForced_InvalidRarity() {
	gen := s.newGenerator(5)

	_, err := gen.Forced(entities.KindHero, entities.Rarity("mythic"))
	s.Error(err)
}

func (s *GeneratorTestSuite) TestStarter() {
	gen := s.newGenerator(13)

	e, err := gen.Starter("damon")
	s.Require().NoError(err)

	s.Equal(10, e.Level)
	s.Equal("h-rare", e.TemplateID)

	// only Ember and Flame Ward unlock at or below level 10
	s.Len(e.Moveset, 2)
	s.Equal("Ember", e.Moveset[0].Name)

	_, err = gen.Starter("nobody")
	s.Error(err)
}

func (s *GeneratorTestSuite) TestMovesetCapAndFallback() {
	gen := s.newGenerator(17)

	// at level 100 all five skills qualify but the set is capped
	e, err := gen.Summon("Damon")
	s.Require().NoError(err)
	s.GreaterOrEqual(e.Level, 50)
	s.LessOrEqual(e.Level, 70)
	s.True(e.Shiny)
	s.LessOrEqual(len(e.Moveset), generator.MovesetCap)

	// a template with no skills gets the default Strike
	plain, err := gen.Starter("Borin")
	s.Require().NoError(err)
	s.Require().Len(plain.Moveset, 1)
	s.Equal("Strike", plain.Moveset[0].Name)
}

func (s *GeneratorTestSuite) TestBossTeam() {
	gen := s.newGenerator(21)

	team, err := gen.BossTeam("undead")
	s.Require().NoError(err)

	s.GreaterOrEqual(len(team), 3)
	s.LessOrEqual(len(team), 6)
	for _, m := range team {
		s.Equal(entities.KindMonster, m.Kind)
		s.Contains([]string{"m-common", "m-rare"}, m.TemplateID)
		s.GreaterOrEqual(m.Level, 35)
		s.LessOrEqual(m.Level, 60)
		s.False(m.Shiny)
	}
}

func (s *GeneratorTestSuite) TestBossTeam_UntaggedDomainFallsBack() {
	gen := s.newGenerator(23)

	team, err := gen.BossTeam("arcane")
	s.Require().NoError(err)
	s.NotEmpty(team)
	for _, m := range team {
		s.Equal("m-common", m.TemplateID)
	}
}

func TestGeneratorTestSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}
