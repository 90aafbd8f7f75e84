// Package generator produces battle-ready entity instances: rarity-weighted
// wild encounters, starters, chest and relic spawns, and boss phase teams.
package generator

import (
	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/errors"
	"github.com/KirkDiggler/heroes-api/internal/pkg/idgen"
	"github.com/KirkDiggler/heroes-api/internal/pkg/rng"
	"github.com/KirkDiggler/heroes-api/internal/stats"
)

// Shiny roll odds per spawn context.
const (
	shinyWildHero  = 1.0 / 4096
	shinyMonster   = 1.0 / 8192
	shinyStarter   = 1.0 / 5000
	shinyChestHero = 1.0 / 20
)

// MovesetCap bounds how many skills an instance carries.
const MovesetCap = 4

// rarity draw weights, indexed like entities.RarityOrder
var (
	heroWeights    = []float64{50, 29.9, 15, 5, 0.1}
	monsterWeights = []float64{60, 25, 10, 4, 1}
)

// levelRange is a triangular distribution's (low, high, mode) bounds.
type levelRange struct {
	low, high, mode float64
}

var wildHeroLevels = map[entities.Rarity]levelRange{
	entities.RarityLegendary: {50, 70, 55},
	entities.RarityEpic:      {30, 55, 45},
	entities.RarityRare:      {15, 40, 25},
	entities.RarityUncommon:  {10, 25, 15},
	entities.RarityCommon:    {3, 15, 10},
}

var wildMonsterLevels = map[entities.Rarity]levelRange{
	entities.RarityLegendary: {60, 80, 70},
	entities.RarityEpic:      {40, 60, 50},
	entities.RarityRare:      {20, 45, 30},
	entities.RarityUncommon:  {10, 30, 20},
	entities.RarityCommon:    {3, 20, 10},
}

var forcedLevels = map[entities.Rarity]levelRange{
	entities.RarityLegendary: {70, 85, 80},
	entities.RarityEpic:      {45, 60, 50},
}

var forcedDefaultLevels = levelRange{15, 30, 20}

// Generator materializes entity instances from catalog templates.
type Generator struct {
	catalog *catalog.Catalog
	rng     rng.Source
	idgen   idgen.Generator
}

// Config holds the generator's dependencies.
type Config struct {
	Catalog *catalog.Catalog
	RNG     rng.Source
	IDGen   idgen.Generator
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.RNG == nil {
		vb.RequiredField("RNG")
	}
	if c.IDGen == nil {
		vb.RequiredField("IDGen")
	}

	return vb.Build()
}

// New creates a generator with the given configuration
func New(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Generator{
		catalog: cfg.Catalog,
		rng:     cfg.RNG,
		idgen:   cfg.IDGen,
	}, nil
}

// Wild generates a random wild encounter of the given kind. Rarity is drawn
// from the kind's weight table, level from the rarity's triangular range,
// and the shiny flag from the kind's odds.
func (g *Generator) Wild(kind entities.Kind) (*entities.Entity, error) {
	weights := heroWeights
	levels := wildHeroLevels
	shinyRate := shinyWildHero
	if kind == entities.KindMonster {
		weights = monsterWeights
		levels = wildMonsterLevels
		shinyRate = shinyMonster
	}

	rarity := entities.RarityOrder[rng.WeightedIndex(g.rng, weights)]
	tmpl, err := g.pickTemplate(kind, rarity)
	if err != nil {
		return nil, err
	}

	level := g.rollLevel(levels[tmpl.Rarity])
	return g.materialize(tmpl, kind, level, g.rng.Chance(shinyRate)), nil
}

// Forced generates an encounter of a specific rarity, used by chest spawns
// and event rewards. Levels scale with the forced tier.
func (g *Generator) Forced(kind entities.Kind, rarity entities.Rarity) (*entities.Entity, error) {
	if !rarity.IsValid() {
		return nil, errors.InvalidArgumentf("invalid rarity %q", rarity)
	}

	tmpl, err := g.pickTemplate(kind, rarity)
	if err != nil {
		return nil, err
	}

	bounds, ok := forcedLevels[tmpl.Rarity]
	if !ok {
		bounds = forcedDefaultLevels
	}
	return g.materialize(tmpl, kind, g.rollLevel(bounds), g.rng.Chance(shinyWildHero)), nil
}

// Starter generates one of the fixed starting heroes at level 10.
func (g *Generator) Starter(name string) (*entities.Entity, error) {
	tmpl, ok := g.catalog.HeroByName(name)
	if !ok {
		return nil, errors.NotFoundf("starter hero %q not found", name)
	}
	return g.materialize(tmpl, entities.KindHero, 10, g.rng.Chance(shinyStarter)), nil
}

// ChestHero generates the epic hero that can spawn from silver and gold
// chests, with elevated shiny odds.
func (g *Generator) ChestHero() (*entities.Entity, error) {
	tmpl, err := g.pickTemplate(entities.KindHero, entities.RarityEpic)
	if err != nil {
		return nil, err
	}

	bounds := forcedLevels[entities.RarityEpic]
	return g.materialize(tmpl, entities.KindHero, g.rollLevel(bounds), g.rng.Chance(shinyChestHero)), nil
}

// AncientGuardian generates the legendary gatekeeper behind an ancient
// chest, always at level 85.
func (g *Generator) AncientGuardian() (*entities.Entity, error) {
	tmpl, err := g.pickTemplate(entities.KindHero, entities.RarityLegendary)
	if err != nil {
		return nil, err
	}
	return g.materialize(tmpl, entities.KindHero, 85, g.rng.Chance(shinyStarter)), nil
}

// Summon generates the guaranteed-shiny legendary hero a filled relic
// awakens, at a uniform level in [50, 70].
func (g *Generator) Summon(heroName string) (*entities.Entity, error) {
	tmpl, ok := g.catalog.HeroByName(heroName)
	if !ok {
		return nil, errors.NotFoundf("legendary hero %q not found", heroName)
	}
	return g.materialize(tmpl, entities.KindHero, g.rng.IntRange(50, 70), true), nil
}

// BossTeam assembles 3 to 6 monsters tagged with the boss domain, leveled
// from the boss triangular range. Falls back to wild monster pools when no
// monster carries the tag.
func (g *Generator) BossTeam(domain string) ([]*entities.Entity, error) {
	pool := g.catalog.MonstersTagged(domain)

	count := g.rng.IntRange(3, 6)
	team := make([]*entities.Entity, 0, count)
	for i := 0; i < count; i++ {
		var tmpl *catalog.Template
		if len(pool) > 0 {
			tmpl = rng.Pick(g.rng, pool)
		} else {
			var err error
			tmpl, err = g.pickTemplate(entities.KindMonster, entities.RarityCommon)
			if err != nil {
				return nil, err
			}
		}

		level := int(g.rng.Triangular(35, 60, 45))
		team = append(team, g.materialize(tmpl, entities.KindMonster, level, false))
	}
	return team, nil
}

func (g *Generator) pickTemplate(kind entities.Kind, rarity entities.Rarity) (*catalog.Template, error) {
	pool := g.catalog.Pool(kind, rarity)
	if len(pool) == 0 {
		pool = g.catalog.Pool(kind, entities.RarityCommon)
	}
	if len(pool) == 0 {
		return nil, errors.Internalf("no %s templates available", kind)
	}
	return rng.Pick(g.rng, pool), nil
}

func (g *Generator) rollLevel(bounds levelRange) int {
	return int(g.rng.Triangular(bounds.low, bounds.high, bounds.mode))
}

// materialize rolls fresh IVs, derives stats at the level, and builds the
// unlocked moveset.
func (g *Generator) materialize(tmpl *catalog.Template, kind entities.Kind, level int, shiny bool) *entities.Entity {
	level = stats.ClampLevel(level)

	ivs := entities.Stats{
		HP:      g.rng.IntRange(0, 31),
		Attack:  g.rng.IntRange(0, 31),
		Defense: g.rng.IntRange(0, 31),
		Magic:   g.rng.IntRange(0, 31),
		Speed:   g.rng.IntRange(0, 31),
	}
	evs := entities.Stats{}

	derived := stats.Derive(tmpl.Stats, ivs, evs, level)

	e := &entities.Entity{
		TemplateID: tmpl.ID,
		InstanceID: g.idgen.Generate(),
		Name:       tmpl.Name,
		Class:      tmpl.Class,
		Element:    tmpl.Element,
		Kind:       kind,
		Rarity:     tmpl.Rarity,
		Level:      level,
		Shiny:      shiny,
		IVs:        ivs,
		EVs:        evs,
		Stats:      derived,
		CurrentHP:  derived.HP,
		Moveset:    unlockedMoves(tmpl, level),
		Sprite:     tmpl.Sprite,
	}
	return e
}

// unlockedMoves filters the template's skills to those unlocked at or below
// the level, capped at MovesetCap. An empty result synthesizes Strike.
func unlockedMoves(tmpl *catalog.Template, level int) []entities.Move {
	var moves []entities.Move
	for _, skill := range tmpl.Skills {
		if skill.UnlockLevel() > level {
			continue
		}
		moves = append(moves, skill.Move())
		if len(moves) == MovesetCap {
			break
		}
	}
	if len(moves) == 0 {
		return []entities.Move{entities.DefaultStrike()}
	}
	return moves
}
