// Package progression applies experience gains and resolves the level-up
// cascades for entities and player accounts.
package progression

import (
	"math"

	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/errors"
	"github.com/KirkDiggler/heroes-api/internal/pkg/rng"
	"github.com/KirkDiggler/heroes-api/internal/stats"
)

// EntityThreshold returns the xp an entity must bank to advance to the
// given level. The curve is cubic so late levels cost far more than early
// ones.
func EntityThreshold(level int) int {
	l := float64(level)
	return int(0.015*l*l*l + 10*l*l)
}

// AccountThreshold returns the xp a player account must bank to advance
// past the given level. Geometric growth puts the full run to level 100 at
// roughly a million xp.
func AccountThreshold(level int) int {
	return int(200 * math.Pow(1.059, float64(level-1)))
}

// AccountMilestones are the levels that grant a Soulbound Contract.
var AccountMilestones = map[int]bool{10: true, 25: true, 50: true, 75: true, 100: true}

// EntityEvent records one observable outcome of an entity xp award.
type EntityEvent struct {
	Name    string
	Level   int
	AtCap   bool
	Message string
}

// AccountEvent records one account level gained and its rewards.
type AccountEvent struct {
	Level int
	Coins int
	Items map[string]int
}

// Tracker applies xp to entities and accounts.
type Tracker struct {
	catalog *catalog.Catalog
	rng     rng.Source
}

// Config holds the tracker's dependencies.
type Config struct {
	Catalog *catalog.Catalog
	RNG     rng.Source
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

	return vb.Build()
}

// New creates a progression tracker with the given configuration
func New(cfg *Config) (*Tracker, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Tracker{
		catalog: cfg.Catalog,
		rng:     cfg.RNG,
	}, nil
}

// AwardEntityXP banks xp on an entity and resolves any resulting level ups,
// recomputing stats at each new level. An entity already at the cap gains
// nothing and its banked xp is zeroed.
func (t *Tracker) AwardEntityXP(e *entities.Entity, gain int) ([]EntityEvent, error) {
	if e.Level >= stats.MaxLevel {
		e.Level = stats.MaxLevel
		e.XP = 0
		return []EntityEvent{{Name: e.Name, Level: e.Level, AtCap: true, Message: e.Name + " is already at the level cap"}}, nil
	}

	tmpl, ok := t.catalog.Template(e.TemplateID)
	if !ok {
		return nil, errors.NotFoundf("template %s not found for entity %s", e.TemplateID, e.InstanceID)
	}

	var events []EntityEvent
	e.XP += gain
	for e.Level < stats.MaxLevel && e.XP >= EntityThreshold(e.Level+1) {
		e.XP -= EntityThreshold(e.Level + 1)
		e.Level++
		stats.Recompute(e, tmpl.Stats)
		events = append(events, EntityEvent{
			Name:    e.Name,
			Level:   e.Level,
			Message: e.Name + " leveled up",
		})
	}

	if e.Level >= stats.MaxLevel {
		e.XP = 0
	}
	return events, nil
}

// AwardAccountXP banks xp on a player account and resolves level ups. Each
// new level pays out coins scaled by the level, a random bundle of
// contracts by level bracket, and a Soulbound Contract at milestone
// levels.
func (t *Tracker) AwardAccountXP(p *entities.PlayerRecord, gain int) []AccountEvent {
	p.XP += gain

	var events []AccountEvent
	for p.XP >= AccountThreshold(p.Level) {
		p.XP -= AccountThreshold(p.Level)
		p.Level++

		event := AccountEvent{
			Level: p.Level,
			Coins: p.Level * 200,
			Items: make(map[string]int),
		}
		p.Coins += event.Coins

		switch {
		case p.Level < 10:
			event.Items["Contract"] = t.rng.IntRange(2, 5)
		case p.Level < 20:
			event.Items["Great Contract"] = t.rng.IntRange(2, 5)
		case p.Level < 50:
			event.Items["Ancient Contract"] = t.rng.IntRange(2, 5)
		}
		if AccountMilestones[p.Level] {
			event.Items["Soulbound Contract"]++
		}

		for item, qty := range event.Items {
			p.BagAdd(item, qty)
		}
		events = append(events, event)
	}
	return events
}
