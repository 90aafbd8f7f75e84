// Package entities holds the domain types shared by the repositories and
// orchestrators. These are plain data carriers. Derivation rules live in the
// stats and generator packages so the types stay serialization friendly.
package entities

import "strings"

// Kind separates recruitable heroes from wild monsters.
type Kind string

const (
	KindHero    Kind = "hero"
	KindMonster Kind = "monster"
)

// DamageType drives which offensive stat a move scales with.
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagical  DamageType = "magical"
	DamageSupport  DamageType = "support"
)

// Stats is the five-stat block used for both base templates and derived
// combat values. HP here is the maximum, current HP lives on the Entity.
type Stats struct {
	HP      int `json:"hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Magic   int `json:"magic"`
	Speed   int `json:"speed"`
}

// Move is one usable combat action.
type Move struct {
	Name     string     `json:"name"`
	Type     DamageType `json:"type"`
	Power    int        `json:"power"`
	HasPower bool       `json:"has_power"`
	Accuracy int        `json:"accuracy"`
}

// DefaultStrike is the fallback move granted when an entity's unlocked
// moveset is empty.
func DefaultStrike() Move {
	return Move{
		Name:     "Strike",
		Type:     DamagePhysical,
		Power:    40,
		HasPower: true,
		Accuracy: 100,
	}
}

// Entity is one owned or wild creature instance.
type Entity struct {
	TemplateID  string `json:"template_id"`
	InstanceID  string `json:"instance_id"`
	Name        string `json:"name"`
	Class       string `json:"class,omitempty"`
	Element     string `json:"element"`
	Kind        Kind   `json:"kind"`
	Rarity      Rarity `json:"rarity"`
	Level       int    `json:"level"`
	Shiny       bool   `json:"shiny"`
	IVs         Stats  `json:"ivs"`
	EVs         Stats  `json:"evs"`
	Stats       Stats  `json:"stats"`
	CurrentHP   int    `json:"current_hp"`
	XP          int    `json:"xp"`
	Moveset     []Move `json:"moveset"`
	Sprite      string `json:"sprite,omitempty"`
	Locked      bool   `json:"locked"`
	RecruitedAt int64  `json:"recruited_at,omitempty"`
}

// Fainted reports whether the entity is out of the fight.
func (e *Entity) Fainted() bool {
	return e.CurrentHP <= 0
}

// Moves returns the entity's usable moveset, falling back to Strike when
// nothing is unlocked.
func (e *Entity) Moves() []Move {
	if len(e.Moveset) == 0 {
		return []Move{DefaultStrike()}
	}
	return e.Moveset
}

// FindMove looks up a move by name, case-insensitively.
func (e *Entity) FindMove(name string) (Move, bool) {
	for _, m := range e.Moves() {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Move{}, false
}
