// Package stats derives combat stats from base values, IVs, EVs, and level.
package stats

import "github.com/KirkDiggler/heroes-api/internal/entities"

// MaxLevel caps entity levels.
const MaxLevel = 100

// ClampLevel bounds a level to [1, MaxLevel].
func ClampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// DeriveHP computes maximum hp from growth parameters.
func DeriveHP(base, iv, ev, level int) int {
	return ((2*base+iv+ev/4)*level)/100 + level + 10
}

// DeriveStat computes any non-hp stat from growth parameters.
func DeriveStat(base, iv, ev, level int) int {
	return ((2*base+iv+ev/4)*level)/100 + 5
}

// Derive computes the full stat block for an entity at the given level.
func Derive(base, ivs, evs entities.Stats, level int) entities.Stats {
	level = ClampLevel(level)
	return entities.Stats{
		HP:      DeriveHP(base.HP, ivs.HP, evs.HP, level),
		Attack:  DeriveStat(base.Attack, ivs.Attack, evs.Attack, level),
		Defense: DeriveStat(base.Defense, ivs.Defense, evs.Defense, level),
		Magic:   DeriveStat(base.Magic, ivs.Magic, evs.Magic, level),
		Speed:   DeriveStat(base.Speed, ivs.Speed, evs.Speed, level),
	}
}

// Recompute rebuilds an entity's derived stats at its current level,
// preserving the current hp fraction against the new maximum. An entity at
// full health stays at full health, and a fainted entity stays fainted.
func Recompute(e *entities.Entity, base entities.Stats) {
	oldMax := e.Stats.HP
	oldCur := e.CurrentHP

	e.Level = ClampLevel(e.Level)
	e.Stats = Derive(base, e.IVs, e.EVs, e.Level)

	switch {
	case oldMax <= 0 || oldCur >= oldMax:
		e.CurrentHP = e.Stats.HP
	case oldCur <= 0:
		e.CurrentHP = 0
	default:
		frac := float64(oldCur) / float64(oldMax)
		scaled := int(float64(e.Stats.HP) * frac)
		if scaled < 1 {
			scaled = 1
		}
		e.CurrentHP = scaled
	}
}
