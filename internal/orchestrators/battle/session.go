package battle

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/pkg/rng"
)

// session is one live combat encounter. Sessions are in-memory only: the
// enemy and reward ledger live here, while the player's entities are loaded
// from and written back to the player store on every action.
type session struct {
	id       string
	playerID string

	boss   bool
	domain string
	leader string

	activeID string
	queue    []*entities.Entity
	phase    int

	state   State
	outcome Outcome
	summary RewardSummary

	lastAction time.Time
}

func (s *session) enemy() *entities.Entity {
	if s.phase >= len(s.queue) {
		return nil
	}
	return s.queue[s.phase]
}

func (s *session) concluded() bool {
	return s.state == StateConcluded
}

func (s *session) conclude(outcome Outcome) {
	s.state = StateConcluded
	s.outcome = outcome
}

// resolveMove applies one move from actor to target and returns the log
// line. It is symmetric: either side can be the actor. Magical moves scale
// with the actor's magic stat, everything else with attack, and both are
// reduced by the target's defense.
func resolveMove(src rng.Source, actor, target *entities.Entity, move entities.Move) string {
	if src.IntRange(1, 100) > move.Accuracy {
		return fmt.Sprintf("%s used %s, but it missed!", actor.Name, move.Name)
	}

	if !move.HasPower {
		return fmt.Sprintf("%s used %s, a support move!", actor.Name, move.Name)
	}

	offense := actor.Stats.Attack
	label := "physical"
	if move.Type == entities.DamageMagical {
		offense = actor.Stats.Magic
		label = "magical"
	}

	dmg := move.Power + offense/2 - target.Stats.Defense/3
	if dmg < 1 {
		dmg = 1
	}

	target.CurrentHP -= dmg
	if target.CurrentHP < 0 {
		target.CurrentHP = 0
	}
	return fmt.Sprintf("%s used %s and dealt %d %s damage!", actor.Name, move.Name, dmg, label)
}

// playerFirst decides turn order by speed, flipping a coin on ties.
func playerFirst(src rng.Source, player, enemy *entities.Entity) bool {
	if player.Stats.Speed != enemy.Stats.Speed {
		return player.Stats.Speed > enemy.Stats.Speed
	}
	return src.Chance(0.5)
}

// enemyMove picks the enemy's action uniformly from its moveset.
func enemyMove(src rng.Source, enemy *entities.Entity) entities.Move {
	return rng.Pick(src, enemy.Moves())
}
