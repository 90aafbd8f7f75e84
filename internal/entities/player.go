package entities

import (
	"strings"
	"time"
)

// RelicCharge tracks progress toward filling an ancient relic. Each battle
// kill while the charge is active adds one toward the goal.
type RelicCharge struct {
	Item  string `json:"item"`
	Hero  string `json:"hero"`
	Kills int    `json:"kills"`
	Goal  int    `json:"goal"`
}

// PendingEncounter is a wild hero (or chest guardian) waiting on the
// player's decision to recruit or fight. It survives restarts so a found
// encounter is not lost, but goes stale after the hunt timeout.
type PendingEncounter struct {
	Entity  *Entity `json:"entity"`
	FoundAt int64   `json:"found_at"`
}

// PendingChest is a discovered treasure chest awaiting the matching key.
type PendingChest struct {
	Difficulty string `json:"difficulty"`
	FoundAt    int64  `json:"found_at"`
}

// PlayerRecord is the full persisted state of one player.
type PlayerRecord struct {
	ID            string           `json:"id"`
	Username      string           `json:"username"`
	Coins         int              `json:"coins"`
	Level         int              `json:"level"`
	XP            int              `json:"xp"`
	Badges        map[string]bool  `json:"badges"`
	Bag           map[string]int   `json:"bag"`
	Roster        []*Entity        `json:"roster"`
	ActiveTeam    []string         `json:"active_team"`
	Codex         map[string]bool  `json:"codex"`
	BossCooldowns map[string]int64 `json:"boss_cooldowns"`
	WorkedAt      int64            `json:"worked_at"`
	Encounter     *PendingEncounter `json:"encounter,omitempty"`
	Chest         *PendingChest     `json:"chest,omitempty"`
	RelicCharge   *RelicCharge     `json:"relic_charge,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TeamMax is the active team capacity.
const TeamMax = 6

// BagCount returns the held quantity of an item, matching names
// case-insensitively.
func (p *PlayerRecord) BagCount(item string) int {
	for name, qty := range p.Bag {
		if strings.EqualFold(name, item) {
			return qty
		}
	}
	return 0
}

// BagAdd adds qty of an item, merging onto an existing stack regardless of
// case. New stacks keep the caller's casing.
func (p *PlayerRecord) BagAdd(item string, qty int) {
	if qty <= 0 {
		return
	}
	if p.Bag == nil {
		p.Bag = make(map[string]int)
	}
	for name := range p.Bag {
		if strings.EqualFold(name, item) {
			p.Bag[name] += qty
			return
		}
	}
	p.Bag[item] = qty
}

// BagRemove removes qty of an item. It returns false without mutating when
// the held quantity is insufficient. Emptied stacks are deleted.
func (p *PlayerRecord) BagRemove(item string, qty int) bool {
	if qty <= 0 {
		return true
	}
	for name, held := range p.Bag {
		if strings.EqualFold(name, item) {
			if held < qty {
				return false
			}
			if held == qty {
				delete(p.Bag, name)
			} else {
				p.Bag[name] = held - qty
			}
			return true
		}
	}
	return false
}

// FindEntity resolves an instance ID to a roster entity. A bare prefix
// matches when it is unambiguous, so players can use shortened IDs.
func (p *PlayerRecord) FindEntity(instanceID string) *Entity {
	for _, e := range p.Roster {
		if e.InstanceID == instanceID {
			return e
		}
	}

	var match *Entity
	for _, e := range p.Roster {
		if strings.HasPrefix(e.InstanceID, instanceID) {
			if match != nil {
				return nil
			}
			match = e
		}
	}
	return match
}

// InTeam reports whether the instance ID is on the active team.
func (p *PlayerRecord) InTeam(instanceID string) bool {
	for _, id := range p.ActiveTeam {
		if id == instanceID {
			return true
		}
	}
	return false
}

// Team resolves the active team slots to entities, skipping any stale IDs.
func (p *PlayerRecord) Team() []*Entity {
	team := make([]*Entity, 0, len(p.ActiveTeam))
	for _, id := range p.ActiveTeam {
		if e := p.FindEntity(id); e != nil {
			team = append(team, e)
		}
	}
	return team
}
