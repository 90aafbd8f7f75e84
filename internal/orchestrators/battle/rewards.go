package battle

import (
	"fmt"

	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/pkg/rng"
	"github.com/KirkDiggler/heroes-api/internal/stats"
)

// Per-kill reward ranges indexed by the defeated enemy's rarity.
type rewardRange struct {
	low, high int
}

var coinRewards = map[entities.Rarity]rewardRange{
	entities.RarityCommon:    {50, 100},
	entities.RarityUncommon:  {150, 250},
	entities.RarityRare:      {250, 500},
	entities.RarityEpic:      {500, 1000},
	entities.RarityLegendary: {1000, 5000},
}

var heroXPRewards = map[entities.Rarity]rewardRange{
	entities.RarityCommon:    {200, 1500},
	entities.RarityUncommon:  {1500, 3000},
	entities.RarityRare:      {3000, 6000},
	entities.RarityEpic:      {6000, 12000},
	entities.RarityLegendary: {15000, 30000},
}

var accountXPRewards = map[entities.Rarity]rewardRange{
	entities.RarityCommon:    {20, 40},
	entities.RarityUncommon:  {40, 80},
	entities.RarityRare:      {80, 160},
	entities.RarityEpic:      {160, 300},
	entities.RarityLegendary: {1000, 2000},
}

func (o *orchestrator) rollRange(table map[entities.Rarity]rewardRange, rarity entities.Rarity) int {
	r, ok := table[rarity]
	if !ok {
		r = rewardRange{100, 200}
	}
	return o.rng.IntRange(r.low, r.high)
}

// adjacentRarity picks a drop tier near the enemy's: 70% the same, 15% one
// tier up, 15% one tier down, clamped at the ends.
func (o *orchestrator) adjacentRarity(rarity entities.Rarity) entities.Rarity {
	if !rarity.IsValid() {
		rarity = entities.RarityCommon
	}
	roll := o.rng.Float64()
	switch {
	case roll < 0.70:
		return rarity
	case roll < 0.85:
		return rarity.Up()
	default:
		return rarity.Down()
	}
}

// settleKill commits one enemy defeat's rewards to the player record and
// accumulates the session summary. Coins, xp, drops, and relic progress all
// apply immediately, the summary exists only for end-of-session display.
func (o *orchestrator) settleKill(player *entities.PlayerRecord, active *entities.Entity, enemy *entities.Entity, summary *RewardSummary, log *[]string) error {
	if summary.Drops == nil {
		summary.Drops = make(map[string]int)
	}
	summary.Kills++

	// coins
	coins := o.rollRange(coinRewards, enemy.Rarity) + enemy.Level/2
	player.Coins += coins
	summary.Coins += coins
	*log = append(*log, fmt.Sprintf("+%d coins from %s", coins, enemy.Name))

	// hero xp to the entity that landed the kill
	if active != nil {
		if active.Level >= stats.MaxLevel {
			*log = append(*log, fmt.Sprintf("%s is maxed at Lv.%d and won't gain XP", active.Name, stats.MaxLevel))
		} else {
			gain := o.rollRange(heroXPRewards, enemy.Rarity) + enemy.Level/2
			events, err := o.tracker.AwardEntityXP(active, gain)
			if err != nil {
				return err
			}
			summary.HeroXP += gain
			*log = append(*log, fmt.Sprintf("%s +%d XP", active.Name, gain))
			for _, ev := range events {
				*log = append(*log, fmt.Sprintf("%s reached Lv.%d", ev.Name, ev.Level))
			}
		}
	}

	// account xp and its level-up cascade
	accountGain := o.rollRange(accountXPRewards, enemy.Rarity)
	accountEvents := o.tracker.AwardAccountXP(player, accountGain)
	summary.AccountXP += accountGain
	for _, ev := range accountEvents {
		*log = append(*log, fmt.Sprintf("%s reached adventurer Lv.%d (+%d coins)", player.Username, ev.Level, ev.Coins))
	}

	// material drops
	numDrops := o.rng.IntRange(1, 3)
	for i := 0; i < numDrops; i++ {
		tier := o.adjacentRarity(enemy.Rarity)
		pool := o.catalog.Materials(enemy.Element, tier)
		if len(pool) == 0 {
			continue
		}
		drop := rng.Pick(o.rng, pool)
		player.BagAdd(drop.Name, 1)
		summary.Drops[drop.Name]++
	}

	// relic charge progress
	if charge := player.RelicCharge; charge != nil {
		charge.Kills++
		if charge.Kills >= charge.Goal {
			filled := catalog.FilledRelicName(charge.Item)
			player.BagRemove(charge.Item, 1)
			player.BagAdd(filled, 1)
			summary.RelicFilled = filled
			player.RelicCharge = nil
			*log = append(*log, fmt.Sprintf("%s is complete! A legendary summon awaits", filled))
		} else {
			*log = append(*log, fmt.Sprintf("%d/%d souls absorbed into %s", charge.Kills, charge.Goal, charge.Item))
		}
	}

	return nil
}

// settleBossClear pays the domain reward and grants the badge on a first
// clear. Repeat clears pay a smaller purse.
func (o *orchestrator) settleBossClear(player *entities.PlayerRecord, domain, leader string, summary *RewardSummary, log *[]string) {
	if player.Badges == nil {
		player.Badges = make(map[string]bool)
	}

	var coins int
	if player.Badges[domain] {
		coins = int(o.rng.Triangular(5000, 10000, 8000))
		*log = append(*log, fmt.Sprintf("You defeated %s, ruler of the %s domain!", leader, domain))
	} else {
		coins = int(o.rng.Triangular(10000, 25000, 10000))
		player.Badges[domain] = true
		summary.BadgeEarned = domain
		*log = append(*log, fmt.Sprintf("You conquered the %s domain and earned its badge!", domain))
	}

	player.Coins += coins
	summary.BossCoins += coins
	summary.Coins += coins
}
