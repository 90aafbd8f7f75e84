// Package battle implements the combat orchestrator: exploration rolls,
// wild and boss encounters, the turn-based session state machine, reward
// settlement, and recruitment.
package battle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/errors"
	"github.com/KirkDiggler/heroes-api/internal/generator"
	"github.com/KirkDiggler/heroes-api/internal/pkg/clock"
	"github.com/KirkDiggler/heroes-api/internal/pkg/idgen"
	"github.com/KirkDiggler/heroes-api/internal/pkg/lock"
	"github.com/KirkDiggler/heroes-api/internal/pkg/rng"
	"github.com/KirkDiggler/heroes-api/internal/progression"
	"github.com/KirkDiggler/heroes-api/internal/repositories/players"
)

const (
	// DefaultBattleIdleTimeout expires combat sessions left untouched
	DefaultBattleIdleTimeout = 2 * time.Minute

	// DefaultHuntIdleTimeout expires pending encounters and chests
	DefaultHuntIdleTimeout = 2 * time.Hour

	// BossCooldown is the per-domain wait between challenges
	BossCooldown = 12 * time.Hour

	relicChargeGoal = 100
)

// Exploration outcome probabilities: 1% chest, 98% hero, 1% monster.
const (
	exploreChestChance   = 0.01
	exploreMonsterChance = 0.01
)

// contractChances maps a contract item to its base recruit chance.
var contractChances = map[string]float64{
	"Contract":         0.5,
	"Great Contract":   0.7,
	"Ancient Contract": 0.9,
}

// rarityRecruitModifiers scale the base chance by target rarity.
var rarityRecruitModifiers = map[entities.Rarity]float64{
	entities.RarityCommon:    1.0,
	entities.RarityUncommon:  0.9,
	entities.RarityRare:      0.75,
	entities.RarityEpic:      0.5,
	entities.RarityLegendary: 0.3,
}

// chestKeys maps chest difficulty to the key item that opens it.
var chestKeys = map[string]string{
	"silver":  "Silver Key",
	"gold":    "Golden Key",
	"ancient": "Ancient Key",
}

// Config holds the dependencies for the battle orchestrator
type Config struct {
	PlayerRepo players.Repository
	Catalog    *catalog.Catalog
	Generator  *generator.Generator
	Tracker    *progression.Tracker
	RNG        rng.Source
	IDGen      idgen.Generator
	Clock      clock.Clock

	// Locks is the player-record lock set shared by every orchestrator
	// that writes player records
	Locks *lock.Keyed

	// Zero values take the defaults
	BattleIdleTimeout time.Duration
	HuntIdleTimeout   time.Duration
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
	if c.Tracker == nil {
		vb.RequiredField("Tracker")
	}
	if c.RNG == nil {
		vb.RequiredField("RNG")
	}
	if c.IDGen == nil {
		vb.RequiredField("IDGen")
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
	tracker    *progression.Tracker
	rng        rng.Source
	idGen      idgen.Generator
	clock      clock.Clock
	locks      *lock.Keyed

	battleIdleTimeout time.Duration
	huntIdleTimeout   time.Duration

	mu       sync.Mutex
	sessions map[string]*session
	byPlayer map[string]string
}

// NewOrchestrator creates a new battle orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	battleTimeout := cfg.BattleIdleTimeout
	if battleTimeout == 0 {
		battleTimeout = DefaultBattleIdleTimeout
	}
	huntTimeout := cfg.HuntIdleTimeout
	if huntTimeout == 0 {
		huntTimeout = DefaultHuntIdleTimeout
	}

	return &orchestrator{
		playerRepo:        cfg.PlayerRepo,
		catalog:           cfg.Catalog,
		generator:         cfg.Generator,
		tracker:           cfg.Tracker,
		rng:               cfg.RNG,
		idGen:             cfg.IDGen,
		clock:             cfg.Clock,
		locks:             cfg.Locks,
		battleIdleTimeout: battleTimeout,
		huntIdleTimeout:   huntTimeout,
		sessions:          make(map[string]*session),
		byPlayer:          make(map[string]string),
	}, nil
}

// Explore rolls one exploration outcome: a treasure chest, a recruitable
// hero, or a wild monster that attacks on sight.
func (o *orchestrator) Explore(ctx context.Context, input *ExploreInput) (*ExploreOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := o.requireNoSession(input.PlayerID); err != nil {
		return nil, err
	}

	now := o.clock.Now()
	roll := o.rng.Float64()

	switch {
	case roll < exploreChestChance:
		keyRoll := o.rng.IntRange(1, 100)
		difficulty := "ancient"
		if keyRoll <= 50 {
			difficulty = "silver"
		} else if keyRoll <= 80 {
			difficulty = "gold"
		}

		player.Chest = &entities.PendingChest{Difficulty: difficulty, FoundAt: now.Unix()}
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
			return nil, err
		}
		return &ExploreOutput{Result: ExploreChestFound, Chest: player.Chest}, nil

	case roll < 1-exploreMonsterChance:
		hero, err := o.generator.Wild(entities.KindHero)
		if err != nil {
			return nil, err
		}

		player.Encounter = &entities.PendingEncounter{Entity: hero, FoundAt: now.Unix()}
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
			return nil, err
		}
		return &ExploreOutput{Result: ExploreHeroEncounter, Encounter: hero}, nil

	default:
		monster, err := o.generator.Wild(entities.KindMonster)
		if err != nil {
			return nil, err
		}

		sess, err := o.openSession(ctx, player, []*entities.Entity{monster}, "", "")
		if err != nil {
			return nil, err
		}
		return &ExploreOutput{Result: ExploreMonsterBattle, SessionID: sess.id, Enemy: monster}, nil
	}
}

// StartEncounterBattle opens combat against the pending encounter instead
// of (or after failing) recruitment.
func (o *orchestrator) StartEncounterBattle(ctx context.Context, input *StartEncounterBattleInput) (*StartEncounterBattleOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	enemy, err := o.takePendingEncounter(ctx, player)
	if err != nil {
		return nil, err
	}

	sess, err := o.openSession(ctx, player, []*entities.Entity{enemy}, "", "")
	if err != nil {
		return nil, err
	}

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}
	return &StartEncounterBattleOutput{SessionID: sess.id, Enemy: enemy}, nil
}

// StartBoss opens a multi-phase fight against a boss domain, honoring the
// per-domain cooldown.
func (o *orchestrator) StartBoss(ctx context.Context, input *StartBossInput) (*StartBossOutput, error) {
	leader, ok := catalog.BossLeaderFor(input.Domain)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown boss domain %q", input.Domain)
	}

	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	if last, fought := player.BossCooldowns[leader.Domain]; fought {
		ready := time.Unix(last, 0).Add(BossCooldown)
		if now.Before(ready) {
			return nil, errors.ResourceExhaustedf("the %s domain is on cooldown for %s", leader.Domain, ready.Sub(now).Round(time.Minute))
		}
	}

	queue, err := o.generator.BossTeam(leader.Domain)
	if err != nil {
		return nil, err
	}

	sess, err := o.openSession(ctx, player, queue, leader.Domain, leader.Name)
	if err != nil {
		return nil, err
	}

	if player.BossCooldowns == nil {
		player.BossCooldowns = make(map[string]int64)
	}
	player.BossCooldowns[leader.Domain] = now.Unix()
	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		// the cooldown was never recorded, so the session must not
		// outlive it
		o.mu.Lock()
		o.release(sess)
		o.mu.Unlock()
		return nil, err
	}

	slog.Info("Boss challenge started",
		"player_id", input.PlayerID,
		"domain", leader.Domain,
		"phases", len(queue),
	)

	return &StartBossOutput{SessionID: sess.id, Leader: leader.Name, Phases: len(queue), Enemy: queue[0]}, nil
}

// Recruit spends one contract on the pending encounter. Success scales
// with contract strength and target rarity. A spurned target sometimes
// attacks.
func (o *orchestrator) Recruit(ctx context.Context, input *RecruitInput) (*RecruitOutput, error) {
	base, ok := contractChance(input.Contract)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown contract %q", input.Contract)
	}

	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := o.requireNoSession(input.PlayerID); err != nil {
		return nil, err
	}

	pending := player.Encounter
	if pending == nil {
		return nil, errors.FailedPrecondition("no encounter to recruit")
	}
	if o.pendingStale(pending.FoundAt) {
		player.Encounter = nil
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
			return nil, err
		}
		return nil, errors.FailedPrecondition("the encounter wandered off")
	}

	if !player.BagRemove(input.Contract, 1) {
		return nil, errors.FailedPreconditionf("no %ss in bag", input.Contract)
	}

	target := pending.Entity
	chance := base * recruitModifier(target.Rarity)

	if o.rng.Chance(chance) {
		target.RecruitedAt = o.clock.Now().Unix()
		target.CurrentHP = target.Stats.HP
		player.Roster = append(player.Roster, target)
		if len(player.ActiveTeam) < entities.TeamMax {
			player.ActiveTeam = append(player.ActiveTeam, target.InstanceID)
		}

		newCodex := false
		if player.Codex == nil {
			player.Codex = make(map[string]bool)
		}
		if !player.Codex[target.TemplateID] {
			player.Codex[target.TemplateID] = true
			newCodex = true
		}

		player.Encounter = nil
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
			return nil, err
		}

		slog.Info("Recruitment succeeded",
			"player_id", input.PlayerID,
			"recruit", target.Name,
			"rarity", target.Rarity,
			"contract", input.Contract,
		)

		return &RecruitOutput{Outcome: RecruitSuccess, Recruited: target, NewCodex: newCodex}, nil
	}

	// failure: a quarter of spurned targets attack, the rest allow
	// another attempt
	if o.rng.Chance(0.25) {
		player.Encounter = nil
		sess, err := o.openSession(ctx, player, []*entities.Entity{target}, "", "")
		if err != nil {
			return nil, err
		}
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
			return nil, err
		}
		return &RecruitOutput{Outcome: RecruitFailureBattle, SessionID: sess.id}, nil
	}

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}
	return &RecruitOutput{Outcome: RecruitFailure}, nil
}

// OpenChest unlocks the pending chest with its matching key. Silver and
// gold chests pay out loot and sometimes spawn an epic hero. Ancient
// chests hide a level 85 legendary guardian instead.
func (o *orchestrator) OpenChest(ctx context.Context, input *OpenChestInput) (*OpenChestOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	chest := player.Chest
	if chest == nil {
		return nil, errors.FailedPrecondition("no chest to open")
	}
	if o.pendingStale(chest.FoundAt) {
		player.Chest = nil
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
			return nil, err
		}
		return nil, errors.FailedPrecondition("the chest has vanished")
	}

	key := chestKeys[chest.Difficulty]
	if !player.BagRemove(key, 1) {
		return nil, errors.FailedPreconditionf("a %s is required", key)
	}
	player.Chest = nil

	if chest.Difficulty == "ancient" {
		if err := o.requireNoSession(input.PlayerID); err != nil {
			return nil, err
		}

		guardian, err := o.generator.AncientGuardian()
		if err != nil {
			return nil, err
		}

		sess, err := o.openSession(ctx, player, []*entities.Entity{guardian}, "", "")
		if err != nil {
			return nil, err
		}
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
			return nil, err
		}
		return &OpenChestOutput{Difficulty: chest.Difficulty, SessionID: sess.id, Enemy: guardian}, nil
	}

	out := &OpenChestOutput{Difficulty: chest.Difficulty}
	if chest.Difficulty == "silver" {
		out.Coins = o.rng.IntRange(5000, 15000)
		out.Potions = o.rng.IntRange(6, 12)
		out.ContractKind = "Great Contract"
	} else {
		out.Coins = o.rng.IntRange(20000, 40000)
		out.Potions = o.rng.IntRange(8, 18)
		out.ContractKind = "Ancient Contract"
	}
	out.Contracts = o.rng.IntRange(4, 8)

	player.Coins += out.Coins
	player.BagAdd("Potion", out.Potions)
	player.BagAdd(out.ContractKind, out.Contracts)

	if o.rng.Chance(0.20) {
		hero, err := o.generator.ChestHero()
		if err != nil {
			return nil, err
		}
		player.Encounter = &entities.PendingEncounter{Entity: hero, FoundAt: o.clock.Now().Unix()}
		out.Encounter = hero
	}

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	slog.Info("Chest opened",
		"player_id", input.PlayerID,
		"difficulty", chest.Difficulty,
		"coins", out.Coins,
		"hero_spawned", out.Encounter != nil,
	)

	return out, nil
}

// ActivateRelic begins charging a relic's summon. The relic stays in the
// bag while kills accumulate against the goal.
func (o *orchestrator) ActivateRelic(ctx context.Context, input *ActivateRelicInput) (*ActivateRelicOutput, error) {
	hero, ok := catalog.HeroForRelic(input.Item)
	if !ok || strings.HasPrefix(strings.TrimSpace(input.Item), "Filled ") {
		return nil, errors.InvalidArgumentf("%q is not a relic that can be charged", input.Item)
	}

	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if player.BagCount(input.Item) == 0 {
		return nil, errors.FailedPreconditionf("no %s in bag", input.Item)
	}
	if player.RelicCharge != nil {
		return nil, errors.FailedPreconditionf("%s is already charging", player.RelicCharge.Item)
	}

	player.RelicCharge = &entities.RelicCharge{
		Item: input.Item,
		Hero: hero,
		Goal: relicChargeGoal,
	}
	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	return &ActivateRelicOutput{Charge: player.RelicCharge}, nil
}

// SummonFromRelic consumes a filled relic and produces its legendary hero
// as a guaranteed-shiny pending encounter.
func (o *orchestrator) SummonFromRelic(ctx context.Context, input *SummonFromRelicInput) (*SummonFromRelicOutput, error) {
	item := strings.TrimSpace(input.Item)
	if !strings.HasPrefix(item, "Filled ") {
		return nil, errors.InvalidArgumentf("%q is not a filled relic", input.Item)
	}
	hero, ok := catalog.HeroForRelic(item)
	if !ok {
		return nil, errors.InvalidArgumentf("%q doesn't summon anyone", input.Item)
	}

	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if !player.BagRemove(item, 1) {
		return nil, errors.FailedPreconditionf("no %s in bag", item)
	}

	summoned, err := o.generator.Summon(hero)
	if err != nil {
		return nil, err
	}

	player.Encounter = &entities.PendingEncounter{Entity: summoned, FoundAt: o.clock.Now().Unix()}
	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	slog.Info("Legendary summoned",
		"player_id", input.PlayerID,
		"hero", summoned.Name,
		"level", summoned.Level,
	)

	return &SummonFromRelicOutput{Encounter: summoned}, nil
}

// SubmitAction applies one action to the caller's session and resolves the
// resulting round.
func (o *orchestrator) SubmitAction(ctx context.Context, input *SubmitActionInput) (*SubmitActionOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	o.mu.Lock()
	defer o.mu.Unlock()

	sess, err := o.lockedSession(input.SessionID, input.PlayerID)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	if now.Sub(sess.lastAction) > o.battleIdleTimeout {
		sess.conclude(OutcomeAbandoned)
		o.release(sess)
		return &SubmitActionOutput{
			Log:     []string{"The battle went cold and was abandoned."},
			State:   sess.state,
			Outcome: sess.outcome,
			Summary: &sess.summary,
		}, nil
	}

	player, err := o.getPlayer(ctx, sess.playerID)
	if err != nil {
		return nil, err
	}
	active := player.FindEntity(sess.activeID)
	if active == nil {
		return nil, errors.Internalf("active entity %s missing from roster", sess.activeID)
	}

	var log []string
	switch input.Action.Type {
	case ActionRetreat:
		sess.conclude(OutcomeRetreat)
		log = append(log, fmt.Sprintf("%s fled the battle.", active.Name))

	case ActionSwap:
		if err := o.applySwap(sess, player, input.Action.EntityID, &log); err != nil {
			return nil, err
		}

	case ActionUseMove:
		if sess.state != StateActive {
			return nil, errors.FailedPreconditionf("cannot use a move while %s", sess.state)
		}
		// an unrecognized move still spends the turn: the player flails
		// and the enemy acts as normal
		move, known := active.FindMove(input.Action.Move)
		if !known {
			move = entities.Move{Name: input.Action.Move}
		}
		if err := o.resolveRound(player, sess, active, move, known, &log); err != nil {
			return nil, err
		}

	default:
		return nil, errors.InvalidArgumentf("unknown action %q", input.Action.Type)
	}

	// only an accepted action refreshes the idle clock
	sess.lastAction = now

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	out := &SubmitActionOutput{Log: log, State: sess.state, Outcome: sess.outcome}
	if sess.concluded() {
		o.release(sess)
		out.Summary = &sess.summary
	}
	return out, nil
}

// GetSession returns a point-in-time view of the caller's session
func (o *orchestrator) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, err := o.lockedSession(input.SessionID, input.PlayerID)
	if err != nil {
		return nil, err
	}

	return &GetSessionOutput{
		SessionID: sess.id,
		State:     sess.state,
		Outcome:   sess.outcome,
		ActiveID:  sess.activeID,
		Enemy:     sess.enemy(),
		Phase:     sess.phase,
		Phases:    len(sess.queue),
		Summary:   &sess.summary,
	}, nil
}

// SweepIdle abandons every session idle past the battle timeout. Run
// periodically so walked-away fights don't pin their players forever.
func (o *orchestrator) SweepIdle(ctx context.Context, input *SweepIdleInput) (*SweepIdleOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clock.Now()
	expired := 0
	for _, sess := range o.sessions {
		if now.Sub(sess.lastAction) > o.battleIdleTimeout {
			sess.conclude(OutcomeAbandoned)
			o.release(sess)
			expired++
		}
	}

	if expired > 0 {
		slog.Info("Idle battle sessions expired", "count", expired)
	}
	return &SweepIdleOutput{Expired: expired}, nil
}

// resolveRound runs one full combat round: both sides act in speed order,
// termination is checked after every action.
func (o *orchestrator) resolveRound(player *entities.PlayerRecord, sess *session, active *entities.Entity, playerMove entities.Move, known bool, log *[]string) error {
	enemy := sess.enemy()
	if enemy == nil {
		return errors.Internal("session has no active enemy")
	}

	enemyChoice := enemyMove(o.rng, enemy)

	type turn struct {
		playerSide bool
		move       entities.Move
	}
	order := []turn{{true, playerMove}, {false, enemyChoice}}
	if !playerFirst(o.rng, active, enemy) {
		order = []turn{{false, enemyChoice}, {true, playerMove}}
	}

	for _, t := range order {
		if active.Fainted() || enemy.Fainted() {
			break
		}
		if t.playerSide && !known {
			*log = append(*log, fmt.Sprintf("%s tried %s, but it failed!", active.Name, playerMove.Name))
		} else if t.playerSide {
			*log = append(*log, resolveMove(o.rng, active, enemy, t.move))
		} else {
			*log = append(*log, resolveMove(o.rng, enemy, active, t.move))
		}

		if enemy.Fainted() {
			*log = append(*log, fmt.Sprintf("%s was defeated!", enemy.Name))
			sess.state = StateEnemyDefeated
			if err := o.settleKill(player, active, enemy, &sess.summary, log); err != nil {
				return err
			}
			o.advancePhase(player, sess, log)
			return nil
		}

		if active.Fainted() {
			*log = append(*log, fmt.Sprintf("%s has fallen in battle!", active.Name))
			if len(healthyTeammates(player, active.InstanceID)) > 0 {
				sess.state = StateAwaitingSwap
			} else {
				sess.conclude(OutcomeDefeat)
				*log = append(*log, "Your party has been defeated...")
			}
			return nil
		}
	}
	return nil
}

// advancePhase moves a boss session to its next phase or concludes the
// fight in victory, settling the domain clear on the last boss phase.
func (o *orchestrator) advancePhase(player *entities.PlayerRecord, sess *session, log *[]string) {
	if sess.phase+1 < len(sess.queue) {
		sess.state = StateBossPhaseTransition
		sess.phase++
		next := sess.enemy()
		*log = append(*log, fmt.Sprintf("Another foe appears: %s (Lv.%d)!", next.Name, next.Level))
		sess.state = StateActive
		return
	}

	if sess.boss {
		o.settleBossClear(player, sess.domain, sess.leader, &sess.summary, log)
	}
	sess.conclude(OutcomeVictory)
}

// applySwap switches the player's active entity. Swapping is a free
// action, the enemy does not respond.
func (o *orchestrator) applySwap(sess *session, player *entities.PlayerRecord, entityID string, log *[]string) error {
	if sess.state != StateActive && sess.state != StateAwaitingSwap {
		return errors.FailedPreconditionf("cannot swap while %s", sess.state)
	}

	target := player.FindEntity(entityID)
	if target == nil {
		return errors.NotFoundf("entity %s not found on roster", entityID)
	}
	if !player.InTeam(target.InstanceID) {
		return errors.FailedPreconditionf("%s is not on the team", target.Name)
	}
	if target.InstanceID == sess.activeID {
		return errors.InvalidArgumentf("%s is already fighting", target.Name)
	}
	if target.Fainted() {
		return errors.FailedPreconditionf("%s has no strength left to fight", target.Name)
	}

	sess.activeID = target.InstanceID
	if sess.state == StateAwaitingSwap {
		sess.state = StateActive
	}
	*log = append(*log, fmt.Sprintf("You sent out %s (Lv.%d)!", target.Name, target.Level))
	return nil
}

// openSession creates and registers a session for the player's lead
// healthy team member. One session per player.
func (o *orchestrator) openSession(ctx context.Context, player *entities.PlayerRecord, queue []*entities.Entity, domain, leader string) (*session, error) {
	if len(queue) == 0 {
		return nil, errors.Internal("cannot open a session with no enemies")
	}

	lead := leadHealthy(player)
	if lead == nil {
		return nil, errors.FailedPrecondition("no healthy team member can fight")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if existing, ok := o.byPlayer[player.ID]; ok {
		return nil, errors.FailedPreconditionf("a battle is already in progress (session %s)", existing)
	}

	sess := &session{
		id:         o.idGen.Generate(),
		playerID:   player.ID,
		boss:       domain != "",
		domain:     domain,
		leader:     leader,
		activeID:   lead.InstanceID,
		queue:      queue,
		state:      StateActive,
		lastAction: o.clock.Now(),
	}
	o.sessions[sess.id] = sess
	o.byPlayer[player.ID] = sess.id
	return sess, nil
}

// release must be called with the orchestrator mutex held.
func (o *orchestrator) release(sess *session) {
	delete(o.sessions, sess.id)
	delete(o.byPlayer, sess.playerID)
}

// lockedSession must be called with the orchestrator mutex held.
func (o *orchestrator) lockedSession(sessionID, playerID string) (*session, error) {
	sess, ok := o.sessions[sessionID]
	if !ok {
		return nil, errors.NotFoundf("session %s not found", sessionID)
	}
	if sess.playerID != playerID {
		return nil, errors.PermissionDenied("this battle belongs to someone else")
	}
	return sess, nil
}

func (o *orchestrator) requireNoSession(playerID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if id, ok := o.byPlayer[playerID]; ok {
		return errors.FailedPreconditionf("a battle is already in progress (session %s)", id)
	}
	return nil
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

// takePendingEncounter pops the player's pending encounter, enforcing the
// hunt staleness window.
func (o *orchestrator) takePendingEncounter(ctx context.Context, player *entities.PlayerRecord) (*entities.Entity, error) {
	pending := player.Encounter
	if pending == nil {
		return nil, errors.FailedPrecondition("no encounter to fight")
	}
	if o.pendingStale(pending.FoundAt) {
		player.Encounter = nil
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
			return nil, err
		}
		return nil, errors.FailedPrecondition("the encounter wandered off")
	}

	player.Encounter = nil
	return pending.Entity, nil
}

func (o *orchestrator) pendingStale(foundAt int64) bool {
	return o.clock.Now().Sub(time.Unix(foundAt, 0)) > o.huntIdleTimeout
}

func contractChance(contract string) (float64, bool) {
	for name, chance := range contractChances {
		if strings.EqualFold(name, contract) {
			return chance, true
		}
	}
	return 0, false
}

func recruitModifier(rarity entities.Rarity) float64 {
	if mod, ok := rarityRecruitModifiers[rarity]; ok {
		return mod
	}
	return 1.0
}

// leadHealthy returns the first active-team entity able to fight.
func leadHealthy(player *entities.PlayerRecord) *entities.Entity {
	for _, e := range player.Team() {
		if !e.Fainted() {
			return e
		}
	}
	return nil
}

// healthyTeammates lists team entities other than excludeID with hp left.
func healthyTeammates(player *entities.PlayerRecord, excludeID string) []*entities.Entity {
	var healthy []*entities.Entity
	for _, e := range player.Team() {
		if e.InstanceID == excludeID || e.Fainted() {
			continue
		}
		healthy = append(healthy, e)
	}
	return healthy
}
