package battle

import (
	"context"

	"github.com/KirkDiggler/heroes-api/internal/entities"
)

// Service defines the interface for exploration, combat, and recruitment
type Service interface {
	// Exploration and encounter entry points
	Explore(ctx context.Context, input *ExploreInput) (*ExploreOutput, error)
	StartEncounterBattle(ctx context.Context, input *StartEncounterBattleInput) (*StartEncounterBattleOutput, error)
	StartBoss(ctx context.Context, input *StartBossInput) (*StartBossOutput, error)
	Recruit(ctx context.Context, input *RecruitInput) (*RecruitOutput, error)
	OpenChest(ctx context.Context, input *OpenChestInput) (*OpenChestOutput, error)
	ActivateRelic(ctx context.Context, input *ActivateRelicInput) (*ActivateRelicOutput, error)
	SummonFromRelic(ctx context.Context, input *SummonFromRelicInput) (*SummonFromRelicOutput, error)

	// Session interaction
	SubmitAction(ctx context.Context, input *SubmitActionInput) (*SubmitActionOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
	SweepIdle(ctx context.Context, input *SweepIdleInput) (*SweepIdleOutput, error)
}

// State is a combat session's lifecycle position.
type State string

const (
	// StateActive accepts UseMove, Swap, and Retreat
	StateActive State = "ACTIVE"

	// StateEnemyDefeated is transient, reward settlement runs and the
	// session moves on before control returns to the caller
	StateEnemyDefeated State = "ENEMY_DEFEATED"

	// StateAwaitingSwap means the active entity fainted but teammates remain
	StateAwaitingSwap State = "AWAITING_SWAP"

	// StateBossPhaseTransition is transient, the next boss phase becomes
	// active before control returns to the caller
	StateBossPhaseTransition State = "BOSS_PHASE_TRANSITION"

	// StateConcluded is terminal, see Outcome for how it ended
	StateConcluded State = "CONCLUDED"
)

// Outcome is how a concluded session ended.
type Outcome string

const (
	OutcomeVictory   Outcome = "victory"
	OutcomeDefeat    Outcome = "defeat"
	OutcomeRetreat   Outcome = "retreat"
	OutcomeAbandoned Outcome = "abandoned"
)

// ActionType is one of the closed set of battle actions.
type ActionType string

const (
	ActionUseMove ActionType = "use_move"
	ActionSwap    ActionType = "swap"
	ActionRetreat ActionType = "retreat"
)

// Action is one externally observed battle decision.
type Action struct {
	Type     ActionType
	Move     string // ActionUseMove: move name
	EntityID string // ActionSwap: roster entity to bring in
}

// RewardSummary accumulates totals across a session for end-of-session
// display. The underlying coin, xp, and bag effects commit per kill.
type RewardSummary struct {
	Coins       int
	HeroXP      int
	AccountXP   int
	Drops       map[string]int
	BossCoins   int
	BadgeEarned string
	RelicFilled string
	Kills       int
}

// ExploreResult tags what an exploration roll produced.
type ExploreResult string

const (
	ExploreChestFound    ExploreResult = "chest_found"
	ExploreHeroEncounter ExploreResult = "hero_encounter"
	ExploreMonsterBattle ExploreResult = "monster_battle"
)

// ExploreInput contains parameters for one exploration roll
type ExploreInput struct {
	PlayerID string
}

// ExploreOutput describes what was found
type ExploreOutput struct {
	Result    ExploreResult
	Chest     *entities.PendingChest // ExploreChestFound
	Encounter *entities.Entity       // ExploreHeroEncounter
	SessionID string                 // ExploreMonsterBattle
	Enemy     *entities.Entity       // ExploreMonsterBattle
}

// StartEncounterBattleInput starts a fight against the pending encounter
type StartEncounterBattleInput struct {
	PlayerID string
}

// StartEncounterBattleOutput contains the opened session
type StartEncounterBattleOutput struct {
	SessionID string
	Enemy     *entities.Entity
}

// StartBossInput contains parameters for challenging a boss domain
type StartBossInput struct {
	PlayerID string
	Domain   string
}

// StartBossOutput contains the opened session and first phase
type StartBossOutput struct {
	SessionID string
	Leader    string
	Phases    int
	Enemy     *entities.Entity
}

// RecruitOutcome tags how a recruitment attempt resolved.
type RecruitOutcome string

const (
	RecruitSuccess       RecruitOutcome = "success"
	RecruitFailure       RecruitOutcome = "failure"
	RecruitFailureBattle RecruitOutcome = "failure_battle"
)

// RecruitInput contains parameters for a recruitment attempt against the
// pending encounter
type RecruitInput struct {
	PlayerID string
	Contract string
}

// RecruitOutput describes the attempt result. SessionID is set when the
// target lost patience and attacked.
type RecruitOutput struct {
	Outcome   RecruitOutcome
	Recruited *entities.Entity
	NewCodex  bool
	SessionID string
}

// OpenChestInput contains parameters for unlocking the pending chest
type OpenChestInput struct {
	PlayerID string
}

// OpenChestOutput describes the chest contents. For ancient chests a
// guardian fight opens instead of rewards.
type OpenChestOutput struct {
	Difficulty   string
	Coins        int
	Potions      int
	Contracts    int
	ContractKind string
	Encounter    *entities.Entity // epic hero spawn, recruitable
	SessionID    string           // ancient guardian fight
	Enemy        *entities.Entity
}

// ActivateRelicInput begins charging a relic toward its summon
type ActivateRelicInput struct {
	PlayerID string
	Item     string
}

// ActivateRelicOutput contains the started charge
type ActivateRelicOutput struct {
	Charge *entities.RelicCharge
}

// SummonFromRelicInput consumes a filled relic
type SummonFromRelicInput struct {
	PlayerID string
	Item     string
}

// SummonFromRelicOutput contains the summoned legendary, pending recruit
type SummonFromRelicOutput struct {
	Encounter *entities.Entity
}

// SubmitActionInput contains one battle action
type SubmitActionInput struct {
	SessionID string
	PlayerID  string
	Action    Action
}

// SubmitActionOutput reports the action's resolution
type SubmitActionOutput struct {
	Log     []string
	State   State
	Outcome Outcome        // set when State is CONCLUDED
	Summary *RewardSummary // set when the session concluded
}

// GetSessionInput contains parameters for inspecting a session
type GetSessionInput struct {
	SessionID string
	PlayerID  string
}

// GetSessionOutput contains a point-in-time session view
type GetSessionOutput struct {
	SessionID string
	State     State
	Outcome   Outcome
	ActiveID  string
	Enemy     *entities.Entity
	Phase     int
	Phases    int
	Summary   *RewardSummary
}

// SweepIdleInput contains parameters for expiring idle sessions
type SweepIdleInput struct{}

// SweepIdleOutput reports how many sessions were abandoned
type SweepIdleOutput struct {
	Expired int
}
