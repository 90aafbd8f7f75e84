package players

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/errors"
	"github.com/KirkDiggler/heroes-api/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/heroes-api/internal/redis"
)

const (
	// Key pattern: player:{player_id}
	playerKeyPrefix = "player:"

	errPlayerNil     = "player cannot be nil"
	errPlayerIDEmpty = "player ID cannot be empty"
	errPathEmpty     = "snapshot path cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for player records
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Get retrieves a player record by id
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	data, err := r.client.Get(ctx, r.buildKey(input.PlayerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("player %s not found", input.PlayerID)
		}
		return nil, errors.Wrap(err, "failed to get player from Redis")
	}

	var player entities.PlayerRecord
	if err := json.Unmarshal([]byte(data), &player); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal player")
	}

	return &GetOutput{Player: &player}, nil
}

// Set stores a player record, stamping timestamps
func (r *redisRepository) Set(ctx context.Context, input SetInput) (*SetOutput, error) {
	if input.Player == nil {
		return nil, errors.InvalidArgument(errPlayerNil)
	}
	if input.Player.ID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	now := r.clock.Now()
	if input.Player.CreatedAt.IsZero() {
		input.Player.CreatedAt = now
	}
	input.Player.UpdatedAt = now

	data, err := json.Marshal(input.Player)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal player")
	}

	if err := r.client.Set(ctx, r.buildKey(input.Player.ID), data, 0).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store player in Redis")
	}

	return &SetOutput{Player: input.Player}, nil
}

// Delete removes a player record
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	deleted, err := r.client.Del(ctx, r.buildKey(input.PlayerID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete player from Redis")
	}
	if deleted == 0 {
		return nil, errors.NotFoundf("player %s not found", input.PlayerID)
	}

	return &DeleteOutput{}, nil
}

// List returns every stored player record, ordered by id
func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	players := make([]*entities.PlayerRecord, 0, len(keys))
	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				// deleted between scan and get
				continue
			}
			return nil, errors.Wrap(err, "failed to get player from Redis")
		}

		var player entities.PlayerRecord
		if err := json.Unmarshal([]byte(data), &player); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal player")
		}
		players = append(players, &player)
	}

	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return &ListOutput{Players: players}, nil
}

// Snapshot exports all player records to a JSON file. The file is written
// to a temp path in the same directory and renamed into place so readers
// never observe a partial export.
func (r *redisRepository) Snapshot(ctx context.Context, input SnapshotInput) (*SnapshotOutput, error) {
	if input.Path == "" {
		return nil, errors.InvalidArgument(errPathEmpty)
	}

	listed, err := r.List(ctx, ListInput{})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.PlayerRecord, len(listed.Players))
	for _, p := range listed.Players {
		byID[p.ID] = p
	}

	data, err := json.MarshalIndent(byID, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal snapshot")
	}

	dir := filepath.Dir(input.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create snapshot directory")
	}

	tmp := input.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return nil, errors.Wrap(err, "failed to write snapshot temp file")
	}
	if err := os.Rename(tmp, input.Path); err != nil {
		return nil, errors.Wrap(err, "failed to replace snapshot file")
	}

	return &SnapshotOutput{Count: len(listed.Players)}, nil
}

func (r *redisRepository) buildKey(playerID string) string {
	return playerKeyPrefix + playerID
}

func (r *redisRepository) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, playerKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan player keys")
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
