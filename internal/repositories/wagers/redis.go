package wagers

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/heroes-api/internal/errors"
	redisclient "github.com/KirkDiggler/heroes-api/internal/redis"
)

const (
	// Key pattern: wager:{wager_id}
	wagerKeyPrefix = "wager:"

	errWagerNil     = "wager cannot be nil"
	errWagerIDEmpty = "wager ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis repository for wagers
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new wager, refusing to overwrite an existing id
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Wager == nil {
		return nil, errors.InvalidArgument(errWagerNil)
	}
	if input.Wager.ID == "" {
		return nil, errors.InvalidArgument(errWagerIDEmpty)
	}

	data, err := json.Marshal(input.Wager)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal wager")
	}

	ok, err := r.client.SetNX(ctx, r.buildKey(input.Wager.ID), data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to store wager in Redis")
	}
	if !ok {
		return nil, errors.AlreadyExistsf("wager %s already exists", input.Wager.ID)
	}

	return &CreateOutput{Wager: input.Wager}, nil
}

// Get retrieves a wager by id
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.WagerID == "" {
		return nil, errors.InvalidArgument(errWagerIDEmpty)
	}

	data, err := r.client.Get(ctx, r.buildKey(input.WagerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("wager %s not found", input.WagerID)
		}
		return nil, errors.Wrap(err, "failed to get wager from Redis")
	}

	var wager Wager
	if err := json.Unmarshal([]byte(data), &wager); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal wager")
	}

	return &GetOutput{Wager: &wager}, nil
}

// Delete removes a wager. Settlement races resolve here, only the caller
// that observes the delete wins the wager.
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.WagerID == "" {
		return nil, errors.InvalidArgument(errWagerIDEmpty)
	}

	deleted, err := r.client.Del(ctx, r.buildKey(input.WagerID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete wager from Redis")
	}
	if deleted == 0 {
		return nil, errors.NotFoundf("wager %s not found", input.WagerID)
	}

	return &DeleteOutput{}, nil
}

// List returns all open wagers ordered by creation time
func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, wagerKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan wager keys")
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	wagers := make([]*Wager, 0, len(keys))
	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrap(err, "failed to get wager from Redis")
		}

		var wager Wager
		if err := json.Unmarshal([]byte(data), &wager); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal wager")
		}
		wagers = append(wagers, &wager)
	}

	sort.Slice(wagers, func(i, j int) bool { return wagers[i].CreatedAt.Before(wagers[j].CreatedAt) })
	return &ListOutput{Wagers: wagers}, nil
}

func (r *redisRepository) buildKey(wagerID string) string {
	return wagerKeyPrefix + wagerID
}
