package auctions

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/heroes-api/internal/errors"
	redisclient "github.com/KirkDiggler/heroes-api/internal/redis"
)

const (
	// Key pattern: auction:{auction_id}
	auctionKeyPrefix = "auction:"

	errAuctionNil     = "auction cannot be nil"
	errAuctionIDEmpty = "auction ID cannot be empty"
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

// NewRedisRepository creates a new Redis repository for auctions
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new listing, refusing to overwrite an existing id
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Auction == nil {
		return nil, errors.InvalidArgument(errAuctionNil)
	}
	if input.Auction.ID == "" {
		return nil, errors.InvalidArgument(errAuctionIDEmpty)
	}

	data, err := json.Marshal(input.Auction)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal auction")
	}

	ok, err := r.client.SetNX(ctx, r.buildKey(input.Auction.ID), data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to store auction in Redis")
	}
	if !ok {
		return nil, errors.AlreadyExistsf("auction %s already exists", input.Auction.ID)
	}

	return &CreateOutput{Auction: input.Auction}, nil
}

// Get retrieves a listing by id
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.AuctionID == "" {
		return nil, errors.InvalidArgument(errAuctionIDEmpty)
	}

	data, err := r.client.Get(ctx, r.buildKey(input.AuctionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("auction %s not found", input.AuctionID)
		}
		return nil, errors.Wrap(err, "failed to get auction from Redis")
	}

	var auction Auction
	if err := json.Unmarshal([]byte(data), &auction); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal auction")
	}

	return &GetOutput{Auction: &auction}, nil
}

// Update overwrites an existing listing
func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Auction == nil {
		return nil, errors.InvalidArgument(errAuctionNil)
	}
	if input.Auction.ID == "" {
		return nil, errors.InvalidArgument(errAuctionIDEmpty)
	}

	data, err := json.Marshal(input.Auction)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal auction")
	}

	ok, err := r.client.SetXX(ctx, r.buildKey(input.Auction.ID), data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to update auction in Redis")
	}
	if !ok {
		return nil, errors.NotFoundf("auction %s not found", input.Auction.ID)
	}

	return &UpdateOutput{Auction: input.Auction}, nil
}

// Delete removes a listing
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.AuctionID == "" {
		return nil, errors.InvalidArgument(errAuctionIDEmpty)
	}

	deleted, err := r.client.Del(ctx, r.buildKey(input.AuctionID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete auction from Redis")
	}
	if deleted == 0 {
		return nil, errors.NotFoundf("auction %s not found", input.AuctionID)
	}

	return &DeleteOutput{}, nil
}

// List returns all listings ordered by end time
func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, auctionKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan auction keys")
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	auctions := make([]*Auction, 0, len(keys))
	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrap(err, "failed to get auction from Redis")
		}

		var auction Auction
		if err := json.Unmarshal([]byte(data), &auction); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal auction")
		}
		auctions = append(auctions, &auction)
	}

	sort.Slice(auctions, func(i, j int) bool { return auctions[i].EndsAt.Before(auctions[j].EndsAt) })
	return &ListOutput{Auctions: auctions}, nil
}

func (r *redisRepository) buildKey(auctionID string) string {
	return auctionKeyPrefix + auctionID
}
