package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/config"
	"github.com/KirkDiggler/heroes-api/internal/generator"
	"github.com/KirkDiggler/heroes-api/internal/orchestrators/battle"
	"github.com/KirkDiggler/heroes-api/internal/orchestrators/economy"
	"github.com/KirkDiggler/heroes-api/internal/orchestrators/roster"
	"github.com/KirkDiggler/heroes-api/internal/pkg/clock"
	"github.com/KirkDiggler/heroes-api/internal/pkg/idgen"
	"github.com/KirkDiggler/heroes-api/internal/pkg/lock"
	"github.com/KirkDiggler/heroes-api/internal/pkg/rng"
	"github.com/KirkDiggler/heroes-api/internal/progression"
	"github.com/KirkDiggler/heroes-api/internal/redis"
	"github.com/KirkDiggler/heroes-api/internal/repositories/auctions"
	"github.com/KirkDiggler/heroes-api/internal/repositories/players"
	"github.com/KirkDiggler/heroes-api/internal/repositories/wagers"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the game engine",
	Long:  `Start the heroes-api engine with its expiry sweeps and shutdown snapshot.`,
	RunE:  runServer,
}

// services bundles everything the running server needs.
type services struct {
	PlayerRepo players.Repository
	Roster     roster.Service
	Battle     battle.Service
	Economy    economy.Service
}

func runServer(cmd *cobra.Command, args []string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, gracefully stopping")
		cancel()
	}()

	svc, err := buildServices(cfg)
	if err != nil {
		return err
	}

	slog.Info("Game engine started",
		"redis", cfg.RedisAddr,
		"catalog_dir", cfg.CatalogDir,
		"sweep_interval", cfg.SweepInterval,
	)

	runSweeps(ctx, cfg.SweepInterval, svc)

	// snapshot before exit so the on-disk record survives a redis loss
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	snap, err := svc.PlayerRepo.Snapshot(shutdownCtx, players.SnapshotInput{Path: cfg.SnapshotPath})
	if err != nil {
		slog.Error("Failed to snapshot players on shutdown", "error", err)
		return err
	}

	slog.Info("Server stopped", "players_snapshotted", snap.Count, "path", cfg.SnapshotPath)
	return nil
}

func buildServices(cfg *config.Config) (*services, error) {
	client, err := redis.NewClient(cfg.RedisAddr, &redis.Options{UseTLS: cfg.RedisUseTLS})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	clk := clock.New()
	source := rng.NewTimeSeeded()
	if cfg.RNGSeed != 0 {
		source = rng.New(cfg.RNGSeed)
	}

	playerRepo, err := players.NewRedisRepository(&players.Config{Client: client, Clock: clk})
	if err != nil {
		return nil, fmt.Errorf("failed to create player repository: %w", err)
	}
	auctionRepo, err := auctions.NewRedisRepository(&auctions.Config{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create auction repository: %w", err)
	}
	wagerRepo, err := wagers.NewRedisRepository(&wagers.Config{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create wager repository: %w", err)
	}

	gen, err := generator.New(&generator.Config{
		Catalog: cat,
		RNG:     source,
		IDGen:   idgen.NewUUID("h"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	tracker, err := progression.New(&progression.Config{
		Catalog: cat,
		RNG:     source,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create progression tracker: %w", err)
	}

	// one lock set across all orchestrators so player-record writes serialize
	locks := lock.NewKeyed()

	rosterSvc, err := roster.NewOrchestrator(&roster.Config{
		PlayerRepo: playerRepo,
		Catalog:    cat,
		Generator:  gen,
		Clock:      clk,
		Locks:      locks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create roster orchestrator: %w", err)
	}

	battleSvc, err := battle.NewOrchestrator(&battle.Config{
		PlayerRepo:        playerRepo,
		Catalog:           cat,
		Generator:         gen,
		Tracker:           tracker,
		RNG:               source,
		IDGen:             idgen.NewUUID("battle"),
		Clock:             clk,
		Locks:             locks,
		BattleIdleTimeout: cfg.BattleIdleTimeout,
		HuntIdleTimeout:   cfg.HuntIdleTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create battle orchestrator: %w", err)
	}

	economySvc, err := economy.NewOrchestrator(&economy.Config{
		PlayerRepo:  playerRepo,
		AuctionRepo: auctionRepo,
		WagerRepo:   wagerRepo,
		Catalog:     cat,
		RNG:         source,
		IDGen:       idgen.NewUUID("mkt"),
		Clock:       clk,
		Locks:       locks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create economy orchestrator: %w", err)
	}

	return &services{
		PlayerRepo: playerRepo,
		Roster:     rosterSvc,
		Battle:     battleSvc,
		Economy:    economySvc,
	}, nil
}

// runSweeps blocks until ctx is canceled, expiring idle battle sessions,
// ended auctions, and stale coinflips on every tick.
func runSweeps(ctx context.Context, interval time.Duration, svc *services) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.Battle.SweepIdle(ctx, &battle.SweepIdleInput{}); err != nil {
				slog.Error("Idle session sweep failed", "error", err)
			}
			if _, err := svc.Economy.ExpireAuctions(ctx, &economy.ExpireAuctionsInput{}); err != nil {
				slog.Error("Auction sweep failed", "error", err)
			}
			if _, err := svc.Economy.ExpireWagers(ctx, &economy.ExpireWagersInput{}); err != nil {
				slog.Error("Wager sweep failed", "error", err)
			}
		}
	}
}
