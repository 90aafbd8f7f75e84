package economy_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/errors"
	"github.com/KirkDiggler/heroes-api/internal/orchestrators/economy"
	"github.com/KirkDiggler/heroes-api/internal/pkg/clock"
	"github.com/KirkDiggler/heroes-api/internal/pkg/idgen"
	"github.com/KirkDiggler/heroes-api/internal/pkg/lock"
	"github.com/KirkDiggler/heroes-api/internal/repositories/auctions"
	"github.com/KirkDiggler/heroes-api/internal/repositories/players"
	"github.com/KirkDiggler/heroes-api/internal/repositories/wagers"
	"github.com/KirkDiggler/heroes-api/internal/testutils"
)

// scriptedSource steers individual random draws. Exhausted queues fall
// back to the low bound for integers, 0.5 for floats, and failed chances.
type scriptedSource struct {
	floats  []float64
	ints    []int
	chances []bool
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) > 0 {
		v := s.floats[0]
		s.floats = s.floats[1:]
		return v
	}
	return 0.5
}

func (s *scriptedSource) Intn(n int) int {
	v := 0
	if len(s.ints) > 0 {
		v = s.ints[0]
		s.ints = s.ints[1:]
	}
	if v >= n {
		v = n - 1
	}
	return v
}

func (s *scriptedSource) IntRange(lo, hi int) int {
	v := lo
	if len(s.ints) > 0 {
		v = s.ints[0]
		s.ints = s.ints[1:]
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

func (s *scriptedSource) Chance(p float64) bool {
	if len(s.chances) > 0 {
		v := s.chances[0]
		s.chances = s.chances[1:]
		return v
	}
	return false
}

func (s *scriptedSource) Triangular(low, high, mode float64) float64 {
	return mode
}

func (s *scriptedSource) Shuffle(n int, swap func(i, j int)) {}

type OrchestratorTestSuite struct {
	suite.Suite
	service economy.Service
	repo    players.Repository
	clock   *clock.Fixed
	rng     *scriptedSource
	cleanup func()
	ctx     context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.rng = &scriptedSource{}

	playerRepo, err := players.NewRedisRepository(&players.Config{
		Client: client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = playerRepo

	auctionRepo, err := auctions.NewRedisRepository(&auctions.Config{
		Client: client,
	})
	s.Require().NoError(err)

	wagerRepo, err := wagers.NewRedisRepository(&wagers.Config{
		Client: client,
	})
	s.Require().NoError(err)

	consumables := []catalog.Item{
		{Name: "Potion", Price: 100, Sell: 50},
		{Name: "Elixir", Price: 2500},
	}
	keys := []catalog.Item{
		{Name: "Silver Key", Price: 5000},
	}
	materials := map[string]map[entities.Rarity][]catalog.Material{
		"fire": {
			entities.RarityCommon: {
				{Name: "Ember Shard", Sell: 25},
				{Name: "Ember Dust"},
			},
			entities.RarityRare: {
				{Name: "Flame Core", Sell: 200},
			},
		},
	}
	cat, err := catalog.New(nil, nil, consumables, keys, materials)
	s.Require().NoError(err)

	service, err := economy.NewOrchestrator(&economy.Config{
		PlayerRepo:  playerRepo,
		AuctionRepo: auctionRepo,
		WagerRepo:   wagerRepo,
		Catalog:     cat,
		RNG:         s.rng,
		IDGen:       idgen.NewSequential("eco"),
		Clock:       s.clock,
		Locks:       lock.NewKeyed(),
	})
	s.Require().NoError(err)
	s.service = service
}

func (s *OrchestratorTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *OrchestratorTestSuite) seedPlayer(id string, coins int) *entities.PlayerRecord {
	player := &entities.PlayerRecord{
		ID:       id,
		Username: "tester-" + id,
		Coins:    coins,
		Level:    1,
		Bag:      map[string]int{},
	}
	s.savePlayer(player)
	return player
}

func (s *OrchestratorTestSuite) savePlayer(player *entities.PlayerRecord) {
	_, err := s.repo.Set(s.ctx, players.SetInput{Player: player})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) loadPlayer(id string) *entities.PlayerRecord {
	out, err := s.repo.Get(s.ctx, players.GetInput{PlayerID: id})
	s.Require().NoError(err)
	return out.Player
}

func (s *OrchestratorTestSuite) TestListShop() {
	out, err := s.service.ListShop(s.ctx, &economy.ListShopInput{})
	s.Require().NoError(err)

	s.Len(out.Consumables, 2)
	s.Len(out.Keys, 1)
	s.Equal("Potion", out.Consumables[0].Name)
	s.Equal("Silver Key", out.Keys[0].Name)
}

func (s *OrchestratorTestSuite) TestPurchase() {
	s.seedPlayer("p1", 1000)

	out, err := s.service.Purchase(s.ctx, &economy.PurchaseInput{
		PlayerID: "p1",
		Name:     "potion",
		Amount:   3,
	})
	s.Require().NoError(err)

	s.Equal("Potion", out.Item)
	s.Equal(300, out.Cost)
	s.Equal(700, out.Balance)
	s.Equal(3, s.loadPlayer("p1").BagCount("Potion"))
}

func (s *OrchestratorTestSuite) TestPurchase_ConcurrentCallersDoNotLoseWrites() {
	s.seedPlayer("p1", 5000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Purchase(s.ctx, &economy.PurchaseInput{
				PlayerID: "p1",
				Name:     "Potion",
				Amount:   1,
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	player := s.loadPlayer("p1")
	s.Equal(0, player.Coins)
	s.Equal(50, player.BagCount("Potion"))
}

func (s *OrchestratorTestSuite) TestPurchase_Key() {
	s.seedPlayer("p1", 6000)

	out, err := s.service.Purchase(s.ctx, &economy.PurchaseInput{
		PlayerID: "p1",
		Name:     "Silver Key",
		Amount:   1,
	})
	s.Require().NoError(err)
	s.Equal(1000, out.Balance)
}

func (s *OrchestratorTestSuite) TestPurchase_InsufficientCoins() {
	s.seedPlayer("p1", 100)

	_, err := s.service.Purchase(s.ctx, &economy.PurchaseInput{
		PlayerID: "p1",
		Name:     "Elixir",
		Amount:   1,
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestPurchase_UnknownItem() {
	s.seedPlayer("p1", 1000)

	_, err := s.service.Purchase(s.ctx, &economy.PurchaseInput{
		PlayerID: "p1",
		Name:     "Sword of Dawn",
		Amount:   1,
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestSell() {
	player := s.seedPlayer("p1", 100)
	player.Bag["Flame Core"] = 3
	s.savePlayer(player)

	out, err := s.service.Sell(s.ctx, &economy.SellInput{
		PlayerID: "p1",
		Item:     "flame core",
		Amount:   2,
	})
	s.Require().NoError(err)

	s.Equal("Flame Core", out.Item)
	s.Equal(400, out.Earned)
	s.Equal(500, out.Balance)
	s.Equal(1, s.loadPlayer("p1").BagCount("Flame Core"))
}

func (s *OrchestratorTestSuite) TestSell_AmbiguousQuery() {
	player := s.seedPlayer("p1", 100)
	player.Bag["Ember Shard"] = 1
	s.savePlayer(player)

	_, err := s.service.Sell(s.ctx, &economy.SellInput{
		PlayerID: "p1",
		Item:     "ember",
		Amount:   1,
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestSell_Unsellable() {
	player := s.seedPlayer("p1", 100)
	player.Bag["Ember Dust"] = 5
	s.savePlayer(player)

	_, err := s.service.Sell(s.ctx, &economy.SellInput{
		PlayerID: "p1",
		Item:     "Ember Dust",
		Amount:   1,
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestSell_NotEnoughHeld() {
	s.seedPlayer("p1", 100)

	_, err := s.service.Sell(s.ctx, &economy.SellInput{
		PlayerID: "p1",
		Item:     "Flame Core",
		Amount:   1,
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestSellAll() {
	player := s.seedPlayer("p1", 100)
	player.Bag["Flame Core"] = 2
	player.Bag["Ember Shard"] = 1
	player.Bag["Mystery Meat"] = 3
	s.savePlayer(player)

	out, err := s.service.SellAll(s.ctx, &economy.SellAllInput{PlayerID: "p1"})
	s.Require().NoError(err)

	s.Equal(425, out.Earned)
	s.Equal(525, out.Balance)
	s.Equal(2, out.Sold["Flame Core"])
	s.Equal(1, out.Sold["Ember Shard"])
	s.Equal([]string{"Mystery Meat"}, out.Skipped)

	player = s.loadPlayer("p1")
	s.Zero(player.BagCount("Flame Core"))
	s.Equal(3, player.BagCount("Mystery Meat"))
}

func (s *OrchestratorTestSuite) TestWork() {
	s.seedPlayer("p1", 0)

	out, err := s.service.Work(s.ctx, &economy.WorkInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Equal(2000, out.Earned)
	s.Equal(2000, out.Balance)

	_, err = s.service.Work(s.ctx, &economy.WorkInput{PlayerID: "p1"})
	s.Require().Error(err)
	s.True(errors.IsResourceExhausted(err))

	s.clock.Advance(31 * time.Minute)
	out, err = s.service.Work(s.ctx, &economy.WorkInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Equal(4000, out.Balance)
}

func (s *OrchestratorTestSuite) createAuction(item string, amount, price, hours int) *auctions.Auction {
	out, err := s.service.CreateAuction(s.ctx, &economy.CreateAuctionInput{
		PlayerID: "seller",
		Item:     item,
		Amount:   amount,
		Price:    price,
		Hours:    hours,
	})
	s.Require().NoError(err)
	return out.Auction
}

func (s *OrchestratorTestSuite) TestCreateAuction_EscrowsStock() {
	player := s.seedPlayer("seller", 0)
	player.Bag["Flame Core"] = 5
	s.savePlayer(player)

	auction := s.createAuction("flame core", 3, 150, 24)

	s.Equal("Flame Core", auction.Item)
	s.Equal(3, auction.Amount)
	s.Equal(2, s.loadPlayer("seller").BagCount("Flame Core"))
}

func (s *OrchestratorTestSuite) TestCreateAuction_InvalidDuration() {
	player := s.seedPlayer("seller", 0)
	player.Bag["Flame Core"] = 5
	s.savePlayer(player)

	_, err := s.service.CreateAuction(s.ctx, &economy.CreateAuctionInput{
		PlayerID: "seller",
		Item:     "Flame Core",
		Amount:   1,
		Price:    100,
		Hours:    6,
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestCreateAuction_NotInBag() {
	s.seedPlayer("seller", 0)

	_, err := s.service.CreateAuction(s.ctx, &economy.CreateAuctionInput{
		PlayerID: "seller",
		Item:     "Flame Core",
		Amount:   1,
		Price:    100,
		Hours:    24,
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestBuyAuction_PartialThenSoldOut() {
	seller := s.seedPlayer("seller", 0)
	seller.Bag["Flame Core"] = 5
	s.savePlayer(seller)
	s.seedPlayer("buyer", 1000)

	auction := s.createAuction("Flame Core", 5, 100, 24)

	out, err := s.service.BuyAuction(s.ctx, &economy.BuyAuctionInput{
		PlayerID:  "buyer",
		AuctionID: auction.ID,
		Amount:    2,
	})
	s.Require().NoError(err)
	s.Equal(200, out.Cost)
	s.Equal(3, out.Remaining)

	s.Equal(800, s.loadPlayer("buyer").Coins)
	s.Equal(2, s.loadPlayer("buyer").BagCount("Flame Core"))
	s.Equal(200, s.loadPlayer("seller").Coins)

	// buying the rest removes the listing
	_, err = s.service.BuyAuction(s.ctx, &economy.BuyAuctionInput{
		PlayerID:  "buyer",
		AuctionID: auction.ID,
		Amount:    3,
	})
	s.Require().NoError(err)

	listed, err := s.service.ListAuctions(s.ctx, &economy.ListAuctionsInput{})
	s.Require().NoError(err)
	s.Empty(listed.Auctions)
}

func (s *OrchestratorTestSuite) TestBuyAuction_OverStock() {
	seller := s.seedPlayer("seller", 0)
	seller.Bag["Flame Core"] = 2
	s.savePlayer(seller)
	s.seedPlayer("buyer", 1000)

	auction := s.createAuction("Flame Core", 2, 100, 24)

	_, err := s.service.BuyAuction(s.ctx, &economy.BuyAuctionInput{
		PlayerID:  "buyer",
		AuctionID: auction.ID,
		Amount:    3,
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestListAuctions_Search() {
	seller := s.seedPlayer("seller", 0)
	seller.Bag["Flame Core"] = 1
	seller.Bag["Ember Shard"] = 1
	s.savePlayer(seller)

	s.createAuction("Flame Core", 1, 100, 24)
	s.createAuction("Ember Shard", 1, 50, 24)

	out, err := s.service.ListAuctions(s.ctx, &economy.ListAuctionsInput{Search: "flame"})
	s.Require().NoError(err)
	s.Require().Len(out.Auctions, 1)
	s.Equal("Flame Core", out.Auctions[0].Item)
}

func (s *OrchestratorTestSuite) TestCancelAuction() {
	seller := s.seedPlayer("seller", 0)
	seller.Bag["Flame Core"] = 3
	s.savePlayer(seller)

	auction := s.createAuction("Flame Core", 3, 100, 24)

	_, err := s.service.CancelAuction(s.ctx, &economy.CancelAuctionInput{
		PlayerID:  "someone-else",
		AuctionID: auction.ID,
	})
	s.Require().Error(err)
	s.True(errors.IsPermissionDenied(err))

	out, err := s.service.CancelAuction(s.ctx, &economy.CancelAuctionInput{
		PlayerID:  "seller",
		AuctionID: auction.ID,
	})
	s.Require().NoError(err)
	s.Equal(3, out.Amount)
	s.Equal(3, s.loadPlayer("seller").BagCount("Flame Core"))
}

func (s *OrchestratorTestSuite) TestExpireAuctions() {
	seller := s.seedPlayer("seller", 0)
	seller.Bag["Flame Core"] = 2
	s.savePlayer(seller)

	s.createAuction("Flame Core", 2, 100, 12)

	out, err := s.service.ExpireAuctions(s.ctx, &economy.ExpireAuctionsInput{})
	s.Require().NoError(err)
	s.Zero(out.Expired)

	s.clock.Advance(13 * time.Hour)

	out, err = s.service.ExpireAuctions(s.ctx, &economy.ExpireAuctionsInput{})
	s.Require().NoError(err)
	s.Equal(1, out.Expired)
	s.Equal(2, s.loadPlayer("seller").BagCount("Flame Core"))
}

func (s *OrchestratorTestSuite) TestCreateWager_EscrowsStake() {
	s.seedPlayer("p1", 500)

	out, err := s.service.CreateWager(s.ctx, &economy.CreateWagerInput{
		PlayerID: "p1",
		Amount:   200,
	})
	s.Require().NoError(err)

	s.Equal(200, out.Wager.Amount)
	s.Equal(300, s.loadPlayer("p1").Coins)
}

func (s *OrchestratorTestSuite) TestTakeWager_CreatorWins() {
	s.seedPlayer("p1", 500)
	s.seedPlayer("p2", 500)

	created, err := s.service.CreateWager(s.ctx, &economy.CreateWagerInput{
		PlayerID: "p1",
		Amount:   200,
	})
	s.Require().NoError(err)

	out, err := s.service.TakeWager(s.ctx, &economy.TakeWagerInput{
		PlayerID: "p2",
		WagerID:  created.Wager.ID,
	})
	s.Require().NoError(err)

	s.Equal("p1", out.WinnerID)
	s.Equal("p2", out.LoserID)
	s.Equal(400, out.Prize)
	s.Equal(700, s.loadPlayer("p1").Coins)
	s.Equal(300, s.loadPlayer("p2").Coins)
}

func (s *OrchestratorTestSuite) TestTakeWager_TakerWins() {
	s.seedPlayer("p1", 500)
	s.seedPlayer("p2", 500)

	created, err := s.service.CreateWager(s.ctx, &economy.CreateWagerInput{
		PlayerID: "p1",
		Amount:   200,
	})
	s.Require().NoError(err)

	s.rng.chances = []bool{true}
	out, err := s.service.TakeWager(s.ctx, &economy.TakeWagerInput{
		PlayerID: "p2",
		WagerID:  created.Wager.ID,
	})
	s.Require().NoError(err)

	s.Equal("p2", out.WinnerID)
	s.Equal(300, s.loadPlayer("p1").Coins)
	s.Equal(700, s.loadPlayer("p2").Coins)
}

func (s *OrchestratorTestSuite) TestTakeWager_OwnWager() {
	s.seedPlayer("p1", 500)

	created, err := s.service.CreateWager(s.ctx, &economy.CreateWagerInput{
		PlayerID: "p1",
		Amount:   200,
	})
	s.Require().NoError(err)

	_, err = s.service.TakeWager(s.ctx, &economy.TakeWagerInput{
		PlayerID: "p1",
		WagerID:  created.Wager.ID,
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestExpireWagers() {
	s.seedPlayer("p1", 500)

	_, err := s.service.CreateWager(s.ctx, &economy.CreateWagerInput{
		PlayerID: "p1",
		Amount:   200,
	})
	s.Require().NoError(err)

	out, err := s.service.ExpireWagers(s.ctx, &economy.ExpireWagersInput{})
	s.Require().NoError(err)
	s.Zero(out.Refunded)

	s.clock.Advance(31 * time.Minute)

	out, err = s.service.ExpireWagers(s.ctx, &economy.ExpireWagersInput{})
	s.Require().NoError(err)
	s.Equal(1, out.Refunded)
	s.Equal(500, s.loadPlayer("p1").Coins)

	listed, err := s.service.ListWagers(s.ctx, &economy.ListWagersInput{})
	s.Require().NoError(err)
	s.Empty(listed.Wagers)
}

func (s *OrchestratorTestSuite) TestSpin_TripleFruit() {
	s.seedPlayer("p1", 1000)

	// unscripted draws land on the first reel symbol, a full grape grid
	out, err := s.service.Spin(s.ctx, &economy.SpinInput{
		PlayerID: "p1",
		Bet:      100,
	})
	s.Require().NoError(err)

	s.Require().Len(out.Spins, 1)
	s.Equal(400, out.Spins[0].Payout)
	s.Equal(400, out.TotalPayout)
	s.Equal(1300, out.Balance)
	s.Equal(1300, s.loadPlayer("p1").Coins)
}

func (s *OrchestratorTestSuite) TestSpin_GiftGrantsFreeSpins() {
	s.seedPlayer("p1", 1000)

	// first grid's middle row draws a gift then two grapes: the grape
	// pair pays half the bet and the gift starts three free spins
	s.rng.ints = []int{0, 0, 0, 34, 0, 0}

	out, err := s.service.Spin(s.ctx, &economy.SpinInput{
		PlayerID: "p1",
		Bet:      100,
	})
	s.Require().NoError(err)

	s.Require().Len(out.Spins, 4)
	s.Equal(50, out.Spins[0].Payout)
	s.Equal(3, out.Spins[0].FreeSpins)
	s.False(out.Spins[0].Free)
	for _, spin := range out.Spins[1:] {
		s.True(spin.Free)
		s.Equal(400, spin.Payout)
	}
	s.Equal(50+3*400, out.TotalPayout)
	s.Equal(1000-100+50+1200, out.Balance)
}

func (s *OrchestratorTestSuite) TestSpin_InsufficientCoins() {
	s.seedPlayer("p1", 50)

	_, err := s.service.Spin(s.ctx, &economy.SpinInput{
		PlayerID: "p1",
		Bet:      100,
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
