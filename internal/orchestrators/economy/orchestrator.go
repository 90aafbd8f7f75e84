// Package economy implements the shop, the work job, the auction house,
// coinflip wagers, and the slot machine.
package economy

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/errors"
	"github.com/KirkDiggler/heroes-api/internal/pkg/clock"
	"github.com/KirkDiggler/heroes-api/internal/pkg/idgen"
	"github.com/KirkDiggler/heroes-api/internal/pkg/lock"
	"github.com/KirkDiggler/heroes-api/internal/pkg/rng"
	"github.com/KirkDiggler/heroes-api/internal/repositories/auctions"
	"github.com/KirkDiggler/heroes-api/internal/repositories/players"
	"github.com/KirkDiggler/heroes-api/internal/repositories/wagers"
)

const (
	// WorkCooldown is the wait between shifts
	WorkCooldown = 30 * time.Minute

	// WagerExpiry is how long a coinflip stays open before its stake is
	// refunded
	WagerExpiry = 30 * time.Minute

	workRewardLow  = 2000
	workRewardHigh = 8000

	// maxSpinChain bounds a free-spin streak
	maxSpinChain = 50
)

// auctionDurations are the allowed listing lengths in hours.
var auctionDurations = map[int]bool{12: true, 24: true, 48: true, 72: true}

// symbolBag is the weighted reel. Every cell of a spin grid draws from it.
var symbolBag = []string{
	"🍇", "🍇", "🍇", "🍇", "🍇", "🍇", "🍇", "🍇",
	"🍒", "🍒", "🍒", "🍒", "🍒", "🍒", "🍒", "🍒",
	"🍋", "🍋", "🍋", "🍋", "🍋", "🍋",
	"⭐", "⭐", "⭐", "⭐",
	"🔔", "🔔", "🔔", "🔔", "🔔", "🔔",
	"💎", "💎",
	"🎁",
}

// Config holds the dependencies for the economy orchestrator
type Config struct {
	PlayerRepo  players.Repository
	AuctionRepo auctions.Repository
	WagerRepo   wagers.Repository
	Catalog     *catalog.Catalog
	RNG         rng.Source
	IDGen       idgen.Generator
	Clock       clock.Clock

	// Locks is the player-record lock set shared by every orchestrator
	// that writes player records
	Locks *lock.Keyed
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.PlayerRepo == nil {
		vb.RequiredField("PlayerRepo")
	}
	if c.AuctionRepo == nil {
		vb.RequiredField("AuctionRepo")
	}
	if c.WagerRepo == nil {
		vb.RequiredField("WagerRepo")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
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
	playerRepo  players.Repository
	auctionRepo auctions.Repository
	wagerRepo   wagers.Repository
	catalog     *catalog.Catalog
	rng         rng.Source
	idGen       idgen.Generator
	clock       clock.Clock
	locks       *lock.Keyed
}

// NewOrchestrator creates a new economy orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		playerRepo:  cfg.PlayerRepo,
		auctionRepo: cfg.AuctionRepo,
		wagerRepo:   cfg.WagerRepo,
		catalog:     cfg.Catalog,
		rng:         cfg.RNG,
		idGen:       cfg.IDGen,
		clock:       cfg.Clock,
		locks:       cfg.Locks,
	}, nil
}

// ListShop returns everything purchasable: consumables and chest keys.
func (o *orchestrator) ListShop(ctx context.Context, input *ListShopInput) (*ListShopOutput, error) {
	return &ListShopOutput{
		Consumables: o.catalog.Consumables(),
		Keys:        o.catalog.ChestKeys(),
	}, nil
}

// Purchase buys a shop item into the player's bag.
func (o *orchestrator) Purchase(ctx context.Context, input *PurchaseInput) (*PurchaseOutput, error) {
	if input.Amount <= 0 {
		return nil, errors.InvalidArgument("amount must be positive")
	}

	item, ok := o.catalog.Consumable(input.Name)
	if !ok {
		item, ok = o.catalog.Key(input.Name)
	}
	if !ok {
		return nil, errors.NotFoundf("%q isn't available for purchase", input.Name)
	}

	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	cost := item.Price * input.Amount
	if player.Coins < cost {
		return nil, errors.FailedPreconditionf("need %d coins but only have %d", cost, player.Coins)
	}

	player.Coins -= cost
	player.BagAdd(item.Name, input.Amount)
	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	return &PurchaseOutput{
		Item:    item.Name,
		Amount:  input.Amount,
		Cost:    cost,
		Balance: player.Coins,
	}, nil
}

// Sell trades one material for coins. The query matches material names by
// substring and must be unambiguous.
func (o *orchestrator) Sell(ctx context.Context, input *SellInput) (*SellOutput, error) {
	if input.Amount <= 0 {
		return nil, errors.InvalidArgument("amount must be positive")
	}

	matches := o.catalog.SearchMaterials(input.Item)
	if len(matches) == 0 {
		return nil, errors.NotFoundf("no sellable item matches %q", input.Item)
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, errors.InvalidArgumentf("multiple matches: %s", strings.Join(names, ", "))
	}

	material := matches[0]
	if material.Sell <= 0 {
		return nil, errors.FailedPreconditionf("%s cannot be sold", material.Name)
	}

	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if !player.BagRemove(material.Name, input.Amount) {
		return nil, errors.FailedPreconditionf("you don't have %dx %s", input.Amount, material.Name)
	}

	earned := material.Sell * input.Amount
	player.Coins += earned
	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	return &SellOutput{
		Item:    material.Name,
		Amount:  input.Amount,
		Earned:  earned,
		Balance: player.Coins,
	}, nil
}

// SellAll liquidates every sellable material in the bag. Items without a
// sell price stay put.
func (o *orchestrator) SellAll(ctx context.Context, input *SellAllInput) (*SellAllOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(player.Bag))
	for name := range player.Bag {
		names = append(names, name)
	}
	sort.Strings(names)

	out := &SellAllOutput{Sold: make(map[string]int)}
	for _, name := range names {
		price, ok := o.catalog.MaterialSellPrice(name)
		if !ok || price <= 0 {
			out.Skipped = append(out.Skipped, name)
			continue
		}

		qty := player.Bag[name]
		out.Sold[name] = qty
		out.Earned += price * qty
		delete(player.Bag, name)
	}

	if out.Earned > 0 {
		player.Coins += out.Earned
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
			return nil, err
		}
	}
	out.Balance = player.Coins
	return out, nil
}

// Work pays a uniform coin reward once per cooldown window.
func (o *orchestrator) Work(ctx context.Context, input *WorkInput) (*WorkOutput, error) {
	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	if player.WorkedAt > 0 {
		ready := time.Unix(player.WorkedAt, 0).Add(WorkCooldown)
		if now.Before(ready) {
			return nil, errors.ResourceExhaustedf("you can work again in %s", ready.Sub(now).Round(time.Second))
		}
	}

	earned := o.rng.IntRange(workRewardLow, workRewardHigh)
	player.Coins += earned
	player.WorkedAt = now.Unix()
	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	slog.Info("Work shift completed",
		"player_id", input.PlayerID,
		"earned", earned,
	)

	return &WorkOutput{
		Earned:      earned,
		Balance:     player.Coins,
		NextShiftAt: now.Add(WorkCooldown).Unix(),
	}, nil
}

// ListAuctions returns live listings, optionally filtered by item name.
func (o *orchestrator) ListAuctions(ctx context.Context, input *ListAuctionsInput) (*ListAuctionsOutput, error) {
	listed, err := o.auctionRepo.List(ctx, auctions.ListInput{})
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	search := strings.ToLower(input.Search)
	var live []*auctions.Auction
	for _, a := range listed.Auctions {
		if a.Expired(now) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Item), search) {
			continue
		}
		live = append(live, a)
	}
	return &ListAuctionsOutput{Auctions: live}, nil
}

// CreateAuction escrows bag stock into a new listing.
func (o *orchestrator) CreateAuction(ctx context.Context, input *CreateAuctionInput) (*CreateAuctionOutput, error) {
	if input.Amount <= 0 {
		return nil, errors.InvalidArgument("amount must be positive")
	}
	if input.Price <= 0 {
		return nil, errors.InvalidArgument("price must be positive")
	}
	if !auctionDurations[input.Hours] {
		return nil, errors.InvalidArgument("auction duration must be 12, 24, 48, or 72 hours")
	}

	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	item := bagKey(player, input.Item)
	if item == "" || !player.BagRemove(item, input.Amount) {
		return nil, errors.FailedPreconditionf("you don't have %dx %s", input.Amount, input.Item)
	}

	now := o.clock.Now()
	auction := &auctions.Auction{
		ID:        o.idGen.Generate(),
		SellerID:  player.ID,
		Seller:    player.Username,
		Item:      item,
		Amount:    input.Amount,
		Price:     input.Price,
		CreatedAt: now,
		EndsAt:    now.Add(time.Duration(input.Hours) * time.Hour),
	}

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}
	if _, err := o.auctionRepo.Create(ctx, auctions.CreateInput{Auction: auction}); err != nil {
		return nil, err
	}

	slog.Info("Auction listed",
		"auction_id", auction.ID,
		"seller_id", player.ID,
		"item", auction.Item,
		"amount", auction.Amount,
		"price", auction.Price,
	)

	return &CreateAuctionOutput{Auction: auction}, nil
}

// BuyAuction purchases part or all of a listing's stock, paying coins
// straight through to the seller.
func (o *orchestrator) BuyAuction(ctx context.Context, input *BuyAuctionInput) (*BuyAuctionOutput, error) {
	amount := input.Amount
	if amount <= 0 {
		amount = 1
	}

	got, err := o.auctionRepo.Get(ctx, auctions.GetInput{AuctionID: input.AuctionID})
	if err != nil {
		return nil, err
	}
	auction := got.Auction

	if auction.Expired(o.clock.Now()) {
		return nil, errors.FailedPrecondition("that auction has ended")
	}
	if amount > auction.Amount {
		return nil, errors.FailedPreconditionf("only %d left in this auction", auction.Amount)
	}

	defer o.locks.AcquireTwo(input.PlayerID, auction.SellerID)()

	buyer, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	cost := auction.Price * amount
	if buyer.Coins < cost {
		return nil, errors.FailedPreconditionf("need %d coins but only have %d", cost, buyer.Coins)
	}

	buyer.Coins -= cost
	buyer.BagAdd(auction.Item, amount)

	if auction.SellerID == buyer.ID {
		buyer.Coins += cost
	} else if sellerOut, err := o.playerRepo.Get(ctx, players.GetInput{PlayerID: auction.SellerID}); err == nil {
		seller := sellerOut.Player
		seller.Coins += cost
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: seller}); err != nil {
			return nil, err
		}
	}

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: buyer}); err != nil {
		return nil, err
	}

	auction.Amount -= amount
	if auction.Amount <= 0 {
		if _, err := o.auctionRepo.Delete(ctx, auctions.DeleteInput{AuctionID: auction.ID}); err != nil {
			return nil, err
		}
	} else {
		if _, err := o.auctionRepo.Update(ctx, auctions.UpdateInput{Auction: auction}); err != nil {
			return nil, err
		}
	}

	return &BuyAuctionOutput{
		Item:      auction.Item,
		Amount:    amount,
		Cost:      cost,
		Remaining: auction.Amount,
	}, nil
}

// CancelAuction withdraws a listing and returns its stock to the seller.
func (o *orchestrator) CancelAuction(ctx context.Context, input *CancelAuctionInput) (*CancelAuctionOutput, error) {
	got, err := o.auctionRepo.Get(ctx, auctions.GetInput{AuctionID: input.AuctionID})
	if err != nil {
		return nil, err
	}
	auction := got.Auction

	if auction.SellerID != input.PlayerID {
		return nil, errors.PermissionDenied("you can only cancel your own auctions")
	}

	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	player.BagAdd(auction.Item, auction.Amount)
	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}
	if _, err := o.auctionRepo.Delete(ctx, auctions.DeleteInput{AuctionID: auction.ID}); err != nil {
		return nil, err
	}

	return &CancelAuctionOutput{Item: auction.Item, Amount: auction.Amount}, nil
}

// ExpireAuctions closes ended listings and returns unsold stock to their
// sellers. Run from a periodic sweep.
func (o *orchestrator) ExpireAuctions(ctx context.Context, input *ExpireAuctionsInput) (*ExpireAuctionsOutput, error) {
	listed, err := o.auctionRepo.List(ctx, auctions.ListInput{})
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	expired := 0
	for _, auction := range listed.Auctions {
		if !auction.Expired(now) {
			continue
		}

		if err := o.returnStock(ctx, auction.SellerID, auction.Item, auction.Amount); err != nil {
			return nil, err
		}

		if _, err := o.auctionRepo.Delete(ctx, auctions.DeleteInput{AuctionID: auction.ID}); err != nil {
			return nil, err
		}
		expired++
	}

	if expired > 0 {
		slog.Info("Expired auctions returned to sellers", "count", expired)
	}
	return &ExpireAuctionsOutput{Expired: expired}, nil
}

// CreateWager escrows a coinflip stake and opens it for challengers.
func (o *orchestrator) CreateWager(ctx context.Context, input *CreateWagerInput) (*CreateWagerOutput, error) {
	if input.Amount <= 0 {
		return nil, errors.InvalidArgument("bet must be greater than 0")
	}

	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if player.Coins < input.Amount {
		return nil, errors.FailedPreconditionf("need %d coins but only have %d", input.Amount, player.Coins)
	}

	player.Coins -= input.Amount
	wager := &wagers.Wager{
		ID:        o.idGen.Generate(),
		CreatorID: player.ID,
		Creator:   player.Username,
		Amount:    input.Amount,
		CreatedAt: o.clock.Now(),
	}

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}
	if _, err := o.wagerRepo.Create(ctx, wagers.CreateInput{Wager: wager}); err != nil {
		return nil, err
	}

	return &CreateWagerOutput{Wager: wager}, nil
}

// ListWagers returns all open coinflips oldest first
func (o *orchestrator) ListWagers(ctx context.Context, input *ListWagersInput) (*ListWagersOutput, error) {
	listed, err := o.wagerRepo.List(ctx, wagers.ListInput{})
	if err != nil {
		return nil, err
	}
	return &ListWagersOutput{Wagers: listed.Wagers}, nil
}

// TakeWager matches the stake and flips the coin. The winner takes both
// stakes.
func (o *orchestrator) TakeWager(ctx context.Context, input *TakeWagerInput) (*TakeWagerOutput, error) {
	got, err := o.wagerRepo.Get(ctx, wagers.GetInput{WagerID: input.WagerID})
	if err != nil {
		return nil, err
	}
	wager := got.Wager

	if wager.CreatorID == input.PlayerID {
		return nil, errors.FailedPrecondition("you can't take your own coinflip")
	}

	defer o.locks.AcquireTwo(input.PlayerID, wager.CreatorID)()

	taker, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if taker.Coins < wager.Amount {
		return nil, errors.FailedPreconditionf("need %d coins to match this bet", wager.Amount)
	}

	// claim the wager before moving coins so two takers can't both settle
	if _, err := o.wagerRepo.Delete(ctx, wagers.DeleteInput{WagerID: wager.ID}); err != nil {
		return nil, err
	}

	taker.Coins -= wager.Amount

	winnerID, loserID := wager.CreatorID, taker.ID
	if o.rng.Chance(0.5) {
		winnerID, loserID = taker.ID, wager.CreatorID
	}

	prize := wager.Amount * 2
	if winnerID == taker.ID {
		taker.Coins += prize
	} else if creatorOut, err := o.playerRepo.Get(ctx, players.GetInput{PlayerID: wager.CreatorID}); err == nil {
		creator := creatorOut.Player
		creator.Coins += prize
		if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: creator}); err != nil {
			return nil, err
		}
	}

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: taker}); err != nil {
		return nil, err
	}

	slog.Info("Coinflip settled",
		"wager_id", wager.ID,
		"winner_id", winnerID,
		"prize", prize,
	)

	return &TakeWagerOutput{WinnerID: winnerID, LoserID: loserID, Prize: prize}, nil
}

// ExpireWagers refunds stakes on coinflips nobody took. Run from a
// periodic sweep.
func (o *orchestrator) ExpireWagers(ctx context.Context, input *ExpireWagersInput) (*ExpireWagersOutput, error) {
	listed, err := o.wagerRepo.List(ctx, wagers.ListInput{})
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	refunded := 0
	for _, wager := range listed.Wagers {
		if now.Sub(wager.CreatedAt) < WagerExpiry {
			continue
		}

		if err := o.creditCoins(ctx, wager.CreatorID, wager.Amount); err != nil {
			return nil, err
		}

		if _, err := o.wagerRepo.Delete(ctx, wagers.DeleteInput{WagerID: wager.ID}); err != nil {
			return nil, err
		}
		refunded++
	}

	if refunded > 0 {
		slog.Info("Expired coinflips refunded", "count", refunded)
	}
	return &ExpireWagersOutput{Refunded: refunded}, nil
}

// Spin plays the slot machine. The bet is paid once; gift symbols on the
// middle row chain free spins that keep the bet's payout table.
func (o *orchestrator) Spin(ctx context.Context, input *SpinInput) (*SpinOutput, error) {
	if input.Bet <= 0 {
		return nil, errors.InvalidArgument("bet must be greater than 0")
	}

	defer o.locks.Acquire(input.PlayerID)()

	player, err := o.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if player.Coins < input.Bet {
		return nil, errors.FailedPreconditionf("need %d coins but only have %d", input.Bet, player.Coins)
	}

	player.Coins -= input.Bet

	out := &SpinOutput{}
	freeSpins := 0
	free := false
	for len(out.Spins) < maxSpinChain {
		result := o.spinOnce(input.Bet)
		result.Free = free
		out.Spins = append(out.Spins, result)
		out.TotalPayout += result.Payout
		player.Coins += result.Payout
		freeSpins += result.FreeSpins

		if freeSpins == 0 {
			break
		}
		freeSpins--
		free = true
	}

	if _, err := o.playerRepo.Set(ctx, players.SetInput{Player: player}); err != nil {
		return nil, err
	}

	out.Balance = player.Coins
	return out, nil
}

// spinOnce draws one grid and scores its middle row.
func (o *orchestrator) spinOnce(bet int) SpinResult {
	var result SpinResult
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			result.Grid[row][col] = symbolBag[o.rng.Intn(len(symbolBag))]
		}
	}

	middle := result.Grid[1]
	counts := make(map[string]int, 3)
	for _, sym := range middle {
		counts[sym]++
	}

	switch len(counts) {
	case 1:
		result.Payout = triplePayout(middle[0], bet)
	case 2:
		for sym, n := range counts {
			if n == 2 {
				result.Payout = pairPayout(sym, bet)
			}
		}
	}

	if counts["🎁"] > 0 {
		result.FreeSpins = 3
	}
	return result
}

func triplePayout(sym string, bet int) int {
	switch sym {
	case "🍇", "🍒", "🍋":
		return bet * 4
	case "⭐":
		return bet * 15
	case "🔔":
		return bet * 10
	case "💎":
		return bet * 100
	}
	return 0
}

func pairPayout(sym string, bet int) int {
	switch sym {
	case "🍇", "🍒", "🍋":
		return bet / 2
	case "⭐":
		return bet * 7 / 2
	case "🔔":
		return bet * 5 / 2
	case "💎":
		return bet * 15
	}
	return 0
}

// returnStock refunds escrowed auction stock to its seller under the
// seller's record lock. A missing seller record forfeits the stock.
func (o *orchestrator) returnStock(ctx context.Context, sellerID, item string, amount int) error {
	defer o.locks.Acquire(sellerID)()

	sellerOut, err := o.playerRepo.Get(ctx, players.GetInput{PlayerID: sellerID})
	if err != nil {
		return nil
	}
	seller := sellerOut.Player
	seller.BagAdd(item, amount)
	_, err = o.playerRepo.Set(ctx, players.SetInput{Player: seller})
	return err
}

// creditCoins pays coins into a player record under its lock. A missing
// record forfeits the payout.
func (o *orchestrator) creditCoins(ctx context.Context, playerID string, amount int) error {
	defer o.locks.Acquire(playerID)()

	out, err := o.playerRepo.Get(ctx, players.GetInput{PlayerID: playerID})
	if err != nil {
		return nil
	}
	player := out.Player
	player.Coins += amount
	_, err = o.playerRepo.Set(ctx, players.SetInput{Player: player})
	return err
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

// bagKey resolves the canonical bag key for an item name, matched
// case-insensitively.
func bagKey(player *entities.PlayerRecord, item string) string {
	for key := range player.Bag {
		if strings.EqualFold(key, item) {
			return key
		}
	}
	return ""
}
