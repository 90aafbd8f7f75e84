package economy

import (
	"context"

	"github.com/KirkDiggler/heroes-api/internal/catalog"
	"github.com/KirkDiggler/heroes-api/internal/repositories/auctions"
	"github.com/KirkDiggler/heroes-api/internal/repositories/wagers"
)

// Service defines the interface for the shop, jobs, gambling, and the
// player market
type Service interface {
	// Shop
	ListShop(ctx context.Context, input *ListShopInput) (*ListShopOutput, error)
	Purchase(ctx context.Context, input *PurchaseInput) (*PurchaseOutput, error)
	Sell(ctx context.Context, input *SellInput) (*SellOutput, error)
	SellAll(ctx context.Context, input *SellAllInput) (*SellAllOutput, error)

	// Jobs
	Work(ctx context.Context, input *WorkInput) (*WorkOutput, error)

	// Player market
	ListAuctions(ctx context.Context, input *ListAuctionsInput) (*ListAuctionsOutput, error)
	CreateAuction(ctx context.Context, input *CreateAuctionInput) (*CreateAuctionOutput, error)
	BuyAuction(ctx context.Context, input *BuyAuctionInput) (*BuyAuctionOutput, error)
	CancelAuction(ctx context.Context, input *CancelAuctionInput) (*CancelAuctionOutput, error)
	ExpireAuctions(ctx context.Context, input *ExpireAuctionsInput) (*ExpireAuctionsOutput, error)

	// Coinflips
	CreateWager(ctx context.Context, input *CreateWagerInput) (*CreateWagerOutput, error)
	ListWagers(ctx context.Context, input *ListWagersInput) (*ListWagersOutput, error)
	TakeWager(ctx context.Context, input *TakeWagerInput) (*TakeWagerOutput, error)
	ExpireWagers(ctx context.Context, input *ExpireWagersInput) (*ExpireWagersOutput, error)

	// Slots
	Spin(ctx context.Context, input *SpinInput) (*SpinOutput, error)
}

// ListShopInput contains parameters for browsing the shop
type ListShopInput struct{}

// ListShopOutput contains everything purchasable
type ListShopOutput struct {
	Consumables []catalog.Item
	Keys        []catalog.Item
}

// PurchaseInput contains parameters for buying from the shop
type PurchaseInput struct {
	PlayerID string
	Name     string
	Amount   int
}

// PurchaseOutput reports the completed purchase
type PurchaseOutput struct {
	Item    string
	Amount  int
	Cost    int
	Balance int
}

// SellInput contains parameters for selling one material
type SellInput struct {
	PlayerID string
	Item     string
	Amount   int
}

// SellOutput reports the completed sale
type SellOutput struct {
	Item    string
	Amount  int
	Earned  int
	Balance int
}

// SellAllInput contains parameters for liquidating the bag
type SellAllInput struct {
	PlayerID string
}

// SellAllOutput reports what sold and what was kept
type SellAllOutput struct {
	Sold    map[string]int
	Skipped []string
	Earned  int
	Balance int
}

// WorkInput contains parameters for a work shift
type WorkInput struct {
	PlayerID string
}

// WorkOutput reports the earnings and next availability
type WorkOutput struct {
	Earned      int
	Balance     int
	NextShiftAt int64
}

// ListAuctionsInput contains an optional name filter
type ListAuctionsInput struct {
	Search string
}

// ListAuctionsOutput contains matching listings ordered by end time
type ListAuctionsOutput struct {
	Auctions []*auctions.Auction
}

// CreateAuctionInput contains the listing parameters
type CreateAuctionInput struct {
	PlayerID string
	Item     string
	Amount   int
	Price    int
	Hours    int
}

// CreateAuctionOutput contains the posted listing
type CreateAuctionOutput struct {
	Auction *auctions.Auction
}

// BuyAuctionInput contains parameters for buying auctioned stock
type BuyAuctionInput struct {
	PlayerID  string
	AuctionID string
	Amount    int
}

// BuyAuctionOutput reports the completed purchase
type BuyAuctionOutput struct {
	Item      string
	Amount    int
	Cost      int
	Remaining int
}

// CancelAuctionInput contains parameters for withdrawing a listing
type CancelAuctionInput struct {
	PlayerID  string
	AuctionID string
}

// CancelAuctionOutput reports the returned stock
type CancelAuctionOutput struct {
	Item   string
	Amount int
}

// ExpireAuctionsInput contains parameters for the expiry sweep
type ExpireAuctionsInput struct{}

// ExpireAuctionsOutput reports how many listings were closed
type ExpireAuctionsOutput struct {
	Expired int
}

// CreateWagerInput contains the coinflip stake
type CreateWagerInput struct {
	PlayerID string
	Amount   int
}

// CreateWagerOutput contains the open wager
type CreateWagerOutput struct {
	Wager *wagers.Wager
}

// ListWagersInput contains parameters for listing open coinflips
type ListWagersInput struct{}

// ListWagersOutput contains all open wagers oldest first
type ListWagersOutput struct {
	Wagers []*wagers.Wager
}

// TakeWagerInput contains parameters for challenging a coinflip
type TakeWagerInput struct {
	PlayerID string
	WagerID  string
}

// TakeWagerOutput reports the flip result
type TakeWagerOutput struct {
	WinnerID string
	LoserID  string
	Prize    int
}

// ExpireWagersInput contains parameters for the refund sweep
type ExpireWagersInput struct{}

// ExpireWagersOutput reports how many stakes were refunded
type ExpireWagersOutput struct {
	Refunded int
}

// SpinInput contains the slot machine bet
type SpinInput struct {
	PlayerID string
	Bet      int
}

// SpinResult is one resolved grid. FreeSpins is how many bonus spins this
// grid granted.
type SpinResult struct {
	Grid      [3][3]string
	Payout    int
	FreeSpins int
	Free      bool
}

// SpinOutput contains the full spin chain, bonus spins included
type SpinOutput struct {
	Spins       []SpinResult
	TotalPayout int
	Balance     int
}
