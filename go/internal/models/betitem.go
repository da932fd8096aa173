package models

// BetItem is a catalog entity with a bidding window bounded by start/end
// timestamps. Admin-managed; customers only read it. The countdown shown
// next to each item is derived client side and never persisted.
type BetItem struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	CoinPrice   int64    `json:"coin_price"`
	MainPrice   float64  `json:"main_price"`
	StartTime   FlexTime `json:"start_time"`
	EndTime     FlexTime `json:"end_time"`
}

// WindowValid reports whether both window bounds parsed. Items with a
// broken window stay in the "waiting" state indefinitely.
func (b BetItem) WindowValid() bool {
	return b.StartTime.Valid && b.EndTime.Valid
}

// Bet is a customer's stake on a bet item.
type Bet struct {
	ID        string   `json:"_id"`
	BetCode   string   `json:"bet_code"`
	ItemID    string   `json:"item_id"`
	ItemName  string   `json:"item_name"`
	UserEmail string   `json:"user_email"`
	CoinPrice int64    `json:"coin_price"`
	PlacedAt  FlexTime `json:"placed_at"`
}
