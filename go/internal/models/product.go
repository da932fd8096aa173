package models

// Product is a catalog entry redeemable for coins or purchasable outright.
type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	CoinPrice   int64    `json:"coin_price"`
	MainPrice   float64  `json:"main_price"`
	CreatedAt   FlexTime `json:"created_at"`
}
