package models

// GiftCode is an admin-issued code redeemable for coins.
type GiftCode struct {
	Code      string   `json:"code"`
	Coins     int64    `json:"coins"`
	Redeemed  bool     `json:"redeemed"`
	CreatedAt FlexTime `json:"created_at"`
}
