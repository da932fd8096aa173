package models

// PlaceholderImage is substituted for winner announcements whose product
// image is missing or was rejected by the CDN.
const PlaceholderImage = "https://via.placeholder.com/150"

// WinnerAnnouncement is a resolved bet announced on the home ticker.
// Created server side when a bet resolves; read-only on the client and
// re-fetched on an interval rather than cached.
type WinnerAnnouncement struct {
	ProductID    string   `json:"product_id"`
	ProductName  string   `json:"product_name"`
	ProductImage string   `json:"product_image"`
	ProductPrice float64  `json:"product_price"`
	UserName     string   `json:"user_name"`
	UserEmail    string   `json:"user_email"`
	BetCode      string   `json:"bet_code"`
	Date         FlexTime `json:"date"`
}

// DisplayName returns the name to congratulate on the ticker, preferring
// the username over the raw email.
func (w WinnerAnnouncement) DisplayName() string {
	if w.UserName != "" {
		return w.UserName
	}
	if w.UserEmail != "" {
		return w.UserEmail
	}
	return "Anonymous"
}

// Image returns the product image URL or a placeholder when absent.
func (w WinnerAnnouncement) Image() string {
	if w.ProductImage == "" {
		return PlaceholderImage
	}
	return w.ProductImage
}
