package models

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the authenticated account. Coin and wallet balances are
// server-determined; the client only displays them.
type User struct {
	ID            string   `json:"_id"`
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	CoinBalance   int64    `json:"coin_balance"`
	WalletBalance float64  `json:"wallet_balance"`
	CreatedAt     FlexTime `json:"created_at"`
}

// Session is the result of a login or signup call.
type Session struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}
