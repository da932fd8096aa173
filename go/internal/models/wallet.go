package models

// Wallet request statuses.
const (
	WalletRequested = "requested"
	WalletAccepted  = "accepted"
	WalletRejected  = "rejected"
)

// WalletRequest is a top-up awaiting admin approval. The client never
// mutates status locally; it re-fetches after every accept so the list
// always reflects backend truth.
type WalletRequest struct {
	RequestID string   `json:"request_id"`
	Username  string   `json:"username"`
	Amount    float64  `json:"amount"`
	Method    string   `json:"method"`
	Reference string   `json:"reference"`
	Status    string   `json:"status"`
	CreatedAt FlexTime `json:"created_at"`
}
