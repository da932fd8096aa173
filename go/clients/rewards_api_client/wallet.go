package rewards_api_client

import (
	"context"
	"net/url"

	"github.com/coinbazaar/coinbazaar/go/internal/envelope"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// TopUpPayload is the body for a wallet top-up request.
type TopUpPayload struct {
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}

// CreateTopUp submits a wallet top-up for admin approval.
func (c *RewardsApiClient) CreateTopUp(ctx context.Context, p TopUpPayload) (envelope.Ack, error) {
	body, err := c.postJSON(ctx, WalletCreateEndpoint, p)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// WalletHistory lists the signed-in user's wallet requests.
func (c *RewardsApiClient) WalletHistory(ctx context.Context) ([]models.WalletRequest, error) {
	body, err := c.AuthGet(ctx, WalletUserEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.WalletRequest](body), nil
}

// PendingRequests lists a user's unapproved top-ups by username (admin only).
func (c *RewardsApiClient) PendingRequests(ctx context.Context, username string) ([]models.WalletRequest, error) {
	body, err := c.AuthGet(ctx, WalletPendingEndpoint+"/"+url.PathEscape(username))
	if err != nil {
		return nil, err
	}
	return envelope.List[models.WalletRequest](body), nil
}

// AcceptRequest approves a pending top-up (admin only). The caller must
// re-fetch the pending list afterwards; the response is not a list patch.
func (c *RewardsApiClient) AcceptRequest(ctx context.Context, requestID string) (envelope.Ack, error) {
	body, err := c.postJSON(ctx, WalletAcceptEndpoint+"/"+url.PathEscape(requestID), struct{}{})
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// WalletAll lists every wallet request (admin only).
func (c *RewardsApiClient) WalletAll(ctx context.Context) ([]models.WalletRequest, error) {
	body, err := c.AuthGet(ctx, WalletAllEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.WalletRequest](body), nil
}
