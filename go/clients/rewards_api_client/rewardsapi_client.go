// Package rewards_api_client is the typed client for the rewards platform
// REST API. It owns the canonical field naming: whatever the backend sends
// is normalized to the models package shapes here, so no view ever sees a
// misspelled field again.
package rewards_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/coinbazaar/coinbazaar/go/clients"
)

type RewardsApiClient struct {
	*clients.BaseClient
}

// NewRewardsApiClient creates a client against baseURL. tokens may be nil
// for anonymous use; authenticated calls will then fail fast with
// ErrNoToken.
func NewRewardsApiClient(baseURL string, tokens clients.TokenSource) *RewardsApiClient {
	client := &RewardsApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
	client.SetTokenSource(tokens)
	return client
}

// postJSON marshals payload and issues an authenticated POST.
func (c *RewardsApiClient) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.AuthPost(ctx, endpoint, bytes.NewReader(body))
}

// putJSON marshals payload and issues an authenticated PUT.
func (c *RewardsApiClient) putJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.AuthPut(ctx, endpoint, bytes.NewReader(body))
}
