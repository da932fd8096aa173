package rewards_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/coinbazaar/coinbazaar/go/internal/envelope"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

type credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and returns the session. The caller is responsible
// for persisting session.Token into the token store.
func (c *RewardsApiClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return c.authenticate(ctx, LoginEndpoint, credentials{Email: email, Password: password})
}

// Signup registers a new account and returns its session.
func (c *RewardsApiClient) Signup(ctx context.Context, username, email, password string) (*models.Session, error) {
	return c.authenticate(ctx, SignupEndpoint, credentials{Username: username, Email: email, Password: password})
}

func (c *RewardsApiClient) authenticate(ctx context.Context, endpoint string, creds credentials) (*models.Session, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	body, err := c.Post(ctx, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &session, nil
}

// Profile fetches the signed-in user's account, including balances.
func (c *RewardsApiClient) Profile(ctx context.Context) (*models.User, error) {
	body, err := c.AuthGet(ctx, ProfileEndpoint)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &user, nil
}

// Users lists all accounts (admin only).
func (c *RewardsApiClient) Users(ctx context.Context) ([]models.User, error) {
	body, err := c.AuthGet(ctx, UsersEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.User](body), nil
}
