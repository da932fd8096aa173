package rewards_api_client

import (
	"context"
	"net/url"

	"github.com/coinbazaar/coinbazaar/go/internal/envelope"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// BetItemPayload is the admin body for creating a time-boxed bet item.
type BetItemPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	CoinPrice   int64   `json:"coin_price"`
	MainPrice   float64 `json:"main_price"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
}

// BetItems lists the open bet items with their bidding windows.
func (c *RewardsApiClient) BetItems(ctx context.Context) ([]models.BetItem, error) {
	body, err := c.Get(ctx, BetItemsEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.BetItem](body), nil
}

// CreateBetItem adds a bet item (admin only).
func (c *RewardsApiClient) CreateBetItem(ctx context.Context, p BetItemPayload) (envelope.Ack, error) {
	body, err := c.postJSON(ctx, BetItemsEndpoint, p)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// DeleteBetItem removes a bet item (admin only).
func (c *RewardsApiClient) DeleteBetItem(ctx context.Context, id string) (envelope.Ack, error) {
	body, err := c.AuthDelete(ctx, BetItemsEndpoint+"/"+url.PathEscape(id))
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// PlaceBet stakes coins on a bet item for the signed-in user.
func (c *RewardsApiClient) PlaceBet(ctx context.Context, itemID string) (envelope.Ack, error) {
	payload := struct {
		ItemID string `json:"item_id"`
	}{ItemID: itemID}

	body, err := c.postJSON(ctx, BetPlaceEndpoint, payload)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// ResolveBet draws a winner for a bet item and closes it (admin only).
func (c *RewardsApiClient) ResolveBet(ctx context.Context, itemID string) (envelope.Ack, error) {
	body, err := c.postJSON(ctx, BetResolveEndpoint+"/"+url.PathEscape(itemID), struct{}{})
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// MyBets lists the signed-in user's bets.
func (c *RewardsApiClient) MyBets(ctx context.Context) ([]models.Bet, error) {
	body, err := c.AuthGet(ctx, MyBetsEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.Bet](body), nil
}

// Bets lists every placed bet (admin only).
func (c *RewardsApiClient) Bets(ctx context.Context) ([]models.Bet, error) {
	body, err := c.AuthGet(ctx, BetsAllEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.Bet](body), nil
}

// Winners lists recent resolved winners for the announcement ticker.
func (c *RewardsApiClient) Winners(ctx context.Context) ([]models.WinnerAnnouncement, error) {
	body, err := c.Get(ctx, BetWinnersEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.WinnerAnnouncement](body), nil
}
