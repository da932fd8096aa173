package rewards_api_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coinbazaar/coinbazaar/go/internal/envelope"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// RedeemGift exchanges a gift code for coins.
func (c *RewardsApiClient) RedeemGift(ctx context.Context, code string) (envelope.Ack, error) {
	payload := struct {
		Code string `json:"code"`
	}{Code: code}

	body, err := c.postJSON(ctx, GiftRedeemEndpoint, payload)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// CreateGiftCode mints a new gift code worth the given coins (admin only).
func (c *RewardsApiClient) CreateGiftCode(ctx context.Context, coins int64) (*models.GiftCode, error) {
	payload := struct {
		Coins int64 `json:"coins"`
	}{Coins: coins}

	body, err := c.postJSON(ctx, GiftCreateEndpoint, payload)
	if err != nil {
		return nil, err
	}

	var code models.GiftCode
	if err := json.Unmarshal(body, &code); err != nil {
		return nil, fmt.Errorf("failed to decode gift code: %w", err)
	}
	return &code, nil
}

// AdStats fetches today's rewarded-ad progress.
func (c *RewardsApiClient) AdStats(ctx context.Context) (*models.AdStats, error) {
	body, err := c.AuthGet(ctx, AdStatsEndpoint)
	if err != nil {
		return nil, err
	}

	var stats models.AdStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode ad stats: %w", err)
	}
	return &stats, nil
}

// WatchAd reports a rewarded-ad view; the coin grant lands server side
// after the reward delay.
func (c *RewardsApiClient) WatchAd(ctx context.Context) (envelope.Ack, error) {
	body, err := c.postJSON(ctx, WatchAdEndpoint, struct{}{})
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// Spin plays one lucky spin; the outcome is entirely server-decided.
func (c *RewardsApiClient) Spin(ctx context.Context) (*models.SpinResult, error) {
	body, err := c.postJSON(ctx, SpinEndpoint, struct{}{})
	if err != nil {
		return nil, err
	}

	var result models.SpinResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode spin result: %w", err)
	}
	return &result, nil
}

// NextQuestions fetches the user's next emoji quiz batch.
func (c *RewardsApiClient) NextQuestions(ctx context.Context) ([]models.QuizQuestion, error) {
	body, err := c.AuthGet(ctx, QuizNextEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.QuizQuestion](body), nil
}

// AnswerQuestion submits a quiz answer and returns the server verdict.
func (c *RewardsApiClient) AnswerQuestion(ctx context.Context, questionID, answer string) (*models.QuizAnswer, error) {
	payload := struct {
		QuestionID string `json:"question_id"`
		Answer     string `json:"answer"`
	}{QuestionID: questionID, Answer: answer}

	body, err := c.postJSON(ctx, QuizAnswerEndpoint, payload)
	if err != nil {
		return nil, err
	}

	var verdict models.QuizAnswer
	if err := json.Unmarshal(body, &verdict); err != nil {
		return nil, fmt.Errorf("failed to decode quiz verdict: %w", err)
	}
	return &verdict, nil
}
