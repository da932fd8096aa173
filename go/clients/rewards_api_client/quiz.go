package rewards_api_client

import (
	"context"
	"net/url"

	"github.com/coinbazaar/coinbazaar/go/internal/envelope"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// QuizPayload is the admin body for creating or updating an emoji
// question.
type QuizPayload struct {
	Emoji   string   `json:"emoji"`
	Answer  string   `json:"answer"`
	Options []string `json:"options"`
	Reward  int64    `json:"reward"`
}

// QuizQuestions lists every question with its answer (admin only).
func (c *RewardsApiClient) QuizQuestions(ctx context.Context) ([]models.QuizEntry, error) {
	body, err := c.AuthGet(ctx, QuizAllEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.QuizEntry](body), nil
}

// CreateQuizQuestion publishes a question (admin only).
func (c *RewardsApiClient) CreateQuizQuestion(ctx context.Context, p QuizPayload) (envelope.Ack, error) {
	body, err := c.postJSON(ctx, QuizCreateEndpoint, p)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// UpdateQuizQuestion replaces a question (admin only).
func (c *RewardsApiClient) UpdateQuizQuestion(ctx context.Context, id string, p QuizPayload) (envelope.Ack, error) {
	body, err := c.putJSON(ctx, QuizManageEndpoint+"/"+url.PathEscape(id), p)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// DeleteQuizQuestion removes a question (admin only).
func (c *RewardsApiClient) DeleteQuizQuestion(ctx context.Context, id string) (envelope.Ack, error) {
	body, err := c.AuthDelete(ctx, QuizManageEndpoint+"/"+url.PathEscape(id))
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}
