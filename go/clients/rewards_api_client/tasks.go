package rewards_api_client

import (
	"context"
	"net/url"

	"github.com/coinbazaar/coinbazaar/go/internal/envelope"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// TaskPayload is the admin body for publishing a coin-earning task.
type TaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Link        string `json:"link"`
	Reward      int64  `json:"reward"`
}

// Tasks lists every published task (admin only).
func (c *RewardsApiClient) Tasks(ctx context.Context) ([]models.Task, error) {
	body, err := c.AuthGet(ctx, TaskAllEndpoint)
	if err != nil {
		return nil, err
	}
	return envelope.List[models.Task](body), nil
}

// AvailableTasks lists tasks of one type the user has not completed yet.
func (c *RewardsApiClient) AvailableTasks(ctx context.Context, taskType string) ([]models.Task, error) {
	body, err := c.AuthGet(ctx, TaskAvailableEndpoint+"/"+url.PathEscape(taskType))
	if err != nil {
		return nil, err
	}
	return envelope.List[models.Task](body), nil
}

// CompleteTask claims a task's reward for the signed-in user.
func (c *RewardsApiClient) CompleteTask(ctx context.Context, taskID string) (envelope.Ack, error) {
	payload := struct {
		TaskID string `json:"task_id"`
	}{TaskID: taskID}

	body, err := c.postJSON(ctx, TaskCompleteEndpoint, payload)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// CreateTask publishes a task (admin only).
func (c *RewardsApiClient) CreateTask(ctx context.Context, p TaskPayload) (envelope.Ack, error) {
	body, err := c.postJSON(ctx, TaskCreateEndpoint, p)
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}

// DeleteTask removes a task (admin only).
func (c *RewardsApiClient) DeleteTask(ctx context.Context, taskID string) (envelope.Ack, error) {
	body, err := c.AuthDelete(ctx, TaskCreateEndpoint+"/"+url.PathEscape(taskID))
	if err != nil {
		return envelope.Ack{}, err
	}
	return envelope.DecodeAck(body), nil
}
