package models

// Task is a coin-earning action (follow, share, install and so on)
// published by an admin.
type Task struct {
	TaskID      string   `json:"task_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Link        string   `json:"link"`
	Reward      int64    `json:"reward"`
	CreatedAt   FlexTime `json:"created_at"`
}
