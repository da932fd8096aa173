package models

// AdStats reports today's rewarded-ad progress for the signed-in user.
type AdStats struct {
	AdsWatchedToday int `json:"adsWatchedToday"`
	MaxPerDay       int `json:"maxPerDay"`
	RewardPerAd     int `json:"rewardPerAd"`
}

// SpinResult is the server-decided outcome of a lucky spin. The client
// only animates toward the returned segment.
type SpinResult struct {
	Success     bool   `json:"success"`
	Reward      int64  `json:"reward"`
	CoinBalance int64  `json:"coin_balance"`
	Message     string `json:"message"`
}

// QuizQuestion is an emoji quiz entry.
type QuizQuestion struct {
	ID      string   `json:"_id"`
	Emoji   string   `json:"emoji"`
	Options []string `json:"options"`
	Reward  int64    `json:"reward"`
}

// QuizEntry is the admin view of a quiz question, answer included. The
// player-facing QuizQuestion never carries the answer.
type QuizEntry struct {
	ID      string   `json:"_id"`
	Emoji   string   `json:"emoji"`
	Answer  string   `json:"answer"`
	Options []string `json:"options"`
	Reward  int64    `json:"reward"`
}

// QuizAnswer is the server's verdict on a submitted answer.
type QuizAnswer struct {
	Correct           bool  `json:"correct"`
	Reward            int64 `json:"reward"`
	CoinBalance       int64 `json:"coin_balance"`
	AttemptsRemaining int   `json:"attempts_remaining"`
}
