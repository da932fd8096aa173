// Package notify is the transient user-feedback channel: every failure in
// the app degrades to a notification here, never to a crash.
package notify

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Notifier receives user-visible transient notifications (the toast layer
// in the web client).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the structured log. Used by the CLI
// wiring where there is no toast surface.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) {
	log.Info().Str("toast", "success").Msg(msg)
}

func (LogNotifier) Error(msg string) {
	log.Warn().Str("toast", "error").Msg(msg)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, msg)
}

// LastError returns the most recent error notification, or "".
func (r *Recorder) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[len(r.Errors)-1]
}
