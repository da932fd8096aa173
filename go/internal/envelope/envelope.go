// Package envelope normalizes the backend's inconsistent response shapes.
// List endpoints return either a bare JSON array or a wrapper object with
// the array under one of several field names; mutation endpoints return an
// acknowledgement with an optional human-readable message.
package envelope

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// listKeys are the wrapper fields seen across the backend, in the order
// they are tried.
var listKeys = []string{"products", "list", "data", "orders", "tasks", "bets"}

// rawList extracts the raw array from a response body. A bare array wins;
// otherwise the known wrapper keys are tried in order. Anything else
// normalizes to an empty list rather than an error.
func rawList(body []byte) []json.RawMessage {
	var bare []json.RawMessage
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		log.Warn().Int("bytes", len(body)).Msg("list response is neither array nor object")
		return nil
	}
	for _, key := range listKeys {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(inner, &items); err == nil {
			return items
		}
	}
	return nil
}

// List decodes a list response into typed entities. Entries that fail to
// decode are skipped with a warning so one malformed record cannot blank
// an entire view.
func List[T any](body []byte) []T {
	raw := rawList(body)
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			log.Warn().Err(err).Msg("skipping undecodable list entry")
			continue
		}
		out = append(out, v)
	}
	return out
}

// Ack is the acknowledgement shape returned by mutation endpoints.
type Ack struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// OK reports whether the acknowledgement indicates success. An absent
// success flag counts as success since many endpoints only send a message.
func (a Ack) OK() bool {
	return a.Success == nil || *a.Success
}

// DecodeAck parses a mutation response. Undecodable bodies yield an empty
// Ack, which reads as success with no message.
func DecodeAck(body []byte) Ack {
	var a Ack
	if len(body) == 0 {
		return a
	}
	if err := json.Unmarshal(body, &a); err != nil {
		log.Warn().Err(err).Msg("mutation response was not an acknowledgement object")
	}
	return a
}
