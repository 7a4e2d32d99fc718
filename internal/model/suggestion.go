// Package model defines the core domain models used throughout the application.
package model

import "strings"

// Suggestion is a single task recommendation returned by the suggestion service.
type Suggestion = string

// NormalizeHabits trims the raw habits text entered by the user.
func NormalizeHabits(raw string) string {
	return strings.TrimSpace(raw)
}

// Card is one rendered suggestion with its feedback controls already wired.
type Card struct {
	Text    string
	Habits  string
	Up      FeedbackEvent
	Down    FeedbackEvent
	Ordinal int
}

// SuggestRequest is the body posted to the suggest endpoint.
type SuggestRequest struct {
	Habits string `json:"habits"`
}

// SuggestResponse is the body returned by the suggest endpoint.
type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Items returns the suggestions, treating an absent field as an empty list.
func (r SuggestResponse) Items() []string {
	if r.Suggestions == nil {
		return []string{}
	}
	return r.Suggestions
}
