package widget

import "github.com/Veraticus/habit-tasks/internal/model"

// BuildCards turns suggestion items into cards badged 1..n, each carrying the
// feedback events for its thumbs-up and thumbs-down controls.
func BuildCards(items []string, habits string) []model.Card {
	cards := make([]model.Card, 0, len(items))
	for i, text := range items {
		cards = append(cards, model.Card{
			Ordinal: i + 1,
			Text:    text,
			Habits:  habits,
			Up:      model.FeedbackEvent{Habits: habits, Task: text, Rating: model.RatingUp},
			Down:    model.FeedbackEvent{Habits: habits, Task: text, Rating: model.RatingDown},
		})
	}
	return cards
}
