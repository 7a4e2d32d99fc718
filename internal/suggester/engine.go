package suggester

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/Veraticus/habit-tasks/internal/model"
)

// Scoring weights.
const (
	coverageWeight = 0.6
	overlapWeight  = 0.3
	learnedWeight  = 0.1
)

const (
	// DefaultK is the number of suggestions returned when none is requested.
	DefaultK = 5
	// PruneEvery is how many feedback events pass between prunes.
	PruneEvery = 25
	// PruneThreshold is the weight at or below which learned edges are dropped.
	PruneThreshold = -3.0
)

// StarterPack is returned when the habits text has no usable words.
var StarterPack = []string{
	"Schedule 25 minutes for focused work (Pomodoro)",
	"Plan today in 3 bullets (must/should/nice-to-have)",
	"Tidy your workspace for 5 minutes",
	"Walk for 10–15 minutes outside",
	"Inbox zero sweep: archive or reply to 5 emails",
}

// genericPool is always in the candidate set.
var genericPool = []string{
	"Plan your top 3 priorities for today",
	"Do a 10-minute stretch or mobility routine",
	"Drink a glass of water and refill your bottle",
	"Declutter one small area (desk, downloads folder)",
	"Review calendar & block focus time",
}

// Engine produces ranked task suggestions and learns from feedback.
type Engine struct {
	store Store
	rules Rules
	mu    sync.Mutex
}

// New creates an engine over the given rules and association store.
func New(rules Rules, store Store) *Engine {
	if rules == nil {
		rules = Rules{}
	}
	return &Engine{rules: rules, store: store}
}

type scoredTask struct {
	task  string
	score float64
}

// Suggest returns up to k tasks for the habits text, best first.
func (e *Engine) Suggest(ctx context.Context, habits string, k int) ([]string, error) {
	if k <= 0 {
		k = DefaultK
	}

	tokens := Tokenize(habits)
	if len(tokens) == 0 {
		return append([]string(nil), StarterPack...), nil
	}
	habitSet := tokenSet(tokens)

	contributions := make(map[string]map[string]struct{})
	learned := make(map[string]float64)
	contribute := func(task, token string) {
		set, ok := contributions[task]
		if !ok {
			set = make(map[string]struct{})
			contributions[task] = set
		}
		if token != "" {
			set[token] = struct{}{}
		}
	}

	for kw, tasks := range e.rules {
		if !ruleMatches(kw, habitSet) {
			continue
		}
		for _, task := range tasks {
			contribute(task, kw)
		}
	}

	assoc, err := e.store.Associations(ctx, sortedKeys(habitSet))
	if err != nil {
		return nil, fmt.Errorf("failed to load learned associations: %w", err)
	}
	for tok, tasks := range assoc {
		if _, ok := habitSet[tok]; !ok {
			continue
		}
		for task, weight := range tasks {
			contribute(task, tok)
			learned[task] += weight
		}
	}

	for _, g := range genericPool {
		contribute(g, "")
	}

	scored := make([]scoredTask, 0, len(contributions))
	for task, toks := range contributions {
		scored = append(scored, scoredTask{
			task:  task,
			score: score(habitSet, task, len(toks), learned[task]),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].task > scored[j].task
	})

	seen := make(map[string]struct{})
	results := make([]string, 0, k)
	for _, s := range scored {
		key := strings.ToLower(strings.TrimSpace(s.task))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, s.task)
		if len(results) >= k {
			break
		}
	}

	slog.Debug("Generated suggestions",
		"tokens", len(habitSet),
		"candidates", len(scored),
		"returned", len(results))

	return results, nil
}

// RecordFeedback strengthens or weakens the association between every word
// of habits and task. Ratings are normalised to ±1. Every PruneEvery events
// strongly negative associations are dropped.
func (e *Engine) RecordFeedback(ctx context.Context, habits, task string, rating model.Rating) (bool, error) {
	if strings.TrimSpace(task) == "" {
		return false, common.ErrEmptyTask
	}

	event := model.FeedbackEvent{
		Habits: habits,
		Task:   task,
		Rating: rating.Normalize(),
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	seen, err := e.store.ApplyFeedback(ctx, UniqueTokens(habits), event)
	if err != nil {
		return false, fmt.Errorf("failed to record feedback: %w", err)
	}

	if seen%PruneEvery == 0 {
		removed, pruneErr := e.store.Prune(ctx, PruneThreshold)
		if pruneErr != nil {
			return false, fmt.Errorf("failed to prune associations: %w", pruneErr)
		}
		slog.Info("Pruned learned associations", "removed", removed, "seen", seen)
	}

	return true, nil
}

// Stats reports what the engine has learned.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	return e.store.Stats(ctx)
}

// Rules returns the seed rules in use.
func (e *Engine) Rules() Rules {
	return e.rules
}

func ruleMatches(kw string, tokens map[string]struct{}) bool {
	if _, ok := tokens[kw]; ok {
		return true
	}
	for t := range tokens {
		if strings.HasPrefix(t, kw) || strings.HasPrefix(kw, t) {
			return true
		}
	}
	return false
}

func score(habitSet map[string]struct{}, task string, coverage int, weight float64) float64 {
	overlap := Jaccard(habitSet, tokenSet(Tokenize(task)))
	return coverageWeight*float64(coverage) + overlapWeight*overlap + learnedWeight*weight
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
