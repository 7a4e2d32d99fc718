package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/Veraticus/habit-tasks/internal/model"
)

var errMalformedBody = errors.New("malformed JSON body")

type suggestBody struct {
	Habits string `json:"habits"`
}

type feedbackBody struct {
	Habits string          `json:"habits"`
	Task   string          `json:"task"`
	Rating json.RawMessage `json:"rating"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var body suggestBody
	if err := decodeBody(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	items, err := s.engine.Suggest(r.Context(), body.Habits, s.k)
	s.metrics.suggestLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Failed to rank suggestions", "error", err, "habits", body.Habits)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to generate suggestions"})
		return
	}

	resp := model.SuggestResponse{Suggestions: items}
	resp.Suggestions = resp.Items()
	s.metrics.suggestionsSent.Observe(float64(len(resp.Suggestions)))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var body feedbackBody
	if err := decodeBody(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, model.FeedbackResponse{OK: false})
		return
	}

	rating, err := parseRating(body.Rating)
	if err != nil {
		s.logger.Debug("Rejected feedback rating", "error", err)
		writeJSON(w, http.StatusBadRequest, model.FeedbackResponse{OK: false})
		return
	}

	normalized := rating.Normalize()
	ok, err := s.engine.RecordFeedback(r.Context(), body.Habits, body.Task, rating)
	switch {
	case errors.Is(err, common.ErrEmptyTask):
		writeJSON(w, http.StatusBadRequest, model.FeedbackResponse{OK: false})
		return
	case err != nil:
		s.logger.Error("Failed to record feedback", "error", err, "task", body.Task)
		writeJSON(w, http.StatusInternalServerError, model.FeedbackResponse{OK: false})
		return
	}

	s.metrics.feedback.WithLabelValues(normalized.String()).Inc()
	writeJSON(w, http.StatusOK, model.FeedbackResponse{OK: ok})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody treats an empty body or a JSON null as an empty object.
// The Content-Type header is not checked.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errMalformedBody
	}
	return nil
}

// parseRating accepts a JSON number or a numeric string. Fractions are truncated
// toward zero and a missing rating reads as 0.
func parseRating(raw json.RawMessage) (model.Rating, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return truncRating(num)
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, fmt.Errorf("%w: %s", common.ErrInvalidRating, raw)
	}
	n, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidRating, str)
	}
	return model.Rating(n), nil
}

func truncRating(num float64) (model.Rating, error) {
	if math.IsNaN(num) || math.IsInf(num, 0) || math.Abs(num) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidRating, num)
	}
	return model.Rating(int(num)), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
