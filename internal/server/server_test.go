package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/Veraticus/habit-tasks/internal/model"
	"github.com/Veraticus/habit-tasks/internal/storage"
	"github.com/Veraticus/habit-tasks/internal/suggester"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuggester struct {
	suggestErr  error
	feedbackErr error
	habits      string
	events      []model.FeedbackEvent
	items       []string
	k           int
}

func (f *fakeSuggester) Suggest(_ context.Context, habits string, k int) ([]string, error) {
	f.habits = habits
	f.k = k
	return f.items, f.suggestErr
}

func (f *fakeSuggester) RecordFeedback(_ context.Context, habits, task string, rating model.Rating) (bool, error) {
	if f.feedbackErr != nil {
		return false, f.feedbackErr
	}
	if strings.TrimSpace(task) == "" {
		return false, common.ErrEmptyTask
	}
	f.events = append(f.events, model.FeedbackEvent{Habits: habits, Task: task, Rating: rating})
	return true, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSuggest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		items      []string
		wantStatus int
		wantBody   string
		wantHabits string
	}{
		{
			name:       "returns suggestions",
			body:       `{"habits":"sleep earlier"}`,
			items:      []string{"Dim lights", "Read 10 pages"},
			wantStatus: http.StatusOK,
			wantBody:   `{"suggestions":["Dim lights","Read 10 pages"]}`,
			wantHabits: "sleep earlier",
		},
		{
			name:       "nil result encodes as empty array",
			body:       `{"habits":"x"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"suggestions":[]}`,
			wantHabits: "x",
		},
		{
			name:       "empty body reads as empty object",
			body:       ``,
			items:      []string{"Drink water"},
			wantStatus: http.StatusOK,
			wantBody:   `{"suggestions":["Drink water"]}`,
		},
		{
			name:       "null body reads as empty object",
			body:       `null`,
			items:      []string{"Drink water"},
			wantStatus: http.StatusOK,
			wantBody:   `{"suggestions":["Drink water"]}`,
		},
		{
			name:       "malformed body",
			body:       `{"habits":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"malformed JSON body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeSuggester{items: tt.items}
			srv := New(engine, WithK(3), WithLogger(quietLogger()))

			rec := do(t, srv.Handler(), http.MethodPost, "/suggest", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantHabits, engine.habits)
				assert.Equal(t, 3, engine.k)
			}
		})
	}
}

func TestHandleSuggest_EngineError(t *testing.T) {
	srv := New(&fakeSuggester{suggestErr: errors.New("disk gone")}, WithLogger(quietLogger()))
	rec := do(t, srv.Handler(), http.MethodPost, "/suggest", `{"habits":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleFeedback(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantOK     bool
		wantRating model.Rating
	}{
		{name: "thumbs up", body: `{"habits":"h","task":"t","rating":1}`, wantStatus: http.StatusOK, wantOK: true, wantRating: 1},
		{name: "thumbs down", body: `{"habits":"h","task":"t","rating":-1}`, wantStatus: http.StatusOK, wantOK: true, wantRating: -1},
		{name: "numeric string", body: `{"habits":"h","task":"t","rating":"1"}`, wantStatus: http.StatusOK, wantOK: true, wantRating: 1},
		{name: "fraction truncates", body: `{"habits":"h","task":"t","rating":2.7}`, wantStatus: http.StatusOK, wantOK: true, wantRating: 2},
		{name: "missing rating", body: `{"habits":"h","task":"t"}`, wantStatus: http.StatusOK, wantOK: true, wantRating: 0},
		{name: "non-numeric rating", body: `{"habits":"h","task":"t","rating":"great"}`, wantStatus: http.StatusBadRequest},
		{name: "boolean rating", body: `{"habits":"h","task":"t","rating":true}`, wantStatus: http.StatusBadRequest},
		{name: "empty task", body: `{"habits":"h","task":"  ","rating":1}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{"task":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeSuggester{}
			srv := New(engine, WithLogger(quietLogger()))

			rec := do(t, srv.Handler(), http.MethodPost, "/feedback", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantOK {
				assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
				require.Len(t, engine.events, 1)
				assert.Equal(t, tt.wantRating, engine.events[0].Rating)
			} else {
				assert.JSONEq(t, `{"ok":false}`, rec.Body.String())
				assert.Empty(t, engine.events)
			}
		})
	}
}

func TestHandleFeedback_StorageFailure(t *testing.T) {
	srv := New(&fakeSuggester{feedbackErr: errors.New("locked")}, WithLogger(quietLogger()))
	rec := do(t, srv.Handler(), http.MethodPost, "/feedback", `{"habits":"h","task":"t","rating":1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"ok":false}`, rec.Body.String())
}

func TestHealthzAndMetrics(t *testing.T) {
	srv := New(&fakeSuggester{items: []string{"a"}}, WithLogger(quietLogger()))
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	do(t, h, http.MethodPost, "/suggest", `{"habits":"a"}`)
	do(t, h, http.MethodPost, "/feedback", `{"habits":"a","task":"a","rating":1}`)
	do(t, h, http.MethodPost, "/feedback", `{"habits":"a","task":"a","rating":-1}`)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `habits_http_requests_total{code="200",route="/suggest"} 1`)
	assert.Contains(t, body, `habits_feedback_total{rating="up"} 1`)
	assert.Contains(t, body, `habits_feedback_total{rating="down"} 1`)
	assert.Contains(t, body, "habits_suggest_duration_seconds_count 1")
}

func TestMetricsAreScopedPerServer(t *testing.T) {
	assert.NotPanics(t, func() {
		New(&fakeSuggester{})
		New(&fakeSuggester{})
	})
}

func TestCORS(t *testing.T) {
	srv := New(&fakeSuggester{}, WithCORSOrigins([]string{"https://habits.example"}), WithLogger(quietLogger()))
	h := srv.Handler()

	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{name: "allowed origin", origin: "https://habits.example", want: "https://habits.example"},
		{name: "other origin", origin: "https://evil.example", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/suggest", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			// Browsers send preflight header names lowercased.
			req.Header.Set("Access-Control-Request-Headers", "content-type")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServerWithEngine(t *testing.T) {
	store, err := storage.NewFileStore(afero.NewMemMapFs(), "/learned.json")
	require.NoError(t, err)
	engine := suggester.New(suggester.Rules{"water": {"Drink a glass of water"}}, store)
	h := New(engine, WithLogger(quietLogger())).Handler()

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodPost, "/feedback", `{"habits":"water","task":"Refill your bottle","rating":1}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/suggest", `{"habits":"water"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Refill your bottle")
	assert.Contains(t, rec.Body.String(), "Drink a glass of water")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(&fakeSuggester{items: []string{"a"}}, WithLogger(quietLogger()))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Post("http://"+ln.Addr().String()+"/suggest", "application/json", strings.NewReader(`{"habits":"a"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
