package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/exalaa/candidate-client/internal/client/models"
	"github.com/exalaa/candidate-client/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok-123"

// fakeBackend is an in-memory imitation of the platform API.
type fakeBackend struct {
	mu        sync.Mutex
	answers   map[string]answerDTO
	lastAuth  string
	lastReqID string
	lastBody  map[string]any
}

func newFakeBackend(t *testing.T) (*fakeBackend, *HTTPClient) {
	t.Helper()
	fb := &fakeBackend{answers: map[string]answerDTO{}}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(fb.capture)
	api.HandleFunc("/auth/request-code", func(w http.ResponseWriter, _ *http.Request) {
		if fb.lastBody["email"] == "bad" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"detail": []map[string]string{{"msg": "value is not a valid email address"}},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
	}).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-code", func(w http.ResponseWriter, _ *http.Request) {
		if fb.lastBody["code"] != "123456" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid or expired code"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": testToken,
			"token_type":   "bearer",
			"user": map[string]any{
				"id":            "9b2f7a4e-8a0e-4c55-9a53-3b9c1a5d2e10",
				"email":         fb.lastBody["email"],
				"full_name":     nil,
				"created_at":    "2025-03-01T10:00:00.123456",
				"last_login_at": "2025-03-10T08:00:00Z",
			},
		})
	}).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(requireToken)
	authed.HandleFunc("/users/me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "9b2f7a4e-8a0e-4c55-9a53-3b9c1a5d2e10", "email": "dev@exalaa.io",
			"full_name": "Dev", "is_verified": true, "is_admin": false,
			"created_at": "2025-03-01T10:00:00", "last_login_at": nil,
		})
	}).Methods(http.MethodGet)
	authed.HandleFunc("/users/me/dashboard", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"last_executor_status": "idle", "pending_jobs": 2, "last_language": "typescript",
			"recent_actions": []string{"Lint checks passed"},
		})
	}).Methods(http.MethodGet)
	authed.HandleFunc("/applications/my", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{
				"id": 7, "status": "algo_test_completed", "ml_score": 0.82,
				"vacancy":    map[string]any{"id": 3, "title": "Go developer", "language": "go"},
				"created_at": "2025-03-10T09:00:00Z", "updated_at": "2025-03-10T09:30:00Z",
				"started_at": "2025-03-10T09:00:00Z", "completed_at": "2025-03-10T09:18:00Z",
				"time_limit_minutes": 30,
			},
			{
				"id": "a-8", "status": "mystery", "ml_score": nil, "vacancy": nil,
				"created_at": "2025-03-10T09:00:00Z", "updated_at": "2025-03-10T09:00:00Z",
				"started_at": nil, "completed_at": nil, "time_limit_minutes": 45,
			},
		})
	}).Methods(http.MethodGet)
	authed.HandleFunc("/survey/questions", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "text": "Why us?"}, {"id": 2, "text": "Stack?"}})
	}).Methods(http.MethodGet)
	authed.HandleFunc("/survey/answers/my", func(w http.ResponseWriter, _ *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		out := make([]answerDTO, 0, len(fb.answers))
		for _, a := range fb.answers {
			out = append(out, a)
		}
		writeJSON(w, http.StatusOK, out)
	}).Methods(http.MethodGet)
	authed.HandleFunc("/survey/answers/{question_id}", func(w http.ResponseWriter, r *http.Request) {
		qid := mux.Vars(r)["question_id"]
		fb.mu.Lock()
		a, ok := fb.answers[qid]
		if !ok {
			a = answerDTO{ID: flexID("ans-" + qid), QuestionID: flexID(qid)}
		}
		a.Text, _ = fb.lastBody["text"].(string)
		fb.answers[qid] = a
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, a)
	}).Methods(http.MethodPut)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return fb, NewHTTPClient(srv.URL, "api/v1/", 2*time.Second, logging.NewNop())
}

func (fb *fakeBackend) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.lastAuth = r.Header.Get(headerAuthorization)
		fb.lastReqID = r.Header.Get(headerRequestID)
		fb.lastBody = nil
		if r.Body != nil {
			b, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(b, &fb.lastBody)
		}
		fb.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerAuthorization) != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestHTTPClient_RequestCode(t *testing.T) {
	fb, c := newFakeBackend(t)
	name := "Anna"

	require.NoError(t, c.RequestCode(context.Background(), "anna@exalaa.io", &name))
	assert.Equal(t, "anna@exalaa.io", fb.lastBody["email"])
	assert.Equal(t, "Anna", fb.lastBody["full_name"])
	_, err := uuid.Parse(fb.lastReqID)
	assert.NoError(t, err, "request id must be a uuid")

	require.NoError(t, c.RequestCode(context.Background(), "anna@exalaa.io", nil))
	_, present := fb.lastBody["full_name"]
	assert.False(t, present, "full_name omitted when nil")
}

func TestHTTPClient_RequestCode_ValidationError(t *testing.T) {
	_, c := newFakeBackend(t)

	err := c.RequestCode(context.Background(), "bad", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "value is not a valid email address", apiErr.Detail)
}

func TestHTTPClient_VerifyCode(t *testing.T) {
	_, c := newFakeBackend(t)

	res, err := c.VerifyCode(context.Background(), "anna@exalaa.io", "123456")
	require.NoError(t, err)
	assert.Equal(t, testToken, res.Token)
	assert.Equal(t, "anna@exalaa.io", res.Profile.Email)
	assert.Nil(t, res.Profile.FullName)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC), res.Profile.CreatedAt)
	require.NotNil(t, res.Profile.LastLoginAt)

	_, err = c.VerifyCode(context.Background(), "anna@exalaa.io", "000000")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid or expired code", apiErr.Detail)
}

func TestHTTPClient_ProfileAndDashboard(t *testing.T) {
	fb, c := newFakeBackend(t)
	ctx := context.Background()

	p, err := c.GetProfile(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+testToken, fb.lastAuth)
	assert.Equal(t, "Dev", p.DisplayName())
	assert.True(t, p.IsVerified)
	assert.Nil(t, p.LastLoginAt)

	d, err := c.GetDashboard(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardSnapshot{
		LastExecutorStatus: "idle", PendingJobs: 2, LastLanguage: "typescript",
		RecentActions: []string{"Lint checks passed"},
	}, d)
}

func TestHTTPClient_Unauthorized(t *testing.T) {
	_, c := newFakeBackend(t)

	_, err := c.GetDashboard(context.Background(), "stale")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Could not validate credentials")

	_, err = c.ListMyApplications(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPClient_ListMyApplications(t *testing.T) {
	_, c := newFakeBackend(t)

	apps, err := c.ListMyApplications(context.Background(), testToken)
	require.NoError(t, err)
	require.Len(t, apps, 2)

	first := apps[0]
	assert.Equal(t, "7", first.ID)
	assert.Equal(t, models.StatusAlgoTestCompleted, first.Status.Status)
	require.NotNil(t, first.MLScore)
	assert.InDelta(t, 0.82, *first.MLScore, 1e-9)
	require.NotNil(t, first.Vacancy)
	assert.Equal(t, "3", first.Vacancy.ID)
	assert.Equal(t, "Go developer", first.Title())
	require.NotNil(t, first.StartedAt)
	require.NotNil(t, first.CompletedAt)
	assert.Equal(t, 18*time.Minute, first.CompletedAt.Sub(*first.StartedAt))

	second := apps[1]
	assert.Equal(t, "a-8", second.ID)
	assert.False(t, second.Status.Known())
	assert.Equal(t, "mystery", second.Status.Label())
	assert.Nil(t, second.Vacancy)
	assert.Nil(t, second.StartedAt)
	assert.Nil(t, second.MLScore)
}

func TestHTTPClient_SurveyRoundTrip_UpsertIsIdempotent(t *testing.T) {
	_, c := newFakeBackend(t)
	ctx := context.Background()

	qs, err := c.ListQuestions(ctx, testToken)
	require.NoError(t, err)
	require.Equal(t, []models.Question{{ID: "1", Text: "Why us?"}, {ID: "2", Text: "Stack?"}}, qs)

	first, err := c.SubmitAnswer(ctx, testToken, "1", "Because")
	require.NoError(t, err)
	second, err := c.SubmitAnswer(ctx, testToken, "1", "Because")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	answers, err := c.ListMyAnswers(ctx, testToken)
	require.NoError(t, err)
	require.Len(t, answers, 1, "same question twice is one logical answer")
	assert.Equal(t, models.Answer{ID: "ans-1", QuestionID: "1", Text: "Because"}, answers[0])
}

func TestHTTPClient_Ping(t *testing.T) {
	_, c := newFakeBackend(t)
	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Close())
}

func TestHTTPClient_ServerErrorsAndOutages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	c := NewHTTPClient(srv.URL, "/api/v1", time.Second, logging.NewNop())

	_, err := c.GetProfile(context.Background(), testToken)
	require.ErrorIs(t, err, ErrUnavailable)

	srv.Close()
	_, err = c.GetProfile(context.Background(), testToken)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_CancelledContextIsNotAnOutage(t *testing.T) {
	_, c := newFakeBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetProfile(ctx, testToken)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestMapStatus(t *testing.T) {
	assert.ErrorIs(t, mapStatus(http.StatusForbidden, nil), ErrUnauthorized)
	assert.ErrorIs(t, mapStatus(http.StatusServiceUnavailable, []byte("down")), ErrUnavailable)

	var apiErr *APIError
	require.ErrorAs(t, mapStatus(http.StatusNotFound, []byte("plain text")), &apiErr)
	assert.Equal(t, "plain text", apiErr.Detail)
	assert.Equal(t, "api error: status 404: plain text", apiErr.Error())
}
