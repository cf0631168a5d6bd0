package services

import (
	"context"
	"sync"

	"github.com/exalaa/candidate-client/internal/client/client"
	"github.com/exalaa/candidate-client/internal/client/models"
	"github.com/exalaa/candidate-client/internal/client/session"
)

// fakeClient implements client.Client. Each call is served by the matching
// func field; a nil field returns zero values.
type fakeClient struct {
	mu sync.Mutex

	RequestCodeFn  func(ctx context.Context, email string, fullName *string) error
	VerifyCodeFn   func(ctx context.Context, email, code string) (client.VerifyResult, error)
	GetProfileFn   func(ctx context.Context, token string) (models.UserProfile, error)
	GetDashboardFn func(ctx context.Context, token string) (models.DashboardSnapshot, error)
	ListAppsFn     func(ctx context.Context, token string) ([]models.Application, error)
	ListQFn        func(ctx context.Context, token string) ([]models.Question, error)
	ListAFn        func(ctx context.Context, token string) ([]models.Answer, error)
	SubmitFn       func(ctx context.Context, token, questionID, text string) (models.Answer, error)
	PingErr        error
	Closed         bool

	calls map[string]int
}

func (f *fakeClient) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) RequestCode(ctx context.Context, email string, fullName *string) error {
	f.count("RequestCode")
	if f.RequestCodeFn == nil {
		return nil
	}
	return f.RequestCodeFn(ctx, email, fullName)
}

func (f *fakeClient) VerifyCode(ctx context.Context, email, code string) (client.VerifyResult, error) {
	f.count("VerifyCode")
	if f.VerifyCodeFn == nil {
		return client.VerifyResult{}, nil
	}
	return f.VerifyCodeFn(ctx, email, code)
}

func (f *fakeClient) GetProfile(ctx context.Context, token string) (models.UserProfile, error) {
	f.count("GetProfile")
	if f.GetProfileFn == nil {
		return models.UserProfile{}, nil
	}
	return f.GetProfileFn(ctx, token)
}

func (f *fakeClient) GetDashboard(ctx context.Context, token string) (models.DashboardSnapshot, error) {
	f.count("GetDashboard")
	if f.GetDashboardFn == nil {
		return models.DashboardSnapshot{}, nil
	}
	return f.GetDashboardFn(ctx, token)
}

func (f *fakeClient) ListMyApplications(ctx context.Context, token string) ([]models.Application, error) {
	f.count("ListMyApplications")
	if f.ListAppsFn == nil {
		return nil, nil
	}
	return f.ListAppsFn(ctx, token)
}

func (f *fakeClient) ListQuestions(ctx context.Context, token string) ([]models.Question, error) {
	f.count("ListQuestions")
	if f.ListQFn == nil {
		return nil, nil
	}
	return f.ListQFn(ctx, token)
}

func (f *fakeClient) ListMyAnswers(ctx context.Context, token string) ([]models.Answer, error) {
	f.count("ListMyAnswers")
	if f.ListAFn == nil {
		return nil, nil
	}
	return f.ListAFn(ctx, token)
}

func (f *fakeClient) SubmitAnswer(ctx context.Context, token, questionID, text string) (models.Answer, error) {
	f.count("SubmitAnswer")
	if f.SubmitFn == nil {
		return models.Answer{QuestionID: questionID, Text: text}, nil
	}
	return f.SubmitFn(ctx, token, questionID, text)
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Close() error {
	f.Closed = true
	return nil
}

// fakeStore is an in-memory SessionStore.
type fakeStore struct {
	mu      sync.Mutex
	token   string
	email   string
	SetErr  error
	evicted []session.EvictReason
}

func (s *fakeStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeStore) Set(ctx context.Context, token, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.token, s.email = token, email
	return nil
}

func (s *fakeStore) Clear(ctx context.Context, reason session.EvictReason) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.email = "", ""
	s.evicted = append(s.evicted, reason)
	return nil
}

type staticToken string

func (t staticToken) Token() string { return string(t) }
