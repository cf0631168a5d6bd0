package controller

import (
	"context"
	"sync"

	"github.com/exalaa/candidate-client/internal/client/client"
	"github.com/exalaa/candidate-client/internal/client/models"
)

// fakeBackend implements client.Client. Func fields override the default
// happy-path responses.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	VerifyCodeFn   func(ctx context.Context, email, code string) (client.VerifyResult, error)
	GetProfileFn   func(ctx context.Context, token string) (models.UserProfile, error)
	GetDashboardFn func(ctx context.Context, token string) (models.DashboardSnapshot, error)
	ListAppsFn     func(ctx context.Context, token string) ([]models.Application, error)
	ListAFn        func(ctx context.Context, token string) ([]models.Answer, error)
	SubmitFn       func(ctx context.Context, token, questionID, text string) (models.Answer, error)
	PingErr        error
}

func (f *fakeBackend) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeBackend) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) RequestCode(ctx context.Context, email string, fullName *string) error {
	f.count("RequestCode")
	return nil
}

func (f *fakeBackend) VerifyCode(ctx context.Context, email, code string) (client.VerifyResult, error) {
	f.count("VerifyCode")
	if f.VerifyCodeFn != nil {
		return f.VerifyCodeFn(ctx, email, code)
	}
	return client.VerifyResult{Token: "fresh-token", Profile: models.UserProfile{Email: email}}, nil
}

func (f *fakeBackend) GetProfile(ctx context.Context, token string) (models.UserProfile, error) {
	f.count("GetProfile")
	if f.GetProfileFn != nil {
		return f.GetProfileFn(ctx, token)
	}
	return models.UserProfile{Email: "anna@exalaa.io", IsVerified: true}, nil
}

func (f *fakeBackend) GetDashboard(ctx context.Context, token string) (models.DashboardSnapshot, error) {
	f.count("GetDashboard")
	if f.GetDashboardFn != nil {
		return f.GetDashboardFn(ctx, token)
	}
	return models.DashboardSnapshot{LastExecutorStatus: "idle", PendingJobs: 1, LastLanguage: "go"}, nil
}

func (f *fakeBackend) ListMyApplications(ctx context.Context, token string) ([]models.Application, error) {
	f.count("ListMyApplications")
	f.mu.Lock()
	fn := f.ListAppsFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, token)
	}
	return []models.Application{{
		ID:               "7",
		Vacancy:          &models.Vacancy{Title: "Go developer"},
		Status:           models.ParseStatus("pending"),
		TimeLimitMinutes: 30,
	}}, nil
}

func (f *fakeBackend) ListQuestions(ctx context.Context, token string) ([]models.Question, error) {
	f.count("ListQuestions")
	return []models.Question{{ID: "1", Text: "Почему мы?"}, {ID: "2", Text: "Ваш стек?"}}, nil
}

func (f *fakeBackend) ListMyAnswers(ctx context.Context, token string) ([]models.Answer, error) {
	f.count("ListMyAnswers")
	f.mu.Lock()
	fn := f.ListAFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, token)
	}
	return nil, nil
}

func (f *fakeBackend) SubmitAnswer(ctx context.Context, token, questionID, text string) (models.Answer, error) {
	f.count("SubmitAnswer")
	if f.SubmitFn != nil {
		return f.SubmitFn(ctx, token, questionID, text)
	}
	return models.Answer{ID: "a" + questionID, QuestionID: questionID, Text: text}, nil
}

func (f *fakeBackend) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeBackend) Close() error { return nil }
