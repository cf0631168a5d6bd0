package client

import (
	"context"

	"github.com/exalaa/candidate-client/internal/client/models"
)

// AuthClient covers the unauthenticated one-time-code login flow.
type AuthClient interface {
	RequestCode(ctx context.Context, email string, fullName *string) error
	VerifyCode(ctx context.Context, email, code string) (VerifyResult, error)
}

// ProfileClient fetches the profile and the dashboard snapshot.
type ProfileClient interface {
	GetProfile(ctx context.Context, token string) (models.UserProfile, error)
	GetDashboard(ctx context.Context, token string) (models.DashboardSnapshot, error)
}

type ApplicationsClient interface {
	ListMyApplications(ctx context.Context, token string) ([]models.Application, error)
}

// SurveyClient reads the questionnaire and upserts answers. SubmitAnswer is
// keyed by question: repeating it replaces the previous text.
type SurveyClient interface {
	ListQuestions(ctx context.Context, token string) ([]models.Question, error)
	ListMyAnswers(ctx context.Context, token string) ([]models.Answer, error)
	SubmitAnswer(ctx context.Context, token, questionID, text string) (models.Answer, error)
}

// Client is the complete backend contract used by the candidate client.
type Client interface {
	AuthClient
	ProfileClient
	ApplicationsClient
	SurveyClient
	Ping(ctx context.Context) error
	Close() error
}

// VerifyResult is returned by a successful code verification.
type VerifyResult struct {
	Token   string
	Profile models.UserProfile
}
