// Package services contains the application services of the candidate
// client: one-time-code authentication, the profile and dashboard loader,
// the application tracker and the questionnaire engine.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/exalaa/candidate-client/internal/client/client"
	"github.com/exalaa/candidate-client/internal/client/models"
	"github.com/exalaa/candidate-client/internal/client/session"
	"github.com/go-playground/validator/v10"
)

// SessionStore is the credential owner as seen by the services.
type SessionStore interface {
	session.TokenSource
	Set(ctx context.Context, token, email string) error
	Clear(ctx context.Context, reason session.EvictReason) error
}

// AuthService defines the login flow.
//
// Contract:
//   - RequestCode: validate input and ask the server to e-mail a code.
//   - VerifyCode: exchange the code for a credential and persist it.
//   - Logout: evict the credential.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	RequestCode(ctx context.Context, email, fullName string) error
	VerifyCode(ctx context.Context, email, code string) (models.UserProfile, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type requestCodeInput struct {
	Email    string `validate:"required,email"`
	FullName string `validate:"max=255"`
}

type verifyCodeInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,len=6"`
}

type authService struct {
	client   client.Client
	store    SessionStore
	validate *validator.Validate
}

// NewAuthService constructs an AuthService bound to the given API client
// and session store.
func NewAuthService(c client.Client, store SessionStore) AuthService {
	return &authService{
		client:   c,
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *authService) RequestCode(ctx context.Context, email, fullName string) error {
	in := requestCodeInput{Email: strings.TrimSpace(email), FullName: strings.TrimSpace(fullName)}
	if err := a.check(in); err != nil {
		return err
	}

	var name *string
	if in.FullName != "" {
		name = &in.FullName
	}
	if err := a.client.RequestCode(ctx, in.Email, name); err != nil {
		return fmt.Errorf("request code: %w", err)
	}
	return nil
}

// VerifyCode persists the credential before returning, so a crash right
// after login still resumes into the dashboard.
func (a *authService) VerifyCode(ctx context.Context, email, code string) (models.UserProfile, error) {
	in := verifyCodeInput{Email: strings.TrimSpace(email), Code: strings.TrimSpace(code)}
	if err := a.check(in); err != nil {
		return models.UserProfile{}, err
	}

	res, err := a.client.VerifyCode(ctx, in.Email, in.Code)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("verify code: %w", err)
	}
	if err := a.store.Set(ctx, res.Token, in.Email); err != nil {
		return models.UserProfile{}, err
	}
	return res.Profile, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.Clear(ctx, session.ReasonLogout)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// check runs struct validation and reports the first failing field.
func (a *authService) check(in any) error {
	err := a.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &FieldError{Field: strings.ToLower(verrs[0].Field()), Tag: verrs[0].Tag()}
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
