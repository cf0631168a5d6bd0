package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/exalaa/candidate-client/internal/client/models"
	"github.com/google/uuid"
)

// wireTime accepts RFC 3339 timestamps as well as the naive ISO-8601 form
// the backend emits for columns without a zone; the latter are read as UTC.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", s)
}

func (t *wireTime) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// flexID holds identifiers that arrive either as JSON numbers or strings.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

type userDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    *string   `json:"full_name"`
	IsVerified  bool      `json:"is_verified"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   wireTime  `json:"created_at"`
	LastLoginAt *wireTime `json:"last_login_at"`
}

func (u userDTO) model() models.UserProfile {
	return models.UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsVerified:  u.IsVerified,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt.Time,
		LastLoginAt: u.LastLoginAt.ptr(),
	}
}

type dashboardDTO struct {
	LastExecutorStatus string   `json:"last_executor_status"`
	PendingJobs        int      `json:"pending_jobs"`
	LastLanguage       string   `json:"last_language"`
	RecentActions      []string `json:"recent_actions"`
}

func (d dashboardDTO) model() models.DashboardSnapshot {
	return models.DashboardSnapshot{
		LastExecutorStatus: d.LastExecutorStatus,
		PendingJobs:        d.PendingJobs,
		LastLanguage:       d.LastLanguage,
		RecentActions:      d.RecentActions,
	}
}

type vacancyDTO struct {
	ID       flexID `json:"id"`
	Title    string `json:"title"`
	Position string `json:"position"`
	Language string `json:"language"`
	Grade    string `json:"grade"`
}

type applicationDTO struct {
	ID               flexID      `json:"id"`
	Vacancy          *vacancyDTO `json:"vacancy"`
	Status           string      `json:"status"`
	MLScore          *float64    `json:"ml_score"`
	CreatedAt        wireTime    `json:"created_at"`
	UpdatedAt        wireTime    `json:"updated_at"`
	StartedAt        *wireTime   `json:"started_at"`
	CompletedAt      *wireTime   `json:"completed_at"`
	TimeLimitMinutes int         `json:"time_limit_minutes"`
}

func (a applicationDTO) model() models.Application {
	app := models.Application{
		ID:               string(a.ID),
		Status:           models.ParseStatus(strings.TrimSpace(a.Status)),
		MLScore:          a.MLScore,
		CreatedAt:        a.CreatedAt.Time,
		UpdatedAt:        a.UpdatedAt.Time,
		StartedAt:        a.StartedAt.ptr(),
		CompletedAt:      a.CompletedAt.ptr(),
		TimeLimitMinutes: a.TimeLimitMinutes,
	}
	if a.Vacancy != nil {
		app.Vacancy = &models.Vacancy{
			ID:       string(a.Vacancy.ID),
			Title:    a.Vacancy.Title,
			Position: a.Vacancy.Position,
			Language: a.Vacancy.Language,
			Grade:    a.Vacancy.Grade,
		}
	}
	return app
}

type questionDTO struct {
	ID   flexID `json:"id"`
	Text string `json:"text"`
}

type answerDTO struct {
	ID         flexID `json:"id"`
	QuestionID flexID `json:"question_id"`
	Text       string `json:"text"`
}

func (a answerDTO) model() models.Answer {
	return models.Answer{ID: string(a.ID), QuestionID: string(a.QuestionID), Text: a.Text}
}

type requestCodeRequest struct {
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type verifyCodeResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        userDTO `json:"user"`
}

type submitAnswerRequest struct {
	Text string `json:"text"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// errorResponse is the FastAPI error body. Detail is a string for
// HTTPException and a list of objects for validation errors.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func (e errorResponse) message() string {
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(e.Detail)
}
