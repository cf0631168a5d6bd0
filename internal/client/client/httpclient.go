package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/exalaa/candidate-client/internal/client/models"
	"github.com/exalaa/candidate-client/internal/logging"
	"github.com/google/uuid"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"

	maxResponseBody = 4 << 20
)

type HTTPClient struct {
	baseURL    string
	prefix     string
	httpClient *http.Client
	log        logging.Logger
}

// NewHTTPClient builds a client for the backend at baseURL; API routes are
// resolved under prefix, the health probe at the root.
func NewHTTPClient(baseURL, prefix string, timeout time.Duration, log logging.Logger) *HTTPClient {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		prefix:     prefix,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With("component", "http_client"),
	}
}

func (c *HTTPClient) RequestCode(ctx context.Context, email string, fullName *string) error {
	req := requestCodeRequest{Email: email, FullName: fullName}
	return c.do(ctx, http.MethodPost, c.api("/auth/request-code"), "", req, nil)
}

func (c *HTTPClient) VerifyCode(ctx context.Context, email, code string) (VerifyResult, error) {
	var resp verifyCodeResponse
	req := verifyCodeRequest{Email: email, Code: code}
	if err := c.do(ctx, http.MethodPost, c.api("/auth/verify-code"), "", req, &resp); err != nil {
		return VerifyResult{}, err
	}
	if resp.AccessToken == "" {
		return VerifyResult{}, fmt.Errorf("verify code: empty access token in response")
	}
	return VerifyResult{Token: resp.AccessToken, Profile: resp.User.model()}, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) (models.UserProfile, error) {
	var u userDTO
	if err := c.do(ctx, http.MethodGet, c.api("/users/me"), token, nil, &u); err != nil {
		return models.UserProfile{}, err
	}
	return u.model(), nil
}

func (c *HTTPClient) GetDashboard(ctx context.Context, token string) (models.DashboardSnapshot, error) {
	var d dashboardDTO
	if err := c.do(ctx, http.MethodGet, c.api("/users/me/dashboard"), token, nil, &d); err != nil {
		return models.DashboardSnapshot{}, err
	}
	return d.model(), nil
}

func (c *HTTPClient) ListMyApplications(ctx context.Context, token string) ([]models.Application, error) {
	var items []applicationDTO
	if err := c.do(ctx, http.MethodGet, c.api("/applications/my"), token, nil, &items); err != nil {
		return nil, err
	}
	apps := make([]models.Application, 0, len(items))
	for _, it := range items {
		apps = append(apps, it.model())
	}
	return apps, nil
}

func (c *HTTPClient) ListQuestions(ctx context.Context, token string) ([]models.Question, error) {
	var items []questionDTO
	if err := c.do(ctx, http.MethodGet, c.api("/survey/questions"), token, nil, &items); err != nil {
		return nil, err
	}
	qs := make([]models.Question, 0, len(items))
	for _, it := range items {
		qs = append(qs, models.Question{ID: string(it.ID), Text: it.Text})
	}
	return qs, nil
}

func (c *HTTPClient) ListMyAnswers(ctx context.Context, token string) ([]models.Answer, error) {
	var items []answerDTO
	if err := c.do(ctx, http.MethodGet, c.api("/survey/answers/my"), token, nil, &items); err != nil {
		return nil, err
	}
	answers := make([]models.Answer, 0, len(items))
	for _, it := range items {
		answers = append(answers, it.model())
	}
	return answers, nil
}

func (c *HTTPClient) SubmitAnswer(ctx context.Context, token, questionID, text string) (models.Answer, error) {
	var resp answerDTO
	path := c.api("/survey/answers/" + url.PathEscape(questionID))
	if err := c.do(ctx, http.MethodPut, path, token, submitAnswerRequest{Text: text}, &resp); err != nil {
		return models.Answer{}, err
	}
	return resp.model(), nil
}

// Ping probes the backend health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp healthResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/health", "", nil, &resp); err != nil {
		return err
	}
	if !strings.EqualFold(resp.Status, "ok") {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) api(path string) string {
	return c.baseURL + c.prefix + path
}

func (c *HTTPClient) do(ctx context.Context, method, target, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return mapTransportError(err)
	}

	c.log.Debug(ctx, "request done",
		"method", method, "url", target, "status", resp.StatusCode,
		"request_id", requestID, "took", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapStatus(code int, payload []byte) error {
	var parsed errorResponse
	detail := strings.TrimSpace(string(payload))
	if err := json.Unmarshal(payload, &parsed); err == nil && len(parsed.Detail) > 0 {
		detail = parsed.message()
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		if detail == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	case code >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	default:
		return &APIError{StatusCode: code, Detail: detail}
	}
}

// mapTransportError keeps cancellation distinguishable from an unreachable
// backend: a cancelled context is the caller's decision, not an outage.
func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
