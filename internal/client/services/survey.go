package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/exalaa/candidate-client/internal/client/client"
	"github.com/exalaa/candidate-client/internal/client/models"
	"github.com/exalaa/candidate-client/internal/client/session"
	"github.com/exalaa/candidate-client/internal/logging"
	"golang.org/x/sync/errgroup"
)

// SurveyState is a point-in-time copy of the questionnaire.
//
// ServerCompleted and Skipped are independent: the first mirrors the
// server (every question has a non-blank answer), the second is a
// session-local dismissal that never reaches the server.
type SurveyState struct {
	Loaded          bool
	ServerCompleted bool
	Skipped         bool
	Closed          bool
	Submitting      bool
	Index           int
	Total           int
	Current         *QuestionView
}

// Completed reports whether the questionnaire should no longer be shown.
func (s SurveyState) Completed() bool {
	return s.ServerCompleted || s.Skipped
}

// QuestionView is the question at the cursor with the text to pre-fill.
type QuestionView struct {
	Question models.Question
	Prefill  string
	Answered bool
}

// SurveyService walks the user through the questionnaire one question at
// a time.
type SurveyService struct {
	client client.SurveyClient
	tokens session.TokenSource
	log    logging.Logger

	mu              sync.Mutex
	gen             uint64
	loaded          bool
	questions       []models.Question
	answers         map[string]models.Answer
	drafts          map[string]string
	pos             int
	serverCompleted bool
	closed          bool
	skipped         bool
	submitting      bool
}

func NewSurveyService(c client.SurveyClient, tokens session.TokenSource, log logging.Logger) *SurveyService {
	return &SurveyService{
		client: c,
		tokens: tokens,
		log:    log.With("component", "survey"),
	}
}

// Load fetches questions and the user's answers concurrently and resumes at
// the first question without a non-blank answer. A fully answered set
// (including an empty one) loads as completed and closed.
func (s *SurveyService) Load(ctx context.Context) error {
	token := s.tokens.Token()
	if token == "" {
		return client.ErrUnauthorized
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	var (
		questions []models.Question
		answers   []models.Answer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		questions, err = s.client.ListQuestions(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		answers, err = s.client.ListMyAnswers(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load survey: %w", err)
	}

	byQuestion := make(map[string]models.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	pos := len(questions)
	for i, q := range questions {
		if a, ok := byQuestion[q.ID]; !ok || a.Blank() {
			pos = i
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}
	s.loaded = true
	s.questions = questions
	s.answers = byQuestion
	s.drafts = make(map[string]string)
	s.serverCompleted = models.CoversAll(questions, answers)
	s.closed = s.serverCompleted
	s.submitting = false
	s.pos = min(pos, max(len(questions)-1, 0))

	s.log.Debug(ctx, "survey loaded", "questions", len(questions), "answers", len(answers),
		"completed", s.serverCompleted)
	return nil
}

// Submit upserts text as the answer to the current question and advances.
// Only one submission may be in flight. On failure the text is kept as the
// draft and the cursor stays put. A successful submit that leaves every
// question with a non-blank answer closes the survey and marks it
// server-completed without a re-fetch. Submitting the last question while
// an earlier one is still open moves the cursor back to it.
func (s *SurveyService) Submit(ctx context.Context, text string) (SurveyState, error) {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return SurveyState{}, err
	}
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return SurveyState{}, &FieldError{Field: "text", Tag: "required"}
	}
	token := s.tokens.Token()
	if token == "" {
		s.mu.Unlock()
		return SurveyState{}, client.ErrUnauthorized
	}
	gen := s.gen
	q := s.questions[s.pos]
	s.submitting = true
	s.mu.Unlock()

	ans, err := s.client.SubmitAnswer(ctx, token, q.ID, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return SurveyState{}, ErrSurveyNotLoaded
	}
	s.submitting = false
	if err != nil {
		s.drafts[q.ID] = text
		return s.stateLocked(), fmt.Errorf("submit answer: %w", err)
	}

	if ans.QuestionID == "" {
		ans.QuestionID = q.ID
	}
	if ans.Text == "" {
		ans.Text = text
	}
	s.answers[q.ID] = ans
	delete(s.drafts, q.ID)

	if s.coveredLocked() {
		s.closed = true
		s.serverCompleted = true
		return s.stateLocked(), nil
	}
	if s.pos < len(s.questions)-1 {
		s.pos++
	} else {
		s.pos = s.firstOpenLocked()
	}
	return s.stateLocked(), nil
}

// coveredLocked reports whether every question has a non-blank answer in
// the local copy, which mirrors the server after each accepted submit.
func (s *SurveyService) coveredLocked() bool {
	answers := make([]models.Answer, 0, len(s.answers))
	for _, a := range s.answers {
		answers = append(answers, a)
	}
	return models.CoversAll(s.questions, answers)
}

func (s *SurveyService) firstOpenLocked() int {
	for i, q := range s.questions {
		if a, ok := s.answers[q.ID]; !ok || a.Blank() {
			return i
		}
	}
	return s.pos
}

// Back moves the cursor one question back. It never submits anything.
func (s *SurveyService) Back() (SurveyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writableLocked(); err != nil {
		return SurveyState{}, err
	}
	if s.pos > 0 {
		s.pos--
	}
	return s.stateLocked(), nil
}

// Skip dismisses the questionnaire for the rest of the session. Answers
// are neither created nor changed.
func (s *SurveyService) Skip() (SurveyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return SurveyState{}, ErrSurveyNotLoaded
	}
	if s.submitting {
		return SurveyState{}, ErrSubmitInProgress
	}
	s.skipped = true
	return s.stateLocked(), nil
}

func (s *SurveyService) State() SurveyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Reset drops all questionnaire state. In-flight loads and submissions
// started before Reset have no effect.
func (s *SurveyService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.loaded = false
	s.questions = nil
	s.answers = nil
	s.drafts = nil
	s.pos = 0
	s.serverCompleted = false
	s.closed = false
	s.skipped = false
	s.submitting = false
}

func (s *SurveyService) writableLocked() error {
	switch {
	case !s.loaded:
		return ErrSurveyNotLoaded
	case s.closed || s.skipped || len(s.questions) == 0:
		return ErrSurveyClosed
	case s.submitting:
		return ErrSubmitInProgress
	}
	return nil
}

func (s *SurveyService) stateLocked() SurveyState {
	st := SurveyState{
		Loaded:          s.loaded,
		ServerCompleted: s.serverCompleted,
		Skipped:         s.skipped,
		Closed:          s.closed,
		Submitting:      s.submitting,
		Index:           s.pos,
		Total:           len(s.questions),
	}
	if !s.loaded || s.closed || len(s.questions) == 0 {
		return st
	}

	q := s.questions[s.pos]
	view := &QuestionView{Question: q}
	if a, ok := s.answers[q.ID]; ok && !a.Blank() {
		view.Prefill = a.Text
		view.Answered = true
	}
	if d, ok := s.drafts[q.ID]; ok {
		view.Prefill = d
	}
	st.Current = view
	return st
}
