package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/exalaa/candidate-client/internal/client/client"
	"github.com/exalaa/candidate-client/internal/client/models"
	"github.com/exalaa/candidate-client/internal/client/services"
	"github.com/exalaa/candidate-client/internal/client/session"
	"github.com/exalaa/candidate-client/internal/logging"
	"golang.org/x/sync/errgroup"
)

type View int

const (
	ViewUnauthenticated View = iota
	ViewDashboard
	ViewEditor
)

func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewEditor:
		return "editor"
	default:
		return "unauthenticated"
	}
}

var (
	ErrWrongView          = errors.New("not available in the current view")
	ErrUnknownApplication = errors.New("unknown application")
)

// SessionStore is the credential owner as used by the controller.
type SessionStore interface {
	session.TokenSource
	Email() string
	Load(ctx context.Context) (bool, error)
	Clear(ctx context.Context, reason session.EvictReason) error
	OnEvict(fn func(session.EvictReason)) (unsubscribe func())
}

// Snapshot is a consistent copy of everything a view renders.
type Snapshot struct {
	View         View
	Email        string
	Profile      *models.UserProfile
	Dashboard    *models.DashboardSnapshot
	Applications []models.ApplicationView
	// UpdatedAt is when the applications were last fetched; zero before
	// the first fetch.
	UpdatedAt time.Time
	Survey    services.SurveyState
	// Editor is the application opened in the editor view.
	Editor *models.ApplicationView
}

type Controller struct {
	store   SessionStore
	auth    services.AuthService
	loader  services.DashboardLoader
	tracker *services.ApplicationTracker
	survey  *services.SurveyService
	log     logging.Logger

	unsubscribe func()

	mu       sync.RWMutex
	view     View
	epoch    uint64
	overview *services.Overview
	editorID string
	notice   string
	// loopCtx outlives single commands; the refresh loop runs under it.
	loopCtx context.Context
}

func New(store SessionStore, auth services.AuthService, loader services.DashboardLoader,
	tracker *services.ApplicationTracker, survey *services.SurveyService, log logging.Logger) *Controller {
	c := &Controller{
		store:   store,
		auth:    auth,
		loader:  loader,
		tracker: tracker,
		survey:  survey,
		log:     log.With("component", "controller"),
		loopCtx: context.Background(),
	}
	c.unsubscribe = store.OnEvict(c.onEvict)
	tracker.OnAuthFailure(func(err error) { c.invalidate(context.Background(), err) })
	return c
}

// Start picks the entry view: a persisted credential goes straight to the
// dashboard, pending the loaders. ctx bounds the lifetime of background
// refreshes.
func (c *Controller) Start(ctx context.Context) (View, error) {
	c.mu.Lock()
	c.loopCtx = ctx
	c.mu.Unlock()

	live, err := c.store.Load(ctx)
	if err != nil {
		c.log.Error(ctx, "failed to load persisted session", "error", err)
		return c.View(), err
	}
	if !live {
		return c.View(), nil
	}
	if err := c.activate(ctx); err != nil {
		return c.View(), err
	}
	return c.View(), nil
}

func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// RequestCode asks for a one-time code to be e-mailed.
func (c *Controller) RequestCode(ctx context.Context, email, fullName string) error {
	if err := c.require(ViewUnauthenticated); err != nil {
		return err
	}
	return c.auth.RequestCode(ctx, email, fullName)
}

// Verify exchanges the code for a credential and enters the dashboard.
func (c *Controller) Verify(ctx context.Context, email, code string) error {
	if err := c.require(ViewUnauthenticated); err != nil {
		return err
	}
	if _, err := c.auth.VerifyCode(ctx, email, code); err != nil {
		return err
	}
	return c.activate(ctx)
}

// activate runs once per credential acquisition. Profile with dashboard
// and the first applications fetch run concurrently; the questionnaire
// loads once the profile is in. A failed profile or dashboard fetch of any
// kind invalidates the session.
func (c *Controller) activate(ctx context.Context) error {
	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.view = ViewDashboard
	c.overview = nil
	c.editorID = ""
	c.notice = ""
	c.mu.Unlock()

	token := c.store.Token()

	var (
		overview services.Overview
		loadErr  error
		appsErr  error
	)
	var g errgroup.Group
	g.Go(func() error {
		overview, loadErr = c.loader.Load(ctx, token)
		return nil
	})
	g.Go(func() error {
		appsErr = c.tracker.Refresh(ctx)
		return nil
	})
	_ = g.Wait()

	if !c.current(epoch) {
		return nil
	}
	if loadErr != nil {
		c.log.Warn(ctx, "profile or dashboard fetch failed", "error", loadErr)
		c.invalidate(ctx, loadErr)
		return loadErr
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return nil
	}
	c.overview = &overview
	c.mu.Unlock()

	if appsErr != nil {
		if err := c.escalate(ctx, appsErr); errors.Is(err, client.ErrUnauthorized) {
			return err
		}
		c.log.Warn(ctx, "initial applications fetch failed", "error", appsErr)
	}

	if err := c.survey.Load(ctx); err != nil {
		if err := c.escalate(ctx, err); errors.Is(err, client.ErrUnauthorized) {
			return err
		}
		c.log.Warn(ctx, "survey load failed", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch == epoch && c.view == ViewDashboard {
		c.tracker.Mount(c.loopCtx)
	}
	return nil
}

// Reload re-fetches the applications, and the questionnaire if it failed
// to load before.
func (c *Controller) Reload(ctx context.Context) error {
	if err := c.require(ViewDashboard); err != nil {
		return err
	}
	if err := c.tracker.Refresh(ctx); err != nil {
		return c.escalate(ctx, err)
	}
	if !c.survey.State().Loaded {
		if err := c.survey.Load(ctx); err != nil {
			return c.escalate(ctx, err)
		}
	}
	return nil
}

// OpenEditor switches to the editor for one of the cached applications.
// The refresh loop is stopped while the dashboard is not shown.
func (c *Controller) OpenEditor(applicationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != ViewDashboard {
		return ErrWrongView
	}
	if _, ok := c.tracker.Find(applicationID); !ok {
		return ErrUnknownApplication
	}
	c.tracker.Stop()
	c.view = ViewEditor
	c.editorID = applicationID
	return nil
}

// CloseEditor returns to the dashboard, refreshes the applications once and
// re-mounts the refresh loop.
func (c *Controller) CloseEditor(ctx context.Context) error {
	c.mu.Lock()
	if c.view != ViewEditor {
		c.mu.Unlock()
		return ErrWrongView
	}
	c.view = ViewDashboard
	c.editorID = ""
	epoch := c.epoch
	c.mu.Unlock()

	if err := c.tracker.Refresh(ctx); err != nil {
		if err := c.escalate(ctx, err); errors.Is(err, client.ErrUnauthorized) {
			return err
		}
		c.log.Warn(ctx, "applications refresh failed", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch == epoch && c.view == ViewDashboard {
		c.tracker.Mount(c.loopCtx)
	}
	return nil
}

// Logout evicts the credential; the eviction listener does the teardown.
func (c *Controller) Logout(ctx context.Context) error {
	if c.View() == ViewUnauthenticated {
		return ErrWrongView
	}
	err := c.auth.Logout(ctx)
	c.teardown(session.ReasonLogout)
	return err
}

func (c *Controller) SubmitAnswer(ctx context.Context, text string) (services.SurveyState, error) {
	if err := c.require(ViewDashboard); err != nil {
		return services.SurveyState{}, err
	}
	st, err := c.survey.Submit(ctx, text)
	return st, c.escalate(ctx, err)
}

func (c *Controller) SurveyBack() (services.SurveyState, error) {
	if err := c.require(ViewDashboard); err != nil {
		return services.SurveyState{}, err
	}
	return c.survey.Back()
}

func (c *Controller) SkipSurvey() (services.SurveyState, error) {
	if err := c.require(ViewDashboard); err != nil {
		return services.SurveyState{}, err
	}
	return c.survey.Skip()
}

// Snapshot returns the state of the current view. Outside the dashboard
// and editor views it carries no user data.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{View: c.view}
	if c.view == ViewUnauthenticated {
		return snap
	}
	snap.Email = c.store.Email()
	if c.overview != nil {
		p, d := c.overview.Profile, c.overview.Dashboard
		snap.Profile, snap.Dashboard = &p, &d
	}
	snap.Applications = c.tracker.Views()
	snap.UpdatedAt = c.tracker.FetchedAt()
	snap.Survey = c.survey.State()
	if c.view == ViewEditor {
		for i := range snap.Applications {
			if snap.Applications[i].Application.ID == c.editorID {
				v := snap.Applications[i]
				snap.Editor = &v
				break
			}
		}
	}
	return snap
}

// TakeNotice returns and clears the message left by a forced logout.
func (c *Controller) TakeNotice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.notice
	c.notice = ""
	return n
}

func (c *Controller) Ping(ctx context.Context) error {
	return c.auth.Ping(ctx)
}

// Close stops background work and releases the transport.
func (c *Controller) Close(ctx context.Context) error {
	c.tracker.Stop()
	c.unsubscribe()
	return c.auth.Close(ctx)
}

func (c *Controller) current(epoch uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch == epoch
}

func (c *Controller) require(v View) error {
	if c.View() != v {
		return ErrWrongView
	}
	return nil
}

// escalate routes an auth failure into invalidate and returns err as is.
func (c *Controller) escalate(ctx context.Context, err error) error {
	if err != nil && errors.Is(err, client.ErrUnauthorized) {
		c.invalidate(ctx, err)
	}
	return err
}

// invalidate is the single entry point for auth failures.
func (c *Controller) invalidate(ctx context.Context, cause error) {
	c.log.Warn(ctx, "session invalidated", "cause", cause)
	if err := c.store.Clear(ctx, session.ReasonAuthFailure); err != nil {
		c.log.Error(ctx, "failed to evict credential", "error", err)
	}
	// Clear is a no-op when the store is already empty; tear down anyway.
	c.teardown(session.ReasonAuthFailure)
}

func (c *Controller) onEvict(reason session.EvictReason) {
	c.teardown(reason)
}

// teardown clears all derived state under one lock so no snapshot can see
// a partial reset. It is idempotent.
func (c *Controller) teardown(reason session.EvictReason) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasIn := c.view != ViewUnauthenticated
	c.epoch++
	c.view = ViewUnauthenticated
	c.overview = nil
	c.editorID = ""
	c.tracker.Reset()
	c.survey.Reset()

	switch {
	case reason == session.ReasonExpired:
		c.notice = "Срок действия сессии истёк, войдите снова"
	case reason == session.ReasonAuthFailure && wasIn:
		c.notice = "Сессия недействительна, войдите снова"
	}
}
