package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/exalaa/candidate-client/internal/client/client"
	"github.com/exalaa/candidate-client/internal/client/models"
	"github.com/exalaa/candidate-client/internal/client/session"
	"github.com/exalaa/candidate-client/internal/logging"
	"github.com/jonboulle/clockwork"
)

const DefaultRefreshInterval = 30 * time.Second

// ApplicationTracker caches the user's applications and, while mounted,
// re-fetches them on a fixed interval.
//
// Every fetch takes a sequence number when it starts; a result is applied
// only if no later-started fetch has been applied and the tracker has not
// been reset since. Scheduled refresh failures are logged and dropped,
// except auth failures, which go to the callback set with OnAuthFailure.
type ApplicationTracker struct {
	client   client.ApplicationsClient
	tokens   session.TokenSource
	clock    clockwork.Clock
	interval time.Duration
	log      logging.Logger

	mu            sync.RWMutex
	apps          []models.Application
	loaded        bool
	fetchedAt     time.Time
	gen           uint64
	started       uint64
	applied       uint64
	onAuthFailure func(error)

	loopMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewApplicationTracker(c client.ApplicationsClient, tokens session.TokenSource,
	clock clockwork.Clock, interval time.Duration, log logging.Logger) *ApplicationTracker {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &ApplicationTracker{
		client:   c,
		tokens:   tokens,
		clock:    clock,
		interval: interval,
		log:      log.With("component", "tracker"),
	}
}

// OnAuthFailure sets the handler for auth failures seen by scheduled
// refreshes. It runs on its own goroutine so it may call Stop or Reset.
func (t *ApplicationTracker) OnAuthFailure(fn func(error)) {
	t.mu.Lock()
	t.onAuthFailure = fn
	t.mu.Unlock()
}

// Refresh fetches the list once with the current credential.
func (t *ApplicationTracker) Refresh(ctx context.Context) error {
	token := t.tokens.Token()
	if token == "" {
		return client.ErrUnauthorized
	}

	t.mu.Lock()
	gen := t.gen
	t.started++
	seq := t.started
	t.mu.Unlock()

	apps, err := t.client.ListMyApplications(ctx, token)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || seq < t.applied {
		t.log.Debug(ctx, "dropping stale applications result", "seq", seq)
		return nil
	}
	t.apps = apps
	t.loaded = true
	t.applied = seq
	t.fetchedAt = t.clock.Now()
	return nil
}

// Mount starts the periodic refresh. Mounting twice is a no-op.
func (t *ApplicationTracker) Mount(ctx context.Context) {
	t.loopMu.Lock()
	defer t.loopMu.Unlock()
	if t.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel, t.done = cancel, done
	go t.run(loopCtx, done)
}

// Mounted reports whether the refresh loop is running.
func (t *ApplicationTracker) Mounted() bool {
	t.loopMu.Lock()
	defer t.loopMu.Unlock()
	return t.cancel != nil
}

// Stop cancels the refresh loop and waits for it to exit, including any
// fetch it has in flight.
func (t *ApplicationTracker) Stop() {
	t.loopMu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.loopMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Reset stops the loop and forgets every cached application. Results of
// fetches started before Reset are discarded.
func (t *ApplicationTracker) Reset() {
	t.Stop()

	t.mu.Lock()
	t.gen++
	t.apps = nil
	t.loaded = false
	t.fetchedAt = time.Time{}
	t.mu.Unlock()
}

func (t *ApplicationTracker) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			t.tick(ctx)
		}
	}
}

func (t *ApplicationTracker) tick(ctx context.Context) {
	if t.tokens.Token() == "" {
		return
	}

	err := t.Refresh(ctx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		// unmounted while the request was in flight
	case errors.Is(err, client.ErrUnauthorized):
		t.log.Warn(ctx, "scheduled refresh rejected credential", "error", err)
		t.mu.RLock()
		fn := t.onAuthFailure
		t.mu.RUnlock()
		if fn != nil {
			go fn(err)
		}
	default:
		t.log.Warn(ctx, "scheduled refresh failed", "error", err)
	}
}

// Loaded reports whether at least one fetch has been applied.
func (t *ApplicationTracker) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}

// FetchedAt is the time the cached list was last replaced.
func (t *ApplicationTracker) FetchedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fetchedAt
}

// Views derives the display state of every cached application at the
// current clock time.
func (t *ApplicationTracker) Views() []models.ApplicationView {
	now := t.clock.Now()

	t.mu.RLock()
	defer t.mu.RUnlock()
	views := make([]models.ApplicationView, 0, len(t.apps))
	for _, a := range t.apps {
		views = append(views, a.View(now))
	}
	return views
}

// Find looks up a cached application by id.
func (t *ApplicationTracker) Find(id string) (models.Application, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, a := range t.apps {
		if a.ID == id {
			return a, true
		}
	}
	return models.Application{}, false
}
