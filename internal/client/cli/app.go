package cli

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/exalaa/candidate-client/internal/client/controller"
	"github.com/exalaa/candidate-client/internal/client/services"
	"github.com/exalaa/candidate-client/internal/logging"
	"github.com/jonboulle/clockwork"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

const pingTimeout = 3 * time.Second

// Controller is the part of controller.Controller the CLI drives.
type Controller interface {
	Start(ctx context.Context) (controller.View, error)
	View() controller.View
	RequestCode(ctx context.Context, email, fullName string) error
	Verify(ctx context.Context, email, code string) error
	Reload(ctx context.Context) error
	OpenEditor(applicationID string) error
	CloseEditor(ctx context.Context) error
	Logout(ctx context.Context) error
	SubmitAnswer(ctx context.Context, text string) (services.SurveyState, error)
	SurveyBack() (services.SurveyState, error)
	SkipSurvey() (services.SurveyState, error)
	Snapshot() controller.Snapshot
	TakeNotice() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type App struct {
	ctrl          Controller
	log           logging.Logger
	clock         clockwork.Clock
	checkInterval time.Duration
	reader        *bufio.Reader
	out           io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(ctrl Controller, clock clockwork.Clock, checkInterval time.Duration,
	log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		ctrl:          ctrl,
		log:           log.With("component", "cli"),
		clock:         clock,
		checkInterval: checkInterval,
		reader:        bufio.NewReader(in),
		out:           out,
	}
}

// Run resolves the entry view, starts the connectivity watcher and blocks
// in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer func() { _ = a.ctrl.Close(context.WithoutCancel(ctx)) }()

	a.println("exalaa: кабинет кандидата (help — список команд)")

	a.checkOnline(ctx)
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go a.StartOnlineStatusWatcher(watchCtx, a.checkInterval)

	view, err := a.ctrl.Start(ctx)
	if err != nil {
		a.log.Warn(ctx, "start failed", "error", err)
		a.println(controller.UserMessage(err))
	}
	if view == controller.ViewDashboard {
		a.printDashboard()
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	return nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.ctrl.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval and keeps Mode
// current until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := a.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) view() controller.View {
	return a.ctrl.View()
}

func (a *App) takeNotice() string {
	return a.ctrl.TakeNotice()
}
