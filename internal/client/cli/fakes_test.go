package cli

import (
	"context"
	"sync"

	"github.com/exalaa/candidate-client/internal/client/controller"
	"github.com/exalaa/candidate-client/internal/client/services"
)

// fakeCtrl implements Controller with canned results and records calls.
type fakeCtrl struct {
	mu sync.Mutex

	viewV  controller.View
	snap   controller.Snapshot
	survey services.SurveyState
	notice string

	startErr   error
	requestErr error
	verifyErr  error
	submitErr  error
	reloadErr  error
	editorErr  error
	pingErr    error

	calls     []string
	requested [2]string
	verified  [2]string
	submitted string
	editorID  string
	closed    bool
}

func (f *fakeCtrl) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeCtrl) Start(ctx context.Context) (controller.View, error) {
	f.record("start")
	return f.viewV, f.startErr
}

func (f *fakeCtrl) View() controller.View { return f.viewV }

func (f *fakeCtrl) RequestCode(ctx context.Context, email, fullName string) error {
	f.record("request")
	f.requested = [2]string{email, fullName}
	return f.requestErr
}

func (f *fakeCtrl) Verify(ctx context.Context, email, code string) error {
	f.record("verify")
	f.verified = [2]string{email, code}
	if f.verifyErr == nil {
		f.viewV = controller.ViewDashboard
	}
	return f.verifyErr
}

func (f *fakeCtrl) Reload(ctx context.Context) error {
	f.record("reload")
	return f.reloadErr
}

func (f *fakeCtrl) OpenEditor(applicationID string) error {
	f.record("editor")
	f.editorID = applicationID
	if f.editorErr == nil {
		f.viewV = controller.ViewEditor
	}
	return f.editorErr
}

func (f *fakeCtrl) CloseEditor(ctx context.Context) error {
	f.record("close-editor")
	f.viewV = controller.ViewDashboard
	return nil
}

func (f *fakeCtrl) Logout(ctx context.Context) error {
	f.record("logout")
	f.viewV = controller.ViewUnauthenticated
	return nil
}

func (f *fakeCtrl) SubmitAnswer(ctx context.Context, text string) (services.SurveyState, error) {
	f.record("submit")
	f.submitted = text
	return f.survey, f.submitErr
}

func (f *fakeCtrl) SurveyBack() (services.SurveyState, error) {
	f.record("survey-back")
	return f.survey, nil
}

func (f *fakeCtrl) SkipSurvey() (services.SurveyState, error) {
	f.record("skip")
	return f.survey, nil
}

func (f *fakeCtrl) Snapshot() controller.Snapshot {
	s := f.snap
	s.View = f.viewV
	return s
}

func (f *fakeCtrl) TakeNotice() string {
	n := f.notice
	f.notice = ""
	return n
}

func (f *fakeCtrl) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeCtrl) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeCtrl) Close(ctx context.Context) error {
	f.record("close")
	f.closed = true
	return nil
}
