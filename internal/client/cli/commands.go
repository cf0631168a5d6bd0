package cli

import (
	"context"
	"fmt"

	"github.com/exalaa/candidate-client/internal/client/controller"
)

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printDashboard() {
	renderDashboard(a.out, a.ctrl.Snapshot())
}

func (a *App) Dashboard(ctx context.Context) error {
	a.printDashboard()
	return nil
}

func (a *App) Applications(ctx context.Context) error {
	renderApplications(a.out, a.ctrl.Snapshot().Applications)
	return nil
}

func (a *App) Survey(ctx context.Context) error {
	renderSurvey(a.out, a.ctrl.Snapshot().Survey)
	return nil
}

// Answer submits text for the current question and shows the next one.
// On failure the text stays as the draft of the same question.
func (a *App) Answer(ctx context.Context, text string) error {
	st, err := a.ctrl.SubmitAnswer(ctx, text)
	if err != nil {
		return err
	}
	renderSurvey(a.out, st)
	return nil
}

// Back leaves the editor, or steps the questionnaire one question back on
// the dashboard.
func (a *App) Back(ctx context.Context) error {
	if a.ctrl.View() == controller.ViewEditor {
		if err := a.ctrl.CloseEditor(ctx); err != nil {
			return err
		}
		a.printDashboard()
		return nil
	}

	st, err := a.ctrl.SurveyBack()
	if err != nil {
		return err
	}
	renderSurvey(a.out, st)
	return nil
}

func (a *App) Skip(ctx context.Context) error {
	if _, err := a.ctrl.SkipSurvey(); err != nil {
		return err
	}
	a.println("Анкета скрыта до конца сеанса")
	return nil
}

func (a *App) Reload(ctx context.Context) error {
	if err := a.ctrl.Reload(ctx); err != nil {
		return err
	}
	renderApplications(a.out, a.ctrl.Snapshot().Applications)
	return nil
}

func (a *App) OpenEditor(ctx context.Context, applicationID string) error {
	if err := a.ctrl.OpenEditor(applicationID); err != nil {
		return err
	}
	return a.Show(ctx)
}

func (a *App) Show(ctx context.Context) error {
	renderEditor(a.out, a.ctrl.Snapshot().Editor)
	return nil
}
