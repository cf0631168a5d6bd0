package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/exalaa/candidate-client/internal/client/controller"
	"github.com/exalaa/candidate-client/internal/client/models"
	"github.com/exalaa/candidate-client/internal/client/services"
)

const dateLayout = "02.01.2006 15:04"

func renderDashboard(w io.Writer, snap controller.Snapshot) {
	if snap.Profile == nil || snap.Dashboard == nil {
		fmt.Fprintln(w, "Профиль ещё не загружен")
		return
	}

	p, d := snap.Profile, snap.Dashboard
	fmt.Fprintf(w, "Здравствуйте, %s\n", p.DisplayName())
	verified := "не подтверждён"
	if p.IsVerified {
		verified = "подтверждён"
	}
	fmt.Fprintf(w, "Email: %s (%s)\n", p.Email, verified)
	if p.LastLoginAt != nil {
		fmt.Fprintf(w, "Последний вход: %s\n", p.LastLoginAt.Local().Format(dateLayout))
	}

	fmt.Fprintf(w, "Исполнитель: %s, задач в очереди: %d, язык: %s\n",
		orDash(d.LastExecutorStatus), d.PendingJobs, orDash(d.LastLanguage))
	if len(d.RecentActions) > 0 {
		fmt.Fprintln(w, "Последние действия:")
		for _, action := range d.RecentActions {
			fmt.Fprintf(w, "  - %s\n", action)
		}
	}

	renderApplications(w, snap.Applications)
	if !snap.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Обновлено: %s\n", snap.UpdatedAt.Local().Format(dateLayout))
	}
	if !snap.Survey.Completed() && snap.Survey.Loaded {
		renderSurvey(w, snap.Survey)
	}
}

func renderApplications(w io.Writer, views []models.ApplicationView) {
	if len(views) == 0 {
		fmt.Fprintln(w, "Заявок пока нет")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tВакансия\tСтатус\tВремя\tML")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			v.Application.ID, v.Application.Title(), statusText(v), windowText(v.Window), score(v.Application.MLScore))
	}
	_ = tw.Flush()
}

func renderSurvey(w io.Writer, st services.SurveyState) {
	switch {
	case !st.Loaded:
		fmt.Fprintln(w, "Анкета недоступна, попробуйте reload")
	case st.ServerCompleted:
		fmt.Fprintln(w, "Анкета заполнена, спасибо!")
	case st.Skipped:
		fmt.Fprintln(w, "Анкета пропущена")
	case st.Current == nil:
		fmt.Fprintln(w, "Вопросов нет")
	default:
		fmt.Fprintf(w, "Вопрос %d из %d: %s\n", st.Index+1, st.Total, st.Current.Question.Text)
		if st.Current.Prefill != "" {
			fmt.Fprintf(w, "Текущий ответ: %s\n", st.Current.Prefill)
		}
		fmt.Fprintln(w, "answer <текст> — ответить, back — назад, skip — пропустить анкету")
	}
}

func renderEditor(w io.Writer, v *models.ApplicationView) {
	if v == nil {
		fmt.Fprintln(w, "Заявка не выбрана")
		return
	}
	a := v.Application
	fmt.Fprintf(w, "Заявка %s: %s\n", a.ID, a.Title())
	if a.Vacancy != nil {
		fmt.Fprintf(w, "Язык: %s, грейд: %s\n", orDash(a.Vacancy.Language), orDash(a.Vacancy.Grade))
	}
	fmt.Fprintf(w, "Статус: %s\n", v.Label)
	fmt.Fprintf(w, "Время: %s\n", windowText(v.Window))
	fmt.Fprintf(w, "ML-оценка: %s\n", score(a.MLScore))
}

// statusMarkers stands in for status colours in the terminal.
var statusMarkers = map[string]string{
	"status-pending":             "[ ]",
	"status-survey_completed":    "[~]",
	"status-algo_test_completed": "[~]",
	"status-under_review":        "[~]",
	"status-accepted":            "[+]",
	"status-rejected":            "[-]",
	"status-final_verdict":       "[=]",
}

func statusText(v models.ApplicationView) string {
	marker, ok := statusMarkers[v.Class]
	if !ok {
		marker = "[?]"
	}
	return marker + " " + v.Label
}

func windowText(tw models.TimeWindow) string {
	switch {
	case !tw.Visible:
		return "—"
	case tw.Tag == models.TagWarning:
		return "! " + tw.Text
	default:
		return tw.Text
	}
}

func score(s *float64) string {
	if s == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f", *s)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
