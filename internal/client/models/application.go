package models

import "time"

// Status is the server-assigned lifecycle stage of an application.
// The client only displays it and never checks transition legality.
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusSurveyCompleted
	StatusAlgoTestCompleted
	StatusUnderReview
	StatusAccepted
	StatusRejected
	StatusFinalVerdict
)

type statusInfo struct {
	wire  string
	label string
}

var statuses = map[Status]statusInfo{
	StatusPending:           {"pending", "Ожидает анкеты"},
	StatusSurveyCompleted:   {"survey_completed", "Анкета заполнена"},
	StatusAlgoTestCompleted: {"algo_test_completed", "Алгоритмический тест пройден"},
	StatusUnderReview:       {"under_review", "На рассмотрении"},
	StatusAccepted:          {"accepted", "Принят"},
	StatusRejected:          {"rejected", "Отклонён"},
	StatusFinalVerdict:      {"final_verdict", "Финальное решение"},
}

var statusByWire = func() map[string]Status {
	m := make(map[string]Status, len(statuses))
	for s, info := range statuses {
		m[info.wire] = s
	}
	return m
}()

// ApplicationStatus is a status together with the raw value it was parsed
// from, so an unrecognised value can still be shown verbatim.
type ApplicationStatus struct {
	Status Status
	Raw    string
}

// ParseStatus never fails: unknown values map to StatusUnknown.
func ParseStatus(raw string) ApplicationStatus {
	s, ok := statusByWire[raw]
	if !ok {
		return ApplicationStatus{Status: StatusUnknown, Raw: raw}
	}
	return ApplicationStatus{Status: s, Raw: raw}
}

func (s ApplicationStatus) Known() bool {
	return s.Status != StatusUnknown
}

// Label is the localised text of the status; unknown values are returned
// as received.
func (s ApplicationStatus) Label() string {
	if info, ok := statuses[s.Status]; ok {
		return info.label
	}
	return s.Raw
}

// Class is the visual class used to colour the status.
func (s ApplicationStatus) Class() string {
	if info, ok := statuses[s.Status]; ok {
		return "status-" + info.wire
	}
	return "status-unknown"
}

// Vacancy describes a role. Any field may be empty when the server embeds
// only part of it.
type Vacancy struct {
	ID       string
	Title    string
	Position string
	Language string
	Grade    string
}

// Application is one assessment attempt.
//
// StartedAt is set once the timed portion begins and is never cleared;
// CompletedAt, when present, is not before StartedAt.
type Application struct {
	ID               string
	Vacancy          *Vacancy
	Status           ApplicationStatus
	MLScore          *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	TimeLimitMinutes int
}

// Title picks the most descriptive vacancy field available.
func (a Application) Title() string {
	if a.Vacancy == nil {
		return "Вакансия #" + a.ID
	}
	switch {
	case a.Vacancy.Title != "":
		return a.Vacancy.Title
	case a.Vacancy.Position != "":
		return a.Vacancy.Position
	default:
		return "Вакансия #" + a.ID
	}
}

// ApplicationView is the per-application display state derived at a given
// instant.
type ApplicationView struct {
	Application Application
	Label       string
	Class       string
	Window      TimeWindow
}

// View derives the display state of a at now.
func (a Application) View(now time.Time) ApplicationView {
	return ApplicationView{
		Application: a,
		Label:       a.Status.Label(),
		Class:       a.Status.Class(),
		Window:      DeriveTimeWindow(now, a.StartedAt, a.CompletedAt, a.TimeLimitMinutes),
	}
}
