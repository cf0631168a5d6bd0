package models

import "strings"

type Question struct {
	ID   string
	Text string
}

// Answer is the user's reply to one question. There is at most one per
// question; a later submission replaces the text.
type Answer struct {
	ID         string
	QuestionID string
	Text       string
}

// Blank reports whether the answer carries no text after trimming.
func (a Answer) Blank() bool {
	return strings.TrimSpace(a.Text) == ""
}

// CoversAll reports whether every question has a non-blank answer.
func CoversAll(questions []Question, answers []Answer) bool {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		if !a.Blank() {
			answered[a.QuestionID] = true
		}
	}
	for _, q := range questions {
		if !answered[q.ID] {
			return false
		}
	}
	return true
}
