// Package models defines the client-side view of platform data: the user
// profile, the dashboard snapshot, assessment applications with their
// display state, and questionnaire items.
//
// Every value here is a cache of server truth. Records are replaced
// wholesale on each fetch and never patched field by field.
package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the authenticated user's identity record.
type UserProfile struct {
	ID          uuid.UUID
	Email       string
	FullName    *string
	IsVerified  bool
	IsAdmin     bool
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// DisplayName returns the full name when set, the e-mail otherwise.
func (p UserProfile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return p.Email
}

// DashboardSnapshot is a denormalised read model of the user's activity.
type DashboardSnapshot struct {
	LastExecutorStatus string
	PendingJobs        int
	LastLanguage       string
	RecentActions      []string
}
