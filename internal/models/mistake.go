package models

import "time"

// Status tracks how far a logged mistake has progressed.
type Status string

const (
	StatusInProgress Status = "In progress"
	StatusResolved   Status = "Resolved"
	StatusOngoing    Status = "Ongoing"
)

// Valid reports whether the status is one of the three accepted values.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusResolved, StatusOngoing:
		return true
	default:
		return false
	}
}

// MistakeRecord is one logged mistake entry. The date is carried as an ISO
// YYYY-MM-DD string end to end; every consumer (validation, search, the
// weekly review threshold) operates on that form.
type MistakeRecord struct {
	ID               int64     `db:"id" json:"id"`
	MistakeDate      string    `db:"mistake_date" json:"mistake_date"`
	MistakeIssue     string    `db:"mistake_issue" json:"mistake_issue"`
	ContextSituation string    `db:"context_situation" json:"context_situation"`
	MentorFeedback   string    `db:"mentor_feedback" json:"mentor_feedback"`
	WhatLearned      string    `db:"what_learned" json:"what_learned"`
	PlanImprove      string    `db:"plan_improve" json:"plan_improve"`
	Status           Status    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// StatusCount is one row of the by-status grouping.
type StatusCount struct {
	Status Status `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

// Stats aggregates the journal. ProgressRate is round(resolved/total*100),
// zero on an empty store; Recent counts records dated within the last seven
// days inclusive of today. All values cover the unfiltered record set.
type Stats struct {
	Total        int           `json:"total"`
	Resolved     int           `json:"resolved"`
	ProgressRate int           `json:"progress_rate"`
	ByStatus     []StatusCount `json:"by_status"`
	Recent       int           `json:"recent"`
}
