// Package view holds the client-side record cache and the derived view over
// it. State is immutable: every input change goes through a pure transition
// returning a new State, and Compute derives the visible slice on demand.
package view

import (
	"strings"

	"github.com/noah-isme/mistake-journal/internal/models"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// DefaultPageSize matches the original client default.
const DefaultPageSize = 10

// State is the full fetched record set plus the active view inputs.
type State struct {
	Records  []models.MistakeRecord
	Search   string
	Status   string
	Page     int
	PageSize int
}

// View is the derived, display-ready projection of a State.
type View struct {
	Slice         []models.MistakeRecord
	FilteredCount int
	PageCount     int
	Page          int
}

// NewState returns the initial state for a fetched record set.
func NewState(records []models.MistakeRecord) State {
	return State{Records: records, Status: StatusAll, Page: 1, PageSize: DefaultPageSize}
}

// WithRecords replaces the cached record set, keeping filters and clamping
// the page against the new set.
func (s State) WithRecords(records []models.MistakeRecord) State {
	s.Records = records
	return s.clamped()
}

// WithSearch sets the search term and resets to the first page.
func (s State) WithSearch(term string) State {
	s.Search = term
	s.Page = 1
	return s
}

// WithStatus sets the status filter and resets to the first page.
func (s State) WithStatus(status string) State {
	if status == "" {
		status = StatusAll
	}
	s.Status = status
	s.Page = 1
	return s
}

// WithPage navigates to a page, clamped into the valid range. Filters and
// page size are preserved.
func (s State) WithPage(page int) State {
	s.Page = page
	return s.clamped()
}

// WithPageSize changes the page size, preserving filters and resetting to
// the first page.
func (s State) WithPageSize(size int) State {
	if size > 0 {
		s.PageSize = size
	}
	s.Page = 1
	return s
}

// clamped keeps the page inside [1, max(1, pageCount)].
func (s State) clamped() State {
	limit := s.pageCount(len(s.filtered()))
	if limit < 1 {
		limit = 1
	}
	if s.Page > limit {
		s.Page = limit
	}
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}

// pageCount is ceil(filteredCount / pageSize); zero for an empty set.
func (s State) pageCount(filteredCount int) int {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return (filteredCount + size - 1) / size
}

// filtered applies the search term and status filter in store order.
func (s State) filtered() []models.MistakeRecord {
	out := s.Records
	if term := strings.ToLower(strings.TrimSpace(s.Search)); term != "" {
		matched := make([]models.MistakeRecord, 0, len(out))
		for _, rec := range out {
			if matchesTerm(rec, term) {
				matched = append(matched, rec)
			}
		}
		out = matched
	}
	if s.Status != "" && s.Status != StatusAll {
		matched := make([]models.MistakeRecord, 0, len(out))
		for _, rec := range out {
			if string(rec.Status) == s.Status {
				matched = append(matched, rec)
			}
		}
		out = matched
	}
	return out
}

// matchesTerm reports whether the term appears in any searchable field.
func matchesTerm(rec models.MistakeRecord, term string) bool {
	for _, field := range []string{
		rec.MistakeIssue,
		rec.ContextSituation,
		rec.WhatLearned,
		rec.PlanImprove,
		rec.MentorFeedback,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Compute derives the visible slice for the current state.
func Compute(s State) View {
	filtered := s.filtered()
	pageCount := s.pageCount(len(filtered))

	page := s.Page
	if limit := pageCount; limit >= 1 && page > limit {
		page = limit
	}
	if page < 1 {
		page = 1
	}

	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	start := (page - 1) * size
	end := start + size
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return View{
		Slice:         filtered[start:end],
		FilteredCount: len(filtered),
		PageCount:     pageCount,
		Page:          page,
	}
}

// Stats computes the summary counters over the unfiltered record set; the
// active search and status filter never affect it.
func Stats(records []models.MistakeRecord) (total, resolved, progressRate int) {
	total = len(records)
	for _, rec := range records {
		if rec.Status == models.StatusResolved {
			resolved++
		}
	}
	if total > 0 {
		progressRate = int(float64(resolved)/float64(total)*100 + 0.5)
	}
	return total, resolved, progressRate
}
