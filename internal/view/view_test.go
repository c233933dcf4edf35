package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mistake-journal/internal/models"
)

func sampleRecords() []models.MistakeRecord {
	return []models.MistakeRecord{
		{ID: 1, MistakeIssue: "bad input handling", ContextSituation: "signup form", WhatLearned: "validate early", PlanImprove: "add guards", Status: models.StatusResolved},
		{ID: 2, MistakeIssue: "slow query", ContextSituation: "reports page", WhatLearned: "explain plans", PlanImprove: "add index", Status: models.StatusInProgress},
	}
}

func manyRecords(n int) []models.MistakeRecord {
	out := make([]models.MistakeRecord, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.MistakeRecord{ID: int64(i), MistakeIssue: fmt.Sprintf("issue %d", i)})
	}
	return out
}

func TestSearchFiltersAcrossFields(t *testing.T) {
	state := NewState(sampleRecords()).WithSearch("input")
	v := Compute(state)

	require.Len(t, v.Slice, 1)
	assert.Equal(t, int64(1), v.Slice[0].ID)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	state := NewState(sampleRecords()).WithSearch("SLOW")
	v := Compute(state)

	require.Len(t, v.Slice, 1)
	assert.Equal(t, int64(2), v.Slice[0].ID)
}

func TestSearchMatchesFeedbackField(t *testing.T) {
	records := sampleRecords()
	records[1].MentorFeedback = "watch the N+1 pattern"
	state := NewState(records).WithSearch("n+1")
	v := Compute(state)

	require.Len(t, v.Slice, 1)
	assert.Equal(t, int64(2), v.Slice[0].ID)
}

func TestStatusFilter(t *testing.T) {
	state := NewState(sampleRecords()).WithStatus("Resolved")
	v := Compute(state)

	require.Len(t, v.Slice, 1)
	assert.Equal(t, int64(1), v.Slice[0].ID)
}

func TestSearchAndStatusCombine(t *testing.T) {
	state := NewState(sampleRecords()).WithSearch("query").WithStatus("Resolved")
	v := Compute(state)

	assert.Empty(t, v.Slice)
	assert.Equal(t, 0, v.FilteredCount)
}

func TestFilterChangeResetsPage(t *testing.T) {
	state := NewState(manyRecords(25)).WithPage(3)
	require.Equal(t, 3, state.Page)

	assert.Equal(t, 1, state.WithSearch("issue").Page)
	assert.Equal(t, 1, state.WithStatus("Resolved").Page)
	assert.Equal(t, 1, state.WithPageSize(5).Page)
}

func TestPagination(t *testing.T) {
	state := NewState(manyRecords(25))
	v := Compute(state)
	assert.Equal(t, 3, v.PageCount)
	assert.Len(t, v.Slice, 10)
	assert.Equal(t, int64(1), v.Slice[0].ID)

	v = Compute(state.WithPage(3))
	assert.Len(t, v.Slice, 5)
	assert.Equal(t, int64(21), v.Slice[0].ID)
}

func TestPageNavigationClamps(t *testing.T) {
	state := NewState(manyRecords(25))

	assert.Equal(t, 1, state.WithPage(0).Page, "page 0 stays within range")
	assert.Equal(t, 3, state.WithPage(4).Page, "page past the end stays within range")
	assert.Equal(t, 2, state.WithPage(2).Page)
}

func TestPageSizeChangePreservesFilters(t *testing.T) {
	state := NewState(manyRecords(25)).WithSearch("issue 1").WithPageSize(5)

	assert.Equal(t, "issue 1", state.Search)
	assert.Equal(t, 1, state.Page)
	// "issue 1" matches 1, 10..19 — eleven records.
	v := Compute(state)
	assert.Equal(t, 11, v.FilteredCount)
	assert.Equal(t, 3, v.PageCount)
}

func TestEmptySetYieldsSinglePage(t *testing.T) {
	v := Compute(NewState(nil))

	assert.Empty(t, v.Slice)
	assert.Equal(t, 0, v.FilteredCount)
	assert.Equal(t, 0, v.PageCount)
	assert.Equal(t, 1, v.Page)
}

func TestSliceKeepsStoreOrder(t *testing.T) {
	state := NewState(manyRecords(25)).WithPage(2)
	v := Compute(state)

	require.Len(t, v.Slice, 10)
	for i, rec := range v.Slice {
		assert.Equal(t, int64(11+i), rec.ID)
	}
}

func TestStatsIgnoreFilters(t *testing.T) {
	records := sampleRecords()
	state := NewState(records).WithSearch("query").WithStatus("In progress")
	_ = Compute(state)

	total, resolved, rate := Stats(state.Records)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 50, rate)
}

func TestStatsEmpty(t *testing.T) {
	total, resolved, rate := Stats(nil)
	assert.Zero(t, total)
	assert.Zero(t, resolved)
	assert.Zero(t, rate)
}

func TestStatsRounding(t *testing.T) {
	records := []models.MistakeRecord{
		{Status: models.StatusResolved},
		{Status: models.StatusInProgress},
		{Status: models.StatusInProgress},
	}
	_, _, rate := Stats(records)
	assert.Equal(t, 33, rate)
}
