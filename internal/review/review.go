// Package review derives the weekly digest from the full record set. It is
// pure display data: no caching, no side effects, recomputed on demand.
package review

import (
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/mistake-journal/internal/models"
)

const dateLayout = "2006-01-02"

// Pattern is a recurring-issue category with its occurrence count.
type Pattern struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Digest is the weekly summary shown in the review panel.
type Digest struct {
	RecentCount      int                    `json:"recent_count"`
	RecentlyResolved []models.MistakeRecord `json:"recently_resolved"`
	Patterns         []Pattern              `json:"patterns"`
}

// Empty reports the no-activity state.
func (d Digest) Empty() bool {
	return d.RecentCount == 0 && len(d.RecentlyResolved) == 0 && len(d.Patterns) == 0
}

// categoryRule classifies an issue by the first matching keyword group. The
// precedence order is fixed: re-ordering silently changes categorization.
type categoryRule struct {
	name     string
	keywords []string
}

var categoryRules = []categoryRule{
	{"Input Validation", []string{"input", "validation", "sanitiz"}},
	{"Testing", []string{"test"}},
	{"Security", []string{"security", "auth"}},
	{"Performance", []string{"performance", "slow"}},
	{"User Interface", []string{"ui", "interface", "user"}},
	{"Database", []string{"database", "query", "sql"}},
	{"Code Logic", []string{"code", "logic", "algorithm"}},
}

const categoryOther = "Other"

// Categorize assigns an issue text to exactly one category.
func Categorize(issue string) string {
	lowered := strings.ToLower(issue)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.name
			}
		}
	}
	return categoryOther
}

// Synthesize builds the digest for the week ending at today.
func Synthesize(records []models.MistakeRecord, today time.Time) Digest {
	weekAgo := today.AddDate(0, 0, -7)

	var digest Digest
	counts := map[string]int{}
	order := []string{}

	for _, rec := range records {
		recent := withinWeek(rec.MistakeDate, weekAgo)
		if recent {
			digest.RecentCount++
		}
		if recent && rec.Status == models.StatusResolved {
			digest.RecentlyResolved = append(digest.RecentlyResolved, rec)
		}

		category := Categorize(rec.MistakeIssue)
		if _, seen := counts[category]; !seen {
			order = append(order, category)
		}
		counts[category]++
	}

	for _, category := range order {
		if counts[category] > 1 {
			digest.Patterns = append(digest.Patterns, Pattern{Category: category, Count: counts[category]})
		}
	}
	// Stable sort keeps first-seen order deterministic on equal counts.
	sort.SliceStable(digest.Patterns, func(i, j int) bool {
		return digest.Patterns[i].Count > digest.Patterns[j].Count
	})

	return digest
}

// withinWeek reports whether the ISO date falls on or after the threshold.
func withinWeek(isoDate string, weekAgo time.Time) bool {
	d, err := time.Parse(dateLayout, isoDate)
	if err != nil {
		return false
	}
	cutoff := time.Date(weekAgo.Year(), weekAgo.Month(), weekAgo.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(cutoff)
}
