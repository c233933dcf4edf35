package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mistake-journal/internal/models"
	appErrors "github.com/noah-isme/mistake-journal/pkg/errors"
)

const statsCacheKey = "stats:mistakes"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type mistakeRepository interface {
	ListAll(ctx context.Context) ([]models.MistakeRecord, error)
	Create(ctx context.Context, rec *models.MistakeRecord) error
	Update(ctx context.Context, rec *models.MistakeRecord) error
	Delete(ctx context.Context, id int64) error
	AggregateStats(ctx context.Context) (*models.Stats, error)
}

// MistakeService validates, sanitizes and persists mistake records.
type MistakeService struct {
	repo      mistakeRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMistakeService constructs the service.
func NewMistakeService(repo mistakeRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *MistakeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &MistakeService{repo: repo, cache: cache, validator: validate, logger: logger}
	svc.validator.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return datePattern.MatchString(fl.Field().String())
	})
	svc.validator.RegisterValidation("mistake_status", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	})
	return svc
}

// MistakeInput carries the client-writable fields of a record.
type MistakeInput struct {
	MistakeDate      string `json:"mistake_date" form:"mistake_date" validate:"required,isodate"`
	MistakeIssue     string `json:"mistake_issue" form:"mistake_issue" validate:"required"`
	ContextSituation string `json:"context_situation" form:"context_situation" validate:"required"`
	MentorFeedback   string `json:"mentor_feedback" form:"mentor_feedback"`
	WhatLearned      string `json:"what_learned" form:"what_learned" validate:"required"`
	PlanImprove      string `json:"plan_improve" form:"plan_improve" validate:"required"`
	Status           string `json:"status" form:"status" validate:"mistake_status"`
}

// sanitize trims every text field and applies the status default.
func (in *MistakeInput) sanitize() {
	in.MistakeDate = strings.TrimSpace(in.MistakeDate)
	in.MistakeIssue = strings.TrimSpace(in.MistakeIssue)
	in.ContextSituation = strings.TrimSpace(in.ContextSituation)
	in.MentorFeedback = strings.TrimSpace(in.MentorFeedback)
	in.WhatLearned = strings.TrimSpace(in.WhatLearned)
	in.PlanImprove = strings.TrimSpace(in.PlanImprove)
	in.Status = strings.TrimSpace(in.Status)
	if in.Status == "" {
		in.Status = string(models.StatusInProgress)
	}
}

// validate returns the field-level messages, multiple errors together.
func (s *MistakeService) validate(in MistakeInput) []string {
	err := s.validator.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"Invalid input"}
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "MistakeDate":
			if fe.Tag() == "required" {
				messages = append(messages, "Date is required")
			} else {
				messages = append(messages, "Invalid date format")
			}
		case "MistakeIssue":
			messages = append(messages, "Mistake/Issue is required")
		case "ContextSituation":
			messages = append(messages, "Context/Situation is required")
		case "WhatLearned":
			messages = append(messages, "What I Learned is required")
		case "PlanImprove":
			messages = append(messages, "Plan to Improve is required")
		case "Status":
			messages = append(messages, "Invalid status")
		}
	}
	return messages
}

// List returns every record ordered newest first.
func (s *MistakeService) List(ctx context.Context) ([]models.MistakeRecord, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list mistakes", zap.Error(err))
		return nil, appErrors.Clone(appErrors.ErrPersistence, "Error retrieving mistakes")
	}
	return records, nil
}

// Add validates and stores a new record, returning it with its assigned id.
func (s *MistakeService) Add(ctx context.Context, in MistakeInput) (*models.MistakeRecord, error) {
	in.sanitize()
	if messages := s.validate(in); len(messages) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, strings.Join(messages, ", "))
	}
	rec := &models.MistakeRecord{
		MistakeDate:      in.MistakeDate,
		MistakeIssue:     in.MistakeIssue,
		ContextSituation: in.ContextSituation,
		MentorFeedback:   in.MentorFeedback,
		WhatLearned:      in.WhatLearned,
		PlanImprove:      in.PlanImprove,
		Status:           models.Status(in.Status),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("failed to add mistake", zap.Error(err))
		return nil, appErrors.Clone(appErrors.ErrPersistence, "Error adding mistake")
	}
	s.cache.Invalidate(ctx, statsCacheKey)
	return rec, nil
}

// Update replaces the fields of an existing record.
func (s *MistakeService) Update(ctx context.Context, id int64, in MistakeInput) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "Invalid mistake ID")
	}
	in.sanitize()
	if messages := s.validate(in); len(messages) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, strings.Join(messages, ", "))
	}
	rec := &models.MistakeRecord{
		ID:               id,
		MistakeDate:      in.MistakeDate,
		MistakeIssue:     in.MistakeIssue,
		ContextSituation: in.ContextSituation,
		MentorFeedback:   in.MentorFeedback,
		WhatLearned:      in.WhatLearned,
		PlanImprove:      in.PlanImprove,
		Status:           models.Status(in.Status),
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		s.logger.Error("failed to update mistake", zap.Int64("id", id), zap.Error(err))
		return appErrors.Clone(appErrors.ErrPersistence, "Error updating mistake")
	}
	s.cache.Invalidate(ctx, statsCacheKey)
	return nil
}

// Delete removes a record permanently.
func (s *MistakeService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "Invalid mistake ID")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		s.logger.Error("failed to delete mistake", zap.Int64("id", id), zap.Error(err))
		return appErrors.Clone(appErrors.ErrPersistence, "Error deleting mistake")
	}
	s.cache.Invalidate(ctx, statsCacheKey)
	return nil
}

// Stats returns the journal aggregate, served from cache when enabled.
func (s *MistakeService) Stats(ctx context.Context) (*models.Stats, error) {
	var cached models.Stats
	if s.cache.Get(ctx, statsCacheKey, &cached) {
		return &cached, nil
	}
	stats, err := s.repo.AggregateStats(ctx)
	if err != nil {
		s.logger.Error("failed to aggregate stats", zap.Error(err))
		return nil, appErrors.Clone(appErrors.ErrPersistence, "Error retrieving statistics")
	}
	s.cache.Set(ctx, statsCacheKey, stats)
	return stats, nil
}
