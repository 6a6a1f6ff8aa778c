package lead

import (
	"context"
	"errors"
	"strings"
	"time"

	"salesdesk-be/internal/apperr"
	"salesdesk-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type Service interface {
	GetLead(ctx context.Context, id string) (*Lead, error)
	ListLeads(ctx context.Context, filter ListFilter) (*ListResult, error)
	CreateLead(ctx context.Context, input CreateInput) (*Lead, error)
	UpdateLead(ctx context.Context, id string, input UpdateInput) (*Lead, error)
	DeleteLead(ctx context.Context, id string) error
	MessageForLead(ctx context.Context, id string) (*MessageTemplate, error)
}

type service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) Service {
	return &service{repo: repo, newID: uuid.NewString}
}

func (s *service) GetLead(ctx context.Context, id string) (*Lead, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, id)
	}
	return l, nil
}

func (s *service) ListLeads(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperr.Validation("Invalid lead status: %s", *filter.Status)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	} else if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	leads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list leads", zap.Error(err))
		return nil, err
	}
	return &ListResult{Leads: leads, Total: total, Limit: filter.Limit, Skip: filter.Skip}, nil
}

func (s *service) CreateLead(ctx context.Context, input CreateInput) (*Lead, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateLead"),
	)

	brand := strings.TrimSpace(input.BrandName)
	platform := Platform(strings.TrimSpace(input.Platform))
	if brand == "" || platform == "" {
		return nil, apperr.Validation("Brand name and platform are required")
	}
	if !platform.Valid() {
		return nil, apperr.Validation("Invalid platform: %s", platform)
	}

	l := &Lead{
		ID:              s.newID(),
		BrandName:       brand,
		InstagramHandle: optional(input.InstagramHandle),
		Platform:        platform,
		Status:          StatusNew,
		Notes:           optional(input.Notes),
	}

	var err error
	if l.DateContacted, err = parseDate(input.DateContacted); err != nil {
		return nil, err
	}
	if l.ReplyStatus, err = parseReplyStatus(input.ReplyStatus); err != nil {
		return nil, err
	}
	if l.InterestLevel, err = parseInterestLevel(input.InterestLevel); err != nil {
		return nil, err
	}
	if input.DemoSent != nil {
		l.DemoSent = *input.DemoSent
	}
	if input.Status != nil && *input.Status != "" {
		status := Status(*input.Status)
		if !status.Valid() {
			return nil, apperr.Validation("Invalid lead status: %s", status)
		}
		l.Status = status
	}

	if err := s.repo.Create(ctx, l); err != nil {
		log.Error("failed to create lead", zap.Error(err))
		return nil, err
	}

	log.Info("lead created", zap.String("lead_id", l.ID), zap.String("platform", string(l.Platform)))
	return l, nil
}

func (s *service) UpdateLead(ctx context.Context, id string, input UpdateInput) (*Lead, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateLead"),
		zap.String("lead_id", id),
	)

	patch, err := buildPatch(input)
	if err != nil {
		return nil, err
	}

	l, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if !errors.Is(err, ErrLeadNotFound) {
			log.Error("failed to update lead", zap.Error(err))
		}
		return nil, mapError(err, id)
	}
	return l, nil
}

func (s *service) DeleteLead(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err, id)
	}
	logger.FromCtx(ctx).Info("lead deleted", zap.String("lead_id", id))
	return nil
}

// MessageForLead returns the outreach template matching the lead's status.
func (s *service) MessageForLead(ctx context.Context, id string) (*MessageTemplate, error) {
	l, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	msg, ok := MessageByStatus(l.Status)
	if !ok {
		return nil, apperr.NotFound("Message template", string(l.Status))
	}
	return &msg, nil
}

func buildPatch(input UpdateInput) (Patch, error) {
	var p Patch

	if input.BrandName != nil {
		brand := strings.TrimSpace(*input.BrandName)
		if brand == "" {
			return Patch{}, apperr.Validation("Brand name cannot be empty")
		}
		p.BrandName = &brand
	}
	if input.InstagramHandle != nil {
		p.InstagramHandleSet = true
		p.InstagramHandle = optional(input.InstagramHandle)
	}
	if input.Platform != nil {
		platform := Platform(strings.TrimSpace(*input.Platform))
		if !platform.Valid() {
			return Patch{}, apperr.Validation("Invalid platform: %s", platform)
		}
		p.Platform = &platform
	}
	if input.DateContacted != nil {
		d, err := parseDate(input.DateContacted)
		if err != nil {
			return Patch{}, err
		}
		p.DateContactedSet = true
		p.DateContacted = d
	}
	if input.ReplyStatus != nil {
		r, err := parseReplyStatus(input.ReplyStatus)
		if err != nil {
			return Patch{}, err
		}
		p.ReplyStatusSet = true
		p.ReplyStatus = r
	}
	if input.InterestLevel != nil {
		i, err := parseInterestLevel(input.InterestLevel)
		if err != nil {
			return Patch{}, err
		}
		p.InterestLevelSet = true
		p.InterestLevel = i
	}
	p.DemoSent = input.DemoSent
	if input.Status != nil {
		status := Status(*input.Status)
		if !status.Valid() {
			return Patch{}, apperr.Validation("Invalid lead status: %s", status)
		}
		p.Status = &status
	}
	if input.Notes != nil {
		p.NotesSet = true
		p.Notes = optional(input.Notes)
	}
	return p, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.Validation("Invalid date: %s", v)
}

func parseReplyStatus(s *string) (*ReplyStatus, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	r := ReplyStatus(*s)
	if !r.Valid() {
		return nil, apperr.Validation("Invalid reply status: %s", r)
	}
	return &r, nil
}

func parseInterestLevel(s *string) (*InterestLevel, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	i := InterestLevel(*s)
	if !i.Valid() {
		return nil, apperr.Validation("Invalid interest level: %s", i)
	}
	return &i, nil
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func mapError(err error, id string) error {
	if errors.Is(err, ErrLeadNotFound) {
		return apperr.NotFound("Lead", id)
	}
	return err
}
