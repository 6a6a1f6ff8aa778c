package product

import (
	"context"
	"errors"
	"strings"

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
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, filter ListFilter) (*ListResult, error)
	CreateProduct(ctx context.Context, input CreateInput) (*Product, error)
	UpdateProduct(ctx context.Context, id string, input UpdateInput) (*Product, error)
	ToggleProduct(ctx context.Context, id string) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) Service {
	return &service{repo: repo, newID: uuid.NewString}
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, id)
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) (*ListResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListProducts"),
	)

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	} else if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list products", zap.Error(err))
		return nil, err
	}

	return &ListResult{
		Products: products,
		Total:    total,
		Limit:    filter.Limit,
		Skip:     filter.Skip,
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("Product name is required")
	}
	if input.Price == nil {
		return nil, apperr.Validation("Product price is required")
	}
	if input.Price.IsNegative() {
		return nil, apperr.Validation("Product price cannot be negative")
	}
	if input.Stock == nil {
		return nil, apperr.Validation("Product stock is required")
	}
	if *input.Stock < 0 {
		return nil, apperr.Validation("Product stock cannot be negative")
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	p := &Product{
		ID:            s.newID(),
		Name:          name,
		NameAr:        input.NameAr,
		Description:   input.Description,
		DescriptionAr: input.DescriptionAr,
		Price:         *input.Price,
		Stock:         *input.Stock,
		ImageURL:      input.ImageURL,
		Active:        active,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, input UpdateInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.String("product_id", id),
	)

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.Validation("Product name cannot be empty")
		}
		input.Name = &name
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, apperr.Validation("Product price cannot be negative")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, apperr.Validation("Product stock cannot be negative")
	}

	if input.IsEmpty() {
		return s.GetProduct(ctx, id)
	}

	p, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			log.Error("failed to update product", zap.Error(err))
		}
		return nil, mapError(err, id)
	}
	return p, nil
}

func (s *service) ToggleProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		return nil, mapError(err, id)
	}
	logger.FromCtx(ctx).Info("product toggled",
		zap.String("product_id", id),
		zap.Bool("active", p.Active),
	)
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err, id)
	}
	logger.FromCtx(ctx).Info("product deleted", zap.String("product_id", id))
	return nil
}

func mapError(err error, id string) error {
	if errors.Is(err, ErrProductNotFound) {
		return apperr.NotFound("Product", id)
	}
	return err
}
