// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

var errCategoryInUse = core.InUseError(
	"Cannot delete category: products are associated with it. Please reassign or delete products first.",
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CategoryRequest,
) (*Category, error) {
	category := &Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, duplicateName(err, category.Name)
	}

	s.logger.Info("category created", zap.String("name", category.Name))

	return category, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req CategoryRequest,
) (*Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(req.Name)
	if req.Description != nil {
		category.Description = req.Description
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, duplicateName(err, category.Name)
	}

	return category, nil
}

// Delete removes a category that no product references.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errCategoryInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrInUse) {
			return errCategoryInUse
		}
		return err
	}

	s.logger.Info("category deleted", zap.Int64("category_id", id))

	return nil
}

func duplicateName(err error, name string) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return core.DuplicateError(
			fmt.Sprintf("Category with name '%s' already exists.", name),
		)
	}
	return err
}
