// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type ImageStore interface {
	Save(ctx context.Context, r io.Reader, filename string) (string, error)
	Delete(url string) error
}

var errMissingFields = core.InvalidInputError(
	"Name, price, stock, and categoryId are required.",
)

type Service struct {
	repo   Repository
	images ImageStore
	logger *zap.Logger
}

func NewService(repo Repository, images ImageStore, logger *zap.Logger) *Service {
	return &Service{repo: repo, images: images, logger: logger}
}

func (s *Service) List(ctx context.Context, params ListParams) (*ListResponse, error) {
	params.Normalize()

	products, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Products:    products,
		TotalPages:  int(math.Ceil(float64(total) / float64(params.Limit))),
		CurrentPage: params.Page,
		TotalItems:  total,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a product. An uploaded image takes precedence over an
// imageUrl field and is removed again if the insert fails.
func (s *Service) Create(
	ctx context.Context,
	req CreateProductRequest,
	upload *Upload,
) (*Product, error) {
	if req.Name == "" || req.Price == nil || req.Stock == nil || req.CategoryID == nil {
		return nil, errMissingFields
	}

	if req.Price.IsNegative() {
		return nil, core.InvalidInputError("Price must not be negative.")
	}

	product := &Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
		ImageURL:    req.ImageURL,
		CategoryID:  *req.CategoryID,
	}

	newImage, err := s.saveUpload(ctx, upload)
	if err != nil {
		return nil, err
	}
	if newImage != "" {
		product.ImageURL = &newImage
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.discardImage(newImage)
		return nil, err
	}

	s.logger.Info("product created",
		zap.Int64("product_id", product.ID),
		zap.String("name", product.Name),
	)

	return s.repo.GetByID(ctx, product.ID)
}

// Update applies a partial update. A new image replaces the stored one, and
// the old file is removed once the row is written.
func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateProductRequest,
	upload *Upload,
) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Price != nil && req.Price.IsNegative() {
		return nil, core.InvalidInputError("Price must not be negative.")
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}

	oldImage := ""
	if product.ImageURL != nil {
		oldImage = *product.ImageURL
	}

	newImage, err := s.saveUpload(ctx, upload)
	if err != nil {
		return nil, err
	}

	switch {
	case newImage != "":
		product.ImageURL = &newImage
	case req.ImageURL != nil:
		product.ImageURL = req.ImageURL
	}

	if err := s.repo.Update(ctx, product, req.Stock); err != nil {
		s.discardImage(newImage)
		return nil, err
	}

	if product.ImageURL == nil || *product.ImageURL != oldImage {
		s.discardImage(oldImage)
	}

	s.logger.Info("product updated", zap.Int64("product_id", product.ID))

	return s.repo.GetByID(ctx, product.ID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if product.ImageURL != nil {
		s.discardImage(*product.ImageURL)
	}

	s.logger.Info("product deleted",
		zap.Int64("product_id", id),
		zap.String("name", product.Name),
	)

	return nil
}

func (s *Service) saveUpload(ctx context.Context, upload *Upload) (string, error) {
	if upload == nil || upload.Reader == nil {
		return "", nil
	}

	url, err := s.images.Save(ctx, upload.Reader, upload.Filename)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	return url, nil
}

func (s *Service) discardImage(url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(url); err != nil {
		s.logger.Warn("image cleanup failed",
			zap.String("url", url),
			zap.Error(err),
		)
	}
}
