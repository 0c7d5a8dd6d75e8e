// AngelaMos | 2026
// dto.go

package product

import (
	"io"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type CreateProductRequest struct {
	Name        string      `json:"name"        validate:"required,max=255"`
	Description *string     `json:"description"`
	Price       *core.Money `json:"price"       validate:"required"`
	Stock       *int        `json:"stock"       validate:"required,gte=0"`
	CategoryID  *int64      `json:"categoryId"  validate:"required,gt=0"`
	ImageURL    *string     `json:"imageUrl"    validate:"omitempty,max=512"`
}

// UpdateProductRequest is a partial update. Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string     `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string     `json:"description"`
	Price       *core.Money `json:"price"`
	Stock       *int        `json:"stock"       validate:"omitempty,gte=0"`
	CategoryID  *int64      `json:"categoryId"  validate:"omitempty,gt=0"`
	ImageURL    *string     `json:"imageUrl"    validate:"omitempty,max=512"`
}

// Upload is an image file attached to a create or update request.
type Upload struct {
	Reader   io.Reader
	Filename string
}

type ListParams struct {
	Page       int
	Limit      int
	CategoryID *int64
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type ListResponse struct {
	Products    []Product `json:"products"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	TotalItems  int       `json:"totalItems"`
}
