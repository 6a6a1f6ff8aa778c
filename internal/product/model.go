package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	NameAr        *string         `json:"nameAr,omitempty"`
	Description   *string         `json:"description,omitempty"`
	DescriptionAr *string         `json:"descriptionAr,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type CreateInput struct {
	Name          string           `json:"name"`
	NameAr        *string          `json:"nameAr"`
	Description   *string          `json:"description"`
	DescriptionAr *string          `json:"descriptionAr"`
	Price         *decimal.Decimal `json:"price"`
	Stock         *int             `json:"stock"`
	ImageURL      *string          `json:"imageUrl"`
	Active        *bool            `json:"active"`
}

// UpdateInput patches only the non-nil fields.
type UpdateInput struct {
	Name          *string          `json:"name"`
	NameAr        *string          `json:"nameAr"`
	Description   *string          `json:"description"`
	DescriptionAr *string          `json:"descriptionAr"`
	Price         *decimal.Decimal `json:"price"`
	Stock         *int             `json:"stock"`
	ImageURL      *string          `json:"imageUrl"`
	Active        *bool            `json:"active"`
}

func (u UpdateInput) IsEmpty() bool {
	return u.Name == nil &&
		u.NameAr == nil &&
		u.Description == nil &&
		u.DescriptionAr == nil &&
		u.Price == nil &&
		u.Stock == nil &&
		u.ImageURL == nil &&
		u.Active == nil
}

type ListFilter struct {
	Active *bool
	Limit  int
	Skip   int
}

type ListResult struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Skip     int       `json:"skip"`
}
