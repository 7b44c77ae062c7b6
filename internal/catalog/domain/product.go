package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductStatusDraft      ProductStatus = "draft"
	ProductStatusPublished  ProductStatus = "published"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusPublished, ProductStatusOutOfStock:
		return true
	}
	return false
}

type Product struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Price         float64       `json:"price"`
	Images        []string      `json:"images"`
	Status        ProductStatus `json:"status"`
	StockQuantity int           `json:"stock_quantity"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Purchasable reports whether the given quantity can be ordered right now.
func (p *Product) Purchasable(quantity int) bool {
	return p.Status == ProductStatusPublished && quantity >= 1 && quantity <= p.StockQuantity
}
