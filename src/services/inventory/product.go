package inventory

import (
	"time"

	"bagbanter-api/src/apperrors"
)

type Variant struct {
	Color string `bson:"color" json:"color"`
	Stock int    `bson:"stock" json:"stock"`
}

type Product struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	Price         float64   `bson:"price" json:"price"`
	OriginalPrice float64   `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Images        []string  `bson:"images" json:"images"`
	Category      string    `bson:"category" json:"category"`
	Rating        float64   `bson:"rating" json:"rating"`
	Reviews       int       `bson:"reviews" json:"reviews"`
	Sold          int       `bson:"sold" json:"sold"`
	StockCount    int       `bson:"stockCount" json:"stockCount"`
	Variants      []Variant `bson:"variants,omitempty" json:"variants,omitempty"`
	IsFeatured    bool      `bson:"isFeatured" json:"isFeatured"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// ProductPatch carries a partial catalog edit. Nil fields are left as is.
type ProductPatch struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	OriginalPrice *float64  `json:"originalPrice"`
	Category      *string   `json:"category"`
	Images        []string  `json:"images"`
	StockCount    *int      `json:"stockCount"`
	Variants      []Variant `json:"variants"`
	IsFeatured    *bool     `json:"isFeatured"`
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return apperrors.Validation("product name is required")
	}
	if p.Category == "" {
		return apperrors.Validation("product category is required")
	}
	if p.Price < 0 || p.OriginalPrice < 0 {
		return apperrors.Validation("product price cannot be negative")
	}
	if p.StockCount < 0 {
		return apperrors.Validation("product stock cannot be negative")
	}
	seen := make(map[string]bool, len(p.Variants))
	for _, v := range p.Variants {
		if v.Color == "" {
			return apperrors.Validation("variant color is required")
		}
		if v.Stock < 0 {
			return apperrors.Validation("variant %q stock cannot be negative", v.Color)
		}
		if seen[v.Color] {
			return apperrors.Validation("variant %q is listed twice", v.Color)
		}
		seen[v.Color] = true
	}
	return nil
}

// touchesStock reports whether patch rewrites a stock level.
func (patch ProductPatch) touchesStock() bool {
	return patch.StockCount != nil || patch.Variants != nil
}

// Apply copies the set fields of patch onto p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.OriginalPrice != nil {
		p.OriginalPrice = *patch.OriginalPrice
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Images != nil {
		p.Images = patch.Images
	}
	if patch.StockCount != nil {
		p.StockCount = *patch.StockCount
	}
	if patch.Variants != nil {
		p.Variants = patch.Variants
	}
	if patch.IsFeatured != nil {
		p.IsFeatured = *patch.IsFeatured
	}
}

// ApplySale removes quantity units from stock, floored at zero, and adds
// them to the sold counter. With a color the matching variant's stock is
// used, otherwise StockCount. It reports false, leaving p untouched, when
// the color does not name a variant of p.
//
// This is the in-memory form of the update pipeline RecordSale runs in
// MongoDB; the two must stay in step.
func ApplySale(p *Product, color string, quantity int) bool {
	if color != "" {
		idx := -1
		for i := range p.Variants {
			if p.Variants[i].Color == color {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false
		}
		p.Variants[idx].Stock = clamp(p.Variants[idx].Stock - quantity)
	} else {
		p.StockCount = clamp(p.StockCount - quantity)
	}
	p.Sold += quantity
	return true
}

func clamp(stock int) int {
	if stock < 0 {
		return 0
	}
	return stock
}
