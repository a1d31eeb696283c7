package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bagbanter-api/src/apperrors"
	"bagbanter-api/src/infrastructure/log"

	"github.com/google/uuid"
)

const (
	featuredLimit   = 5
	maxEditAttempts = 3
)

type inventoryService struct {
	logger            log.Logger
	productRepository ProductRepository
	now               func() time.Time
}

type InventoryService interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
	ListProducts(ctx context.Context, category string) ([]Product, error)
	FeaturedProducts(ctx context.Context) ([]Product, error)
	LowStockProducts(ctx context.Context, threshold int) ([]Product, error)
	AddProduct(ctx context.Context, product Product) (*Product, error)
	UpdateProduct(ctx context.Context, productID string, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	SeedProduct(ctx context.Context, product Product) error
	// RecordSale reports false when the product or variant is unknown.
	RecordSale(ctx context.Context, productID, color string, quantity int) (bool, error)
}

func NewInventoryService(logger log.Logger, productRepo ProductRepository) InventoryService {
	return &inventoryService{
		logger:            logger,
		productRepository: productRepo,
		now:               time.Now,
	}
}

func (s *inventoryService) GetProduct(ctx context.Context, productID string) (*Product, error) {
	product, err := s.productRepository.GetProductById(ctx, productID)
	if err != nil {
		return nil, apperrors.Unavailable("get product", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product", productID)
	}
	return product, nil
}

// ListProducts returns the catalog. An empty category or "all" disables filtering.
func (s *inventoryService) ListProducts(ctx context.Context, category string) ([]Product, error) {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	products, err := s.productRepository.GetProducts(ctx, category)
	return products, apperrors.Unavailable("list products", err)
}

// FeaturedProducts returns the flagged products, or any products when none are flagged.
func (s *inventoryService) FeaturedProducts(ctx context.Context) ([]Product, error) {
	products, err := s.productRepository.GetFeaturedProducts(ctx, featuredLimit)
	if err != nil {
		return nil, apperrors.Unavailable("featured products", err)
	}
	if len(products) > 0 {
		return products, nil
	}

	all, err := s.productRepository.GetProducts(ctx, "")
	if err != nil {
		return nil, apperrors.Unavailable("featured fallback", err)
	}
	if len(all) > featuredLimit {
		all = all[:featuredLimit]
	}
	return all, nil
}

func (s *inventoryService) LowStockProducts(ctx context.Context, threshold int) ([]Product, error) {
	if threshold < 0 {
		return nil, apperrors.Validation("threshold cannot be negative")
	}
	products, err := s.productRepository.GetLowStockProducts(ctx, threshold)
	return products, apperrors.Unavailable("low stock products", err)
}

func (s *inventoryService) AddProduct(ctx context.Context, product Product) (*Product, error) {
	product.ID = uuid.NewString()
	product.CreatedAt = s.now()
	product.Sold = 0
	if product.Images == nil {
		product.Images = []string{}
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepository.AddProduct(ctx, product); err != nil {
		s.logger.Exception(ctx, "Failed to add product: "+product.Name, err)
		return nil, apperrors.Unavailable("add product", err)
	}
	s.logger.InfoWithExtra(ctx, "Product added", map[string]any{"ProductId": product.ID, "Name": product.Name})
	return &product, nil
}

// UpdateProduct applies a catalog edit field by field. The sold counter is
// never written; only RecordSale moves it. An edit of stock levels is
// retried when a sale lands between the read and the write.
func (s *inventoryService) UpdateProduct(ctx context.Context, productID string, patch ProductPatch) (*Product, error) {
	for attempt := 0; attempt < maxEditAttempts; attempt++ {
		current, err := s.GetProduct(ctx, productID)
		if err != nil {
			return nil, err
		}

		merged := *current
		merged.Variants = append([]Variant(nil), current.Variants...)
		patch.Apply(&merged)
		if err := merged.Validate(); err != nil {
			return nil, err
		}

		var soldAt *int
		if patch.touchesStock() {
			soldAt = &current.Sold
		}
		updated, err := s.productRepository.UpdateProduct(ctx, productID, patch, soldAt)
		if err != nil {
			s.logger.Exception(ctx, "Failed to update product: "+productID, err)
			return nil, apperrors.Unavailable("update product", err)
		}
		if updated != nil {
			s.logger.InfoWithExtra(ctx, "Product updated", map[string]any{"ProductId": productID, "Attempt": attempt + 1})
			return updated, nil
		}
		// deleted meanwhile, or sold changed under a stock edit
	}
	return nil, fmt.Errorf("%w: product %s kept changing, try again", apperrors.ErrConflict, productID)
}

func (s *inventoryService) DeleteProduct(ctx context.Context, productID string) error {
	found, err := s.productRepository.DeleteProduct(ctx, productID)
	if err != nil {
		return apperrors.Unavailable("delete product", err)
	}
	if !found {
		return apperrors.NotFound("product", productID)
	}
	s.logger.Info(ctx, "Product removed: "+productID)
	return nil
}

// SeedProduct inserts product unless a product with the same name exists.
func (s *inventoryService) SeedProduct(ctx context.Context, product Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = s.now()
	}
	if err := product.Validate(); err != nil {
		return err
	}
	return apperrors.Unavailable("seed product", s.productRepository.SeedProduct(ctx, product))
}

func (s *inventoryService) RecordSale(ctx context.Context, productID, color string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, apperrors.Validation("sale quantity must be positive")
	}
	found, err := s.productRepository.RecordSale(ctx, productID, color, quantity)
	if err != nil {
		return false, apperrors.Unavailable("record sale", err)
	}
	return found, nil
}
