package service

import (
	"context"
	"errors"
	"fmt"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"

	"gorm.io/gorm"
)

type ProductService interface {
	GetActive(ctx context.Context, productID uint) (*model.Product, error)
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
	}
}

func (s *productServiceImpl) GetActive(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindActiveByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}
