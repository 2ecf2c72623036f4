package service

import (
	"context"
	"fmt"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
)

type OrderService interface {
	GetForBuyer(ctx context.Context, buyerID, buyerType string) ([]*model.Order, error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
	}
}

func (s *orderServiceImpl) GetForBuyer(ctx context.Context, buyerID, buyerType string) ([]*model.Order, error) {
	if buyerID == "" {
		return nil, invalid("buyer is required")
	}
	if buyerType == "" {
		buyerType = model.BuyerTypeCustomer
	}

	orders, err := s.orderRepo.ListForBuyer(ctx, buyerID, buyerType)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*model.Order{}
	}
	return orders, nil
}
