package repository

import (
	"context"
	"marketplace-api/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	SetOrderNumber(ctx context.Context, tx *gorm.DB, orderID uint, orderNumber int64) error
	CreateOrderLines(ctx context.Context, tx *gorm.DB, lines []*model.OrderLine) error
	CreateShippingAddress(ctx context.Context, tx *gorm.DB, address *model.ShippingAddress) error
	FindByIdempotencyKey(ctx context.Context, buyerID, key string) (*model.Order, error)
	ListForBuyer(ctx context.Context, buyerID, buyerType string) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *orderRepoImpl) SetOrderNumber(ctx context.Context, tx *gorm.DB, orderID uint, orderNumber int64) error {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"order_number": orderNumber,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) CreateOrderLines(ctx context.Context, tx *gorm.DB, lines []*model.OrderLine) error {
	return tx.WithContext(ctx).Create(&lines).Error
}

func (r *orderRepoImpl) CreateShippingAddress(ctx context.Context, tx *gorm.DB, address *model.ShippingAddress) error {
	return tx.WithContext(ctx).Create(address).Error
}

func (r *orderRepoImpl) FindByIdempotencyKey(ctx context.Context, buyerID, key string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND idempotency_key = ?", buyerID, key).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ListForBuyer returns the buyer's orders, most recent first, with lines
// and shipping address attached.
func (r *orderRepoImpl) ListForBuyer(ctx context.Context, buyerID, buyerType string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("ShippingAddress").
		Where("buyer_id = ? AND buyer_type = ?", buyerID, buyerType).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}
