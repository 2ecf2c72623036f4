package repository

import (
	"context"
	"marketplace-api/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	FindByID(ctx context.Context, cartID string) (*model.Cart, error)
	FindLatestByCustomer(ctx context.Context, customerID string) (*model.Cart, error)
	CreateIfMissing(ctx context.Context, tx *gorm.DB, cart *model.Cart) error
	Lock(ctx context.Context, tx *gorm.DB, cartID string) (*model.Cart, error)
	SaveLines(ctx context.Context, tx *gorm.DB, cart *model.Cart) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *cartRepoImpl) FindByID(ctx context.Context, cartID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("id = ?", cartID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindLatestByCustomer(ctx context.Context, customerID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("customer_id = ?", customerID).
		Order("updated_at DESC").
		First(&cart).Error
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

// CreateIfMissing inserts the cart row unless one with the same id exists.
func (r *cartRepoImpl) CreateIfMissing(ctx context.Context, tx *gorm.DB, cart *model.Cart) error {
	return tx.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(cart).Error
}

// Lock reads the cart with a row lock held until tx ends.
func (r *cartRepoImpl) Lock(ctx context.Context, tx *gorm.DB, cartID string) (*model.Cart, error) {
	var cart model.Cart
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", cartID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}

	err = tx.WithContext(ctx).
		Scopes(orderedLines).
		Where("cart_id = ?", cartID).
		Find(&cart.Lines).Error
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

// SaveLines replaces the stored line sequence with cart.Lines and touches
// the cart row.
func (r *cartRepoImpl) SaveLines(ctx context.Context, tx *gorm.DB, cart *model.Cart) error {
	db := tx.WithContext(ctx)

	result := db.Model(&model.Cart{}).
		Where("id = ?", cart.ID).
		Updates(map[string]interface{}{
			"customer_id": cart.CustomerID,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := db.Where("cart_id = ?", cart.ID).Delete(&model.CartLine{}).Error; err != nil {
		return err
	}

	if len(cart.Lines) == 0 {
		return nil
	}

	for i := range cart.Lines {
		cart.Lines[i].ID = 0
		cart.Lines[i].CartID = cart.ID
		cart.Lines[i].Position = i
	}
	return db.Create(&cart.Lines).Error
}
