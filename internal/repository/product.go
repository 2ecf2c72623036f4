package repository

import (
	"context"
	"marketplace-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindActiveByID(ctx context.Context, productID uint) (*model.Product, error)
	FindVariationOption(ctx context.Context, productID, optionID uint) (*model.VariationOption, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	seller := uint(1)
	products := []model.Product{
		{ID: 1, Slug: "desk-lamp", Name: "Desk Lamp", ProductType: model.ProductTypePhysical, Price: 2500, Currency: "USD", Stock: 40, SellerID: &seller, MainImageURL: "/images/desk-lamp.jpg", IsActive: true},
		{ID: 2, Slug: "linen-shirt", Name: "Linen Shirt", ProductType: model.ProductTypePhysical, Price: 4000, PriceDiscounted: 3200, Currency: "USD", Stock: 25, SellerID: &seller, MainImageURL: "/images/linen-shirt.jpg", IsActive: true},
		{ID: 3, Slug: "photo-presets", Name: "Photo Presets", ProductType: model.ProductTypeDigital, Price: 900, Currency: "USD", Stock: 1000, SellerID: &seller, IsActive: true},
	}
	options := []model.VariationOption{
		{ID: 1, ProductID: 2, OptionName: "S", Stock: 10, UseDefaultPrice: true},
		{ID: 2, ProductID: 2, OptionName: "XL", Stock: 5, Price: 4500, UseDefaultPrice: false},
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&options).Error
	})
}

func (r *productRepoImpl) FindActiveByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("VariationOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", productID).
		Where("is_active = ? AND is_deleted = ?", true, false).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindVariationOption(ctx context.Context, productID, optionID uint) (*model.VariationOption, error) {
	var option model.VariationOption
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", optionID, productID).
		First(&option).Error

	if err != nil {
		return nil, err
	}

	return &option, nil
}
