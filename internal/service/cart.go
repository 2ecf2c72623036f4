package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"marketplace-api/internal/dto"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartService mutates carts. customerID is the verified caller, nil for
// guests. Every read-modify-write runs in one transaction holding the cart
// row lock.
type CartService interface {
	FindOrCreate(ctx context.Context, cartID string, customerID *string) (*model.Cart, error)
	GetCurrent(ctx context.Context, cartID string, customerID *string) (*model.Cart, error)
	AddItem(ctx context.Context, customerID *string, req *dto.AddCartItemRequest) (*model.Cart, error)
	RemoveItem(ctx context.Context, cartID string, customerID *string, productID uint, variationOptionID *uint) (*model.Cart, error)
	ClearItems(ctx context.Context, cartID string, customerID *string) (*model.Cart, error)
}

type cartServiceImpl struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) CartService {
	return &cartServiceImpl{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		validate:    newValidator(),
		logger:      logger,
	}
}

// visibleTo hides carts owned by another customer, including from guests.
// Unclaimed carts are visible to anyone holding the id.
func visibleTo(cart *model.Cart, customerID *string) bool {
	if cart.CustomerID == nil {
		return true
	}
	return customerID != nil && *cart.CustomerID == *customerID
}

func (s *cartServiceImpl) findOrCreate(ctx context.Context, tx *gorm.DB, cartID string, customerID *string) (*model.Cart, error) {
	if cartID == "" {
		cartID = uuid.NewString()
	}

	if err := s.cartRepo.CreateIfMissing(ctx, tx, &model.Cart{ID: cartID, CustomerID: customerID}); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}

	cart, err := s.cartRepo.Lock(ctx, tx, cartID)
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	if !visibleTo(cart, customerID) {
		return nil, fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
	}
	return cart, nil
}

func (s *cartServiceImpl) FindOrCreate(ctx context.Context, cartID string, customerID *string) (*model.Cart, error) {
	var cart *model.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = s.findOrCreate(ctx, tx, cartID, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCurrent returns (nil, nil) when nothing matches.
func (s *cartServiceImpl) GetCurrent(ctx context.Context, cartID string, customerID *string) (*model.Cart, error) {
	var (
		cart *model.Cart
		err  error
	)
	switch {
	case cartID != "":
		cart, err = s.cartRepo.FindByID(ctx, cartID)
	case customerID != nil:
		cart, err = s.cartRepo.FindLatestByCustomer(ctx, *customerID)
	default:
		return nil, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if !visibleTo(cart, customerID) {
		return nil, nil
	}
	return cart, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, customerID *string, req *dto.AddCartItemRequest) (*model.Cart, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	product, err := s.productRepo.FindActiveByID(ctx, req.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", req.ProductID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	unitPrice := product.FinalPrice()
	stock := product.Stock
	if req.VariationOptionID != nil {
		option, err := s.productRepo.FindVariationOption(ctx, product.ID, *req.VariationOptionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("variation option %d of product %d: %w", *req.VariationOptionID, product.ID, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("get variation option: %w", err)
		}
		if !option.UseDefaultPrice {
			unitPrice = option.FinalPrice()
		}
		stock = option.Stock
	}

	var cart *model.Cart
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err = s.findOrCreate(ctx, tx, req.CartID, customerID)
		if err != nil {
			return err
		}
		if cart.CustomerID == nil && customerID != nil {
			cart.CustomerID = customerID
		}

		qty := req.Quantity
		if qty <= 0 {
			qty = 1
		}
		if have := cart.QuantityOf(product.ID, req.VariationOptionID); qty > stock-have {
			return invalid("only %d of product %d in stock", stock, product.ID)
		}

		_, addErr := cart.AddItem(model.CartLine{
			ProductID:         product.ID,
			VariationOptionID: req.VariationOptionID,
			ProductName:       product.Name,
			UnitPrice:         unitPrice,
			Quantity:          qty,
			ProductImage:      product.MainImageURL,
			SellerID:          product.SellerID,
			ProductType:       product.ProductType,
		})
		if errors.Is(addErr, model.ErrQuantityLimit) {
			return invalid("quantity of product %d cannot exceed %d", product.ID, model.MaxLineQuantity)
		}
		if addErr != nil {
			return addErr
		}

		return s.cartRepo.SaveLines(ctx, tx, cart)
	})
	if err != nil {
		if !errors.Is(err, ErrValidation) && !errors.Is(err, ErrNotFound) {
			s.logger.ErrorContext(ctx, "add cart item", slog.String("cart_id", req.CartID), slog.Any("err", err))
		}
		return nil, err
	}

	return cart, nil
}

func (s *cartServiceImpl) mutate(ctx context.Context, cartID string, customerID *string, fn func(cart *model.Cart)) (*model.Cart, error) {
	var cart *model.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = s.cartRepo.Lock(ctx, tx, cartID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}
		if !visibleTo(cart, customerID) {
			return fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
		}

		fn(cart)
		return s.cartRepo.SaveLines(ctx, tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, cartID string, customerID *string, productID uint, variationOptionID *uint) (*model.Cart, error) {
	return s.mutate(ctx, cartID, customerID, func(cart *model.Cart) {
		cart.RemoveItem(productID, variationOptionID)
	})
}

func (s *cartServiceImpl) ClearItems(ctx context.Context, cartID string, customerID *string) (*model.Cart, error) {
	return s.mutate(ctx, cartID, customerID, func(cart *model.Cart) {
		cart.Clear()
	})
}
