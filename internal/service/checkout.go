package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"marketplace-api/internal/config"
	"marketplace-api/internal/dto"
	"marketplace-api/internal/metrics"
	"marketplace-api/internal/model"
	"marketplace-api/internal/payment"
	"marketplace-api/internal/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var errCartChanged = errors.New("cart changed after payment was authorized")

// PaymentAuthorizer is the gateway collaborator seen by checkout.
type PaymentAuthorizer interface {
	Supports(method model.PaymentMethod) bool
	Authorize(ctx context.Context, req payment.Request) (*payment.Authorization, error)
	Void(ctx context.Context, auth *payment.Authorization) error
}

type CheckoutService interface {
	CreateOrder(ctx context.Context, buyerID, idempotencyKey string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type checkoutServiceImpl struct {
	db        *gorm.DB
	cfg       config.Checkout
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	payments  PaymentAuthorizer
	validate  *validator.Validate
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	cfg config.Checkout,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	payments PaymentAuthorizer,
	m *metrics.Metrics,
	logger *slog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:        db,
		cfg:       cfg,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		payments:  payments,
		validate:  newValidator(),
		metrics:   m,
		logger:    logger,
	}
}

// CreateOrder converts the cart into an order. Payment is authorized
// before the write transaction opens; the order, its lines, the shipping
// address and the cart clear then commit together. A charge whose order
// could not be persisted is voided.
func (s *checkoutServiceImpl) CreateOrder(ctx context.Context, buyerID, idempotencyKey string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	method := string(req.PaymentMethod)

	resp, err := s.createOrder(ctx, buyerID, idempotencyKey, req)
	s.metrics.ObserveCheckout(method, Outcome(err))
	return resp, err
}

func (s *checkoutServiceImpl) createOrder(ctx context.Context, buyerID, idempotencyKey string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if buyerID == "" {
		return nil, invalid("buyer is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if req.PaymentMethod != model.PaymentMethodCOD && !s.payments.Supports(req.PaymentMethod) {
		return nil, invalid("payment method %s not available", req.PaymentMethod)
	}

	buyerType := req.BuyerType
	if buyerType == "" {
		buyerType = model.BuyerTypeCustomer
	}

	if idempotencyKey != "" {
		existing, err := s.orderRepo.FindByIdempotencyKey(ctx, buyerID, idempotencyKey)
		if err == nil {
			return newCheckoutResponse(existing), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrOrderCreationFailed, err)
		}
	}

	cart, err := s.cartRepo.FindByID(ctx, req.CartID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cart %s: %w", req.CartID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOrderCreationFailed, err)
	}
	if !visibleTo(cart, &buyerID) {
		return nil, fmt.Errorf("cart %s: %w", req.CartID, ErrNotFound)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	subtotal := cart.Subtotal()
	shipping := s.cfg.ShippingCost
	total := subtotal + shipping

	log := s.logger.With(
		slog.String("cart_id", cart.ID),
		slog.String("buyer_id", buyerID),
		slog.String("payment_method", string(req.PaymentMethod)),
	)

	paymentStatus := model.PaymentStatusCODPending
	var auth *payment.Authorization
	if req.PaymentMethod != model.PaymentMethodCOD {
		auth, err = s.payments.Authorize(ctx, payment.Request{
			Method:      req.PaymentMethod,
			Credentials: req.PaymentCredentials,
			Amount:      total,
			Currency:    s.cfg.Currency,
			Reference:   cart.ID,
		})
		if err != nil {
			log.WarnContext(ctx, "payment not authorized", slog.Int64("amount", total), slog.Any("err", err))
			return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
		}
		paymentStatus = model.PaymentStatusSuccess
	}

	order := &model.Order{
		BuyerID:       buyerID,
		BuyerType:     buyerType,
		PriceSubtotal: subtotal,
		PriceShipping: shipping,
		PriceTotal:    total,
		PriceCurrency: s.cfg.Currency,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: paymentStatus,
		Status:        model.OrderStatusActive,
	}
	if auth != nil {
		order.PaymentReference = auth.Reference
	}
	if idempotencyKey != "" {
		order.IdempotencyKey = &idempotencyKey
	}

	if err := s.persist(ctx, cart.ID, order, &req.Address); err != nil {
		if auth != nil {
			s.voidPayment(ctx, log, auth)
		}
		// a concurrent request with the same key may have won the race
		if existing := s.findReplay(ctx, buyerID, idempotencyKey); existing != nil {
			log.InfoContext(ctx, "replaying concurrent checkout",
				slog.Uint64("order_id", uint64(existing.ID)),
				slog.Any("err", err),
			)
			return newCheckoutResponse(existing), nil
		}
		log.ErrorContext(ctx, "persist order", slog.Any("err", err))
		return nil, fmt.Errorf("%w: %w", ErrOrderCreationFailed, err)
	}

	log.InfoContext(ctx, "order created",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.Int64("order_number", order.OrderNumber),
		slog.Int64("price_total", order.PriceTotal),
	)
	return newCheckoutResponse(order), nil
}

func (s *checkoutServiceImpl) persist(ctx context.Context, cartID string, order *model.Order, addr *dto.Address) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.Lock(ctx, tx, cartID)
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}
		if cart.IsEmpty() || cart.Subtotal() != order.PriceSubtotal {
			return errCartChanged
		}

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		order.OrderNumber = s.cfg.OrderNumberOffset + int64(order.ID)
		if err := s.orderRepo.SetOrderNumber(ctx, tx, order.ID, order.OrderNumber); err != nil {
			return fmt.Errorf("set order number: %w", err)
		}

		lines := model.NewOrderLines(order.ID, order.BuyerID, order.BuyerType, order.PriceCurrency, cart.Lines)
		if err := s.orderRepo.CreateOrderLines(ctx, tx, lines); err != nil {
			return fmt.Errorf("store order lines: %w", err)
		}

		if err := s.orderRepo.CreateShippingAddress(ctx, tx, &model.ShippingAddress{
			UserID:      order.BuyerID,
			OrderID:     order.ID,
			Title:       addr.FirstName + " " + addr.LastName,
			FirstName:   addr.FirstName,
			LastName:    addr.LastName,
			Email:       addr.Email,
			PhoneNumber: addr.PhoneNumber,
			Address:     addr.Address,
			CountryID:   addr.CountryID,
			StateID:     addr.StateID,
			City:        addr.City,
			ZipCode:     addr.ZipCode,
			AddressType: model.AddressTypeShipping,
		}); err != nil {
			return fmt.Errorf("store shipping address: %w", err)
		}

		cart.Clear()
		if err := s.cartRepo.SaveLines(ctx, tx, cart); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		return nil
	})
}

func (s *checkoutServiceImpl) findReplay(ctx context.Context, buyerID, idempotencyKey string) *model.Order {
	if idempotencyKey == "" {
		return nil
	}
	existing, err := s.orderRepo.FindByIdempotencyKey(ctx, buyerID, idempotencyKey)
	if err != nil {
		return nil
	}
	return existing
}

func (s *checkoutServiceImpl) voidPayment(ctx context.Context, log *slog.Logger, auth *payment.Authorization) {
	// the request may already be cancelled; the void must still go out
	if err := s.payments.Void(context.WithoutCancel(ctx), auth); err != nil {
		log.ErrorContext(ctx, "void payment after failed checkout",
			slog.String("payment_reference", auth.Reference),
			slog.Any("err", err),
		)
		return
	}
	log.InfoContext(ctx, "payment voided", slog.String("payment_reference", auth.Reference))
}

func newCheckoutResponse(order *model.Order) *dto.CheckoutResponse {
	return &dto.CheckoutResponse{
		Message:       "Order created successfully",
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		PaymentStatus: order.PaymentStatus,
	}
}

// Outcome is the machine-readable status for a checkout result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrPaymentFailed):
		return "payment_failed"
	default:
		return "order_creation_failed"
	}
}
