package dto

import "marketplace-api/internal/model"

type AddCartItemRequest struct {
	CartID            string `json:"cart_id" validate:"omitempty,max=64"`
	ProductID         uint   `json:"product_id" validate:"required"`
	VariationOptionID *uint  `json:"variation_option_id"`
	Quantity          int    `json:"quantity" validate:"gte=0,lte=10000"`
}

type CartResponse struct {
	CartID   string           `json:"cart_id"`
	Products []model.CartLine `json:"products"`
	Count    int              `json:"count"`
	Subtotal int64            `json:"subtotal"`
}

func NewCartResponse(cart *model.Cart) *CartResponse {
	if cart == nil {
		return &CartResponse{Products: []model.CartLine{}}
	}

	lines := cart.Lines
	if lines == nil {
		lines = []model.CartLine{}
	}
	return &CartResponse{
		CartID:   cart.ID,
		Products: lines,
		Count:    cart.Count(),
		Subtotal: cart.Subtotal(),
	}
}

type Address struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	ZipCode     string `json:"zip_code" validate:"required"`
	StateID     uint   `json:"state_id" validate:"required"`
	CountryID   uint   `json:"country_id" validate:"required"`
}

type CheckoutRequest struct {
	CartID             string              `json:"cart_id" validate:"required,max=64"`
	BuyerType          string              `json:"buyer_type" validate:"omitempty,max=32"`
	Address            Address             `json:"address"`
	PaymentMethod      model.PaymentMethod `json:"payment_method" validate:"required,oneof=paypal braintree cod"`
	PaymentCredentials map[string]string   `json:"payment_credentials"`
}

type CheckoutResponse struct {
	Message       string              `json:"message"`
	OrderID       uint                `json:"order_id"`
	OrderNumber   int64               `json:"order_number"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
}

type OrdersResponse struct {
	Success bool           `json:"success"`
	Orders  []*model.Order `json:"orders"`
}
