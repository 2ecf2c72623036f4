package model

import "time"

type PaymentMethod string

const (
	PaymentMethodPaypal    PaymentMethod = "paypal"
	PaymentMethodBraintree PaymentMethod = "braintree"
	PaymentMethodCOD       PaymentMethod = "cod"
)

type PaymentStatus string

const (
	PaymentStatusSuccess    PaymentStatus = "success"
	PaymentStatusCODPending PaymentStatus = "cod_pending"
)

const (
	BuyerTypeCustomer = "customer"

	OrderStatusActive int8 = 1

	OrderLineStatusPending = "pending"

	AddressTypeShipping = "shipping"
)

// Order is written once per successful checkout. OrderNumber is derived
// from ID right after insert.
type Order struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	OrderNumber      int64         `gorm:"index" json:"order_number"`
	BuyerID          string        `gorm:"size:64;not null;index:idx_orders_buyer;uniqueIndex:idx_orders_idempotency" json:"buyer_id"`
	BuyerType        string        `gorm:"size:32;not null;index:idx_orders_buyer" json:"buyer_type"`
	PriceSubtotal    int64         `gorm:"not null" json:"price_subtotal"`
	PriceShipping    int64         `gorm:"not null" json:"price_shipping"`
	PriceTotal       int64         `gorm:"not null" json:"price_total"`
	PriceCurrency    string        `gorm:"size:8;not null" json:"price_currency"`
	PaymentMethod    PaymentMethod `gorm:"size:32;not null" json:"payment_method"`
	PaymentStatus    PaymentStatus `gorm:"size:32;not null" json:"payment_status"`
	PaymentReference string        `gorm:"size:128" json:"-"` // gateway transaction / capture id
	Status           int8          `gorm:"not null" json:"status"`
	IdempotencyKey   *string       `gorm:"size:128;uniqueIndex:idx_orders_idempotency" json:"-"`

	Lines           []OrderLine      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_products"`
	ShippingAddress *ShippingAddress `gorm:"foreignKey:OrderID" json:"shipping_address,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderLine is copied from a cart line at checkout and never re-read from
// the catalog.
type OrderLine struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	OrderID           uint        `gorm:"index;not null" json:"order_id"`
	SellerID          *uint       `gorm:"index" json:"seller_id"`
	BuyerID           string      `gorm:"size:64;not null" json:"buyer_id"`
	BuyerType         string      `gorm:"size:32;not null" json:"buyer_type"`
	ProductID         uint        `gorm:"not null;index" json:"product_id"`
	VariationOptionID *uint       `json:"variation_option_id"`
	ProductType       ProductType `gorm:"size:32;not null" json:"product_type"`
	ProductTitle      string      `gorm:"size:255" json:"product_title"`
	UnitPrice         int64       `gorm:"not null" json:"product_unit_price"`
	Quantity          int         `gorm:"not null" json:"product_quantity"`
	Currency          string      `gorm:"size:8;not null" json:"product_currency"`
	TotalPrice        int64       `gorm:"not null" json:"product_total_price"`
	OrderStatus       string      `gorm:"size:32;not null" json:"order_status"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// ShippingAddress is a verbatim copy of the address given at checkout.
type ShippingAddress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:64;not null;index" json:"user_id"`
	OrderID     uint      `gorm:"index;not null" json:"order_id"`
	Title       string    `gorm:"size:255" json:"title"`
	FirstName   string    `gorm:"size:255;not null" json:"first_name"`
	LastName    string    `gorm:"size:255;not null" json:"last_name"`
	Email       string    `gorm:"size:255;not null" json:"email"`
	PhoneNumber string    `gorm:"size:64;not null" json:"phone_number"`
	Address     string    `gorm:"size:512;not null" json:"address"`
	CountryID   uint      `gorm:"not null" json:"country_id"`
	StateID     uint      `gorm:"not null" json:"state_id"`
	City        string    `gorm:"size:255;not null" json:"city"`
	ZipCode     string    `gorm:"size:32;not null" json:"zip_code"`
	AddressType string    `gorm:"size:32;not null" json:"address_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewOrderLines snapshots every cart line for the given order.
func NewOrderLines(orderID uint, buyerID, buyerType, currency string, lines []CartLine) []*OrderLine {
	out := make([]*OrderLine, len(lines))
	for i, line := range lines {
		productType := line.ProductType
		if productType == "" {
			productType = ProductTypePhysical
		}
		out[i] = &OrderLine{
			OrderID:           orderID,
			SellerID:          line.SellerID,
			BuyerID:           buyerID,
			BuyerType:         buyerType,
			ProductID:         line.ProductID,
			VariationOptionID: line.VariationOptionID,
			ProductType:       productType,
			ProductTitle:      line.ProductName,
			UnitPrice:         line.UnitPrice,
			Quantity:          line.Quantity,
			Currency:          currency,
			TotalPrice:        line.TotalPrice,
			OrderStatus:       OrderLineStatusPending,
		}
	}
	return out
}
