package model

import (
	"errors"
	"time"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 10000

var ErrQuantityLimit = errors.New("line quantity limit exceeded")

// Cart is one shopping session. Guest carts have no CustomerID.
type Cart struct {
	ID         string     `gorm:"primaryKey;size:64;not null" json:"cart_id"`
	CustomerID *string    `gorm:"size:64;index" json:"customer_id"`
	Lines      []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"products"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartLine is a denormalized snapshot of a product taken at add time.
// Position keeps the insertion order of the line sequence.
type CartLine struct {
	ID                uint        `gorm:"primaryKey" json:"-"`
	CartID            string      `gorm:"size:64;index;not null" json:"-"`
	Position          int         `gorm:"not null" json:"-"`
	ProductID         uint        `gorm:"not null" json:"product_id"`
	VariationOptionID *uint       `json:"variation_option_id"`
	ProductName       string      `gorm:"size:255" json:"product_name"`
	UnitPrice         int64       `gorm:"not null" json:"unit_price"`
	Quantity          int         `gorm:"not null" json:"quantity"`
	TotalPrice        int64       `gorm:"not null" json:"total_price"`
	ProductImage      string      `gorm:"size:512" json:"product_image"`
	SellerID          *uint       `json:"seller_id"`
	ProductType       ProductType `gorm:"size:32" json:"product_type"`
}

// Matches reports whether the line is for exactly this product and
// variation. A nil variation only matches a nil variation.
func (l *CartLine) Matches(productID uint, variationOptionID *uint) bool {
	if l.ProductID != productID {
		return false
	}
	if l.VariationOptionID == nil || variationOptionID == nil {
		return l.VariationOptionID == nil && variationOptionID == nil
	}
	return *l.VariationOptionID == *variationOptionID
}

func (l *CartLine) recompute() {
	l.TotalPrice = l.UnitPrice * int64(l.Quantity)
}

// FindLine returns the line for the pair, or nil.
func (c *Cart) FindLine(productID uint, variationOptionID *uint) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].Matches(productID, variationOptionID) {
			return &c.Lines[i]
		}
	}
	return nil
}

// AddItem merges item into the cart and returns the resulting line. An
// existing line gets its quantity incremented; its unit price and seller
// are replaced only when item carries them (non-zero price, non-nil
// seller). A zero quantity counts as one. The cart is left untouched and
// ErrQuantityLimit returned when the line would exceed MaxLineQuantity.
func (c *Cart) AddItem(item CartLine) (*CartLine, error) {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}

	line := c.FindLine(item.ProductID, item.VariationOptionID)
	have := 0
	if line != nil {
		have = line.Quantity
	}
	if qty > MaxLineQuantity-have {
		return nil, ErrQuantityLimit
	}

	if line != nil {
		line.Quantity += qty
		if item.UnitPrice > 0 {
			line.UnitPrice = item.UnitPrice
		}
		if item.SellerID != nil {
			line.SellerID = item.SellerID
		}
		line.recompute()
		return line, nil
	}

	item.ID = 0
	item.CartID = c.ID
	item.Quantity = qty
	item.recompute()
	c.Lines = append(c.Lines, item)
	c.renumber()
	return &c.Lines[len(c.Lines)-1], nil
}

// QuantityOf is the quantity already held for the pair, zero when absent.
func (c *Cart) QuantityOf(productID uint, variationOptionID *uint) int {
	if line := c.FindLine(productID, variationOptionID); line != nil {
		return line.Quantity
	}
	return 0
}

// RemoveItem drops the line for the exact pair, keeping the order of the
// others. It reports whether a line was removed.
func (c *Cart) RemoveItem(productID uint, variationOptionID *uint) bool {
	kept := c.Lines[:0]
	removed := false
	for _, line := range c.Lines {
		if !removed && line.Matches(productID, variationOptionID) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	c.Lines = kept
	c.renumber()
	return removed
}

func (c *Cart) Clear() {
	c.Lines = []CartLine{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Subtotal is the sum of all line totals.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.TotalPrice
	}
	return total
}

// Count is the sum of all quantities.
func (c *Cart) Count() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) renumber() {
	for i := range c.Lines {
		c.Lines[i].Position = i
	}
}
