package model

import "time"

type ProductType string

const (
	ProductTypePhysical ProductType = "physical"
	ProductTypeDigital  ProductType = "digital"
)

// Product is the catalog row a cart line snapshots from. Prices are minor
// currency units.
type Product struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Slug            string      `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Name            string      `gorm:"size:255;not null" json:"name"`
	ProductType     ProductType `gorm:"size:32;not null;default:physical" json:"product_type"`
	Price           int64       `gorm:"not null" json:"price"`
	PriceDiscounted int64       `gorm:"not null;default:0" json:"price_discounted"`
	Currency        string      `gorm:"size:8;not null" json:"currency"`
	Stock           int         `gorm:"not null;default:0" json:"stock"`
	SellerID        *uint       `gorm:"index" json:"seller_id"`
	MainImageURL    string      `gorm:"size:512" json:"main_image_url"`
	IsActive        bool        `gorm:"not null;index" json:"-"`
	IsDeleted       bool        `gorm:"not null;index" json:"-"`

	VariationOptions []VariationOption `gorm:"foreignKey:ProductID" json:"variation_options,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FinalPrice is the discounted price when a real discount applies.
func (p *Product) FinalPrice() int64 {
	return finalPrice(p.Price, p.PriceDiscounted)
}

type VariationOption struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ProductID       uint   `gorm:"index;not null" json:"product_id"`
	OptionName      string `gorm:"size:255" json:"option_name"`
	Stock           int    `gorm:"not null;default:0" json:"stock"`
	Price           int64  `gorm:"not null;default:0" json:"price"`
	PriceDiscounted int64  `gorm:"not null;default:0" json:"price_discounted"`
	UseDefaultPrice bool   `gorm:"not null" json:"use_default_price"`
}

func (o *VariationOption) FinalPrice() int64 {
	return finalPrice(o.Price, o.PriceDiscounted)
}

func finalPrice(price, discounted int64) int64 {
	if discounted > 0 && discounted < price {
		return discounted
	}
	return price
}
