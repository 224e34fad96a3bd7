package domain

import (
	"math"
	"time"
)

const (
	MaxImages     = 6
	MaxImageBytes = 400 * 1024
)

type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	SKU             string    `json:"sku"`
	Category        string    `json:"category"`
	Price           float64   `json:"price"`
	DiscountedPrice *float64  `json:"discountedPrice,omitempty"`
	Stock           int       `json:"stock"`
	Images          []string  `json:"images"`
	Variants        []Variant `json:"variants"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Variant struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes"`
	Price      float64           `json:"price"`
	Stock      int               `json:"stock"`
}

func (p Product) Key() string { return p.ID }

// EffectivePrice is the price a buyer pays: the discounted price when one is set.
func (p Product) EffectivePrice() float64 {
	if p.DiscountedPrice != nil && *p.DiscountedPrice > 0 {
		return *p.DiscountedPrice
	}
	return p.Price
}

func (p Product) DiscountPct() int {
	if p.Price <= 0 || p.DiscountedPrice == nil || *p.DiscountedPrice <= 0 {
		return 0
	}
	return int(math.Round((p.Price - *p.DiscountedPrice) / p.Price * 100))
}

// Clone returns a copy that shares no slices or maps with p.
func (p Product) Clone() Product {
	out := p
	if p.DiscountedPrice != nil {
		d := *p.DiscountedPrice
		out.DiscountedPrice = &d
	}
	out.Images = append([]string(nil), p.Images...)
	out.Variants = CloneVariants(p.Variants)
	return out
}

func (v Variant) Clone() Variant {
	out := v
	if v.Attributes != nil {
		out.Attributes = make(map[string]string, len(v.Attributes))
		for k, val := range v.Attributes {
			out.Attributes[k] = val
		}
	}
	return out
}

func CloneVariants(vs []Variant) []Variant {
	if vs == nil {
		return nil
	}
	out := make([]Variant, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}
