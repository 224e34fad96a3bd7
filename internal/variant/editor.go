// Package variant edits the ordered variant list of a product draft.
package variant

import (
	"math"
	"strconv"
	"strings"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/ids"
)

// DefaultAttributes is the attribute schema new variants start with.
var DefaultAttributes = []string{"color", "size"}

// Update is one edit of a single variant.
type Update interface {
	apply(v *domain.Variant) error
}

// SetAttribute sets one attribute, leaving the others untouched.
type SetAttribute struct {
	Name  string
	Value string
}

// SetPrice replaces the price with the number typed in Raw.
type SetPrice struct{ Raw string }

// SetStock replaces the stock with the integer typed in Raw.
type SetStock struct{ Raw string }

func (u SetAttribute) apply(v *domain.Variant) error {
	if v.Attributes == nil {
		v.Attributes = map[string]string{}
	}
	v.Attributes[u.Name] = u.Value
	return nil
}

func (u SetPrice) apply(v *domain.Variant) error {
	p, err := ParsePrice("price", u.Raw)
	if err != nil {
		return err
	}
	v.Price = p
	return nil
}

func (u SetStock) apply(v *domain.Variant) error {
	n, err := ParseStock("stock", u.Raw)
	if err != nil {
		return err
	}
	v.Stock = n
	return nil
}

// ParsePrice reads a decimal number. Blank or non-numeric input is a
// *domain.CoercionError.
func ParsePrice(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &domain.CoercionError{Field: field, Input: raw}
	}
	return f, nil
}

// ParseStock reads a whole number.
func ParseStock(field, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &domain.CoercionError{Field: field, Input: raw}
	}
	return n, nil
}

type Editor struct {
	ids        ids.Generator
	attributes []string
	basePrice  func() float64
	variants   []domain.Variant
}

type Option func(*Editor)

// WithAttributes overrides the attribute schema of new variants.
func WithAttributes(names ...string) Option {
	return func(e *Editor) { e.attributes = append([]string(nil), names...) }
}

// WithBasePrice sets where new variants take their initial price from,
// normally the draft product's current price.
func WithBasePrice(f func() float64) Option {
	return func(e *Editor) { e.basePrice = f }
}

func NewEditor(gen ids.Generator, opts ...Option) *Editor {
	e := &Editor{ids: gen, attributes: DefaultAttributes}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Clone copies the editor and its variants; opts are applied to the copy.
func (e *Editor) Clone(opts ...Option) *Editor {
	out := &Editor{
		ids:        e.ids,
		attributes: append([]string(nil), e.attributes...),
		basePrice:  e.basePrice,
		variants:   domain.CloneVariants(e.variants),
	}
	for _, o := range opts {
		o(out)
	}
	return out
}

// Load replaces the list, typically with the variants of a product being edited.
func (e *Editor) Load(vs []domain.Variant) {
	e.variants = domain.CloneVariants(vs)
}

// Add appends a blank variant and returns its id.
func (e *Editor) Add() string {
	attrs := make(map[string]string, len(e.attributes))
	for _, a := range e.attributes {
		attrs[a] = ""
	}
	price := 0.0
	if e.basePrice != nil {
		price = e.basePrice()
	}
	v := domain.Variant{ID: e.ids.New(), Attributes: attrs, Price: price}
	e.variants = append(e.variants, v)
	return v.ID
}

func (e *Editor) Remove(id string) {
	for i, v := range e.variants {
		if v.ID == id {
			e.variants = append(e.variants[:i:i], e.variants[i+1:]...)
			return
		}
	}
}

// Apply dispatches u to the variant with the given id. A rejected update
// leaves the variant unchanged; an unknown id is ignored.
func (e *Editor) Apply(id string, u Update) error {
	for i := range e.variants {
		if e.variants[i].ID != id {
			continue
		}
		next := e.variants[i].Clone()
		if err := u.apply(&next); err != nil {
			return err
		}
		e.variants[i] = next
		return nil
	}
	return nil
}

func (e *Editor) Variants() []domain.Variant {
	out := domain.CloneVariants(e.variants)
	if out == nil {
		return []domain.Variant{}
	}
	return out
}

func (e *Editor) Len() int { return len(e.variants) }

// Attributes is the schema new variants are created with.
func (e *Editor) Attributes() []string { return append([]string(nil), e.attributes...) }
