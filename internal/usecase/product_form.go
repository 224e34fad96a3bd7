package usecase

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/ids"
	"github.com/phenrril/backoffice/internal/variant"
)

// FormOptions selects which parts of the product form are active. The full
// form collects images and variants; the simple form only the plain fields.
type FormOptions struct {
	RequireImages bool `json:"requireImages"`
	Variants      bool `json:"variants"`
}

var (
	FullForm   = FormOptions{RequireImages: true, Variants: true}
	SimpleForm = FormOptions{}
)

// Draft field names accepted by SetField.
const (
	FieldName            = "name"
	FieldDescription     = "description"
	FieldSKU             = "sku"
	FieldCategory        = "category"
	FieldPrice           = "price"
	FieldDiscountedPrice = "discountedPrice"
	FieldStock           = "stock"
)

// ProductDraft is a product being created or edited. Numeric fields hold the
// text as typed until Build.
type ProductDraft struct {
	ID              string    `json:"id,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	SKU             string    `json:"sku"`
	Category        string    `json:"category"`
	Price           string    `json:"price"`
	DiscountedPrice string    `json:"discountedPrice"`
	Stock           string    `json:"stock"`
	Images          []string  `json:"images"`
	CreatedAt       time.Time `json:"createdAt"`

	opts     FormOptions
	variants *variant.Editor
}

// ProductForm creates drafts and turns them into products.
type ProductForm struct {
	IDs        ids.Generator
	Options    FormOptions
	Attributes []string
}

func (f ProductForm) Blank() *ProductDraft {
	return f.newDraft()
}

func (f ProductForm) From(p domain.Product) *ProductDraft {
	d := f.newDraft()
	d.ID = p.ID
	d.Name = p.Name
	d.Description = p.Description
	d.SKU = p.SKU
	d.Category = p.Category
	d.Price = formatFloat(p.Price)
	if p.DiscountedPrice != nil {
		d.DiscountedPrice = formatFloat(*p.DiscountedPrice)
	}
	d.Stock = fmt.Sprint(p.Stock)
	d.Images = append([]string(nil), p.Images...)
	d.CreatedAt = p.CreatedAt
	d.variants.Load(p.Variants)
	return d
}

func (f ProductForm) Build(d *ProductDraft) (domain.Product, error) {
	return d.Build()
}

func (f ProductForm) newDraft() *ProductDraft {
	d := &ProductDraft{opts: f.Options}
	attrs := f.Attributes
	if len(attrs) == 0 {
		attrs = variant.DefaultAttributes
	}
	d.variants = variant.NewEditor(f.IDs,
		variant.WithAttributes(attrs...),
		variant.WithBasePrice(d.basePrice),
	)
	return d
}

// Snapshot copies a draft so it can be read while the original keeps changing.
func (f ProductForm) Snapshot(d *ProductDraft) *ProductDraft {
	return d.Clone()
}

// Clone returns a draft that shares no state with d.
func (d *ProductDraft) Clone() *ProductDraft {
	if d == nil {
		return nil
	}
	out := *d
	out.Images = slices.Clone(d.Images)
	out.variants = d.variants.Clone(variant.WithBasePrice(out.basePrice))
	return &out
}

// basePrice is the price new variants start with.
func (d *ProductDraft) basePrice() float64 {
	p, err := variant.ParsePrice(FieldPrice, d.Price)
	if err != nil {
		return 0
	}
	return p
}

func (d *ProductDraft) Options() FormOptions { return d.opts }

func (d *ProductDraft) MarshalJSON() ([]byte, error) {
	type fields ProductDraft
	return json.Marshal(struct {
		*fields
		Variants   []domain.Variant `json:"variants"`
		Attributes []string         `json:"variantAttributes"`
		Options    FormOptions      `json:"options"`
	}{(*fields)(d), d.Variants(), d.VariantAttributes(), d.opts})
}

// SetField stores the raw text of one plain field.
func (d *ProductDraft) SetField(name, value string) error {
	switch name {
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldSKU:
		d.SKU = value
	case FieldCategory:
		d.Category = value
	case FieldPrice:
		d.Price = value
	case FieldDiscountedPrice:
		d.DiscountedPrice = value
	case FieldStock:
		d.Stock = value
	default:
		return domain.Invalid(name, "unknown field")
	}
	return nil
}

func (d *ProductDraft) AddVariant() (string, error) {
	if !d.opts.Variants {
		return "", domain.Invalid("variants", "Variants are not enabled for this form")
	}
	return d.variants.Add(), nil
}

func (d *ProductDraft) RemoveVariant(id string) { d.variants.Remove(id) }

func (d *ProductDraft) UpdateVariant(id string, u variant.Update) error {
	return d.variants.Apply(id, u)
}

func (d *ProductDraft) Variants() []domain.Variant { return d.variants.Variants() }

func (d *ProductDraft) VariantAttributes() []string { return d.variants.Attributes() }

// AddImages encodes and attaches uploaded files. A batch that would exceed
// the image limit is refused entirely; oversized or non-image files are
// skipped while the rest are attached. The last problem seen is returned.
func (d *ProductDraft) AddImages(files []ImageFile) (int, error) {
	if len(d.Images)+len(files) > domain.MaxImages {
		return 0, domain.Invalid("images", fmt.Sprintf("You can only upload up to %d images", domain.MaxImages))
	}
	added := 0
	var lastErr error
	for _, f := range files {
		enc, err := EncodeImage(f)
		if err != nil {
			lastErr = err
			continue
		}
		d.Images = append(d.Images, enc)
		added++
	}
	return added, lastErr
}

func (d *ProductDraft) RemoveImage(i int) {
	if i < 0 || i >= len(d.Images) {
		return
	}
	d.Images = append(d.Images[:i:i], d.Images[i+1:]...)
}

// Build validates the draft and produces the product it describes. The
// draft is left untouched so a failed submission can be corrected.
func (d *ProductDraft) Build() (domain.Product, error) {
	if d.opts.RequireImages && len(d.Images) == 0 {
		return domain.Product{}, domain.Invalid("images", "Please add at least one image")
	}
	if err := requireText(d.Name, d.SKU, d.Description); err != nil {
		return domain.Product{}, err
	}
	price, err := variant.ParsePrice(FieldPrice, d.Price)
	if err != nil {
		return domain.Product{}, err
	}
	var discounted *float64
	if strings.TrimSpace(d.DiscountedPrice) != "" {
		v, err := variant.ParsePrice(FieldDiscountedPrice, d.DiscountedPrice)
		if err != nil {
			return domain.Product{}, err
		}
		discounted = &v
	}
	stock, err := variant.ParseStock(FieldStock, d.Stock)
	if err != nil {
		return domain.Product{}, err
	}

	p := domain.Product{
		ID:              d.ID,
		Name:            strings.TrimSpace(d.Name),
		Description:     strings.TrimSpace(d.Description),
		SKU:             strings.TrimSpace(d.SKU),
		Category:        d.Category,
		Price:           price,
		DiscountedPrice: discounted,
		Stock:           stock,
		Images:          append([]string{}, d.Images...),
		Variants:        d.variants.Variants(),
		CreatedAt:       d.CreatedAt,
	}
	if err := ValidateProduct(p, d.opts); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// ValidateProduct applies the product rules to an already typed record.
func ValidateProduct(p domain.Product, opts FormOptions) error {
	if opts.RequireImages && len(p.Images) == 0 {
		return domain.Invalid("images", "Please add at least one image")
	}
	if len(p.Images) > domain.MaxImages {
		return domain.Invalid("images", fmt.Sprintf("You can only upload up to %d images", domain.MaxImages))
	}
	if err := requireText(p.Name, p.SKU, p.Description); err != nil {
		return err
	}
	if p.Price < 0 {
		return domain.Invalid(FieldPrice, "Price cannot be negative")
	}
	if p.DiscountedPrice != nil {
		if *p.DiscountedPrice < 0 {
			return domain.Invalid(FieldDiscountedPrice, "Discounted price cannot be negative")
		}
		if *p.DiscountedPrice >= p.Price {
			return domain.Invalid(FieldDiscountedPrice, "Discounted price must be less than original price")
		}
	}
	if p.Stock < 0 {
		return domain.Invalid(FieldStock, "Stock cannot be negative")
	}
	seen := make(map[string]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		if strings.TrimSpace(v.ID) == "" {
			return domain.Invalid("variants", "Variant id is required")
		}
		if _, dup := seen[v.ID]; dup {
			return domain.Invalid("variants", fmt.Sprintf("Variant id %s is used twice", v.ID))
		}
		seen[v.ID] = struct{}{}
		if v.Price < 0 {
			return domain.Invalid("variants", fmt.Sprintf("Variant %s price cannot be negative", v.ID))
		}
		if v.Stock < 0 {
			return domain.Invalid("variants", fmt.Sprintf("Variant %s stock cannot be negative", v.ID))
		}
	}
	return nil
}

func requireText(name, sku, description string) error {
	for _, f := range []struct{ field, label, v string }{
		{FieldName, "Product name", name},
		{FieldSKU, "SKU", sku},
		{FieldDescription, "Description", description},
	} {
		if strings.TrimSpace(f.v) == "" {
			return domain.Invalid(f.field, f.label+" is required")
		}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
