package usecase

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/ids"
	"github.com/phenrril/backoffice/internal/variant"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func png(name string) ImageFile { return ImageFile{Name: name, Data: pngHeader} }

func fullForm() ProductForm {
	return ProductForm{IDs: ids.NewSequence("v"), Options: FullForm}
}

func validDraft(t *testing.T) *ProductDraft {
	t.Helper()
	d := fullForm().Blank()
	require.NoError(t, d.SetField(FieldName, "Red Bag"))
	require.NoError(t, d.SetField(FieldSKU, "A1"))
	require.NoError(t, d.SetField(FieldDescription, "A red bag"))
	require.NoError(t, d.SetField(FieldCategory, "Bags"))
	require.NoError(t, d.SetField(FieldPrice, "40"))
	require.NoError(t, d.SetField(FieldStock, "5"))
	_, err := d.AddImages([]ImageFile{png("a.png")})
	require.NoError(t, err)
	return d
}

func validationErr(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve
}

func TestDraft_BuildValid(t *testing.T) {
	d := validDraft(t)
	id, err := d.AddVariant()
	require.NoError(t, err)
	require.NoError(t, d.UpdateVariant(id, variant.SetAttribute{Name: "color", Value: "red"}))

	p, err := d.Build()
	require.NoError(t, err)
	assert.Equal(t, "Red Bag", p.Name)
	assert.Equal(t, 40.0, p.Price)
	assert.Nil(t, p.DiscountedPrice)
	assert.Equal(t, 5, p.Stock)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, 40.0, p.Variants[0].Price, "new variants start at the product price")
	assert.Equal(t, "red", p.Variants[0].Attributes["color"])
	assert.True(t, strings.HasPrefix(p.Images[0], "data:image/png;base64,"))
}

func TestDraft_ZeroImagesRejectedAndDraftKept(t *testing.T) {
	d := validDraft(t)
	d.RemoveImage(0)

	_, err := d.Build()
	ve := validationErr(t, err)
	assert.Equal(t, "Please add at least one image", ve.Message)
	assert.Equal(t, "Red Bag", d.Name)
	assert.Equal(t, "40", d.Price)
}

func TestDraft_SimpleFormNeedsNoImages(t *testing.T) {
	d := ProductForm{IDs: ids.NewSequence("v"), Options: SimpleForm}.Blank()
	d.Name, d.SKU, d.Description, d.Price, d.Stock = "Cap", "C1", "A cap", "10", "1"
	_, err := d.Build()
	require.NoError(t, err)

	_, err = d.AddVariant()
	validationErr(t, err)
}

func TestDraft_SimpleFormKeepsExistingVariants(t *testing.T) {
	f := ProductForm{IDs: ids.NewSequence("v"), Options: SimpleForm}
	d := f.From(domain.Product{
		ID: "p1", Name: "Cap", SKU: "C1", Description: "A cap", Price: 10, Stock: 1,
		Variants: []domain.Variant{{ID: "x", Attributes: map[string]string{"color": "red"}, Price: 10, Stock: 1}},
	})
	d.Name = "Red Cap"
	p, err := f.Build(d)
	require.NoError(t, err)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "x", p.Variants[0].ID)
}

func TestDraft_RuleViolations(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(d *ProductDraft)
		field string
		msg   string
	}{
		{"missing name", func(d *ProductDraft) { d.Name = "  " }, FieldName, "Product name is required"},
		{"missing sku", func(d *ProductDraft) { d.SKU = "" }, FieldSKU, "SKU is required"},
		{"missing description", func(d *ProductDraft) { d.Description = "" }, FieldDescription, "Description is required"},
		{"negative price", func(d *ProductDraft) { d.Price = "-1" }, FieldPrice, "Price cannot be negative"},
		{"negative stock", func(d *ProductDraft) { d.Stock = "-3" }, FieldStock, "Stock cannot be negative"},
		{"discount equal", func(d *ProductDraft) { d.DiscountedPrice = "40" }, FieldDiscountedPrice, "Discounted price must be less than original price"},
		{"discount higher", func(d *ProductDraft) { d.DiscountedPrice = "41" }, FieldDiscountedPrice, "Discounted price must be less than original price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft(t)
			tt.edit(d)
			_, err := d.Build()
			ve := validationErr(t, err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.msg, ve.Message)
		})
	}
}

func TestDraft_NonNumericFields(t *testing.T) {
	for _, field := range []string{FieldPrice, FieldDiscountedPrice, FieldStock} {
		t.Run(field, func(t *testing.T) {
			d := validDraft(t)
			require.NoError(t, d.SetField(field, "abc"))
			_, err := d.Build()
			var ce *domain.CoercionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, field, ce.Field)
		})
	}
}

func TestDraft_DiscountAccepted(t *testing.T) {
	d := validDraft(t)
	d.DiscountedPrice = "30"
	p, err := d.Build()
	require.NoError(t, err)
	require.NotNil(t, p.DiscountedPrice)
	assert.Equal(t, 30.0, *p.DiscountedPrice)
}

func TestDraft_VariantPriceCoercion(t *testing.T) {
	d := validDraft(t)
	id, err := d.AddVariant()
	require.NoError(t, err)

	err = d.UpdateVariant(id, variant.SetPrice{Raw: "abc"})
	var ce *domain.CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 40.0, d.Variants()[0].Price)
}

func TestDraft_UnknownField(t *testing.T) {
	d := fullForm().Blank()
	validationErr(t, d.SetField("weight", "3"))
}

func TestDraft_Images(t *testing.T) {
	d := fullForm().Blank()

	n, err := d.AddImages([]ImageFile{png("1"), png("2"), png("3"), png("4"), png("5"), png("6"), png("7")})
	assert.Equal(t, 0, n)
	assert.Equal(t, "You can only upload up to 6 images", validationErr(t, err).Message)
	assert.Empty(t, d.Images)

	big := ImageFile{Name: "huge.png", Data: append(bytes.Clone(pngHeader), make([]byte, domain.MaxImageBytes)...)}
	text := ImageFile{Name: "notes.txt", Data: []byte("just some text")}
	n, err = d.AddImages([]ImageFile{png("ok.png"), big, text})
	assert.Equal(t, 1, n)
	assert.Equal(t, "File notes.txt is not an image", validationErr(t, err).Message)
	assert.Len(t, d.Images, 1)

	_, err = d.AddImages([]ImageFile{big})
	assert.Equal(t, "File huge.png is too large. Maximum size is 400KB", validationErr(t, err).Message)

	d.RemoveImage(5)
	assert.Len(t, d.Images, 1)
	d.RemoveImage(0)
	assert.Empty(t, d.Images)
}

func TestForm_FromRoundTrip(t *testing.T) {
	disc := 79.5
	p := domain.Product{
		ID: "p1", Name: "Boot", SKU: "B1", Description: "Leather boot", Category: "Footwear",
		Price: 100, DiscountedPrice: &disc, Stock: 7, Images: []string{"img"},
		Variants:  []domain.Variant{{ID: "v1", Attributes: map[string]string{"size": "42"}, Price: 80, Stock: 2}},
		CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	f := fullForm()
	d := f.From(p)
	assert.Equal(t, "100", d.Price)
	assert.Equal(t, "79.5", d.DiscountedPrice)

	got, err := f.Build(d)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestForm_FromKeepsFullPrecision(t *testing.T) {
	disc := 4.125
	p := domain.Product{
		ID: "p1", Name: "Pen", SKU: "P1", Description: "Ink pen",
		Price: 9.999, DiscountedPrice: &disc, Stock: 1, Images: []string{"img"},
		Variants: []domain.Variant{},
	}
	f := fullForm()
	d := f.From(p)
	assert.Equal(t, "9.999", d.Price)
	assert.Equal(t, "4.125", d.DiscountedPrice)

	got, err := f.Build(d)
	require.NoError(t, err)
	assert.Equal(t, 9.999, got.Price)
	assert.Equal(t, 4.125, *got.DiscountedPrice)
}

func TestValidateProduct_VariantIDs(t *testing.T) {
	base := domain.Product{Name: "Cap", SKU: "C1", Description: "A cap", Price: 10, Images: []string{"i"}}
	tests := []struct {
		name     string
		variants []domain.Variant
		msg      string
	}{
		{"empty id", []domain.Variant{{ID: " ", Price: 1}}, "Variant id is required"},
		{"duplicate id", []domain.Variant{{ID: "v1", Price: 1}, {ID: "v1", Price: 2}}, "Variant id v1 is used twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			p.Variants = tt.variants
			ve := validationErr(t, ValidateProduct(p, FullForm))
			assert.Equal(t, "variants", ve.Field)
			assert.Equal(t, tt.msg, ve.Message)
		})
	}

	p := base
	p.Variants = []domain.Variant{{ID: "v1"}, {ID: "v2"}}
	assert.NoError(t, ValidateProduct(p, FullForm))
}
