package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/backoffice/internal/adapters/repo/memory"
	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/ids"
	"github.com/phenrril/backoffice/internal/query"
)

var now = time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func newProductUC(seed ...domain.Product) *ProductUC {
	return &ProductUC{
		Products:   memory.NewProductRepo(ids.NewSequence("p"), clock, seed),
		Categories: memory.NewCategoryRepo([]domain.Category{{Value: "Bags", Label: "Bags"}}),
		Stock:      domain.DefaultStockThresholds,
		Options:    FullForm,
	}
}

func skus(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.SKU
	}
	return out
}

func TestProductUC_SearchAndStockBucket(t *testing.T) {
	uc := newProductUC(
		domain.Product{ID: "1", Name: "Red Bag", SKU: "A1", Stock: 5},
		domain.Product{ID: "2", Name: "Blue Bag", SKU: "A2", Stock: 60},
	)
	out, total, err := uc.List(context.Background(), query.Query{
		Text:    "bag",
		Filters: map[string]string{FilterStock: string(domain.StockIn)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"A2"}, skus(out))
}

func TestProductUC_SortByEffectivePrice(t *testing.T) {
	d := 5.0
	uc := newProductUC(
		domain.Product{ID: "1", SKU: "X", Price: 20},
		domain.Product{ID: "2", SKU: "Y", Price: 10, DiscountedPrice: &d},
		domain.Product{ID: "3", SKU: "Z", Price: 8},
	)
	out, _, err := uc.List(context.Background(), query.Query{Sort: query.Sort{Field: SortPrice}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "Z", "X"}, skus(out), "empty direction uses the products default (asc)")

	out, _, err = uc.List(context.Background(), query.Query{Sort: query.Sort{Field: SortPrice, Dir: query.Desc}})
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Z", "Y"}, skus(out))
}

func TestProductUC_CategoryFilter(t *testing.T) {
	uc := newProductUC(
		domain.Product{ID: "1", SKU: "B", Category: "Bags"},
		domain.Product{ID: "2", SKU: "E", Category: "Electronics"},
	)
	out, _, err := uc.List(context.Background(), query.Query{Filters: map[string]string{FilterCategory: "Electronics"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"E"}, skus(out))

	_, _, err = uc.List(context.Background(), query.Query{Sort: query.Sort{Field: "weight"}})
	assert.ErrorIs(t, err, query.ErrUnknownSortField)
}

func TestProductUC_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC()

	_, err := uc.Create(ctx, domain.Product{Name: "Tote", SKU: "T1", Description: "d", Price: 10})
	assert.Equal(t, "Please add at least one image", validationErr(t, err).Message)

	p, err := uc.Create(ctx, domain.Product{Name: "Tote", SKU: "T1", Description: "d", Price: 10, Images: []string{"i"}})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, now, p.CreatedAt)
	assert.NotNil(t, p.Variants)

	p.Name = "Big Tote"
	p.CreatedAt = time.Time{}
	upd, err := uc.Update(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Big Tote", upd.Name)
	assert.Equal(t, now, upd.CreatedAt)

	p.Variants = []domain.Variant{{ID: "v1"}, {ID: "v1"}}
	_, err = uc.Update(ctx, p)
	assert.Equal(t, "variants", validationErr(t, err).Field)
	_, err = uc.Create(ctx, domain.Product{Name: "Cap", SKU: "C1", Description: "d", Price: 5, Images: []string{"i"},
		Variants: []domain.Variant{{Price: 5}}})
	assert.Equal(t, "Variant id is required", validationErr(t, err).Message)

	require.NoError(t, uc.Delete(ctx, p.ID))
	_, err = uc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUC_Recent(t *testing.T) {
	uc := newProductUC(
		domain.Product{ID: "1", SKU: "old", CreatedAt: now.Add(-48 * time.Hour)},
		domain.Product{ID: "2", SKU: "new", CreatedAt: now},
		domain.Product{ID: "3", SKU: "mid", CreatedAt: now.Add(-time.Hour)},
	)
	out, err := uc.Recent(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid"}, skus(out))
}

func TestProductUC_Categories(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC()

	_, ok, err := uc.AddCategory(ctx, "   ")
	require.NoError(t, err)
	assert.False(t, ok)

	c, ok, err := uc.AddCategory(ctx, " Hats ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.Category{Value: "Hats", Label: "Hats"}, c)

	_, _, err = uc.AddCategory(ctx, "Hats")
	require.NoError(t, err)

	opts, err := uc.CategoryOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{
		{Value: domain.All, Label: "All Categories"},
		{Value: "Bags", Label: "Bags"},
		{Value: "Hats", Label: "Hats"},
	}, opts)
}

func TestProductUC_Import(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC()

	res, err := uc.Import(ctx, []ImportRow{
		{Key: "row 2", Product: domain.Product{Name: "Lamp", SKU: "L1", Description: "d", Price: 30, Category: "Home"}},
		{Key: "row 3", Product: domain.Product{Name: "", SKU: "L2", Description: "d", Price: 30}},
		{Key: "row 4", Err: &domain.CoercionError{Field: "price", Input: "abc"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, "name: Product name is required", res.Errors["row 3"])
	assert.Equal(t, `price: "abc" is not a valid number`, res.Errors["row 4"])

	cats, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Contains(t, cats, domain.Category{Value: "Home", Label: "Home"})
}
