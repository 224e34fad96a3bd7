package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/query"
)

type ProductUC struct {
	Products   domain.ProductRepo
	Categories domain.CategoryRepo
	Stock      domain.StockThresholds
	Options    FormOptions
}

// List returns the filtered, sorted catalog and the size of the whole catalog.
func (uc *ProductUC) List(ctx context.Context, q query.Query) ([]domain.Product, int, error) {
	all, err := uc.Products.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	if q.Sort.Field != "" && q.Sort.Dir == "" {
		q.Sort.Dir = ProductsDefaultDir
	}
	out, err := query.Apply(all, ProductSchema(uc.Stock), q)
	if err != nil {
		return nil, 0, err
	}
	return out, len(all), nil
}

func (uc *ProductUC) Get(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, domain.Invalid("id", "Product id is required")
	}
	return uc.Products.Get(ctx, id)
}

func (uc *ProductUC) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := ValidateProduct(p, uc.Options); err != nil {
		return domain.Product{}, err
	}
	if _, _, err := uc.AddCategory(ctx, p.Category); err != nil {
		return domain.Product{}, err
	}
	p.ID = ""
	if p.Variants == nil {
		p.Variants = []domain.Variant{}
	}
	created, err := uc.Products.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	log.Info().Str("id", created.ID).Str("sku", created.SKU).Msg("product created")
	return created, nil
}

// Update replaces the product with the same id.
func (uc *ProductUC) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		return domain.Product{}, domain.Invalid("id", "Product id is required")
	}
	if err := ValidateProduct(p, uc.Options); err != nil {
		return domain.Product{}, err
	}
	cur, err := uc.Products.Get(ctx, p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	if _, _, err := uc.AddCategory(ctx, p.Category); err != nil {
		return domain.Product{}, err
	}
	p.CreatedAt = cur.CreatedAt
	return uc.Products.Update(ctx, p)
}

func (uc *ProductUC) Delete(ctx context.Context, id string) error {
	if err := uc.Products.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("id", id).Msg("product deleted")
	return nil
}

// Recent returns the n most recently created products.
func (uc *ProductUC) Recent(ctx context.Context, n int) ([]domain.Product, error) {
	out, _, err := uc.List(ctx, query.Query{Sort: query.Sort{Field: SortCreated, Dir: query.Desc}})
	if err != nil {
		return nil, err
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (uc *ProductUC) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return uc.Categories.List(ctx)
}

// AddCategory creates a category on demand. Blank names are ignored and an
// existing value is returned unchanged.
func (uc *ProductUC) AddCategory(ctx context.Context, name string) (domain.Category, bool, error) {
	n := strings.TrimSpace(name)
	if n == "" || strings.EqualFold(n, domain.All) {
		return domain.Category{}, false, nil
	}
	c, err := uc.Categories.Add(ctx, domain.Category{Value: n, Label: n})
	if err != nil {
		return domain.Category{}, false, err
	}
	return c, true, nil
}

// CategoryOptions is the category selector including the "all" entry.
func (uc *ProductUC) CategoryOptions(ctx context.Context) ([]domain.Category, error) {
	cats, err := uc.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return append([]domain.Category{{Value: domain.All, Label: "All Categories"}}, cats...), nil
}

// ImportRow is one product read from an import file; Key identifies the
// row in error reports. Err is set when the row could not be read.
type ImportRow struct {
	Key     string
	Product domain.Product
	Err     error
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Created int               `json:"created"`
	Errors  map[string]string `json:"errors"`
}

// Import creates every valid product, reporting the rejected ones by row key.
// Unknown categories are created on the way.
func (uc *ProductUC) Import(ctx context.Context, rows []ImportRow) (ImportResult, error) {
	res := ImportResult{Errors: map[string]string{}}
	opts := uc.Options
	opts.RequireImages = false
	for _, row := range rows {
		key, p := row.Key, row.Product
		if row.Err != nil {
			res.Errors[key] = row.Err.Error()
			continue
		}
		if err := ValidateProduct(p, opts); err != nil {
			res.Errors[key] = err.Error()
			continue
		}
		if _, _, err := uc.AddCategory(ctx, p.Category); err != nil {
			return res, err
		}
		p.ID = ""
		if p.Variants == nil {
			p.Variants = []domain.Variant{}
		}
		if _, err := uc.Products.Create(ctx, p); err != nil {
			res.Errors[key] = err.Error()
			continue
		}
		res.Created++
	}
	log.Info().Int("created", res.Created).Int("rejected", len(res.Errors)).Msg("product import")
	return res, nil
}

// Store exposes the use case as a product store so list controllers commit
// through the same rules as the API.
func (uc *ProductUC) Store() domain.ProductRepo { return productStore{uc} }

type productStore struct{ uc *ProductUC }

func (s productStore) List(ctx context.Context) ([]domain.Product, error) {
	return s.uc.Products.List(ctx)
}

func (s productStore) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.uc.Get(ctx, id)
}

func (s productStore) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	return s.uc.Create(ctx, p)
}

func (s productStore) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	return s.uc.Update(ctx, p)
}

func (s productStore) Delete(ctx context.Context, id string) error {
	return s.uc.Delete(ctx, id)
}
