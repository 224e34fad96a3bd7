package listview

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/backoffice/internal/adapters/repo/memory"
	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/ids"
	"github.com/phenrril/backoffice/internal/query"
	"github.com/phenrril/backoffice/internal/usecase"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func productController(t *testing.T, seed ...domain.Product) (*Controller[domain.Product, *usecase.ProductDraft], *usecase.ProductUC) {
	t.Helper()
	uc := &usecase.ProductUC{
		Products:   memory.NewProductRepo(ids.NewSequence("p"), func() time.Time { return t0 }, seed),
		Categories: memory.NewCategoryRepo(nil),
		Stock:      domain.DefaultStockThresholds,
		Options:    usecase.FullForm,
	}
	c := New(Config[domain.Product, *usecase.ProductDraft]{
		Name:       "products",
		Store:      uc.Store(),
		Schema:     usecase.ProductSchema(uc.Stock),
		Form:       usecase.ProductForm{IDs: ids.NewSequence("v"), Options: usecase.FullForm},
		DefaultDir: usecase.ProductsDefaultDir,
	})
	return c, uc
}

func customerController() *Controller[domain.Customer, *domain.Customer] {
	return New(Config[domain.Customer, *domain.Customer]{
		Name: "customers",
		Store: memory.NewCustomerRepo(ids.NewSequence("c"), []domain.Customer{
			{ID: "c1", Name: "Emma", Email: "emma@example.com", TotalSpent: 300},
			{ID: "c2", Name: "Liam", Email: "liam@example.com", TotalSpent: 100},
			{ID: "c3", Name: "Ava", Email: "ava@example.com", TotalSpent: 200},
		}),
		Schema:     usecase.CustomerSchema(),
		Form:       usecase.CustomerForm{},
		DefaultDir: usecase.CustomersDefaultDir,
	})
}

func customerNames(p Page[domain.Customer]) []string {
	out := make([]string, len(p.Items))
	for i, c := range p.Items {
		out[i] = c.Name
	}
	return out
}

var bags = []domain.Product{
	{ID: "1", Name: "Red Bag", SKU: "A1", Stock: 5, Price: 10, Images: []string{"i"}, Description: "d"},
	{ID: "2", Name: "Blue Bag", SKU: "A2", Stock: 60, Price: 20, Images: []string{"i"}, Description: "d"},
}

func TestController_QueryScenario(t *testing.T) {
	c, _ := productController(t, bags...)
	c.SetSearch("bag")
	require.NoError(t, c.SetFilter(usecase.FilterStock, string(domain.StockIn)))

	page, err := c.View(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A2", page.Items[0].SKU)
	assert.Equal(t, 1, page.Shown)
	assert.Equal(t, 2, page.Total)

	require.NoError(t, c.SetFilter(usecase.FilterStock, domain.All))
	page, err = c.View(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	assert.ErrorIs(t, c.SetFilter("color", "red"), query.ErrUnknownFilter)
}

func TestController_ToggleSort(t *testing.T) {
	c := customerController()
	ctx := context.Background()

	require.NoError(t, c.ToggleSort(usecase.SortTotalSpent))
	assert.Equal(t, query.Sort{Field: usecase.SortTotalSpent, Dir: query.Desc}, c.Query().Sort)
	page, err := c.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma", "Ava", "Liam"}, customerNames(page))

	require.NoError(t, c.ToggleSort(usecase.SortTotalSpent))
	assert.Equal(t, query.Asc, c.Query().Sort.Dir)

	require.NoError(t, c.ToggleSort(usecase.SortName))
	assert.Equal(t, query.Sort{Field: usecase.SortName, Dir: query.Desc}, c.Query().Sort, "new field resets to the view default")

	assert.ErrorIs(t, c.ToggleSort("age"), query.ErrUnknownSortField)
	assert.ErrorIs(t, c.SetSort(usecase.SortName, "up"), query.ErrInvalidDirection)

	require.NoError(t, c.SetSort(usecase.SortName, ""))
	assert.Equal(t, query.Desc, c.Query().Sort.Dir)
	require.NoError(t, c.SetSort("", ""))
	assert.Equal(t, query.Sort{}, c.Query().Sort)
}

func TestController_ProductsDefaultAscending(t *testing.T) {
	c, _ := productController(t, bags...)
	require.NoError(t, c.ToggleSort(usecase.SortPrice))
	assert.Equal(t, query.Asc, c.Query().Sort.Dir)
}

func TestController_QueryIsACopy(t *testing.T) {
	c := customerController()
	q := c.Query()
	q.Filters["x"] = "y"
	assert.Empty(t, c.Query().Filters)
}

func TestController_AddFlow(t *testing.T) {
	c, uc := productController(t, bags...)
	ctx := context.Background()

	_, err := c.BeginAdd()
	require.NoError(t, err)
	assert.Equal(t, Editing, c.State())

	_, err = c.BeginAdd()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, c.RequestDelete("1"), ErrInvalidTransition)

	require.NoError(t, c.EditDraft(func(d *usecase.ProductDraft) error {
		d.Name, d.SKU, d.Description, d.Price, d.Stock, d.Category = "Tote", "T1", "canvas", "15", "3", "Bags"
		return nil
	}))

	_, err = c.Save(ctx)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please add at least one image", ve.Message)
	assert.Equal(t, Editing, c.State(), "failed save keeps the modal open")
	st := c.Status()
	require.NotNil(t, st.Draft)
	assert.Equal(t, "Tote", (*st.Draft).Name)
	assert.Equal(t, ve.Error(), st.Error)

	require.NoError(t, c.EditDraft(func(d *usecase.ProductDraft) error {
		d.Images = []string{"data:image/png;base64,AA=="}
		return nil
	}))
	saved, err := c.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, "p1", saved.ID)
	assert.NoError(t, c.LastError())

	page, err := c.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "T1", page.Items[2].SKU, "added records are appended")

	cats, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{Value: "Bags", Label: "Bags"}}, cats)
}

func TestController_EditFlow(t *testing.T) {
	c, _ := productController(t, bags...)
	ctx := context.Background()

	_, err := c.BeginEdit(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, Idle, c.State())

	d, err := c.BeginEdit(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Blue Bag", d.Name)
	assert.Equal(t, "2", c.Status().EditingID)
	require.NoError(t, c.EditDraft(func(d *usecase.ProductDraft) error {
		d.Name = "Navy Bag"
		_, err := d.AddVariant()
		return err
	}))

	saved, err := c.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", saved.ID)
	assert.Equal(t, "Navy Bag", saved.Name)
	require.Len(t, saved.Variants, 1)
	assert.Equal(t, 20.0, saved.Variants[0].Price)

	page, err := c.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "Navy Bag", page.Items[1].Name, "edits replace in place")
}

func TestController_CancelDiscardsDraft(t *testing.T) {
	c, _ := productController(t, bags...)
	ctx := context.Background()
	c.SetSearch("red")

	_, err := c.BeginEdit(ctx, "1")
	require.NoError(t, err)
	require.NoError(t, c.EditDraft(func(d *usecase.ProductDraft) error {
		d.Name = "changed"
		return nil
	}))
	require.NoError(t, c.Cancel())
	assert.Equal(t, Idle, c.State())
	assert.Nil(t, c.Status().Draft)
	assert.ErrorIs(t, c.Cancel(), ErrInvalidTransition)

	p, err := c.cfg.Store.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Red Bag", p.Name)
	assert.Equal(t, "red", c.Query().Text, "query survives the modal")
}

func TestController_DeleteFlow(t *testing.T) {
	c := customerController()
	ctx := context.Background()

	assert.ErrorIs(t, c.ConfirmDelete(ctx), ErrInvalidTransition)

	require.NoError(t, c.RequestDelete("c2"))
	assert.Equal(t, ConfirmingDelete, c.State())
	assert.Equal(t, "c2", c.Status().PendingDelete)
	_, err := c.BeginAdd()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, c.DeclineDelete())
	page, err := c.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	require.NoError(t, c.RequestDelete("c2"))
	require.NoError(t, c.ConfirmDelete(ctx))
	assert.Equal(t, Idle, c.State())
	page, err = c.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma", "Ava"}, customerNames(page))

	require.NoError(t, c.RequestDelete("c2"))
	assert.ErrorIs(t, c.ConfirmDelete(ctx), domain.ErrNotFound)
	assert.Equal(t, Idle, c.State())
	assert.ErrorIs(t, c.LastError(), domain.ErrNotFound)
}

func TestController_ToggleExpanded(t *testing.T) {
	c, _ := productController(t, bags...)
	assert.True(t, c.ToggleExpanded("1"))
	assert.True(t, c.ToggleExpanded("2"))
	assert.Equal(t, []string{"1", "2"}, c.Status().Expanded)
	assert.False(t, c.ToggleExpanded("1"))
	assert.Equal(t, []string{"2"}, c.Status().Expanded)

	require.NoError(t, c.RequestDelete("2"))
	require.NoError(t, c.ConfirmDelete(context.Background()))
	assert.Empty(t, c.Status().Expanded)
}

func TestController_DraftCopiesAreIndependent(t *testing.T) {
	c, _ := productController(t, bags...)
	ctx := context.Background()

	opened, err := c.BeginEdit(ctx, "1")
	require.NoError(t, err)
	st := c.Status()
	require.NotNil(t, st.Draft)

	require.NoError(t, c.EditDraft(func(d *usecase.ProductDraft) error {
		_, err := d.AddVariant()
		d.Images = append(d.Images, "extra")
		return errors.Join(err, d.SetField(usecase.FieldName, "Crimson Bag"))
	}))

	for _, d := range []*usecase.ProductDraft{opened, *st.Draft} {
		assert.Equal(t, "Red Bag", d.Name)
		assert.Empty(t, d.Variants())
		assert.Equal(t, []string{"i"}, d.Images)
	}
	opened.Name = "ignored"

	latest := c.Status()
	assert.Equal(t, "Crimson Bag", (*latest.Draft).Name)
	assert.Len(t, (*latest.Draft).Variants(), 1)
}

func TestController_ConcurrentDraftEditsAndReads(t *testing.T) {
	c, _ := productController(t, bags...)
	_, err := c.BeginEdit(context.Background(), "2")
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for range n {
		go func() {
			defer wg.Done()
			assert.NoError(t, c.EditDraft(func(d *usecase.ProductDraft) error {
				_, err := d.AddVariant()
				return err
			}))
		}()
		go func() {
			defer wg.Done()
			_, err := json.Marshal(c.Status())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st := c.Status()
	assert.Len(t, (*st.Draft).Variants(), n)
}

func TestController_InitialSort(t *testing.T) {
	c := New(Config[domain.Customer, *domain.Customer]{
		Name: "customers",
		Store: memory.NewCustomerRepo(ids.NewSequence("c"), []domain.Customer{
			{ID: "c1", Name: "Old", Email: "old@example.com", JoinDate: t0.AddDate(-1, 0, 0)},
			{ID: "c2", Name: "New", Email: "new@example.com", JoinDate: t0},
		}),
		Schema:      usecase.CustomerSchema(),
		Form:        usecase.CustomerForm{},
		DefaultDir:  usecase.CustomersDefaultDir,
		InitialSort: usecase.CustomersInitialSort,
	})
	assert.Equal(t, query.Sort{Field: usecase.SortJoinDate, Dir: query.Desc}, c.Query().Sort)

	page, err := c.View(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"New", "Old"}, customerNames(page))

	require.NoError(t, c.ToggleSort(usecase.SortJoinDate))
	page, err = c.View(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Old", "New"}, customerNames(page))
}
