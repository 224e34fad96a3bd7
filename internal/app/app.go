// Package app wires stores, use cases and the admin session into an HTTP
// handler.
package app

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/adapters/httpserver"
	"github.com/phenrril/backoffice/internal/adapters/repo/memory"
	"github.com/phenrril/backoffice/internal/config"
	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/ids"
	"github.com/phenrril/backoffice/internal/listview"
	"github.com/phenrril/backoffice/internal/seed"
	"github.com/phenrril/backoffice/internal/usecase"
)

type App struct {
	Config      config.Config
	ProductUC   *usecase.ProductUC
	OrderUC     *usecase.OrderUC
	CustomerUC  *usecase.CustomerUC
	DashboardUC *usecase.DashboardUC
	Views       httpserver.Views

	now func() time.Time
}

type Option func(*App)

// WithClock replaces time.Now for timestamps and dashboard windows.
func WithClock(now func() time.Time) Option { return func(a *App) { a.now = now } }

func NewApp(cfg config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{Config: cfg, now: time.Now}
	for _, o := range opts {
		o(a)
	}

	var data seed.Data
	if cfg.Seed {
		data = seed.Build(a.now())
	}
	gen := ids.UUID{}
	products := memory.NewProductRepo(gen, a.now, data.Products)
	orders := memory.NewOrderRepo(gen, data.Orders)
	customers := memory.NewCustomerRepo(gen, data.Customers)
	categories := memory.NewCategoryRepo(data.Categories)

	form := usecase.FullForm
	if cfg.SimpleProductForm {
		form = usecase.SimpleForm
	}
	stock := cfg.Stock()

	a.ProductUC = &usecase.ProductUC{Products: products, Categories: categories, Stock: stock, Options: form}
	a.OrderUC = &usecase.OrderUC{Orders: orders}
	a.CustomerUC = &usecase.CustomerUC{Customers: customers}
	a.DashboardUC = &usecase.DashboardUC{Products: products, Orders: orders, Customers: customers}

	a.Views = httpserver.Views{
		Products: listview.New(listview.Config[domain.Product, *usecase.ProductDraft]{
			Name:       "products",
			Store:      a.ProductUC.Store(),
			Schema:     usecase.ProductSchema(stock),
			Form:       usecase.ProductForm{IDs: gen, Options: form, Attributes: cfg.VariantAttributes},
			DefaultDir: usecase.ProductsDefaultDir,
		}),
		Orders: listview.New(listview.Config[domain.Order, *domain.Order]{
			Name:       "orders",
			Store:      orders,
			Schema:     usecase.OrderSchema(),
			Form:       usecase.OrderForm{},
			DefaultDir: usecase.OrdersDefaultDir,
		}),
		Customers: listview.New(listview.Config[domain.Customer, *domain.Customer]{
			Name:        "customers",
			Store:       customers,
			Schema:      usecase.CustomerSchema(),
			Form:        usecase.CustomerForm{},
			DefaultDir:  usecase.CustomersDefaultDir,
			InitialSort: usecase.CustomersInitialSort,
		}),
	}

	log.Info().
		Int("products", len(data.Products)).
		Int("orders", len(data.Orders)).
		Int("customers", len(data.Customers)).
		Int("stock_low_max", stock.LowStockMax).
		Int("stock_mid_max", stock.MidStockMax).
		Bool("simple_form", cfg.SimpleProductForm).
		Msg("app ready")
	return a, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Deps{
		Products:  a.ProductUC,
		Orders:    a.OrderUC,
		Customers: a.CustomerUC,
		Dashboard: a.DashboardUC,
		Views:     a.Views,
		Now:       a.now,
	})
}
