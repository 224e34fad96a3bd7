package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/listview"
	"github.com/phenrril/backoffice/internal/query"
	"github.com/phenrril/backoffice/internal/usecase"
)

type (
	ProductsView  = listview.Controller[domain.Product, *usecase.ProductDraft]
	OrdersView    = listview.Controller[domain.Order, *domain.Order]
	CustomersView = listview.Controller[domain.Customer, *domain.Customer]
)

// Views are the controllers of the single admin session.
type Views struct {
	Products  *ProductsView
	Orders    *OrdersView
	Customers *CustomersView
}

type Deps struct {
	Products  *usecase.ProductUC
	Orders    *usecase.OrderUC
	Customers *usecase.CustomerUC
	Dashboard *usecase.DashboardUC
	Views     Views
	// Now defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	mux       *http.ServeMux
	products  *usecase.ProductUC
	orders    *usecase.OrderUC
	customers *usecase.CustomerUC
	dashboard *usecase.DashboardUC
	views     Views
	now       func() time.Time
}

func New(d Deps) http.Handler {
	s := &Server{
		mux:       http.NewServeMux(),
		products:  d.Products,
		orders:    d.Orders,
		customers: d.Customers,
		dashboard: d.Dashboard,
		views:     d.Views,
		now:       d.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.routes()
	return Chain(s.mux, RequestID, Logging, Recovery)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("/api/products", s.apiProducts)
	s.mux.HandleFunc("/api/products/{id}", s.apiProductByID)
	s.mux.HandleFunc("/api/categories", s.apiCategories)

	s.mux.HandleFunc("/api/orders", s.apiOrders)
	s.mux.HandleFunc("/api/orders/payment-methods", s.apiPaymentMethods)
	s.mux.HandleFunc("/api/orders/{id}", s.apiOrderByID)
	s.mux.HandleFunc("/api/orders/{id}/status", s.apiOrderStatus)

	s.mux.HandleFunc("/api/customers", s.apiCustomers)
	s.mux.HandleFunc("/api/customers/top", s.apiTopCustomers)
	s.mux.HandleFunc("/api/customers/{id}", s.apiCustomerByID)

	s.mux.HandleFunc("/api/dashboard", s.apiDashboard)
	s.mux.HandleFunc("/api/dashboard/series", s.apiDashboardSeries)

	s.mux.HandleFunc("/admin/export/{file}", s.handleAdminExport)
	s.mux.HandleFunc("/admin/import/xlsx", s.handleAdminImportXLSX)

	sessionRoutes(s.mux, s.views.Products, s.presentProduct, s.productDraft)
	sessionRoutes(s.mux, s.views.Orders, nil, orderDraft)
	sessionRoutes(s.mux, s.views.Customers, nil, customerDraft)
	s.mux.HandleFunc("/admin/products/draft/images", s.handleProductImages)
	s.mux.HandleFunc("/admin/products/expand", s.handleProductExpand)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

var errBadRequest = errors.New("bad request")

func badRequest(msg string) error { return fmt.Errorf("%w: %s", errBadRequest, msg) }

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return badRequest("malformed JSON body")
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var ve *domain.ValidationError
	var ce *domain.CoercionError
	switch {
	case errors.As(err, &ve), errors.As(err, &ce):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, listview.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, query.ErrUnknownFilter),
		errors.Is(err, query.ErrUnknownSortField),
		errors.Is(err, query.ErrInvalidDirection):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	body := errorBody{Error: err.Error()}
	var ve *domain.ValidationError
	var ce *domain.CoercionError
	switch {
	case errors.As(err, &ve):
		body = errorBody{Error: ve.Message, Field: ve.Field}
	case errors.As(err, &ce):
		body = errorBody{Error: ce.Error(), Field: ce.Field}
	}
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Str("path", r.URL.Path).Msg("request failed")
		body = errorBody{Error: "internal error"}
	}
	writeJSON(w, code, body)
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "method", http.StatusMethodNotAllowed)
}

// queryFrom reads q, the named filters, sort and dir from the URL.
func queryFrom(r *http.Request, filters ...string) (query.Query, error) {
	v := r.URL.Query()
	q := query.Query{Text: v.Get("q"), Filters: map[string]string{}}
	for _, f := range filters {
		if val := v.Get(f); val != "" {
			q.Filters[f] = val
		}
	}
	dir, err := query.ParseDir(v.Get("dir"))
	if err != nil {
		return query.Query{}, err
	}
	q.Sort = query.Sort{Field: v.Get("sort"), Dir: dir}
	return q, nil
}
