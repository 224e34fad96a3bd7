package httpserver

import (
	"net/http"
	"strconv"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/usecase"
)

// productRow is a product with the values the tables derive from it.
type productRow struct {
	domain.Product
	EffectivePrice float64            `json:"effectivePrice"`
	DiscountPct    int                `json:"discountPct,omitempty"`
	StockStatus    domain.StockStatus `json:"stockStatus"`
	StockLabel     string             `json:"stockLabel"`
	StockBadge     string             `json:"stockBadge"`
}

func (s *Server) presentProduct(p domain.Product) any {
	th := s.products.Stock
	return productRow{
		Product:        p,
		EffectivePrice: p.EffectivePrice(),
		DiscountPct:    p.DiscountPct(),
		StockStatus:    th.Bucket(p.Stock),
		StockLabel:     th.Label(p.Stock),
		StockBadge:     th.Badge(p.Stock),
	}
}

func (s *Server) presentProducts(ps []domain.Product) []any {
	out := make([]any, len(ps))
	for i, p := range ps {
		out[i] = s.presentProduct(p)
	}
	return out
}

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q, err := queryFrom(r, usecase.FilterCategory, usecase.FilterStock)
		if err != nil {
			writeError(w, r, err)
			return
		}
		list, total, err := s.products.List(r.Context(), q)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]any{"items": s.presentProducts(list), "shown": len(list), "total": total})
	case http.MethodPost:
		var p domain.Product
		if err := readJSON(w, r, &p); err != nil {
			writeError(w, r, err)
			return
		}
		created, err := s.products.Create(r.Context(), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 201, s.presentProduct(created))
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) apiProductByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	switch r.Method {
	case http.MethodGet:
		p, err := s.products.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, s.presentProduct(p))
	case http.MethodPut:
		var p domain.Product
		if err := readJSON(w, r, &p); err != nil {
			writeError(w, r, err)
			return
		}
		p.ID = id
		updated, err := s.products.Update(r.Context(), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, s.presentProduct(updated))
	case http.MethodDelete:
		if err := s.products.Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats, err := s.products.CategoryOptions(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, cats)
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		c, ok, err := s.products.AddCategory(r.Context(), req.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !ok {
			writeError(w, r, domain.Invalid("name", "Category name is required"))
			return
		}
		writeJSON(w, 201, c)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) apiOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q, err := queryFrom(r, usecase.FilterStatus, usecase.FilterPayment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, total, err := s.orders.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, map[string]any{"items": list, "shown": len(list), "total": total})
}

func (s *Server) apiPaymentMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	methods, err := s.orders.PaymentMethods(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, methods)
}

func (s *Server) apiOrderByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	o, err := s.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, o)
}

func (s *Server) apiOrderStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	o, err := s.orders.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, o)
}

func (s *Server) apiCustomers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q, err := queryFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if preset, ok := usecase.CustomerSortPresets[r.URL.Query().Get("preset")]; ok {
		q.Sort = preset
	} else if q.Sort.Field == "" {
		q.Sort = usecase.CustomersInitialSort
	}
	list, total, err := s.customers.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, map[string]any{"items": list, "shown": len(list), "total": total})
}

func (s *Server) apiTopCustomers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, r, badRequest("n must be a positive integer"))
			return
		}
		n = v
	}
	list, err := s.customers.Top(r.Context(), n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, list)
}

func (s *Server) apiCustomerByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	c, err := s.customers.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, c)
}

func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	ctx := r.Context()
	metrics, err := s.dashboard.Metrics(ctx, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	recent, err := s.products.Recent(ctx, 5)
	if err != nil {
		writeError(w, r, err)
		return
	}
	top, err := s.customers.Top(ctx, 5)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"metrics":        metrics,
		"recentProducts": s.presentProducts(recent),
		"topCustomers":   top,
	})
}

func (s *Server) apiDashboardSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	p, err := usecase.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	series, err := s.dashboard.Series(r.Context(), p, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, map[string]any{"period": p, "points": series})
}
