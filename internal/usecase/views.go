package usecase

import (
	"time"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/query"
)

// Filter and sort field names accepted by the list views.
const (
	FilterCategory = "category"
	FilterStock    = "stock"
	FilterStatus   = "status"
	FilterPayment  = "payment"

	SortPrice        = "price"
	SortStock        = "stock"
	SortName         = "name"
	SortCreated      = "createdAt"
	SortID           = "id"
	SortCustomerName = "customerName"
	SortDate         = "date"
	SortTotal        = "total"
	SortStatus       = "status"
	SortTotalOrders  = "totalOrders"
	SortTotalSpent   = "totalSpent"
	SortLastPurchase = "lastPurchase"
	SortJoinDate     = "joinDate"
)

// ProductSchema searches name and sku, filters by category and stock bucket,
// and sorts on the effective price.
func ProductSchema(th domain.StockThresholds) query.Schema[domain.Product] {
	return query.Schema[domain.Product]{
		Search: []func(domain.Product) string{
			func(p domain.Product) string { return p.Name },
			func(p domain.Product) string { return p.SKU },
		},
		Filters: map[string]query.Matcher[domain.Product]{
			FilterCategory: query.Equals(func(p domain.Product) string { return p.Category }),
			FilterStock: func(p domain.Product, v string) bool {
				return string(th.Bucket(p.Stock)) == v
			},
		},
		Sorts: map[string]query.Key[domain.Product]{
			SortPrice:   query.NumberKey(domain.Product.EffectivePrice),
			SortStock:   query.NumberKey(func(p domain.Product) float64 { return float64(p.Stock) }),
			SortName:    query.StringKey(func(p domain.Product) string { return p.Name }),
			SortCreated: query.TimeKey(func(p domain.Product) time.Time { return p.CreatedAt }),
		},
	}
}

func OrderSchema() query.Schema[domain.Order] {
	return query.Schema[domain.Order]{
		Search: []func(domain.Order) string{
			func(o domain.Order) string { return o.ID },
			func(o domain.Order) string { return o.CustomerName },
		},
		Filters: map[string]query.Matcher[domain.Order]{
			FilterStatus:  query.Equals(func(o domain.Order) string { return string(o.Status) }),
			FilterPayment: query.Equals(func(o domain.Order) string { return o.PaymentMethod }),
		},
		Sorts: map[string]query.Key[domain.Order]{
			SortID:           query.StringKey(func(o domain.Order) string { return o.ID }),
			SortCustomerName: query.StringKey(func(o domain.Order) string { return o.CustomerName }),
			SortDate:         query.TimeKey(func(o domain.Order) time.Time { return o.Date }),
			SortTotal:        query.NumberKey(func(o domain.Order) float64 { return o.Total }),
			SortStatus:       query.StringKey(func(o domain.Order) string { return string(o.Status) }),
		},
	}
}

func CustomerSchema() query.Schema[domain.Customer] {
	return query.Schema[domain.Customer]{
		Search: []func(domain.Customer) string{
			func(c domain.Customer) string { return c.Name },
			func(c domain.Customer) string { return c.Email },
		},
		Sorts: map[string]query.Key[domain.Customer]{
			SortName:         query.StringKey(func(c domain.Customer) string { return c.Name }),
			SortTotalOrders:  query.NumberKey(func(c domain.Customer) float64 { return float64(c.TotalOrders) }),
			SortTotalSpent:   query.NumberKey(func(c domain.Customer) float64 { return c.TotalSpent }),
			SortLastPurchase: query.TimeKey(func(c domain.Customer) time.Time { return c.LastActive }),
			SortJoinDate:     query.TimeKey(func(c domain.Customer) time.Time { return c.JoinDate }),
		},
	}
}

// CustomersInitialSort lists the newest customers first.
var CustomersInitialSort = query.Sort{Field: SortJoinDate, Dir: query.Desc}

// CustomerSortPresets are the options of the customers page sort selector.
var CustomerSortPresets = map[string]query.Sort{
	"newest":        CustomersInitialSort,
	"oldest":        {Field: SortJoinDate, Dir: query.Asc},
	"spending-high": {Field: SortTotalSpent, Dir: query.Desc},
	"spending-low":  {Field: SortTotalSpent, Dir: query.Asc},
	"orders-high":   {Field: SortTotalOrders, Dir: query.Desc},
	"orders-low":    {Field: SortTotalOrders, Dir: query.Asc},
}

// Direction a view starts with when a new sort field is picked.
const (
	ProductsDefaultDir  = query.Asc
	OrdersDefaultDir    = query.Desc
	CustomersDefaultDir = query.Desc
)
