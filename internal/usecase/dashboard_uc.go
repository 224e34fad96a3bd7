package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/phenrril/backoffice/internal/domain"
)

// Metric is one dashboard card. Link is where clicking the card navigates.
type Metric struct {
	Title   string  `json:"title"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Change  float64 `json:"change"`
	Icon    string  `json:"icon"`
	Link    string  `json:"link,omitempty"`
}

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	case "":
		return PeriodWeek, nil
	}
	return "", domain.Invalid("period", fmt.Sprintf("Unknown period %q", s))
}

// Point is one bucket of the sales chart.
type Point struct {
	Name      string  `json:"name"`
	Revenue   float64 `json:"revenue"`
	Orders    int     `json:"orders"`
	Customers int     `json:"customers"`
}

const metricWindow = 30 * 24 * time.Hour

type DashboardUC struct {
	Products  domain.ProductRepo
	Orders    domain.OrderRepo
	Customers domain.CustomerRepo
}

// Metrics computes the summary cards. Change compares the last 30 days with
// the 30 days before, in percent.
func (uc *DashboardUC) Metrics(ctx context.Context, now time.Time) ([]Metric, error) {
	products, err := uc.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := uc.Orders.List(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := uc.Customers.List(ctx)
	if err != nil {
		return nil, err
	}

	cur, prev := now.Add(-metricWindow), now.Add(-2*metricWindow)
	window := func(t time.Time) int {
		switch {
		case t.After(now):
			return -1
		case !t.Before(cur):
			return 0
		case !t.Before(prev):
			return 1
		}
		return -1
	}

	var newProducts, newOrders, newCustomers [2]int
	var revenue [2]decimal.Decimal
	total := decimal.Zero
	for _, p := range products {
		if w := window(p.CreatedAt); w >= 0 {
			newProducts[w]++
		}
	}
	for _, o := range orders {
		w := window(o.Date)
		if w >= 0 {
			newOrders[w]++
		}
		if o.Status == domain.OrderStatusCancelled {
			continue
		}
		amount := decimal.NewFromFloat(o.Total)
		total = total.Add(amount)
		if w >= 0 {
			revenue[w] = revenue[w].Add(amount)
		}
	}
	for _, c := range customers {
		if w := window(c.JoinDate); w >= 0 {
			newCustomers[w]++
		}
	}

	rev, _ := total.Round(2).Float64()
	cr, _ := revenue[0].Float64()
	pr, _ := revenue[1].Float64()
	return []Metric{
		{Title: "Total Products", Value: float64(len(products)), Display: fmt.Sprint(len(products)),
			Change: pctChange(float64(newProducts[0]), float64(newProducts[1])), Icon: "Package", Link: "/products"},
		{Title: "Total Orders", Value: float64(len(orders)), Display: fmt.Sprint(len(orders)),
			Change: pctChange(float64(newOrders[0]), float64(newOrders[1])), Icon: "ShoppingCart", Link: "/orders"},
		{Title: "Total Customers", Value: float64(len(customers)), Display: fmt.Sprint(len(customers)),
			Change: pctChange(float64(newCustomers[0]), float64(newCustomers[1])), Icon: "Users", Link: "/customers"},
		{Title: "Revenue", Value: rev, Display: FormatMoney(total),
			Change: pctChange(cr, pr), Icon: "DollarSign"},
	}, nil
}

func pctChange(cur, prev float64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return math.Round((cur-prev)/prev*1000) / 10
}

type bucket struct {
	from, to time.Time
	name     string
}

func buckets(p Period, now time.Time) []bucket {
	y, m, d := now.Date()
	loc := now.Location()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	var out []bucket
	switch p {
	case PeriodDay:
		for h := 0; h < 24; h++ {
			from := today.Add(time.Duration(h) * time.Hour)
			out = append(out, bucket{from, from.Add(time.Hour), fmt.Sprintf("%d:00", h)})
		}
	case PeriodWeek:
		for i := 6; i >= 0; i-- {
			from := today.AddDate(0, 0, -i)
			out = append(out, bucket{from, from.AddDate(0, 0, 1), from.Format("Mon")})
		}
	case PeriodMonth:
		for i := 29; i >= 0; i-- {
			from := today.AddDate(0, 0, -i)
			out = append(out, bucket{from, from.AddDate(0, 0, 1), fmt.Sprint(from.Day())})
		}
	case PeriodYear:
		first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		for i := 11; i >= 0; i-- {
			from := first.AddDate(0, -i, 0)
			out = append(out, bucket{from, from.AddDate(0, 1, 0), from.Format("Jan")})
		}
	}
	return out
}

// Series aggregates orders into the chart buckets of a period ending now.
// Cancelled orders count as orders but not as revenue.
func (uc *DashboardUC) Series(ctx context.Context, p Period, now time.Time) ([]Point, error) {
	orders, err := uc.Orders.List(ctx)
	if err != nil {
		return nil, err
	}
	bs := buckets(p, now)
	if len(bs) == 0 {
		return nil, domain.Invalid("period", fmt.Sprintf("Unknown period %q", p))
	}
	revenue := make([]decimal.Decimal, len(bs))
	seen := make([]map[string]struct{}, len(bs))
	out := make([]Point, len(bs))
	for i, b := range bs {
		out[i].Name = b.name
		seen[i] = map[string]struct{}{}
	}
	for _, o := range orders {
		for i, b := range bs {
			if o.Date.Before(b.from) || !o.Date.Before(b.to) {
				continue
			}
			out[i].Orders++
			seen[i][o.CustomerID] = struct{}{}
			if o.Status != domain.OrderStatusCancelled {
				revenue[i] = revenue[i].Add(decimal.NewFromFloat(o.Total))
			}
			break
		}
	}
	for i := range out {
		out[i].Revenue, _ = revenue[i].Round(2).Float64()
		out[i].Customers = len(seen[i])
	}
	return out, nil
}

// FormatMoney renders an amount as $1,234.56.
func FormatMoney(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	out := intPart[:rem]
	for i := rem; i < n; i += 3 {
		out += "," + intPart[i:i+3]
	}
	if v.IsNegative() {
		return "-$" + out + frac
	}
	return "$" + out + frac
}
