// Package seed provides the initial catalog the back office starts with.
package seed

import (
	"fmt"
	"time"

	"github.com/phenrril/backoffice/internal/domain"
)

type Data struct {
	Categories []domain.Category
	Products   []domain.Product
	Customers  []domain.Customer
	Orders     []domain.Order
}

func ptr(f float64) *float64 { return &f }

// Build returns the mock data set with dates laid out relative to now.
func Build(now time.Time) Data {
	day := 24 * time.Hour
	ago := func(d time.Duration) time.Time { return now.Add(-d).Truncate(time.Second) }

	cats := []domain.Category{
		{Value: "Bags", Label: "Bags"},
		{Value: "Electronics", Label: "Electronics"},
		{Value: "Footwear", Label: "Footwear"},
		{Value: "Apparel", Label: "Apparel"},
	}

	products := []domain.Product{
		{
			ID: "1", Name: "Leather Tote Bag", SKU: "BAG-001", Category: "Bags",
			Description: "Hand-stitched full grain leather tote.",
			Price:       129.99, DiscountedPrice: ptr(99.99), Stock: 45,
			Images: []string{"https://images.example.com/tote.jpg"},
			Variants: []domain.Variant{
				{ID: "1-1", Attributes: map[string]string{"color": "Brown", "size": "M"}, Price: 99.99, Stock: 25},
				{ID: "1-2", Attributes: map[string]string{"color": "Black", "size": "L"}, Price: 109.99, Stock: 20},
			},
			CreatedAt: ago(40 * day), UpdatedAt: ago(3 * day),
		},
		{
			ID: "2", Name: "Wireless Headphones", SKU: "ELEC-101", Category: "Electronics",
			Description: "Noise cancelling over-ear headphones.",
			Price:       199.99, Stock: 150,
			Images: []string{"https://images.example.com/headphones.jpg"},
			Variants: []domain.Variant{
				{ID: "2-1", Attributes: map[string]string{"color": "Silver"}, Price: 199.99, Stock: 90},
				{ID: "2-2", Attributes: map[string]string{"color": "Black"}, Price: 199.99, Stock: 60},
			},
			CreatedAt: ago(35 * day), UpdatedAt: ago(10 * day),
		},
		{
			ID: "3", Name: "Running Sneakers", SKU: "FOOT-210", Category: "Footwear",
			Description: "Lightweight trainers with foam sole.",
			Price:       89.5, DiscountedPrice: ptr(74.5), Stock: 8,
			Images: []string{"https://images.example.com/sneakers.jpg"},
			Variants: []domain.Variant{
				{ID: "3-1", Attributes: map[string]string{"color": "White", "size": "42"}, Price: 74.5, Stock: 5},
				{ID: "3-2", Attributes: map[string]string{"color": "White", "size": "43"}, Price: 74.5, Stock: 3},
			},
			CreatedAt: ago(20 * day), UpdatedAt: ago(2 * day),
		},
		{
			ID: "4", Name: "Cotton Hoodie", SKU: "APP-330", Category: "Apparel",
			Description: "Organic cotton pullover hoodie.",
			Price:       59, Stock: 0,
			Images:    []string{"https://images.example.com/hoodie.jpg"},
			Variants:  []domain.Variant{},
			CreatedAt: ago(15 * day), UpdatedAt: ago(15 * day),
		},
		{
			ID: "5", Name: "Canvas Backpack", SKU: "BAG-002", Category: "Bags",
			Description: "Water resistant canvas backpack, 22L.",
			Price:       75, Stock: 72,
			Images: []string{"https://images.example.com/backpack.jpg"},
			Variants: []domain.Variant{
				{ID: "5-1", Attributes: map[string]string{"color": "Olive"}, Price: 75, Stock: 40},
				{ID: "5-2", Attributes: map[string]string{"color": "Navy"}, Price: 75, Stock: 32},
			},
			CreatedAt: ago(9 * day), UpdatedAt: ago(1 * day),
		},
		{
			ID: "6", Name: "Smart Watch", SKU: "ELEC-150", Category: "Electronics",
			Description: "Fitness tracking smart watch.",
			Price:       249, DiscountedPrice: ptr(219), Stock: 230,
			Images:    []string{"https://images.example.com/watch.jpg"},
			Variants:  []domain.Variant{},
			CreatedAt: ago(4 * day), UpdatedAt: ago(4 * day),
		},
	}

	customers := []domain.Customer{
		{ID: "c1", Name: "Emma Wilson", Email: "emma@example.com", TotalOrders: 24, TotalSpent: 4320, JoinDate: ago(400 * day), LastActive: ago(1 * day)},
		{ID: "c2", Name: "Liam Johnson", Email: "liam@example.com", TotalOrders: 18, TotalSpent: 3150, JoinDate: ago(320 * day), LastActive: ago(2 * day)},
		{ID: "c3", Name: "Olivia Smith", Email: "olivia@example.com", TotalOrders: 16, TotalSpent: 2840, JoinDate: ago(210 * day), LastActive: ago(6 * day)},
		{ID: "c4", Name: "Noah Williams", Email: "noah@example.com", TotalOrders: 15, TotalSpent: 2650, JoinDate: ago(150 * day), LastActive: ago(8 * day)},
		{ID: "c5", Name: "Ava Brown", Email: "ava@example.com", TotalOrders: 14, TotalSpent: 2450, JoinDate: ago(60 * day), LastActive: ago(3 * day)},
		{ID: "c6", Name: "Mia Garcia", Email: "mia@example.com", TotalOrders: 2, TotalSpent: 180, JoinDate: ago(12 * day), LastActive: ago(12 * day)},
	}

	type line struct {
		product string
		qty     int
	}
	plan := []struct {
		customer int
		status   domain.OrderStatus
		payment  string
		age      time.Duration
		lines    []line
	}{
		{0, domain.OrderStatusDelivered, "Credit Card", 45 * day, []line{{"1", 1}, {"3", 2}}},
		{1, domain.OrderStatusDelivered, "PayPal", 38 * day, []line{{"2", 1}}},
		{2, domain.OrderStatusCancelled, "Credit Card", 33 * day, []line{{"4", 3}}},
		{3, domain.OrderStatusDelivered, "Credit Card", 25 * day, []line{{"5", 1}}},
		{0, domain.OrderStatusShipped, "PayPal", 12 * day, []line{{"6", 1}, {"1", 1}}},
		{4, domain.OrderStatusShipped, "Credit Card", 6 * day, []line{{"3", 1}}},
		{5, domain.OrderStatusProcessing, "Credit Card", 3 * day, []line{{"5", 2}}},
		{1, domain.OrderStatusPending, "PayPal", 20 * time.Hour, []line{{"2", 1}, {"6", 1}}},
		{2, domain.OrderStatusPending, "Credit Card", 2 * time.Hour, []line{{"1", 1}}},
	}

	byID := map[string]domain.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	addresses := []string{
		"12 King St, London", "88 Elm Ave, Boston", "4 Rue Oberkampf, Paris",
		"301 Pine Rd, Seattle", "9 Harbour Ln, Sydney", "77 Calle Mayor, Madrid",
	}

	orders := make([]domain.Order, 0, len(plan))
	for i, o := range plan {
		c := customers[o.customer]
		order := domain.Order{
			ID:              fmt.Sprintf("ORD-%04d", 1001+i),
			CustomerID:      c.ID,
			CustomerName:    c.Name,
			Status:          o.status,
			Date:            ago(o.age),
			PaymentMethod:   o.payment,
			ShippingAddress: addresses[o.customer],
		}
		for j, l := range o.lines {
			p := byID[l.product]
			price := p.EffectivePrice()
			item := domain.OrderItem{
				ID:          fmt.Sprintf("%s-%d", order.ID, j+1),
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    l.qty,
				Price:       price,
				TotalPrice:  price * float64(l.qty),
			}
			order.Items = append(order.Items, item)
			order.Total += item.TotalPrice
		}
		orders = append(orders, order)
	}

	return Data{Categories: cats, Products: products, Customers: customers, Orders: orders}
}
