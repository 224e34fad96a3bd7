package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Badge is the badge variant the status is rendered with.
func (s OrderStatus) Badge() string {
	switch s {
	case OrderStatusPending:
		return "warning"
	case OrderStatusProcessing, OrderStatusShipped:
		return "info"
	case OrderStatusDelivered:
		return "success"
	case OrderStatusCancelled:
		return "error"
	}
	return "default"
}

type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customerId"`
	CustomerName    string      `json:"customerName"`
	Items           []OrderItem `json:"items"`
	Status          OrderStatus `json:"status"`
	Total           float64     `json:"total"`
	Date            time.Time   `json:"date"`
	PaymentMethod   string      `json:"paymentMethod"`
	ShippingAddress string      `json:"shippingAddress"`
}

type OrderItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	TotalPrice  float64 `json:"totalPrice"`
}

func (o Order) Key() string { return o.ID }

func (o Order) Clone() Order {
	out := o
	out.Items = append([]OrderItem(nil), o.Items...)
	return out
}
