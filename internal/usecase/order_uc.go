package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/query"
)

type OrderUC struct {
	Orders domain.OrderRepo
}

func (uc *OrderUC) List(ctx context.Context, q query.Query) ([]domain.Order, int, error) {
	all, err := uc.Orders.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	if q.Sort.Field != "" && q.Sort.Dir == "" {
		q.Sort.Dir = OrdersDefaultDir
	}
	out, err := query.Apply(all, OrderSchema(), q)
	if err != nil {
		return nil, 0, err
	}
	return out, len(all), nil
}

func (uc *OrderUC) Get(ctx context.Context, id string) (domain.Order, error) {
	return uc.Orders.Get(ctx, id)
}

func (uc *OrderUC) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, domain.Invalid("status", fmt.Sprintf("Unknown status %q", status))
	}
	o, err := uc.Orders.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	prev := o.Status
	o.Status = status
	o, err = uc.Orders.Update(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}
	log.Info().Str("id", id).Str("from", string(prev)).Str("to", string(status)).Msg("order status")
	return o, nil
}

// PaymentMethods lists the distinct payment methods in use, sorted.
func (uc *OrderUC) PaymentMethods(ctx context.Context) ([]string, error) {
	all, err := uc.Orders.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, o := range all {
		if o.PaymentMethod == "" {
			continue
		}
		if _, ok := seen[o.PaymentMethod]; ok {
			continue
		}
		seen[o.PaymentMethod] = struct{}{}
		out = append(out, o.PaymentMethod)
	}
	slices.Sort(out)
	return out, nil
}

// OrderForm edits orders in place; only the status is user editable.
type OrderForm struct{}

func (OrderForm) Blank() *domain.Order { return &domain.Order{Status: domain.OrderStatusPending} }

func (OrderForm) From(o domain.Order) *domain.Order {
	c := o.Clone()
	return &c
}

func (OrderForm) Snapshot(d *domain.Order) *domain.Order {
	if d == nil {
		return nil
	}
	c := d.Clone()
	return &c
}

func (OrderForm) Build(d *domain.Order) (domain.Order, error) {
	if !d.Status.Valid() {
		return domain.Order{}, domain.Invalid("status", fmt.Sprintf("Unknown status %q", d.Status))
	}
	if d.Total < 0 {
		return domain.Order{}, domain.Invalid("total", "Total cannot be negative")
	}
	return d.Clone(), nil
}
