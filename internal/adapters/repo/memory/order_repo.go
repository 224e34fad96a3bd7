package memory

import (
	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/ids"
)

type OrderRepo = Store[domain.Order]

func NewOrderRepo(gen ids.Generator, seed []domain.Order) *OrderRepo {
	return newStore(gen, hooks[domain.Order]{
		clone: domain.Order.Clone,
		setID: func(o *domain.Order, id string) { o.ID = id },
	}, seed)
}
