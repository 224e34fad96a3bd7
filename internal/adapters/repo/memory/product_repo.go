package memory

import (
	"time"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/ids"
)

type ProductRepo = Store[domain.Product]

func NewProductRepo(gen ids.Generator, now func() time.Time, seed []domain.Product) *ProductRepo {
	return newStore(gen, hooks[domain.Product]{
		clone: domain.Product.Clone,
		setID: func(p *domain.Product, id string) { p.ID = id },
		stamp: func(p *domain.Product, created bool) {
			t := now()
			if created && p.CreatedAt.IsZero() {
				p.CreatedAt = t
			}
			p.UpdatedAt = t
		},
	}, seed)
}
