package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/ids"
)

type CustomerRepo struct {
	*Store[domain.Customer]
}

func NewCustomerRepo(gen ids.Generator, seed []domain.Customer) *CustomerRepo {
	return &CustomerRepo{newStore(gen, hooks[domain.Customer]{
		clone: func(c domain.Customer) domain.Customer { return c },
		setID: func(c *domain.Customer, id string) { c.ID = id },
		stamp: func(c *domain.Customer, _ bool) { c.Email = strings.ToLower(strings.TrimSpace(c.Email)) },
	}, seed)}
}

func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (domain.Customer, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if strings.ToLower(c.Email) == e {
			return c, nil
		}
	}
	return domain.Customer{}, fmt.Errorf("%s: %w", email, domain.ErrNotFound)
}
