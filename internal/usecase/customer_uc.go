package usecase

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/query"
)

type CustomerUC struct {
	Customers domain.CustomerRepo
}

func (uc *CustomerUC) List(ctx context.Context, q query.Query) ([]domain.Customer, int, error) {
	all, err := uc.Customers.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	if q.Sort.Field != "" && q.Sort.Dir == "" {
		q.Sort.Dir = CustomersDefaultDir
	}
	out, err := query.Apply(all, CustomerSchema(), q)
	if err != nil {
		return nil, 0, err
	}
	return out, len(all), nil
}

func (uc *CustomerUC) Get(ctx context.Context, id string) (domain.Customer, error) {
	return uc.Customers.Get(ctx, id)
}

// Top returns the n biggest spenders.
func (uc *CustomerUC) Top(ctx context.Context, n int) ([]domain.Customer, error) {
	out, _, err := uc.List(ctx, query.Query{Sort: query.Sort{Field: SortTotalSpent, Dir: query.Desc}})
	if err != nil {
		return nil, err
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

var validate = validator.New()

// CustomerForm edits a customer's contact details.
type CustomerForm struct{}

func (CustomerForm) Blank() *domain.Customer { return &domain.Customer{} }

func (CustomerForm) From(c domain.Customer) *domain.Customer { return &c }

func (CustomerForm) Snapshot(d *domain.Customer) *domain.Customer {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func (CustomerForm) Build(d *domain.Customer) (domain.Customer, error) {
	c := *d
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" {
		return domain.Customer{}, domain.Invalid("name", "Name is required")
	}
	if err := validate.Var(c.Email, "required,email"); err != nil {
		return domain.Customer{}, domain.Invalid("email", "A valid email is required")
	}
	if c.TotalOrders < 0 || c.TotalSpent < 0 {
		return domain.Customer{}, domain.Invalid("totals", "Totals cannot be negative")
	}
	return c, nil
}
