// Package xlsx writes list views to spreadsheets and reads product imports.
package xlsx

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/backoffice/internal/domain"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

// WriteProducts writes the products in the given order, with their variants
// on a second sheet.
func WriteProducts(w io.Writer, ps []domain.Product, th domain.StockThresholds) error {
	main := sheet{name: "Products", header: []string{
		"ID", "Name", "SKU", "Category", "Description", "Price", "Discounted Price",
		"Effective Price", "Stock", "Stock Status", "Images", "Variants", "Created At",
	}}
	vars := sheet{name: "Variants", header: []string{"Product SKU", "Variant ID", "Attributes", "Price", "Stock"}}
	for _, p := range ps {
		var discounted any
		if p.DiscountedPrice != nil {
			discounted = *p.DiscountedPrice
		}
		main.rows = append(main.rows, []any{
			p.ID, p.Name, p.SKU, p.Category, p.Description, p.Price, discounted,
			p.EffectivePrice(), p.Stock, th.Label(p.Stock), len(p.Images), len(p.Variants),
			p.CreatedAt.Format(dateLayout),
		})
		for _, v := range p.Variants {
			vars.rows = append(vars.rows, []any{p.SKU, v.ID, attributes(v.Attributes), v.Price, v.Stock})
		}
	}
	return write(w, main, vars)
}

func WriteOrders(w io.Writer, orders []domain.Order) error {
	s := sheet{name: "Orders", header: []string{
		"Order ID", "Customer ID", "Customer", "Date", "Status", "Payment Method", "Items", "Total", "Shipping Address",
	}}
	for _, o := range orders {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		s.rows = append(s.rows, []any{
			o.ID, o.CustomerID, o.CustomerName, o.Date.Format(dateTimeLayout), string(o.Status),
			o.PaymentMethod, items, o.Total, o.ShippingAddress,
		})
	}
	return write(w, s)
}

func WriteCustomers(w io.Writer, cs []domain.Customer) error {
	s := sheet{name: "Customers", header: []string{
		"ID", "Name", "Email", "Total Orders", "Total Spent", "Join Date", "Last Purchase",
	}}
	for _, c := range cs {
		s.rows = append(s.rows, []any{
			c.ID, c.Name, c.Email, c.TotalOrders, c.TotalSpent,
			c.JoinDate.Format(dateLayout), c.LastActive.Format(dateLayout),
		})
	}
	return write(w, s)
}

func attributes(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, "; ")
}

func write(w io.Writer, sheets ...sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := setRow(f, s.name, 1, toAny(s.header)); err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(s.header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(s.name, "A1", last, bold); err != nil {
			return err
		}
		for j, row := range s.rows {
			if err := setRow(f, s.name, j+2, row); err != nil {
				return err
			}
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, n int, row []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &row)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
