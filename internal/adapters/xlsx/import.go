package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/usecase"
	"github.com/phenrril/backoffice/internal/variant"
)

// Import columns, matched case-insensitively against the first row of the
// first sheet. Name and SKU are mandatory headers.
var columns = map[string]string{
	"name":             usecase.FieldName,
	"sku":              usecase.FieldSKU,
	"description":      usecase.FieldDescription,
	"category":         usecase.FieldCategory,
	"price":            usecase.FieldPrice,
	"discounted price": usecase.FieldDiscountedPrice,
	"discountedprice":  usecase.FieldDiscountedPrice,
	"stock":            usecase.FieldStock,
}

// ReadProducts parses a product sheet. Rows whose numbers cannot be read
// carry the error instead of a product; blank rows are skipped.
func ReadProducts(r io.Reader) ([]usecase.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		log.Debug().Err(err).Msg("open xlsx")
		return nil, domain.Invalid("file", "The file is not a valid xlsx workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.Invalid("file", "The workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, domain.Invalid("file", "The sheet is empty")
	}

	idx := map[string]int{}
	for i, h := range rows[0] {
		if field, ok := columns[strings.ToLower(strings.TrimSpace(h))]; ok {
			idx[field] = i
		}
	}
	for _, need := range []string{usecase.FieldName, usecase.FieldSKU} {
		if _, ok := idx[need]; !ok {
			return nil, domain.Invalid("file", fmt.Sprintf("Missing %q column", need))
		}
	}

	var out []usecase.ImportRow
	for n, row := range rows[1:] {
		cell := func(field string) string {
			i, ok := idx[field]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if cell(usecase.FieldName) == "" && cell(usecase.FieldSKU) == "" {
			continue
		}
		ir := usecase.ImportRow{Key: fmt.Sprintf("row %d", n+2)}
		ir.Product, ir.Err = product(cell)
		out = append(out, ir)
	}
	return out, nil
}

func product(cell func(string) string) (domain.Product, error) {
	p := domain.Product{
		Name:        cell(usecase.FieldName),
		SKU:         cell(usecase.FieldSKU),
		Description: cell(usecase.FieldDescription),
		Category:    cell(usecase.FieldCategory),
	}
	var err error
	if raw := cell(usecase.FieldPrice); raw != "" {
		if p.Price, err = variant.ParsePrice(usecase.FieldPrice, raw); err != nil {
			return domain.Product{}, err
		}
	}
	if raw := cell(usecase.FieldDiscountedPrice); raw != "" {
		d, err := variant.ParsePrice(usecase.FieldDiscountedPrice, raw)
		if err != nil {
			return domain.Product{}, err
		}
		p.DiscountedPrice = &d
	}
	if raw := cell(usecase.FieldStock); raw != "" {
		if p.Stock, err = variant.ParseStock(usecase.FieldStock, raw); err != nil {
			return domain.Product{}, err
		}
	}
	return p, nil
}
