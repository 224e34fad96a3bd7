package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/adapters/xlsx"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleAdminExport writes the session's current view of products, orders
// or customers, filtered and sorted as on screen.
func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	file := r.PathValue("file")
	view, ok := strings.CutSuffix(file, ".xlsx")
	if !ok {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	var buf bytes.Buffer
	var err error
	switch view {
	case "products":
		page, verr := s.views.Products.View(ctx)
		if err = verr; err == nil {
			err = xlsx.WriteProducts(&buf, page.Items, s.products.Stock)
		}
	case "orders":
		page, verr := s.views.Orders.View(ctx)
		if err = verr; err == nil {
			err = xlsx.WriteOrders(&buf, page.Items)
		}
	case "customers":
		page, verr := s.views.Customers.View(ctx)
		if err = verr; err == nil {
			err = xlsx.WriteCustomers(&buf, page.Items)
		}
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file))
	_, _ = w.Write(buf.Bytes())
}

// handleAdminImportXLSX creates products from the multipart "file" upload.
func (s *Server) handleAdminImportXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	cleanup, err := parseMultipart(r, 32<<20)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanup()
	f, fh, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, badRequest("file is required"))
		return
	}
	defer f.Close()

	rows, err := xlsx.ReadProducts(f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.products.Import(r.Context(), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Info().Str("file", fh.Filename).Int("rows", len(rows)).Int("created", res.Created).Msg("xlsx import")
	writeJSON(w, 200, res)
}

// parseMultipart parses a multipart body. The returned func removes the
// temporary files of parts that did not fit in maxMemory.
func parseMultipart(r *http.Request, maxMemory int64) (func(), error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return func() {}, badRequest("multipart form expected")
	}
	return func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn().Err(err).Msg("remove multipart temp files")
		}
	}, nil
}
