package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/listview"
	"github.com/phenrril/backoffice/internal/query"
	"github.com/phenrril/backoffice/internal/usecase"
	"github.com/phenrril/backoffice/internal/variant"
)

// drafter applies one draft edit decoded from the request.
type drafter[D any] func(w http.ResponseWriter, r *http.Request, d D) error

type sessionView[D any] struct {
	Status listview.Status[D] `json:"status"`
	Items  []any              `json:"items"`
	Shown  int                `json:"shown"`
	Total  int                `json:"total"`
}

// sessionRoutes registers the admin session endpoints of one list view
// under /admin/{name}.
func sessionRoutes[T domain.Entity, D any](mux *http.ServeMux, c *listview.Controller[T, D], present func(T) any, edit drafter[D]) {
	if c == nil {
		return
	}
	base := "/admin/" + c.Name()
	if present == nil {
		present = func(v T) any { return v }
	}

	respond := func(w http.ResponseWriter, r *http.Request, code int) {
		page, err := c.View(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := sessionView[D]{Status: c.Status(), Items: make([]any, len(page.Items)), Shown: page.Shown, Total: page.Total}
		for i, v := range page.Items {
			out.Items[i] = present(v)
		}
		writeJSON(w, code, out)
	}
	post := func(path string, fn func(w http.ResponseWriter, r *http.Request) error) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			if err := fn(w, r); err != nil {
				writeError(w, r, err)
				return
			}
			respond(w, r, 200)
		})
	}
	withID := func(fn func(w http.ResponseWriter, r *http.Request, id string) error) func(http.ResponseWriter, *http.Request) error {
		return func(w http.ResponseWriter, r *http.Request) error {
			var req struct {
				ID string `json:"id"`
			}
			if err := readJSON(w, r, &req); err != nil {
				return err
			}
			if strings.TrimSpace(req.ID) == "" {
				return badRequest("id is required")
			}
			return fn(w, r, req.ID)
		}
	}

	mux.HandleFunc(base, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		respond(w, r, 200)
	})

	post(base+"/query", func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Text    *string           `json:"text"`
			Filters map[string]string `json:"filters"`
			Sort    *query.Sort       `json:"sort"`
		}
		if err := readJSON(w, r, &req); err != nil {
			return err
		}
		if req.Text != nil {
			c.SetSearch(*req.Text)
		}
		for name, v := range req.Filters {
			if err := c.SetFilter(name, v); err != nil {
				return err
			}
		}
		if req.Sort != nil {
			dir, err := query.ParseDir(string(req.Sort.Dir))
			if err != nil {
				return err
			}
			return c.SetSort(req.Sort.Field, dir)
		}
		return nil
	})

	post(base+"/sort", func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Field string `json:"field"`
		}
		if err := readJSON(w, r, &req); err != nil {
			return err
		}
		return c.ToggleSort(req.Field)
	})

	post(base+"/add", func(w http.ResponseWriter, r *http.Request) error {
		_, err := c.BeginAdd()
		return err
	})
	post(base+"/edit", withID(func(w http.ResponseWriter, r *http.Request, id string) error {
		_, err := c.BeginEdit(r.Context(), id)
		return err
	}))
	post(base+"/cancel", func(w http.ResponseWriter, r *http.Request) error {
		return c.Cancel()
	})
	post(base+"/save", func(w http.ResponseWriter, r *http.Request) error {
		_, err := c.Save(r.Context())
		return err
	})
	if edit != nil {
		post(base+"/draft", func(w http.ResponseWriter, r *http.Request) error {
			return c.EditDraft(func(d D) error { return edit(w, r, d) })
		})
	}

	post(base+"/delete", withID(func(w http.ResponseWriter, r *http.Request, id string) error {
		return c.RequestDelete(id)
	}))
	post(base+"/delete/confirm", func(w http.ResponseWriter, r *http.Request) error {
		return c.ConfirmDelete(r.Context())
	})
	post(base+"/delete/decline", func(w http.ResponseWriter, r *http.Request) error {
		return c.DeclineDelete()
	})
}

// draftAction is one edit of the product modal.
type draftAction struct {
	Action string `json:"action"`
	// set
	Field string `json:"field"`
	Value string `json:"value"`
	// removeVariant, updateVariant
	VariantID string `json:"variantId"`
	Attribute string `json:"attribute"`
	// removeImage
	Index int `json:"index"`
}

func (s *Server) productDraft(w http.ResponseWriter, r *http.Request, d *usecase.ProductDraft) error {
	var a draftAction
	if err := readJSON(w, r, &a); err != nil {
		return err
	}
	switch a.Action {
	case "set":
		if a.Field == usecase.FieldCategory {
			if _, _, err := s.products.AddCategory(r.Context(), a.Value); err != nil {
				return err
			}
		}
		return d.SetField(a.Field, a.Value)
	case "addVariant":
		_, err := d.AddVariant()
		return err
	case "removeVariant":
		d.RemoveVariant(a.VariantID)
		return nil
	case "updateVariant":
		var u variant.Update
		switch {
		case a.Attribute != "":
			u = variant.SetAttribute{Name: a.Attribute, Value: a.Value}
		case a.Field == "price":
			u = variant.SetPrice{Raw: a.Value}
		case a.Field == "stock":
			u = variant.SetStock{Raw: a.Value}
		default:
			return badRequest("updateVariant needs an attribute or a price/stock field")
		}
		return d.UpdateVariant(a.VariantID, u)
	case "removeImage":
		d.RemoveImage(a.Index)
		return nil
	}
	return badRequest(fmt.Sprintf("unknown draft action %q", a.Action))
}

// handleProductImages attaches the multipart "images" files to the open
// product draft.
func (s *Server) handleProductImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	cleanup, err := parseMultipart(r, int64(domain.MaxImages+1)*domain.MaxImageBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanup()
	var files []usecase.ImageFile
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			writeError(w, r, err)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, domain.MaxImageBytes+1))
		f.Close()
		if err != nil {
			writeError(w, r, err)
			return
		}
		files = append(files, usecase.ImageFile{Name: fh.Filename, Data: data})
	}

	var added int
	err = s.views.Products.EditDraft(func(d *usecase.ProductDraft) error {
		var err error
		added, err = d.AddImages(files)
		return err
	})
	if err != nil && added == 0 {
		writeError(w, r, err)
		return
	}
	resp := map[string]any{"added": added, "status": s.views.Products.Status()}
	if err != nil {
		resp["error"] = err.Error()
	}
	writeJSON(w, 200, resp)
}

func (s *Server) handleProductExpand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	open := s.views.Products.ToggleExpanded(req.ID)
	writeJSON(w, 200, map[string]any{"id": req.ID, "expanded": open})
}

func orderDraft(w http.ResponseWriter, r *http.Request, d *domain.Order) error {
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := readJSON(w, r, &req); err != nil {
		return err
	}
	if !req.Status.Valid() {
		return domain.Invalid("status", fmt.Sprintf("Unknown status %q", req.Status))
	}
	d.Status = req.Status
	return nil
}

func customerDraft(w http.ResponseWriter, r *http.Request, d *domain.Customer) error {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := readJSON(w, r, &req); err != nil {
		return err
	}
	switch req.Field {
	case "name":
		d.Name = req.Value
	case "email":
		d.Email = req.Value
	case "avatar":
		d.Avatar = req.Value
	default:
		return domain.Invalid(req.Field, "unknown field")
	}
	return nil
}
