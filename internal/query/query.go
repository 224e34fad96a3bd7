// Package query derives filtered and sorted views of a collection. Every
// function is pure: the input slice is never reordered or modified.
package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/phenrril/backoffice/internal/domain"
)

var (
	ErrUnknownFilter    = errors.New("unknown filter")
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrInvalidDirection = errors.New("invalid sort direction")
)

type Dir string

const (
	Asc  Dir = "asc"
	Desc Dir = "desc"
)

func (d Dir) Flip() Dir {
	if d == Asc {
		return Desc
	}
	return Asc
}

// ParseDir accepts "asc", "desc" or an empty string, which callers replace
// with their view's default direction.
func ParseDir(s string) (Dir, error) {
	switch d := Dir(strings.ToLower(strings.TrimSpace(s))); d {
	case "", Asc:
		return d, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

type Sort struct {
	Field string `json:"field"`
	Dir   Dir    `json:"dir"`
}

type Query struct {
	Text    string            `json:"text"`
	Filters map[string]string `json:"filters,omitempty"`
	Sort    Sort              `json:"sort"`
}

// Matcher reports whether a record satisfies the selected value of a filter.
type Matcher[T any] func(item T, value string) bool

// Schema describes what a view may search, filter and sort on.
type Schema[T any] struct {
	Search  []func(T) string
	Filters map[string]Matcher[T]
	Sorts   map[string]Key[T]
}

// Equals builds a matcher comparing a field with the selected value exactly.
func Equals[T any](field func(T) string) Matcher[T] {
	return func(item T, value string) bool { return field(item) == value }
}

// Apply filters then sorts.
func Apply[T any](items []T, schema Schema[T], q Query) ([]T, error) {
	out, err := Filter(items, schema, q)
	if err != nil {
		return nil, err
	}
	return out, SortInPlace(out, schema, q.Sort)
}

// Filter returns the records matching the free text and every active
// filter, in their original order.
func Filter[T any](items []T, schema Schema[T], q Query) ([]T, error) {
	type active struct {
		match Matcher[T]
		value string
	}
	var filters []active
	for name, value := range q.Filters {
		if value == "" || value == domain.All {
			continue
		}
		m, ok := schema.Filters[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
		}
		filters = append(filters, active{m, value})
	}

	needle := strings.ToLower(q.Text)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !matchesText(it, schema.Search, needle) {
			continue
		}
		ok := true
		for _, f := range filters {
			if !f.match(it, f.value) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func matchesText[T any](item T, fields []func(T) string, needle string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f(item)), needle) {
			return true
		}
	}
	return false
}

// Sorted returns a sorted copy of items.
func Sorted[T any](items []T, schema Schema[T], s Sort) ([]T, error) {
	out := slices.Clone(items)
	return out, SortInPlace(out, schema, s)
}

// SortInPlace stable-sorts items by s. An empty field leaves the order as is.
func SortInPlace[T any](items []T, schema Schema[T], s Sort) error {
	if s.Field == "" {
		return nil
	}
	key, ok := schema.Sorts[s.Field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSortField, s.Field)
	}
	if s.Dir != Asc && s.Dir != Desc && s.Dir != "" {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, s.Dir)
	}
	cmp := key.comparator()
	if s.Dir == Desc {
		slices.SortStableFunc(items, func(a, b T) int { return cmp(b, a) })
	} else {
		slices.SortStableFunc(items, cmp)
	}
	return nil
}

type keyKind int

const (
	kindString keyKind = iota
	kindNumber
	kindTime
)

// Key extracts the value a record is ordered by.
type Key[T any] struct {
	kind keyKind
	str  func(T) string
	num  func(T) float64
	tm   func(T) time.Time
}

// StringKey orders by locale-aware collation.
func StringKey[T any](f func(T) string) Key[T] { return Key[T]{kind: kindString, str: f} }

func NumberKey[T any](f func(T) float64) Key[T] { return Key[T]{kind: kindNumber, num: f} }

func TimeKey[T any](f func(T) time.Time) Key[T] { return Key[T]{kind: kindTime, tm: f} }

func (k Key[T]) comparator() func(a, b T) int {
	switch k.kind {
	case kindString:
		// collators keep internal buffers, one per sort
		col := collate.New(language.English)
		return func(a, b T) int { return col.CompareString(k.str(a), k.str(b)) }
	case kindTime:
		return func(a, b T) int { return k.tm(a).Compare(k.tm(b)) }
	default:
		return func(a, b T) int {
			x, y := k.num(a), k.num(b)
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
}
