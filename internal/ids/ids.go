// Package ids is the one place record and variant ids are issued.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

type Generator interface {
	New() string
}

// UUID issues random 128-bit ids.
type UUID struct{}

func (UUID) New() string { return uuid.NewString() }

// Sequence issues monotonically increasing ids with a fixed prefix.
type Sequence struct {
	Prefix string
	n      atomic.Uint64
}

func NewSequence(prefix string) *Sequence { return &Sequence{Prefix: prefix} }

func (s *Sequence) New() string {
	return fmt.Sprintf("%s%d", s.Prefix, s.n.Add(1))
}
