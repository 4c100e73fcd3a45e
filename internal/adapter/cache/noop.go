package cache

import "github.com/hireflow/candidate-assessor/internal/domain"

// Noop is the disabled reply cache: every lookup misses and stores are
// dropped.
type Noop struct{}

// NewNoop constructs a disabled cache.
func NewNoop() Noop { return Noop{} }

func (Noop) Get(domain.Context, string) (string, bool, error) { return "", false, nil }
func (Noop) Set(domain.Context, string, string) error         { return nil }
func (Noop) Enabled() bool                                    { return false }
