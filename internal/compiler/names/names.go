// Package names mints fresh, unit-unique identifiers for synthesized
// constructs (loop functions, hoisted temporaries).
package names

import (
	"fmt"
	"sync/atomic"
)

// Minter produces unique names within one compilation unit. The counter is
// the only shared mutable state in the pipeline; it is atomic so that
// unit-level parallelism stays sound if a caller shares one Minter.
type Minter struct {
	n atomic.Int64
}

// NewMinter creates a Minter starting at zero.
func NewMinter() *Minter {
	return &Minter{}
}

// Fresh returns prefix_N with a monotonically increasing N.
func (m *Minter) Fresh(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, m.n.Add(1))
}
