// Package scatter implements the scatter-to-grid engine: placing per-entity
// feature vectors into dense spatial feature maps at per-entity coordinates.
package scatter

import "fmt"

// Policy decides what happens when two entities in the same batch element
// map to the same grid cell.
type Policy int

// Supported collision policies.
const (
	// Overwrite lets the later entity in flattening order (batch-major,
	// then entity index) replace the earlier one. Which entity "wins" is
	// defined by that fixed order and nothing else.
	Overwrite Policy = iota
	// Accumulate sums all colliding entities per channel.
	Accumulate
)

// String returns a human-readable policy name.
func (p Policy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case Accumulate:
		return "accumulate"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Validate checks that the policy is one of the supported values.
func (p Policy) Validate() error {
	switch p {
	case Overwrite, Accumulate:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPolicy, p)
	}
}
