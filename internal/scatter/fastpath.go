package scatter

import "github.com/gridcast-ml/gridcast/internal/tensor"

// Dims is the shape signature of one scatter call. It is everything a
// fast-path provider may inspect when deciding whether to claim the call:
// the batch, entity and channel counts, the target grid, the feature dtype
// and the collision policy.
type Dims struct {
	Batch    int
	Entities int
	Channels int
	Height   int
	Width    int
	DType    tensor.DataType
	Policy   Policy
}

// Cells returns the number of grid cells per batch element.
func (d Dims) Cells() int {
	return d.Height * d.Width
}

// FastPath is an optional accelerated scatter implementation. Providers are
// queried in registration order before every call; the first one whose
// Supports returns true receives the call with the exact same inputs the
// reference backend would get, and must return a byte-for-byte identical
// grid. A provider that cannot guarantee that must not claim the call.
type FastPath interface {
	tensor.Backend

	// Supports reports whether this provider can execute a call with the
	// given shape signature.
	Supports(d Dims) bool
}
