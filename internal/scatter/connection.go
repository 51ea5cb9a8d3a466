package scatter

import (
	"fmt"

	"github.com/gridcast-ml/gridcast/internal/tensor"
)

// Connection scatters per-entity feature vectors into a dense spatial
// feature map. Each entity of the (B, M, N) feature batch carries a 2D grid
// coordinate; the output is a (B, N, H, W) grid where every addressed cell
// holds the feature vector(s) mapped to it and every other cell is zero.
//
// The collision policy is fixed at construction and is the only state the
// connection holds, so a Connection is safe for concurrent use from multiple
// goroutines with independent inputs.
//
// Two addressing conventions are supported as distinct entry points:
//
//   - Forward: one (row, col) pair per entity, flat cell index row*W + col.
//   - ForwardXY: two scalar coordinate arrays, flat cell index
//     coordX*W + coordY.
//
// The axis order of the two formulas intentionally differs; callers rely on
// either convention, so the asymmetry is preserved rather than reconciled.
// The same literal numeric coordinates address different cells through the
// two entry points.
type Connection[B tensor.Backend] struct {
	policy    Policy
	backend   B
	fastPaths []FastPath
}

// Option configures a Connection at construction.
type Option[B tensor.Backend] func(*Connection[B])

// WithFastPath registers an accelerated provider. Providers are queried in
// registration order before every call; the reference backend handles
// whatever no provider claims.
func WithFastPath[B tensor.Backend](fp FastPath) Option[B] {
	return func(c *Connection[B]) {
		c.fastPaths = append(c.fastPaths, fp)
	}
}

// New creates a scatter connection with the given collision policy.
// Fails with ErrInvalidPolicy for a policy outside {Overwrite, Accumulate}.
func New[B tensor.Backend](backend B, policy Policy, opts ...Option[B]) (*Connection[B], error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	c := &Connection[B]{
		policy:  policy,
		backend: backend,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Policy returns the collision policy fixed at construction.
func (c *Connection[B]) Policy() Policy {
	return c.policy
}

// Forward scatters features into an (H, W) grid using combined (row, col)
// coordinates.
//
// Shapes:
//   - features: (B, M, N) where M is the entity count and N the feature dim
//   - locations: (B, M, 2) int32, each pair interpreted as (row, col)
//   - result: (B, N, H, W)
//
// The flat cell index is row*W + col. Note the separate-axis entry point
// ForwardXY uses a different axis order; the two are not interchangeable.
func (c *Connection[B]) Forward(features *tensor.Tensor[float32, B], height, width int, locations *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], error) {
	raw, err := c.ForwardRaw(features.Raw(), locations.Raw(), height, width)
	if err != nil {
		return nil, err
	}
	return tensor.New[float32, B](raw, features.Backend()), nil
}

// ForwardXY scatters features into an (H, W) grid using separate per-axis
// coordinate arrays.
//
// Shapes:
//   - features: (B, M, N)
//   - coordX, coordY: (B, M) int32
//   - result: (B, N, H, W)
//
// The flat cell index is coordX*W + coordY, so coordX takes the row role and
// coordY the column role, the reverse of Forward's (row, col) convention.
func (c *Connection[B]) ForwardXY(features *tensor.Tensor[float32, B], height, width int, coordX, coordY *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], error) {
	raw, err := c.ForwardXYRaw(features.Raw(), coordX.Raw(), coordY.Raw(), height, width)
	if err != nil {
		return nil, err
	}
	return tensor.New[float32, B](raw, features.Backend()), nil
}

// ForwardRaw is the dtype-generic form of Forward. It accepts float32,
// float64 and float16 feature tensors.
func (c *Connection[B]) ForwardRaw(features, locations *tensor.RawTensor, height, width int) (*tensor.RawTensor, error) {
	d, err := c.validateCombined(features, locations, height, width)
	if err != nil {
		return nil, err
	}

	k := c.kernels(d)
	if c.policy == Accumulate {
		return k.ScatterAdd(features, locations, height, width), nil
	}
	return k.Scatter(features, locations, height, width), nil
}

// ForwardXYRaw is the dtype-generic form of ForwardXY.
func (c *Connection[B]) ForwardXYRaw(features, coordX, coordY *tensor.RawTensor, height, width int) (*tensor.RawTensor, error) {
	d, err := c.validateSeparate(features, coordX, coordY, height, width)
	if err != nil {
		return nil, err
	}

	k := c.kernels(d)
	if c.policy == Accumulate {
		return k.ScatterAddXY(features, coordX, coordY, height, width), nil
	}
	return k.ScatterXY(features, coordX, coordY, height, width), nil
}

// kernels returns the first fast-path provider claiming the call, or the
// reference backend.
func (c *Connection[B]) kernels(d Dims) tensor.Backend {
	for _, fp := range c.fastPaths {
		if fp.Supports(d) {
			return fp
		}
	}
	return c.backend
}

// validateCombined checks the combined-coordinate inputs and returns the
// call's shape signature. All errors are raised here, before any write.
func (c *Connection[B]) validateCombined(features, locations *tensor.RawTensor, height, width int) (Dims, error) {
	d, err := c.featureDims(features, height, width)
	if err != nil {
		return Dims{}, err
	}

	ls := locations.Shape()
	if len(ls) != 3 || ls[2] != 2 {
		return Dims{}, fmt.Errorf("%w: locations must be (B, M, 2), got %v", ErrShapeMismatch, ls)
	}
	if ls[0] != d.Batch || ls[1] != d.Entities {
		return Dims{}, fmt.Errorf("%w: features (B=%d, M=%d) vs locations (B=%d, M=%d)",
			ErrShapeMismatch, d.Batch, d.Entities, ls[0], ls[1])
	}
	if locations.DType() != tensor.Int32 {
		return Dims{}, fmt.Errorf("%w: locations must be int32, got %s", ErrUnsupportedDType, locations.DType())
	}

	loc := locations.AsInt32()
	for i := 0; i < d.Batch*d.Entities; i++ {
		row, col := int(loc[i*2]), int(loc[i*2+1])
		if row < 0 || row >= height || col < 0 || col >= width {
			return Dims{}, fmt.Errorf("%w: location (row=%d, col=%d) outside [0, %d)x[0, %d) at batch %d entity %d",
				ErrCoordOutOfRange, row, col, height, width, i/d.Entities, i%d.Entities)
		}
	}
	return d, nil
}

// validateSeparate checks the separate-axis inputs and returns the call's
// shape signature. coordX is bounded by the height and coordY by the width,
// the roles the coordX*W + coordY formula gives them.
func (c *Connection[B]) validateSeparate(features, coordX, coordY *tensor.RawTensor, height, width int) (Dims, error) {
	d, err := c.featureDims(features, height, width)
	if err != nil {
		return Dims{}, err
	}

	xs, ys := coordX.Shape(), coordY.Shape()
	if len(xs) != 2 || len(ys) != 2 {
		return Dims{}, fmt.Errorf("%w: coordinates must be (B, M), got coordX %v, coordY %v", ErrShapeMismatch, xs, ys)
	}
	if xs[0] != d.Batch || xs[1] != d.Entities || ys[0] != d.Batch || ys[1] != d.Entities {
		return Dims{}, fmt.Errorf("%w: features (B=%d, M=%d) vs coordX %v, coordY %v",
			ErrShapeMismatch, d.Batch, d.Entities, xs, ys)
	}
	if coordX.DType() != tensor.Int32 || coordY.DType() != tensor.Int32 {
		return Dims{}, fmt.Errorf("%w: coordinates must be int32, got %s and %s",
			ErrUnsupportedDType, coordX.DType(), coordY.DType())
	}

	cx, cy := coordX.AsInt32(), coordY.AsInt32()
	for i := range cx {
		x, y := int(cx[i]), int(cy[i])
		if x < 0 || x >= height || y < 0 || y >= width {
			return Dims{}, fmt.Errorf("%w: coordinate (x=%d, y=%d) outside [0, %d)x[0, %d) at batch %d entity %d",
				ErrCoordOutOfRange, x, y, height, width, i/d.Entities, i%d.Entities)
		}
	}
	return d, nil
}

// featureDims validates the feature tensor and spatial size shared by both
// entry points.
func (c *Connection[B]) featureDims(features *tensor.RawTensor, height, width int) (Dims, error) {
	fs := features.Shape()
	if len(fs) != 3 {
		return Dims{}, fmt.Errorf("%w: features must be (B, M, N), got %v", ErrShapeMismatch, fs)
	}
	if !features.DType().IsFloat() {
		return Dims{}, fmt.Errorf("%w: features must be floating point, got %s", ErrUnsupportedDType, features.DType())
	}
	if height <= 0 || width <= 0 {
		return Dims{}, fmt.Errorf("%w: spatial size (%d, %d) must be positive", ErrShapeMismatch, height, width)
	}
	return Dims{
		Batch:    fs[0],
		Entities: fs[1],
		Channels: fs[2],
		Height:   height,
		Width:    width,
		DType:    features.DType(),
		Policy:   c.policy,
	}, nil
}
