package scatter_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridcast-ml/gridcast/internal/backend/cpu"
	"github.com/gridcast-ml/gridcast/internal/scatter"
	"github.com/gridcast-ml/gridcast/internal/tensor"
)

type backend = *cpu.CPUBackend

func newConnection(t *testing.T, policy scatter.Policy, opts ...scatter.Option[backend]) *scatter.Connection[backend] {
	t.Helper()
	conn, err := scatter.New(cpu.New(), policy, opts...)
	require.NoError(t, err)
	return conn
}

func features(t *testing.T, b backend, shape tensor.Shape, data []float32) *tensor.Tensor[float32, backend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, b)
	require.NoError(t, err)
	return x
}

func coords(t *testing.T, b backend, shape tensor.Shape, data []int32) *tensor.Tensor[int32, backend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, b)
	require.NoError(t, err)
	return x
}

func TestNewRejectsInvalidPolicy(t *testing.T) {
	_, err := scatter.New(cpu.New(), scatter.Policy(7))
	require.ErrorIs(t, err, scatter.ErrInvalidPolicy)
}

func TestPolicyAccessor(t *testing.T) {
	conn := newConnection(t, scatter.Accumulate)
	assert.Equal(t, scatter.Accumulate, conn.Policy())
	assert.Equal(t, "accumulate", conn.Policy().String())
	assert.Equal(t, "overwrite", scatter.Overwrite.String())
}

func TestForwardPlacesFeatures(t *testing.T) {
	b := cpu.New()
	conn := newConnection(t, scatter.Overwrite)

	// Two entities, two channels, 3x4 grid.
	f := features(t, b, tensor.Shape{1, 2, 2}, []float32{1, 2, 3, 4})
	loc := coords(t, b, tensor.Shape{1, 2, 2}, []int32{0, 1, 2, 3})

	grid, err := conn.Forward(f, 3, 4, loc)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{1, 2, 3, 4}, grid.Shape())

	// Channel 0 plane: entity 0 at (0, 1), entity 1 at (2, 3).
	want := []float32{
		0, 1, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 3,
	}
	got := grid.Raw().AsFloat32()[:12]
	assert.Empty(t, cmp.Diff(want, got))

	// Channel 1 plane.
	want = []float32{
		0, 2, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 4,
	}
	got = grid.Raw().AsFloat32()[12:24]
	assert.Empty(t, cmp.Diff(want, got))
}

func TestForwardAccumulateSums(t *testing.T) {
	b := cpu.New()
	conn := newConnection(t, scatter.Accumulate)

	f := features(t, b, tensor.Shape{1, 2, 1}, []float32{3, 5})
	loc := coords(t, b, tensor.Shape{1, 2, 2}, []int32{1, 1, 1, 1})

	grid, err := conn.Forward(f, 2, 2, loc)
	require.NoError(t, err)
	assert.Equal(t, float32(8), grid.At(0, 0, 1, 1))
}

func TestForwardOverwriteLastWins(t *testing.T) {
	b := cpu.New()
	conn := newConnection(t, scatter.Overwrite)

	f := features(t, b, tensor.Shape{1, 2, 1}, []float32{3, 5})
	loc := coords(t, b, tensor.Shape{1, 2, 2}, []int32{1, 1, 1, 1})

	grid, err := conn.Forward(f, 2, 2, loc)
	require.NoError(t, err)
	assert.Equal(t, float32(5), grid.At(0, 0, 1, 1))
}

// The two entry points deliberately use different axis conventions: the
// same numeric coordinates land in transposed cells.
func TestForwardAndForwardXYDiverge(t *testing.T) {
	b := cpu.New()
	conn := newConnection(t, scatter.Overwrite)

	f := features(t, b, tensor.Shape{1, 1, 1}, []float32{9})

	combined, err := conn.Forward(f, 4, 4,
		coords(t, b, tensor.Shape{1, 1, 2}, []int32{1, 2}))
	require.NoError(t, err)

	separate, err := conn.ForwardXY(f, 4, 4,
		coords(t, b, tensor.Shape{1, 1}, []int32{1}),
		coords(t, b, tensor.Shape{1, 1}, []int32{2}))
	require.NoError(t, err)

	// Forward: (row=1, col=2). ForwardXY: flat index 1*4+2, which is the
	// same flat cell here, but the coordinate roles differ: coordX is the
	// row, bounded by height.
	assert.Equal(t, float32(9), combined.At(0, 0, 1, 2))
	assert.Equal(t, float32(9), separate.At(0, 0, 1, 2))

	// Asymmetric grid makes the role difference observable in bounds:
	// row 5 is valid for a 6-row grid through Forward, and coordX=5 is
	// valid through ForwardXY for the same grid, but coordY=5 is not.
	tall, err := conn.Forward(f, 6, 3,
		coords(t, b, tensor.Shape{1, 1, 2}, []int32{5, 2}))
	require.NoError(t, err)
	assert.Equal(t, float32(9), tall.At(0, 0, 5, 2))

	_, err = conn.ForwardXY(f, 6, 3,
		coords(t, b, tensor.Shape{1, 1}, []int32{0}),
		coords(t, b, tensor.Shape{1, 1}, []int32{5}))
	require.ErrorIs(t, err, scatter.ErrCoordOutOfRange)
}

func TestForwardShapeMismatch(t *testing.T) {
	b := cpu.New()
	conn := newConnection(t, scatter.Overwrite)
	f := features(t, b, tensor.Shape{1, 2, 1}, []float32{1, 2})

	t.Run("wrong entity count", func(t *testing.T) {
		loc := coords(t, b, tensor.Shape{1, 3, 2}, make([]int32, 6))
		_, err := conn.Forward(f, 4, 4, loc)
		require.ErrorIs(t, err, scatter.ErrShapeMismatch)
	})

	t.Run("wrong pair width", func(t *testing.T) {
		loc := coords(t, b, tensor.Shape{1, 2, 3}, make([]int32, 6))
		_, err := conn.Forward(f, 4, 4, loc)
		require.ErrorIs(t, err, scatter.ErrShapeMismatch)
	})

	t.Run("non-positive grid", func(t *testing.T) {
		loc := coords(t, b, tensor.Shape{1, 2, 2}, make([]int32, 4))
		_, err := conn.Forward(f, 0, 4, loc)
		require.ErrorIs(t, err, scatter.ErrShapeMismatch)
	})
}

func TestForwardXYShapeMismatch(t *testing.T) {
	b := cpu.New()
	conn := newConnection(t, scatter.Overwrite)
	f := features(t, b, tensor.Shape{2, 2, 1}, make([]float32, 4))

	// coordY batch dim disagrees.
	cx := coords(t, b, tensor.Shape{2, 2}, make([]int32, 4))
	cy := coords(t, b, tensor.Shape{1, 2}, make([]int32, 2))
	_, err := conn.ForwardXY(f, 4, 4, cx, cy)
	require.ErrorIs(t, err, scatter.ErrShapeMismatch)
}

func TestForwardCoordOutOfRange(t *testing.T) {
	b := cpu.New()
	conn := newConnection(t, scatter.Overwrite)
	f := features(t, b, tensor.Shape{1, 1, 1}, []float32{1})

	grid, err := conn.Forward(f, 4, 4,
		coords(t, b, tensor.Shape{1, 1, 2}, []int32{4, 0}))
	require.ErrorIs(t, err, scatter.ErrCoordOutOfRange)
	assert.Nil(t, grid)

	grid, err = conn.Forward(f, 4, 4,
		coords(t, b, tensor.Shape{1, 1, 2}, []int32{0, -1}))
	require.ErrorIs(t, err, scatter.ErrCoordOutOfRange)
	assert.Nil(t, grid)
}

func TestForwardRawUnsupportedDType(t *testing.T) {
	conn := newConnection(t, scatter.Overwrite)

	intFeatures, err := tensor.NewRaw(tensor.Shape{1, 1, 1}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	loc, err := tensor.NewRaw(tensor.Shape{1, 1, 2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)

	_, err = conn.ForwardRaw(intFeatures, loc, 4, 4)
	require.ErrorIs(t, err, scatter.ErrUnsupportedDType)
}

func TestForwardRawFloat64(t *testing.T) {
	conn := newConnection(t, scatter.Accumulate)

	f, err := tensor.NewRaw(tensor.Shape{1, 2, 1}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	copy(f.AsFloat64(), []float64{1.25, 2.5})
	loc, err := tensor.NewRaw(tensor.Shape{1, 2, 2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	copy(loc.AsInt32(), []int32{0, 0, 0, 0})

	grid, err := conn.ForwardRaw(f, loc, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, tensor.Float64, grid.DType())
	assert.Equal(t, 3.75, grid.AsFloat64()[0])
}

// recordingPath wraps the CPU backend and records whether it served a call.
type recordingPath struct {
	*cpu.CPUBackend
	claim  bool
	served bool
}

func (r *recordingPath) Supports(scatter.Dims) bool {
	return r.claim
}

func (r *recordingPath) Scatter(features, locations *tensor.RawTensor, height, width int) *tensor.RawTensor {
	r.served = true
	return r.CPUBackend.Scatter(features, locations, height, width)
}

func TestFastPathDispatch(t *testing.T) {
	b := cpu.New()
	declining := &recordingPath{CPUBackend: cpu.New(), claim: false}
	claiming := &recordingPath{CPUBackend: cpu.New(), claim: true}

	conn := newConnection(t, scatter.Overwrite,
		scatter.WithFastPath[backend](declining),
		scatter.WithFastPath[backend](claiming),
	)

	f := features(t, b, tensor.Shape{1, 1, 1}, []float32{5})
	loc := coords(t, b, tensor.Shape{1, 1, 2}, []int32{1, 1})

	grid, err := conn.Forward(f, 2, 2, loc)
	require.NoError(t, err)

	assert.False(t, declining.served, "declining provider must not serve the call")
	assert.True(t, claiming.served, "claiming provider should serve the call")
	assert.Equal(t, float32(5), grid.At(0, 0, 1, 1))
}

func TestFastPathFallback(t *testing.T) {
	b := cpu.New()
	declining := &recordingPath{CPUBackend: cpu.New(), claim: false}

	conn := newConnection(t, scatter.Overwrite,
		scatter.WithFastPath[backend](declining))

	f := features(t, b, tensor.Shape{1, 1, 1}, []float32{5})
	loc := coords(t, b, tensor.Shape{1, 1, 2}, []int32{0, 0})

	grid, err := conn.Forward(f, 2, 2, loc)
	require.NoError(t, err)
	assert.False(t, declining.served)
	assert.Equal(t, float32(5), grid.At(0, 0, 0, 0))
}

func TestChannelPlane(t *testing.T) {
	b := cpu.New()
	conn := newConnection(t, scatter.Overwrite)

	f := features(t, b, tensor.Shape{1, 1, 2}, []float32{1.5, 2.5})
	loc := coords(t, b, tensor.Shape{1, 1, 2}, []int32{1, 2})

	grid, err := conn.Forward(f, 3, 4, loc)
	require.NoError(t, err)

	plane, err := scatter.ChannelPlane(grid.Raw(), 0, 1)
	require.NoError(t, err)

	rows, cols := plane.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, 2.5, plane.At(1, 2))
	assert.Equal(t, 0.0, plane.At(0, 0))
}

func TestChannelPlaneErrors(t *testing.T) {
	grid, err := tensor.NewRaw(tensor.Shape{1, 2, 3, 4}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	_, err = scatter.ChannelPlane(grid, 1, 0)
	require.ErrorIs(t, err, scatter.ErrShapeMismatch)

	_, err = scatter.ChannelPlane(grid, 0, 2)
	require.ErrorIs(t, err, scatter.ErrShapeMismatch)

	flat, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	_, err = scatter.ChannelPlane(flat, 0, 0)
	require.ErrorIs(t, err, scatter.ErrShapeMismatch)
}
