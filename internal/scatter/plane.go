package scatter

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/gridcast-ml/gridcast/internal/tensor"
)

// ChannelPlane extracts the (H, W) spatial plane for one batch element and
// one channel of a scattered (B, N, H, W) grid as a gonum dense matrix, for
// downstream analysis or plotting. Values are widened to float64.
func ChannelPlane(grid *tensor.RawTensor, batch, channel int) (*mat.Dense, error) {
	gs := grid.Shape()
	if len(gs) != 4 {
		return nil, fmt.Errorf("%w: grid must be (B, N, H, W), got %v", ErrShapeMismatch, gs)
	}
	if batch < 0 || batch >= gs[0] {
		return nil, fmt.Errorf("%w: batch %d outside [0, %d)", ErrShapeMismatch, batch, gs[0])
	}
	if channel < 0 || channel >= gs[1] {
		return nil, fmt.Errorf("%w: channel %d outside [0, %d)", ErrShapeMismatch, channel, gs[1])
	}

	height, width := gs[2], gs[3]
	cells := height * width
	offset := (batch*gs[1] + channel) * cells

	data := make([]float64, cells)
	switch grid.DType() {
	case tensor.Float32:
		src := grid.AsFloat32()[offset : offset+cells]
		for i, v := range src {
			data[i] = float64(v)
		}
	case tensor.Float64:
		copy(data, grid.AsFloat64()[offset:offset+cells])
	case tensor.Float16:
		src := grid.AsFloat16()[offset : offset+cells]
		for i, bits := range src {
			data[i] = float64(tensor.Float16ToFloat32(bits))
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDType, grid.DType())
	}

	return mat.NewDense(height, width, data), nil
}
