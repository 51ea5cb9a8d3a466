package cpu

import (
	"fmt"

	"github.com/gridcast-ml/gridcast/internal/tensor"
)

// scatterSeparate is the separate-axis kernel shared by ScatterXY and
// ScatterAddXY. The flattened cell index is coordX*W + coordY, the reverse
// axis roles of the combined-coordinate kernel. The accumulator is built per
// batch element as (B, N, H*W) and reshaped in place to (B, N, H, W), so no
// final permute is needed and cross-batch collisions are impossible by
// construction.
func scatterSeparate(features, coordX, coordY *tensor.RawTensor, height, width int, accumulate bool, device tensor.Device, loop loopFunc) *tensor.RawTensor {
	if loop == nil {
		loop = sequentialLoop
	}
	batch, entities, channels := separateDims(features, coordX, coordY)
	if height <= 0 || width <= 0 {
		panic(fmt.Sprintf("scatterXY: invalid spatial size (%d, %d)", height, width))
	}

	cells := height * width
	idx := flattenCoords(coordX.AsInt32(), coordY.AsInt32(), batch, entities, height, width)

	result, err := tensor.NewRaw(tensor.Shape{batch, channels, height, width}, features.DType(), device)
	if err != nil {
		panic(fmt.Sprintf("scatterXY: failed to create result tensor: %v", err))
	}

	switch features.DType() {
	case tensor.Float32:
		dst := result.AsFloat32()
		src := features.AsFloat32()
		loop(batch*channels, func(k int) {
			b, c := k/channels, k%channels
			scatterCellsFloat32(dst[k*cells:(k+1)*cells], src, idx[b*entities:(b+1)*entities], b, c, entities, channels, accumulate)
		})
	case tensor.Float64:
		dst := result.AsFloat64()
		src := features.AsFloat64()
		loop(batch*channels, func(k int) {
			b, c := k/channels, k%channels
			scatterCellsFloat64(dst[k*cells:(k+1)*cells], src, idx[b*entities:(b+1)*entities], b, c, entities, channels, accumulate)
		})
	case tensor.Float16:
		dst := result.AsFloat16()
		src := features.AsFloat16()
		loop(batch*channels, func(k int) {
			b, c := k/channels, k%channels
			scatterCellsFloat16(dst[k*cells:(k+1)*cells], src, idx[b*entities:(b+1)*entities], b, c, entities, channels, accumulate)
		})
	default:
		panic(fmt.Sprintf("scatterXY: unsupported dtype %s", features.DType()))
	}

	return result
}

// separateDims validates the (B, M, N) features / twin (B, M) coordinate
// tensors and returns the shared dimensions.
func separateDims(features, coordX, coordY *tensor.RawTensor) (batch, entities, channels int) {
	fs := features.Shape()
	if len(fs) != 3 {
		panic(fmt.Sprintf("scatterXY: features must be 3D (B, M, N), got shape %v", fs))
	}
	xs := coordX.Shape()
	ys := coordY.Shape()
	if len(xs) != 2 || len(ys) != 2 {
		panic(fmt.Sprintf("scatterXY: coordinates must be (B, M), got %v and %v", xs, ys))
	}
	if xs[0] != fs[0] || xs[1] != fs[1] || ys[0] != fs[0] || ys[1] != fs[1] {
		panic(fmt.Sprintf("scatterXY: batch/entity dims disagree: features %v vs coordX %v, coordY %v", fs, xs, ys))
	}
	if coordX.DType() != tensor.Int32 || coordY.DType() != tensor.Int32 {
		panic(fmt.Sprintf("scatterXY: coordinates must be int32, got %s and %s", coordX.DType(), coordY.DType()))
	}
	return fs[0], fs[1], fs[2]
}

// flattenCoords computes coordX*W + coordY per entity. coordX takes the row
// role in the flattened grid and coordY the column role, so coordX is bounded
// by the height and coordY by the width.
func flattenCoords(cx, cy []int32, batch, entities, height, width int) []int {
	idx := make([]int, batch*entities)
	for i := range idx {
		x := int(cx[i])
		y := int(cy[i])
		if x < 0 || x >= height || y < 0 || y >= width {
			panic(fmt.Sprintf("scatterXY: coordinate (x=%d, y=%d) out of bounds [0, %d)x[0, %d) at batch %d entity %d",
				x, y, height, width, i/entities, i%entities))
		}
		idx[i] = x*width + y
	}
	return idx
}

// scatterCellsFloat32 writes one (batch element, channel) plane. Entities are
// visited in index order, so with accumulate=false the later entity wins a
// collision.
func scatterCellsFloat32(plane []float32, src []float32, idx []int, b, c, entities, channels int, accumulate bool) {
	for m, a := range idx {
		v := src[(b*entities+m)*channels+c]
		if accumulate {
			plane[a] += v
		} else {
			plane[a] = v
		}
	}
}

//nolint:dupl // Type-specific kernels are intentionally similar for performance
func scatterCellsFloat64(plane []float64, src []float64, idx []int, b, c, entities, channels int, accumulate bool) {
	for m, a := range idx {
		v := src[(b*entities+m)*channels+c]
		if accumulate {
			plane[a] += v
		} else {
			plane[a] = v
		}
	}
}

func scatterCellsFloat16(plane []uint16, src []uint16, idx []int, b, c, entities, channels int, accumulate bool) {
	for m, a := range idx {
		bits := src[(b*entities+m)*channels+c]
		if accumulate {
			sum := tensor.Float16ToFloat32(plane[a]) + tensor.Float16ToFloat32(bits)
			plane[a] = tensor.Float16FromFloat32(sum)
		} else {
			plane[a] = bits
		}
	}
}
