package cpu

import (
	"fmt"

	"github.com/gridcast-ml/gridcast/internal/tensor"
)

// loopFunc runs f(i) for i in [0, n). The sequential form is the ascending
// for loop; the parallel provider substitutes a worker pool. Iterations must
// be independent for the substitution to be value-preserving.
type loopFunc func(n int, f func(i int))

func sequentialLoop(n int, f func(i int)) {
	for i := 0; i < n; i++ {
		f(i)
	}
}

// scatterCombined is the combined-coordinate kernel shared by Scatter and
// ScatterAdd. It follows the channel-major formulation: one flat address per
// entity (with a per-batch offset so batch elements never collide), an
// (N, B*H*W) accumulator, then a permute to the (B, N, H, W) output.
func scatterCombined(features, locations *tensor.RawTensor, height, width int, accumulate bool, device tensor.Device, loop loopFunc) *tensor.RawTensor {
	if loop == nil {
		loop = sequentialLoop
	}
	batch, entities, channels := combinedDims(features, locations)
	if height <= 0 || width <= 0 {
		panic(fmt.Sprintf("scatter: invalid spatial size (%d, %d)", height, width))
	}

	cells := height * width
	addr := flattenLocations(locations.AsInt32(), batch, entities, height, width)

	result, err := tensor.NewRaw(tensor.Shape{batch, channels, height, width}, features.DType(), device)
	if err != nil {
		panic(fmt.Sprintf("scatter: failed to create result tensor: %v", err))
	}

	batchCells := batch * cells
	switch features.DType() {
	case tensor.Float32:
		acc := make([]float32, channels*batchCells)
		src := features.AsFloat32()
		loop(channels, func(c int) {
			scatterChannelFloat32(acc[c*batchCells:(c+1)*batchCells], src, addr, c, channels, accumulate)
		})
		permuteGridFloat32(result.AsFloat32(), acc, batch, channels, cells)
	case tensor.Float64:
		acc := make([]float64, channels*batchCells)
		src := features.AsFloat64()
		loop(channels, func(c int) {
			scatterChannelFloat64(acc[c*batchCells:(c+1)*batchCells], src, addr, c, channels, accumulate)
		})
		permuteGridFloat64(result.AsFloat64(), acc, batch, channels, cells)
	case tensor.Float16:
		acc := make([]uint16, channels*batchCells)
		src := features.AsFloat16()
		loop(channels, func(c int) {
			scatterChannelFloat16(acc[c*batchCells:(c+1)*batchCells], src, addr, c, channels, accumulate)
		})
		permuteGridFloat16(result.AsFloat16(), acc, batch, channels, cells)
	default:
		panic(fmt.Sprintf("scatter: unsupported dtype %s", features.DType()))
	}

	return result
}

// combinedDims validates the (B, M, N) features / (B, M, 2) locations pair
// and returns the shared dimensions.
func combinedDims(features, locations *tensor.RawTensor) (batch, entities, channels int) {
	fs := features.Shape()
	if len(fs) != 3 {
		panic(fmt.Sprintf("scatter: features must be 3D (B, M, N), got shape %v", fs))
	}
	ls := locations.Shape()
	if len(ls) != 3 || ls[2] != 2 {
		panic(fmt.Sprintf("scatter: locations must be (B, M, 2), got shape %v", ls))
	}
	if ls[0] != fs[0] || ls[1] != fs[1] {
		panic(fmt.Sprintf("scatter: batch/entity dims disagree: features %v vs locations %v", fs, ls))
	}
	if locations.DType() != tensor.Int32 {
		panic(fmt.Sprintf("scatter: locations must be int32, got %s", locations.DType()))
	}
	return fs[0], fs[1], fs[2]
}

// flattenLocations converts the (B, M, 2) location pairs to one flat address
// per entity: row*W + col, plus b*H*W so batch elements land in disjoint
// address ranges.
func flattenLocations(loc []int32, batch, entities, height, width int) []int {
	cells := height * width
	addr := make([]int, batch*entities)
	for b := 0; b < batch; b++ {
		for m := 0; m < entities; m++ {
			i := b*entities + m
			row := int(loc[i*2])
			col := int(loc[i*2+1])
			if row < 0 || row >= height || col < 0 || col >= width {
				panic(fmt.Sprintf("scatter: location (%d, %d) out of bounds [0, %d)x[0, %d) at batch %d entity %d",
					row, col, height, width, b, m))
			}
			addr[i] = b*cells + row*width + col
		}
	}
	return addr
}

// scatterChannelFloat32 writes one channel's values into its accumulator row.
// Entities are visited in flattening order, so with accumulate=false the
// later entity wins a collision.
func scatterChannelFloat32(row []float32, src []float32, addr []int, c, channels int, accumulate bool) {
	for i, a := range addr {
		v := src[i*channels+c]
		if accumulate {
			row[a] += v
		} else {
			row[a] = v
		}
	}
}

//nolint:dupl // Type-specific kernels are intentionally similar for performance
func scatterChannelFloat64(row []float64, src []float64, addr []int, c, channels int, accumulate bool) {
	for i, a := range addr {
		v := src[i*channels+c]
		if accumulate {
			row[a] += v
		} else {
			row[a] = v
		}
	}
}

// scatterChannelFloat16 operates on half-precision bit patterns. Accumulation
// happens in float32 with a round back to float16 after every write, the same
// behavior as sequential hardware scatter-add on fp16 storage.
func scatterChannelFloat16(row []uint16, src []uint16, addr []int, c, channels int, accumulate bool) {
	for i, a := range addr {
		bits := src[i*channels+c]
		if accumulate {
			sum := tensor.Float16ToFloat32(row[a]) + tensor.Float16ToFloat32(bits)
			row[a] = tensor.Float16FromFloat32(sum)
		} else {
			row[a] = bits
		}
	}
}

// permuteGridFloat32 reorders the channel-major accumulator (N, B, cells)
// into the output layout (B, N, cells).
func permuteGridFloat32(dst, acc []float32, batch, channels, cells int) {
	for c := 0; c < channels; c++ {
		for b := 0; b < batch; b++ {
			src := acc[(c*batch+b)*cells : (c*batch+b+1)*cells]
			copy(dst[(b*channels+c)*cells:(b*channels+c+1)*cells], src)
		}
	}
}

//nolint:dupl // Type-specific kernels are intentionally similar for performance
func permuteGridFloat64(dst, acc []float64, batch, channels, cells int) {
	for c := 0; c < channels; c++ {
		for b := 0; b < batch; b++ {
			src := acc[(c*batch+b)*cells : (c*batch+b+1)*cells]
			copy(dst[(b*channels+c)*cells:(b*channels+c+1)*cells], src)
		}
	}
}

//nolint:dupl // Type-specific kernels are intentionally similar for performance
func permuteGridFloat16(dst, acc []uint16, batch, channels, cells int) {
	for c := 0; c < channels; c++ {
		for b := 0; b < batch; b++ {
			src := acc[(c*batch+b)*cells : (c*batch+b+1)*cells]
			copy(dst[(b*channels+c)*cells:(b*channels+c+1)*cells], src)
		}
	}
}
