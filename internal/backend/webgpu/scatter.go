package webgpu

import (
	"encoding/binary"
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/gridcast-ml/gridcast/internal/scatter"
	"github.com/gridcast-ml/gridcast/internal/tensor"
)

// minGPUWork is the minimum number of output grid elements before the
// GPU path pays for its transfer overhead. Smaller problems stay on CPU.
const minGPUWork = 1 << 16

// scatterMode values passed to the shaders via the Params uniform.
const (
	modeOverwrite  uint32 = 0
	modeAccumulate uint32 = 1
)

// Supports reports whether this backend can serve the given problem.
// The shaders operate on float32 data only, and small grids are not
// worth the host-to-device round trip.
func (b *Backend) Supports(d scatter.Dims) bool {
	if b.device == nil {
		return false
	}
	if d.DType != tensor.Float32 {
		return false
	}
	return d.Batch*d.Channels*d.Cells() >= minGPUWork
}

// Scatter places entity features into a zero-initialized grid using
// combined (row, column) locations. Later entities overwrite earlier
// ones on collision.
func (b *Backend) Scatter(features, locations *tensor.RawTensor, height, width int) *tensor.RawTensor {
	result, err := b.runScatter(features, locations, height, width, modeOverwrite)
	if err != nil {
		panic("webgpu: Scatter: " + err.Error())
	}
	return result
}

// ScatterAdd places entity features into a zero-initialized grid using
// combined (row, column) locations. Colliding entities sum.
func (b *Backend) ScatterAdd(features, locations *tensor.RawTensor, height, width int) *tensor.RawTensor {
	result, err := b.runScatter(features, locations, height, width, modeAccumulate)
	if err != nil {
		panic("webgpu: ScatterAdd: " + err.Error())
	}
	return result
}

// ScatterXY places entity features into a zero-initialized grid using
// separate coordinate arrays. Later entities overwrite earlier ones on
// collision.
func (b *Backend) ScatterXY(features, coordX, coordY *tensor.RawTensor, height, width int) *tensor.RawTensor {
	result, err := b.runScatterXY(features, coordX, coordY, height, width, modeOverwrite)
	if err != nil {
		panic("webgpu: ScatterXY: " + err.Error())
	}
	return result
}

// ScatterAddXY places entity features into a zero-initialized grid using
// separate coordinate arrays. Colliding entities sum.
func (b *Backend) ScatterAddXY(features, coordX, coordY *tensor.RawTensor, height, width int) *tensor.RawTensor {
	result, err := b.runScatterXY(features, coordX, coordY, height, width, modeAccumulate)
	if err != nil {
		panic("webgpu: ScatterAddXY: " + err.Error())
	}
	return result
}

// scatterParams packs the shader uniform block.
func scatterParams(batch, entities, channels, height, width int, mode uint32) []byte {
	params := make([]byte, 32) // 6 x u32, padded to 16-byte boundary
	//nolint:gosec // G115: Safe conversions, dimensions are non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(batch))
	//nolint:gosec // G115: Safe conversions, dimensions are non-negative
	binary.LittleEndian.PutUint32(params[4:8], uint32(entities))
	//nolint:gosec // G115: Safe conversions, dimensions are non-negative
	binary.LittleEndian.PutUint32(params[8:12], uint32(channels))
	//nolint:gosec // G115: Safe conversions, dimensions are non-negative
	binary.LittleEndian.PutUint32(params[12:16], uint32(height))
	//nolint:gosec // G115: Safe conversions, dimensions are non-negative
	binary.LittleEndian.PutUint32(params[16:20], uint32(width))
	binary.LittleEndian.PutUint32(params[20:24], mode)
	return params
}

// runScatter executes the combined-location scatter shader.
// features: (B, M, N) float32, locations: (B, M, 2) int32.
// Returns a (B, N, H, W) float32 grid.
func (b *Backend) runScatter(features, locations *tensor.RawTensor, height, width int, mode uint32) (*tensor.RawTensor, error) {
	if features.DType() != tensor.Float32 {
		return nil, fmt.Errorf("webgpu: only float32 is supported, got %s", features.DType())
	}

	shape := features.Shape()
	batch, entities, channels := shape[0], shape[1], shape[2]
	resultShape := tensor.Shape{batch, channels, height, width}

	shader := b.compileShader("scatter", scatterShader)
	pipeline := b.getOrCreatePipeline("scatter", shader)

	bufferFeatures := b.createBuffer(features.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferFeatures.Release()

	bufferLocations := b.createBuffer(locations.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferLocations.Release()

	//nolint:gosec // G115: Safe conversion, element count is non-negative
	resultSize := uint64(resultShape.NumElements() * 4) // float32 = 4 bytes
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	bufferParams := b.createUniformBuffer(scatterParams(batch, entities, channels, height, width, mode))
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	//nolint:gosec // G115: Safe conversions, ByteSize() returns non-negative int
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferFeatures, 0, uint64(features.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferLocations, 0, uint64(locations.ByteSize())),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 32),
	})
	defer bindGroup.Release()

	b.dispatch(pipeline, bindGroup, resultShape.NumElements())

	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(resultShape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), resultData)
	return result, nil
}

// runScatterXY executes the separate-coordinate scatter shader.
// features: (B, M, N) float32, coordX/coordY: (B, M) int32.
// Returns a (B, N, H, W) float32 grid.
func (b *Backend) runScatterXY(features, coordX, coordY *tensor.RawTensor, height, width int, mode uint32) (*tensor.RawTensor, error) {
	if features.DType() != tensor.Float32 {
		return nil, fmt.Errorf("webgpu: only float32 is supported, got %s", features.DType())
	}

	shape := features.Shape()
	batch, entities, channels := shape[0], shape[1], shape[2]
	resultShape := tensor.Shape{batch, channels, height, width}

	shader := b.compileShader("scatter_xy", scatterXYShader)
	pipeline := b.getOrCreatePipeline("scatter_xy", shader)

	bufferFeatures := b.createBuffer(features.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferFeatures.Release()

	bufferCoordX := b.createBuffer(coordX.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferCoordX.Release()

	bufferCoordY := b.createBuffer(coordY.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferCoordY.Release()

	//nolint:gosec // G115: Safe conversion, element count is non-negative
	resultSize := uint64(resultShape.NumElements() * 4) // float32 = 4 bytes
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	bufferParams := b.createUniformBuffer(scatterParams(batch, entities, channels, height, width, mode))
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	//nolint:gosec // G115: Safe conversions, ByteSize() returns non-negative int
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferFeatures, 0, uint64(features.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferCoordX, 0, uint64(coordX.ByteSize())),
		wgpu.BufferBindingEntry(2, bufferCoordY, 0, uint64(coordY.ByteSize())),
		wgpu.BufferBindingEntry(3, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(4, bufferParams, 0, 32),
	})
	defer bindGroup.Release()

	b.dispatch(pipeline, bindGroup, resultShape.NumElements())

	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(resultShape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), resultData)
	return result, nil
}

// dispatch runs a compute pass with one thread per output element.
func (b *Backend) dispatch(pipeline *wgpu.ComputePipeline, bindGroup *wgpu.BindGroup, numElements int) {
	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	//nolint:gosec // G115: Safe conversion, workgroup count is non-negative
	workgroups := uint32((numElements + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)
}
