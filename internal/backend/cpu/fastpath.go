package cpu

import (
	"github.com/gridcast-ml/gridcast/internal/parallel"
	"github.com/gridcast-ml/gridcast/internal/scatter"
	"github.com/gridcast-ml/gridcast/internal/tensor"
)

// minParallelWork is the smallest B*M*N a call needs before the worker-pool
// provider claims it; below that the goroutine overhead dominates.
const minParallelWork = 1 << 14

// ParallelBackend is the channel-parallel fast-path provider. It runs the
// same kernels as CPUBackend with the channel loop (combined path) or the
// batch-channel loop (separate-axis path) spread over a worker pool. Every
// worker owns a disjoint accumulator slice and visits entities in the same
// order as the sequential kernels, so the output is byte-for-byte identical
// to the reference backend.
type ParallelBackend struct {
	device tensor.Device
	cfg    parallel.Config
}

// NewParallel creates the channel-parallel provider with defaults based on
// CPU count.
func NewParallel() *ParallelBackend {
	return NewParallelWithConfig(parallel.DefaultConfig())
}

// NewParallelWithConfig creates the provider with an explicit worker
// configuration.
func NewParallelWithConfig(cfg parallel.Config) *ParallelBackend {
	return &ParallelBackend{
		device: tensor.CPU,
		cfg:    cfg,
	}
}

// Name returns the backend name.
func (p *ParallelBackend) Name() string {
	return "CPU-parallel"
}

// Device returns the compute device.
func (p *ParallelBackend) Device() tensor.Device {
	return p.device
}

// Supports claims calls with enough total work to amortize the pool.
func (p *ParallelBackend) Supports(d scatter.Dims) bool {
	return p.cfg.Enabled && d.Batch*d.Entities*d.Channels >= minParallelWork
}

func (p *ParallelBackend) loop(n int, f func(i int)) {
	parallel.For(n, f, p.cfg)
}

// Scatter is the combined-coordinate overwrite kernel, channel-parallel.
func (p *ParallelBackend) Scatter(features, locations *tensor.RawTensor, height, width int) *tensor.RawTensor {
	return scatterCombined(features, locations, height, width, false, p.device, p.loop)
}

// ScatterAdd is the combined-coordinate accumulate kernel, channel-parallel.
func (p *ParallelBackend) ScatterAdd(features, locations *tensor.RawTensor, height, width int) *tensor.RawTensor {
	return scatterCombined(features, locations, height, width, true, p.device, p.loop)
}

// ScatterXY is the separate-axis overwrite kernel, parallel over
// (batch element, channel) planes.
func (p *ParallelBackend) ScatterXY(features, coordX, coordY *tensor.RawTensor, height, width int) *tensor.RawTensor {
	return scatterSeparate(features, coordX, coordY, height, width, false, p.device, p.loop)
}

// ScatterAddXY is the separate-axis accumulate kernel, parallel over
// (batch element, channel) planes.
func (p *ParallelBackend) ScatterAddXY(features, coordX, coordY *tensor.RawTensor, height, width int) *tensor.RawTensor {
	return scatterSeparate(features, coordX, coordY, height, width, true, p.device, p.loop)
}
