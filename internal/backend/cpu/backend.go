// Package cpu implements the CPU backend with the reference scatter kernels.
package cpu

import (
	"github.com/gridcast-ml/gridcast/internal/tensor"
)

// CPUBackend implements scatter operations on CPU in pure Go.
// It is the reference implementation: every fast-path provider must
// reproduce its output byte for byte.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Scatter places each entity's feature vector at its (row, col) location,
// later entities overwriting earlier ones on collision.
func (cpu *CPUBackend) Scatter(features, locations *tensor.RawTensor, height, width int) *tensor.RawTensor {
	return scatterCombined(features, locations, height, width, false, cpu.device, nil)
}

// ScatterAdd places each entity's feature vector at its (row, col) location,
// summing colliding entities.
func (cpu *CPUBackend) ScatterAdd(features, locations *tensor.RawTensor, height, width int) *tensor.RawTensor {
	return scatterCombined(features, locations, height, width, true, cpu.device, nil)
}

// ScatterXY places feature vectors at the flattened cell coordX*W + coordY,
// later entities overwriting earlier ones on collision.
func (cpu *CPUBackend) ScatterXY(features, coordX, coordY *tensor.RawTensor, height, width int) *tensor.RawTensor {
	return scatterSeparate(features, coordX, coordY, height, width, false, cpu.device, nil)
}

// ScatterAddXY places feature vectors at the flattened cell coordX*W + coordY,
// summing colliding entities.
func (cpu *CPUBackend) ScatterAddXY(features, coordX, coordY *tensor.RawTensor, height, width int) *tensor.RawTensor {
	return scatterSeparate(features, coordX, coordY, height, width, true, cpu.device, nil)
}
