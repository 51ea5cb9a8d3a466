// Copyright 2026 The Gridcast Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/gridcast-ml/gridcast/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual grid construction for scatter operations.
//
// Implementations:
//   - backend/cpu: Pure Go reference kernels plus a parallel variant
//   - backend/webgpu: Cross-platform GPU compute via WebGPU
//
// Example:
//
//	import (
//	    "github.com/gridcast-ml/gridcast/backend/cpu"
//	    "github.com/gridcast-ml/gridcast/scatter"
//	)
//
//	backend := cpu.New()
//	conn, err := scatter.New(backend, scatter.Accumulate)
type Backend interface {
	// Combined-location scatter: features (B, M, N), locations (B, M, 2)
	// holding (row, column) pairs.
	Scatter(features, locations *RawTensor, height, width int) *RawTensor    // Later entities overwrite on collision.
	ScatterAdd(features, locations *RawTensor, height, width int) *RawTensor // Colliding entities sum.

	// Separate-coordinate scatter: features (B, M, N), coordX and coordY
	// each (B, M). The flat cell index is coordX*width + coordY.
	ScatterXY(features, coordX, coordY *RawTensor, height, width int) *RawTensor    // Later entities overwrite on collision.
	ScatterAddXY(features, coordX, coordY *RawTensor, height, width int) *RawTensor // Colliding entities sum.

	// Backend information.
	Name() string   // Backend name (e.g. "CPU", "WebGPU").
	Device() Device // Device where results reside.
}

// Compile-time check that the public interface matches the internal one.
var _ Backend = tensor.Backend(nil)
