// Copyright 2026 The Gridcast Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated scatter
// operations.
//
// WebGPU is a cross-platform graphics and compute API that works on:
//   - Windows (via D3D12)
//   - macOS (via Metal)
//   - Linux (via Vulkan)
//
// Example:
//
//	import (
//	    "github.com/gridcast-ml/gridcast/backend/cpu"
//	    "github.com/gridcast-ml/gridcast/backend/webgpu"
//	    "github.com/gridcast-ml/gridcast/scatter"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    conn, err := scatter.New(cpu.New(), scatter.Accumulate,
//	        scatter.WithFastPath[*cpu.Backend](gpu))
//	    ...
//	}
package webgpu

import (
	internalwebgpu "github.com/gridcast-ml/gridcast/internal/backend/webgpu"
	"github.com/gridcast-ml/gridcast/scatter"
	"github.com/gridcast-ml/gridcast/tensor"
)

// Backend represents the WebGPU backend implementation for GPU-accelerated
// scatter operations.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Compile-time check that Backend implements scatter.FastPath.
var _ scatter.FastPath = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// This function initializes the WebGPU device and returns a backend
// ready for scatter operations. Call Release() when done to free GPU
// resources.
//
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// It attempts to initialize a WebGPU adapter to verify that a compatible
// GPU and drivers are present. Useful for deciding whether to register
// the GPU fast path at startup.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
