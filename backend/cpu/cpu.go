// Copyright 2026 The Gridcast Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/gridcast-ml/gridcast/internal/backend/cpu"
	"github.com/gridcast-ml/gridcast/scatter"
	"github.com/gridcast-ml/gridcast/tensor"
)

// Backend represents the CPU backend implementation.
//
// CPU backend provides pure Go reference implementations of all scatter
// operations. Collision resolution follows entity order exactly, making
// it the correctness baseline for fast-path providers.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// ParallelBackend is a multi-core fast-path provider.
//
// It produces byte-for-byte identical grids to Backend by splitting work
// only across disjoint output planes, never across entities.
type ParallelBackend = internalcpu.ParallelBackend

// Compile-time check that ParallelBackend implements scatter.FastPath.
var _ scatter.FastPath = (*ParallelBackend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/gridcast-ml/gridcast/backend/cpu"
//	    "github.com/gridcast-ml/gridcast/scatter"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    conn, err := scatter.New(backend, scatter.Overwrite)
//	    ...
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewParallel creates a multi-core fast-path provider with default settings.
//
// Register it on a connection with scatter.WithFastPath:
//
//	conn, err := scatter.New(cpu.New(), scatter.Accumulate,
//	    scatter.WithFastPath[*cpu.Backend](cpu.NewParallel()))
func NewParallel() *ParallelBackend {
	return internalcpu.NewParallel()
}
