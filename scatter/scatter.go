// Copyright 2026 The Gridcast Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package scatter

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gridcast-ml/gridcast/internal/scatter"
	"github.com/gridcast-ml/gridcast/tensor"
)

// Type aliases for public API

// Policy selects how colliding entities are resolved.
type Policy = scatter.Policy

// Collision policies.
const (
	// Overwrite keeps the value of the last entity mapped to a cell.
	Overwrite Policy = scatter.Overwrite
	// Accumulate sums the values of all entities mapped to a cell.
	Accumulate Policy = scatter.Accumulate
)

// Connection scatters batched entity features into dense spatial grids.
//
// B is the backend implementation (CPU, WebGPU).
type Connection[B tensor.Backend] = scatter.Connection[B]

// Option configures a Connection.
type Option[B tensor.Backend] = scatter.Option[B]

// Dims is the shape signature of a scatter problem, used for fast-path
// capability checks.
type Dims = scatter.Dims

// FastPath is an accelerated kernel provider. A provider claims a
// problem via Supports and must produce byte-for-byte identical grids
// to the reference backend.
type FastPath = scatter.FastPath

// Validation errors returned by New, Forward and ForwardXY.
var (
	ErrInvalidPolicy    = scatter.ErrInvalidPolicy
	ErrShapeMismatch    = scatter.ErrShapeMismatch
	ErrCoordOutOfRange  = scatter.ErrCoordOutOfRange
	ErrUnsupportedDType = scatter.ErrUnsupportedDType
)

// New creates a scatter connection with the given backend and collision
// policy.
//
// Example:
//
//	backend := cpu.New()
//	conn, err := scatter.New(backend, scatter.Overwrite)
func New[B tensor.Backend](backend B, policy Policy, opts ...Option[B]) (*Connection[B], error) {
	return scatter.New(backend, policy, opts...)
}

// WithFastPath registers an accelerated kernel provider on a connection.
// Providers are consulted in registration order; the first one whose
// Supports returns true serves the call.
func WithFastPath[B tensor.Backend](fp FastPath) Option[B] {
	return scatter.WithFastPath[B](fp)
}

// ChannelPlane extracts one (height, width) channel plane from a
// scattered grid as a gonum matrix, widened to float64.
//
// Useful for feeding grids into gonum-based analysis or plotting.
func ChannelPlane(grid *tensor.RawTensor, batch, channel int) (*mat.Dense, error) {
	return scatter.ChannelPlane(grid, batch, channel)
}
