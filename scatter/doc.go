// Copyright 2026 The Gridcast Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package scatter provides the public API for scatter-to-grid operations.
//
// A Connection places batched per-entity feature vectors onto dense
// spatial grids. Two entry points exist with deliberately different
// coordinate conventions:
//   - Forward: combined (B, M, 2) locations holding (row, column) pairs
//   - ForwardXY: separate coordX and coordY arrays, flat index coordX*W + coordY
//
// Colliding entities either overwrite (last entity wins) or accumulate
// (values sum), selected by the connection's Policy.
//
// Example:
//
//	backend := cpu.New()
//	conn, err := scatter.New(backend, scatter.Accumulate)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	grid, err := conn.Forward(features, 64, 64, locations)
package scatter
