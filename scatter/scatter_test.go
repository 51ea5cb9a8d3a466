// Copyright 2026 The Gridcast Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package scatter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridcast-ml/gridcast/backend/cpu"
	"github.com/gridcast-ml/gridcast/scatter"
	"github.com/gridcast-ml/gridcast/tensor"
)

// TestPublicAPI exercises the documented construction and forward flow
// end to end through the facade.
func TestPublicAPI(t *testing.T) {
	backend := cpu.New()
	conn, err := scatter.New(backend, scatter.Accumulate,
		scatter.WithFastPath[*cpu.Backend](cpu.NewParallel()))
	require.NoError(t, err)
	assert.Equal(t, scatter.Accumulate, conn.Policy())

	features, err := tensor.FromSlice(
		[]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2}, backend)
	require.NoError(t, err)
	locations, err := tensor.FromSlice(
		[]int32{0, 0, 0, 0}, tensor.Shape{1, 2, 2}, backend)
	require.NoError(t, err)

	grid, err := conn.Forward(features, 4, 4, locations)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{1, 2, 4, 4}, grid.Shape())

	// Both entities collide at (0, 0) and accumulate per channel.
	assert.Equal(t, float32(4), grid.At(0, 0, 0, 0))
	assert.Equal(t, float32(6), grid.At(0, 1, 0, 0))

	plane, err := scatter.ChannelPlane(grid.Raw(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, plane.At(0, 0))
}

// TestErrorsAreSentinels verifies the facade re-exports the engine's
// sentinel errors.
func TestErrorsAreSentinels(t *testing.T) {
	backend := cpu.New()
	_, err := scatter.New(backend, scatter.Policy(42))
	require.ErrorIs(t, err, scatter.ErrInvalidPolicy)

	conn, err := scatter.New(backend, scatter.Overwrite)
	require.NoError(t, err)

	features, err := tensor.FromSlice(
		[]float32{1}, tensor.Shape{1, 1, 1}, backend)
	require.NoError(t, err)
	locations, err := tensor.FromSlice(
		[]int32{9, 0}, tensor.Shape{1, 1, 2}, backend)
	require.NoError(t, err)

	_, err = conn.Forward(features, 4, 4, locations)
	require.ErrorIs(t, err, scatter.ErrCoordOutOfRange)
}
