// Copyright 2026 The Gridcast Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU backend for scatter operations.
//
// The default backend runs sequential reference kernels. NewParallel
// returns a fast-path variant that splits work across CPU cores while
// producing byte-for-byte identical grids.
package cpu
