package tensor

// Backend defines the compute interface scatter engines dispatch to.
// Backends implement the actual placement of per-entity feature vectors
// into dense spatial grids.
//
// Implementations:
//   - CPU: pure Go reference kernels
//   - CPU parallel: channel-parallel fast path over the same kernels
//   - WebGPU: GPU fast path (capability-checked at runtime)
//
// All kernels expect pre-validated inputs (the scatter engine surfaces
// shape and range errors before dispatch) and panic on violated
// invariants.
type Backend interface {
	// Combined-coordinate kernels. features is a (B, M, N) float tensor,
	// locations a (B, M, 2) int32 tensor of (row, col) pairs. The result
	// grid is (B, N, H, W). Scatter resolves collisions by letting the
	// later entity in batch-major, entity-index order win; ScatterAdd
	// sums colliding entities.
	Scatter(features, locations *RawTensor, height, width int) *RawTensor
	ScatterAdd(features, locations *RawTensor, height, width int) *RawTensor

	// Separate-axis kernels. coordX and coordY are (B, M) int32 tensors.
	// The effective cell is the flattened index coordX*W + coordY, so
	// coordX plays the row role and coordY the column role. This axis
	// order intentionally differs from the combined-coordinate kernels.
	ScatterXY(features, coordX, coordY *RawTensor, height, width int) *RawTensor
	ScatterAddXY(features, coordX, coordY *RawTensor, height, width int) *RawTensor

	// Metadata.
	Name() string   // Backend name (e.g., "CPU", "WebGPU").
	Device() Device // Device type.
}
