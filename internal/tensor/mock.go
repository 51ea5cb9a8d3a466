package tensor

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements the scatter operations naively for float32 data.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Scatter places entity features at (row, column) locations, later
// entities overwriting earlier ones.
func (m *MockBackend) Scatter(features, locations *RawTensor, height, width int) *RawTensor {
	return m.scatter(features, locations, height, width, false)
}

// ScatterAdd places entity features at (row, column) locations, summing
// colliding entities.
func (m *MockBackend) ScatterAdd(features, locations *RawTensor, height, width int) *RawTensor {
	return m.scatter(features, locations, height, width, true)
}

// ScatterXY places entity features at coordX*width+coordY cells, later
// entities overwriting earlier ones.
func (m *MockBackend) ScatterXY(features, coordX, coordY *RawTensor, height, width int) *RawTensor {
	return m.scatterXY(features, coordX, coordY, height, width, false)
}

// ScatterAddXY places entity features at coordX*width+coordY cells,
// summing colliding entities.
func (m *MockBackend) ScatterAddXY(features, coordX, coordY *RawTensor, height, width int) *RawTensor {
	return m.scatterXY(features, coordX, coordY, height, width, true)
}

func (m *MockBackend) scatter(features, locations *RawTensor, height, width int, accumulate bool) *RawTensor {
	shape := features.Shape()
	batch, entities, channels := shape[0], shape[1], shape[2]
	loc := locations.AsInt32()

	result, err := NewRaw(Shape{batch, channels, height, width}, Float32, CPU)
	if err != nil {
		panic(err)
	}

	src := features.AsFloat32()
	dst := result.AsFloat32()
	cells := height * width
	for b := 0; b < batch; b++ {
		for e := 0; e < entities; e++ {
			i := b*entities + e
			cell := int(loc[i*2])*width + int(loc[i*2+1])
			m.place(dst, src, b, e, cell, entities, channels, cells, accumulate)
		}
	}
	return result
}

func (m *MockBackend) scatterXY(features, coordX, coordY *RawTensor, height, width int, accumulate bool) *RawTensor {
	shape := features.Shape()
	batch, entities, channels := shape[0], shape[1], shape[2]
	cx := coordX.AsInt32()
	cy := coordY.AsInt32()

	result, err := NewRaw(Shape{batch, channels, height, width}, Float32, CPU)
	if err != nil {
		panic(err)
	}

	src := features.AsFloat32()
	dst := result.AsFloat32()
	cells := height * width
	for b := 0; b < batch; b++ {
		for e := 0; e < entities; e++ {
			i := b*entities + e
			cell := int(cx[i])*width + int(cy[i])
			m.place(dst, src, b, e, cell, entities, channels, cells, accumulate)
		}
	}
	return result
}

func (m *MockBackend) place(dst, src []float32, b, e, cell, entities, channels, cells int, accumulate bool) {
	for c := 0; c < channels; c++ {
		v := src[(b*entities+e)*channels+c]
		o := (b*channels+c)*cells + cell
		if accumulate {
			dst[o] += v
		} else {
			dst[o] = v
		}
	}
}
