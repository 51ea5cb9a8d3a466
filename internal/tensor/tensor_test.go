package tensor

import (
	"math"
	"testing"
)

func TestNewRawZeroInitialized(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	for i, v := range raw.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d = %v, want 0", i, v)
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, -1}, Float32, CPU); err == nil {
		t.Error("expected error for negative dimension")
	}
}

func TestRawTensorAsFloat32ZeroCopy(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Float32, CPU)
	data := raw.AsFloat32()

	if len(data) != 6 {
		t.Errorf("AsFloat32 length = %d, want 6", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsFloat32()[0] != 42 {
		t.Error("AsFloat32 should return zero-copy slice")
	}
}

func TestRawTensorAsInt32DTypeMismatch(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32, CPU)
	defer func() {
		if recover() == nil {
			t.Error("AsInt32 on a float32 tensor should panic")
		}
	}()
	raw.AsInt32()
}

func TestRawTensorClone(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 2}, Float64, CPU)
	raw.AsFloat64()[0] = 1.5

	clone := raw.Clone()
	clone.AsFloat64()[0] = 99

	if raw.AsFloat64()[0] != 1.5 {
		t.Error("Clone should not share memory with the original")
	}
	if !clone.Shape().Equal(raw.Shape()) {
		t.Errorf("clone shape = %v, want %v", clone.Shape(), raw.Shape())
	}
}

func TestFromSlice(t *testing.T) {
	backend := NewMockBackend()
	data := []float32{1, 2, 3, 4, 5, 6}

	x, err := FromSlice(data, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if x.At(1, 2) != 6 {
		t.Errorf("At(1, 2) = %v, want 6", x.At(1, 2))
	}

	// The slice is copied, not aliased.
	data[0] = 100
	if x.At(0, 0) != 1 {
		t.Error("FromSlice should copy input data")
	}
}

func TestFromSliceLengthMismatch(t *testing.T) {
	backend := NewMockBackend()
	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 3}, backend); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestTensorSetAt(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float32](Shape{3, 4}, backend)

	x.Set(2.5, 1, 2)
	if got := x.At(1, 2); got != 2.5 {
		t.Errorf("At(1, 2) = %v, want 2.5", got)
	}
	if got := x.At(2, 1); got != 0 {
		t.Errorf("At(2, 1) = %v, want 0", got)
	}
}

func TestTensorAtOutOfBounds(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float32](Shape{2, 2}, backend)

	defer func() {
		if recover() == nil {
			t.Error("out-of-bounds At should panic")
		}
	}()
	x.At(2, 0)
}

func TestFull(t *testing.T) {
	backend := NewMockBackend()
	x := Full[int32](Shape{2, 3}, 7, backend)
	for _, v := range x.Data() {
		if v != 7 {
			t.Errorf("element = %d, want 7", v)
		}
	}
}

func TestRandnStatistics(t *testing.T) {
	backend := NewMockBackend()
	x := Randn[float64](Shape{100, 100}, backend)

	var sum float64
	for _, v := range x.Data() {
		sum += v
	}
	mean := sum / float64(x.NumElements())
	if math.Abs(mean) > 0.1 {
		t.Errorf("sample mean = %v, want ~0", mean)
	}
}

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		want  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Float16, 2},
		{Int32, 4},
		{Int64, 8},
	}
	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.want {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.want)
		}
	}
}

func TestDataTypeIsFloat(t *testing.T) {
	for _, dt := range []DataType{Float32, Float64, Float16} {
		if !dt.IsFloat() {
			t.Errorf("%s.IsFloat() = false, want true", dt)
		}
	}
	for _, dt := range []DataType{Int32, Int64} {
		if dt.IsFloat() {
			t.Errorf("%s.IsFloat() = true, want false", dt)
		}
	}
}

func TestFloat16RoundTrip(t *testing.T) {
	values := []float32{0, 1, -1, 0.5, 2048, -0.25}
	for _, v := range values {
		bits := Float16FromFloat32(v)
		if got := Float16ToFloat32(bits); got != v {
			t.Errorf("round trip of %v = %v", v, got)
		}
	}

	// Values outside half precision lose detail but stay close.
	v := float32(1.0001)
	got := Float16ToFloat32(Float16FromFloat32(v))
	if math.Abs(float64(got-v)) > 0.001 {
		t.Errorf("1.0001 round trip = %v, too far", got)
	}
}
