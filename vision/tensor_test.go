// MODUL: tensor_test
// ZWECK: Tests fuer Tensor-Zugriff und Export
// INPUT: Kleine handgebaute Tensoren
// OUTPUT: Testresultate
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: testing, pdevine/tensor, x448/float16, d4l3k/go-bfloat16
// HINWEISE: keine

package vision

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/d4l3k/go-bfloat16"
	"github.com/google/go-cmp/cmp"
	"github.com/pdevine/tensor"
	"github.com/x448/float16"
)

// sampleTensor erzeugt einen 2x3 Tensor mit fortlaufenden Werten
func sampleTensor() *Tensor {
	t := &Tensor{Data: make([]float64, 18), Width: 3, Height: 2, Order: OrderRGB}
	for i := range t.Data {
		t.Data[i] = float64(i) * 0.5
	}
	return t
}

func TestTensorAtAndPlane(t *testing.T) {
	tt := sampleTensor()

	// [0, c, y, x] = ((c*H + y) * W + x) * 0.5
	if got := tt.At(1, 1, 2); got != float64((1*2+1)*3+2)*0.5 {
		t.Errorf("At(1,1,2) = %v", got)
	}

	if diff := cmp.Diff([]float64{6, 6.5, 7, 7.5, 8, 8.5}, tt.Plane(2)); diff != "" {
		t.Errorf("Plane(2) mismatch (-want +got):\n%s", diff)
	}
}

func TestTensorFloat32(t *testing.T) {
	tt := sampleTensor()
	f32s := tt.Float32()

	if len(f32s) != tt.Len() {
		t.Fatalf("len = %d, erwartet %d", len(f32s), tt.Len())
	}
	for i, v := range f32s {
		if v != float32(tt.Data[i]) {
			t.Errorf("[%d] = %v, erwartet %v", i, v, tt.Data[i])
		}
	}
}

func TestTensorFloat16(t *testing.T) {
	tt := &Tensor{Data: []float64{-2.1179, 0, 2.2489}, Width: 1, Height: 1, Order: OrderRGB}

	for i, f := range tt.Float16() {
		if math.Abs(float64(f.Float32())-tt.Data[i]) > 2e-3 {
			t.Errorf("[%d] = %v, erwartet ~%v", i, f.Float32(), tt.Data[i])
		}
	}
}

func TestTensorDense(t *testing.T) {
	tt := sampleTensor()
	d := tt.Dense()

	if !d.Shape().Eq(tensor.Shape{1, 3, 2, 3}) {
		t.Errorf("Shape = %v, erwartet (1, 3, 2, 3)", d.Shape())
	}

	v, err := d.At(0, 2, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v.(float64) != tt.At(2, 1, 0) {
		t.Errorf("At(0,2,1,0) = %v, erwartet %v", v, tt.At(2, 1, 0))
	}
}

func TestStack(t *testing.T) {
	a, b := sampleTensor(), sampleTensor()
	b.Data[0] = 42

	d, err := Stack([]*Tensor{a, b})
	if err != nil {
		t.Fatal(err)
	}

	if !d.Shape().Eq(tensor.Shape{2, 3, 2, 3}) {
		t.Errorf("Shape = %v, erwartet (2, 3, 2, 3)", d.Shape())
	}

	v, err := d.At(1, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v.(float64) != 42 {
		t.Errorf("At(1,0,0,0) = %v, erwartet 42", v)
	}
}

func TestStackMismatch(t *testing.T) {
	small := &Tensor{Data: make([]float64, 3), Width: 1, Height: 1, Order: OrderRGB}
	bgr := sampleTensor()
	bgr.Order = OrderBGR

	if _, err := Stack(nil); err == nil {
		t.Error("Erwartet Fehler bei leerem Stack")
	}
	if _, err := Stack([]*Tensor{sampleTensor(), small}); err == nil {
		t.Error("Erwartet Fehler bei unterschiedlicher Form")
	}
	if _, err := Stack([]*Tensor{sampleTensor(), bgr}); err == nil {
		t.Error("Erwartet Fehler bei unterschiedlicher Reihenfolge")
	}
}

func TestTensorEncode(t *testing.T) {
	tt := sampleTensor()

	for _, dtype := range []DType{DTypeF64, DTypeF32, DTypeF16, DTypeBF16} {
		t.Run(string(dtype), func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.Encode(&buf, dtype); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			if buf.Len() != tt.Len()*dtype.Size() {
				t.Fatalf("%d Bytes, erwartet %d", buf.Len(), tt.Len()*dtype.Size())
			}

			raw := buf.Bytes()
			var last float64
			switch dtype {
			case DTypeF64:
				last = math.Float64frombits(binary.LittleEndian.Uint64(raw[len(raw)-8:]))
			case DTypeF32:
				last = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[len(raw)-4:])))
			case DTypeF16:
				last = float64(float16.Frombits(binary.LittleEndian.Uint16(raw[len(raw)-2:])).Float32())
			case DTypeBF16:
				last = float64(bfloat16.DecodeFloat32(raw[len(raw)-2:])[0])
			}

			if last != tt.Data[len(tt.Data)-1] {
				t.Errorf("letzter Wert = %v, erwartet %v", last, tt.Data[len(tt.Data)-1])
			}
		})
	}

	if err := tt.Encode(&bytes.Buffer{}, DType("int8")); err == nil {
		t.Error("Erwartet Fehler bei unbekanntem Datentyp")
	}
}

func TestParseDType(t *testing.T) {
	tests := map[string]DType{
		"":         DTypeF32,
		"float32":  DTypeF32,
		"F64":      DTypeF64,
		"half":     DTypeF16,
		"bfloat16": DTypeBF16,
	}

	for in, want := range tests {
		got, err := ParseDType(in)
		if err != nil || got != want {
			t.Errorf("ParseDType(%q) = %q, %v, erwartet %q", in, got, err, want)
		}
	}

	if _, err := ParseDType("int4"); err == nil {
		t.Error("Erwartet Fehler bei int4")
	}
}
