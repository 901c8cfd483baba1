// MODUL: tensor
// ZWECK: Planarer [1,3,H,W] float64 Tensor und Export in andere Datentypen
// INPUT: Tensor-Daten, Ziel-Datentyp
// OUTPUT: float32/float16/bfloat16 Slices, tensor.Dense, Rohbytes
// NEBENEFFEKTE: Encode schreibt in den uebergebenen io.Writer
// ABHAENGIGKEITEN: github.com/pdevine/tensor, github.com/x448/float16, github.com/d4l3k/go-bfloat16
// HINWEISE: Rohexport ist immer little-endian ohne Header

package vision

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/d4l3k/go-bfloat16"
	"github.com/pdevine/tensor"
	"github.com/x448/float16"
)

// MaxDimension ist die groesste erlaubte Breite bzw. Hoehe eines Tensors
const MaxDimension = 16384

// Tensor ist ein Bild-Tensor der Form [1, 3, Height, Width] im Channel-First Layout
type Tensor struct {
	Data   []float64
	Width  int
	Height int
	// Order ist die Farbreihenfolge der drei Ebenen (RGB oder BGR)
	Order ChannelOrder
}

// newTensor legt einen Tensor der Form [1,3,height,width] an
func newTensor(width, height int, order ChannelOrder) (*Tensor, error) {
	if err := validateShape(width, height); err != nil {
		return nil, err
	}

	return &Tensor{
		Data:   make([]float64, 3*width*height),
		Width:  width,
		Height: height,
		Order:  order,
	}, nil
}

// Shape gibt die Form [1, 3, H, W] zurueck
func (t *Tensor) Shape() []int {
	return []int{1, 3, t.Height, t.Width}
}

// Len gibt die Anzahl der Elemente zurueck
func (t *Tensor) Len() int {
	return len(t.Data)
}

// Plane gibt die Ebene eines Kanals als Sub-Slice zurueck
func (t *Tensor) Plane(c int) []float64 {
	size := t.Width * t.Height
	return t.Data[c*size : (c+1)*size]
}

// At gibt den Wert bei [0, c, y, x] zurueck
func (t *Tensor) At(c, y, x int) float64 {
	return t.Data[(c*t.Height+y)*t.Width+x]
}

// Float32 konvertiert die Daten nach float32
func (t *Tensor) Float32() []float32 {
	f32s := make([]float32, len(t.Data))
	for i, v := range t.Data {
		f32s[i] = float32(v)
	}
	return f32s
}

// Float16 konvertiert die Daten nach IEEE 754 half precision
func (t *Tensor) Float16() []float16.Float16 {
	f16s := make([]float16.Float16, len(t.Data))
	for i, v := range t.Data {
		f16s[i] = float16.Fromfloat32(float32(v))
	}
	return f16s
}

// BFloat16 gibt die Daten als little-endian bfloat16 Bytes zurueck
func (t *Tensor) BFloat16() []byte {
	return bfloat16.EncodeFloat32(t.Float32())
}

// Dense gibt den Tensor als *tensor.Dense zurueck. Die Daten werden geteilt.
func (t *Tensor) Dense() *tensor.Dense {
	return tensor.New(tensor.WithShape(t.Shape()...), tensor.WithBacking(t.Data))
}

// Stack fasst gleich grosse Tensoren zu einem [N,3,H,W] Dense zusammen
func Stack(ts []*Tensor) (*tensor.Dense, error) {
	if len(ts) == 0 {
		return nil, errors.New("vision: stack of zero tensors")
	}

	first := ts[0]
	per := first.Len()
	data := make([]float64, 0, per*len(ts))
	for i, t := range ts {
		if t.Width != first.Width || t.Height != first.Height {
			return nil, fmt.Errorf("vision: tensor %d has shape %v, want %v", i, t.Shape(), first.Shape())
		}
		if t.Order != first.Order {
			return nil, fmt.Errorf("vision: tensor %d has order %s, want %s", i, t.Order, first.Order)
		}
		data = append(data, t.Data...)
	}

	return tensor.New(tensor.WithShape(len(ts), 3, first.Height, first.Width), tensor.WithBacking(data)), nil
}

// ============================================================================
// Rohexport
// ============================================================================

// DType ist der Datentyp eines exportierten Tensors
type DType string

const (
	DTypeF64  DType = "f64"
	DTypeF32  DType = "f32"
	DTypeF16  DType = "f16"
	DTypeBF16 DType = "bf16"
)

// ParseDType parst einen Datentyp-Namen
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f64", "float64", "double":
		return DTypeF64, nil
	case "f32", "float32", "float", "":
		return DTypeF32, nil
	case "f16", "float16", "half":
		return DTypeF16, nil
	case "bf16", "bfloat16":
		return DTypeBF16, nil
	}
	return "", fmt.Errorf("unbekannter Datentyp: %q", s)
}

// Size gibt die Bytes pro Element zurueck
func (d DType) Size() int {
	switch d {
	case DTypeF64:
		return 8
	case DTypeF32:
		return 4
	case DTypeF16, DTypeBF16:
		return 2
	}
	return 0
}

// Encode schreibt die Daten little-endian im gegebenen Datentyp
func (t *Tensor) Encode(w io.Writer, dtype DType) error {
	switch dtype {
	case DTypeF64:
		return binary.Write(w, binary.LittleEndian, t.Data)
	case DTypeF32:
		return binary.Write(w, binary.LittleEndian, t.Float32())
	case DTypeF16:
		u16s := make([]uint16, len(t.Data))
		for i, f := range t.Float16() {
			u16s[i] = f.Bits()
		}
		return binary.Write(w, binary.LittleEndian, u16s)
	case DTypeBF16:
		_, err := w.Write(t.BFloat16())
		return err
	}
	return fmt.Errorf("unbekannter Datentyp: %q", dtype)
}

// finite meldet ob alle Werte endlich sind
func (t *Tensor) finite() bool {
	for _, v := range t.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
