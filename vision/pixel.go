// MODUL: pixel
// ZWECK: Interleaved 8-Bit Pixelpuffer mit deklarierter Kanal-Reihenfolge
// INPUT: Rohbytes vom Resize-Schritt
// OUTPUT: PixelBuffer, Kanal-Offsets
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: keine (nur Standardbibliothek)
// HINWEISE: Alpha wird bei der Extraktion ignoriert, nur die drei Farbkanaele zaehlen

package vision

import (
	"fmt"
	"strings"
)

// ChannelOrder beschreibt die Byte-Reihenfolge eines Pixels
type ChannelOrder string

const (
	OrderRGBA ChannelOrder = "RGBA"
	OrderBGRA ChannelOrder = "BGRA"
	OrderARGB ChannelOrder = "ARGB"
	OrderRGB  ChannelOrder = "RGB"
	OrderBGR  ChannelOrder = "BGR"
)

// ParseChannelOrder parst eine Reihenfolge case-insensitiv
func ParseChannelOrder(s string) (ChannelOrder, error) {
	o := ChannelOrder(strings.ToUpper(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("unbekannte Kanal-Reihenfolge: %q", s)
	}
	return o, nil
}

// Valid meldet ob die Reihenfolge bekannt ist
func (o ChannelOrder) Valid() bool {
	switch o {
	case OrderRGBA, OrderBGRA, OrderARGB, OrderRGB, OrderBGR:
		return true
	}
	return false
}

// BytesPerPixel gibt die Anzahl Bytes pro Pixel zurueck
func (o ChannelOrder) BytesPerPixel() int {
	return len(o)
}

// Colors gibt die Reihenfolge der drei Farbkanaele ohne Alpha zurueck
// (BGRA -> BGR, ARGB -> RGB)
func (o ChannelOrder) Colors() ChannelOrder {
	return ChannelOrder(strings.ReplaceAll(string(o), "A", ""))
}

// Offset gibt den Byte-Offset eines Kanals ('R', 'G', 'B', 'A') innerhalb
// eines Pixels zurueck, -1 wenn der Kanal fehlt
func (o ChannelOrder) Offset(channel byte) int {
	return strings.IndexByte(string(o), channel)
}

// colorOffsets gibt die Offsets der Farbkanaele in deklarierter Reihenfolge zurueck
func (o ChannelOrder) colorOffsets() [3]int {
	var offsets [3]int
	colors := o.Colors()
	for i := 0; i < 3; i++ {
		offsets[i] = o.Offset(colors[i])
	}
	return offsets
}

func (o ChannelOrder) String() string {
	return string(o)
}

// PixelBuffer ist ein row-major, interleaved Puffer mit 8 Bit pro Kanal
type PixelBuffer struct {
	Pix    []byte
	Width  int
	Height int
	// Stride ist der Abstand zweier Zeilen in Bytes, 0 bedeutet Width*BytesPerPixel
	Stride int
	Order  ChannelOrder
}

// RowStride gibt den effektiven Zeilenabstand zurueck
func (b *PixelBuffer) RowStride() int {
	if b.Stride > 0 {
		return b.Stride
	}
	return b.Width * b.Order.BytesPerPixel()
}

// validate prueft ob der Puffer gelesen werden kann
func (b *PixelBuffer) validate() error {
	if b.Pix == nil {
		return fmt.Errorf("%w: pixel data is nil", ErrDecode)
	}
	if !b.Order.Valid() {
		return fmt.Errorf("%w: unknown channel order %q", ErrDecode, b.Order)
	}

	bpp := b.Order.BytesPerPixel()
	stride := b.RowStride()
	if stride < b.Width*bpp {
		return fmt.Errorf("%w: stride %d smaller than row of %d bytes", ErrDecode, stride, b.Width*bpp)
	}

	// Die letzte Zeile darf kuerzer als Stride sein
	need := (b.Height-1)*stride + b.Width*bpp
	if len(b.Pix) < need {
		return fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrDecode, len(b.Pix), need)
	}
	return nil
}

// swizzle kopiert den Puffer in eine andere Reihenfolge mit dichter Zeilenlaenge.
// Fehlt Alpha in der Quelle, wird 0xff geschrieben.
func (b *PixelBuffer) swizzle(to ChannelOrder) *PixelBuffer {
	if to == b.Order && b.RowStride() == b.Width*b.Order.BytesPerPixel() {
		return b
	}

	srcBpp, dstBpp := b.Order.BytesPerPixel(), to.BytesPerPixel()
	out := &PixelBuffer{
		Pix:    make([]byte, b.Width*b.Height*dstBpp),
		Width:  b.Width,
		Height: b.Height,
		Order:  to,
	}

	var mapping [4]int
	for i := 0; i < dstBpp; i++ {
		mapping[i] = b.Order.Offset(to[i])
	}

	stride := b.RowStride()
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			src := y*stride + x*srcBpp
			dst := (y*b.Width + x) * dstBpp
			for i := 0; i < dstBpp; i++ {
				if mapping[i] < 0 {
					out.Pix[dst+i] = 0xff
					continue
				}
				out.Pix[dst+i] = b.Pix[src+mapping[i]]
			}
		}
	}
	return out
}
