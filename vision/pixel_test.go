// MODUL: pixel_test
// ZWECK: Tests fuer Kanal-Reihenfolgen und Pixelpuffer-Validierung
// INPUT: Synthetische Puffer
// OUTPUT: Testresultate
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: testing, github.com/google/go-cmp/cmp
// HINWEISE: keine

package vision

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChannelOrder(t *testing.T) {
	tests := []struct {
		order   ChannelOrder
		bpp     int
		colors  ChannelOrder
		offsets [3]int
		alpha   int
	}{
		{OrderRGBA, 4, OrderRGB, [3]int{0, 1, 2}, 3},
		{OrderBGRA, 4, OrderBGR, [3]int{0, 1, 2}, 3},
		{OrderARGB, 4, OrderRGB, [3]int{1, 2, 3}, 0},
		{OrderRGB, 3, OrderRGB, [3]int{0, 1, 2}, -1},
		{OrderBGR, 3, OrderBGR, [3]int{0, 1, 2}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			if !tt.order.Valid() {
				t.Fatalf("%s sollte gueltig sein", tt.order)
			}
			if got := tt.order.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, erwartet %d", got, tt.bpp)
			}
			if got := tt.order.Colors(); got != tt.colors {
				t.Errorf("Colors() = %s, erwartet %s", got, tt.colors)
			}
			if got := tt.order.colorOffsets(); got != tt.offsets {
				t.Errorf("colorOffsets() = %v, erwartet %v", got, tt.offsets)
			}
			if got := tt.order.Offset('A'); got != tt.alpha {
				t.Errorf("Offset('A') = %d, erwartet %d", got, tt.alpha)
			}
		})
	}
}

func TestParseChannelOrder(t *testing.T) {
	if o, err := ParseChannelOrder(" bgra "); err != nil || o != OrderBGRA {
		t.Errorf("ParseChannelOrder(bgra) = %q, %v", o, err)
	}
	if _, err := ParseChannelOrder("RGGB"); err == nil {
		t.Error("Erwartet Fehler bei RGGB")
	}
}

func TestPixelBufferValidate(t *testing.T) {
	tests := []struct {
		name    string
		buf     PixelBuffer
		wantErr bool
	}{
		{"dicht", PixelBuffer{Pix: make([]byte, 2*2*4), Width: 2, Height: 2, Order: OrderRGBA}, false},
		{"mit Stride", PixelBuffer{Pix: make([]byte, 16+8), Width: 2, Height: 2, Stride: 16, Order: OrderRGBA}, false},
		{"nil Pix", PixelBuffer{Width: 2, Height: 2, Order: OrderRGBA}, true},
		{"zu kurz", PixelBuffer{Pix: make([]byte, 15), Width: 2, Height: 2, Order: OrderRGBA}, true},
		{"Stride zu klein", PixelBuffer{Pix: make([]byte, 64), Width: 2, Height: 2, Stride: 4, Order: OrderRGBA}, true},
		{"unbekannte Reihenfolge", PixelBuffer{Pix: make([]byte, 16), Width: 2, Height: 2, Order: "YUV"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrDecode) {
				t.Errorf("error = %v, erwartet ErrDecode", err)
			}
		})
	}
}

func TestPixelBufferSwizzle(t *testing.T) {
	// 2x1 RGBA mit Padding am Zeilenende
	buf := &PixelBuffer{
		Pix:    []byte{1, 2, 3, 4, 5, 6, 7, 8, 0, 0},
		Width:  2,
		Height: 1,
		Stride: 10,
		Order:  OrderRGBA,
	}

	tests := []struct {
		to   ChannelOrder
		want []byte
	}{
		{OrderRGBA, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{OrderBGRA, []byte{3, 2, 1, 4, 7, 6, 5, 8}},
		{OrderARGB, []byte{4, 1, 2, 3, 8, 5, 6, 7}},
		{OrderBGR, []byte{3, 2, 1, 7, 6, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.to.String(), func(t *testing.T) {
			out := buf.swizzle(tt.to)
			if out.Order != tt.to {
				t.Errorf("Order = %s, erwartet %s", out.Order, tt.to)
			}
			if diff := cmp.Diff(tt.want, out.Pix); diff != "" {
				t.Errorf("Pix mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("RGB nach RGBA ergaenzt Alpha", func(t *testing.T) {
		rgb := &PixelBuffer{Pix: []byte{9, 8, 7}, Width: 1, Height: 1, Order: OrderRGB}
		if diff := cmp.Diff([]byte{9, 8, 7, 0xff}, rgb.swizzle(OrderRGBA).Pix); diff != "" {
			t.Errorf("Pix mismatch (-want +got):\n%s", diff)
		}
	})
}
