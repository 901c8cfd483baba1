// MODUL: source
// ZWECK: Abstraktion der Bildquelle und austauschbare Resize-Strategien
// INPUT: image.Image, Zielgroesse, Interpolationsverfahren
// OUTPUT: PixelBuffer in Zielgroesse mit deklarierter Kanal-Reihenfolge
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: golang.org/x/image/draw (extern)
// HINWEISE: Gleich grosse Quellen werden exakt kopiert statt resampled

package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// SourceImage ist eine Bildquelle, die sich auf WxH skalieren laesst und dabei
// einen rohen Pixelpuffer liefert.
type SourceImage interface {
	Resize(width, height int) (*PixelBuffer, error)
}

// SourceFunc erlaubt eine einfache Funktion als SourceImage
type SourceFunc func(width, height int) (*PixelBuffer, error)

// Resize implementiert SourceImage
func (f SourceFunc) Resize(width, height int) (*PixelBuffer, error) {
	return f(width, height)
}

// Resizer ist eine Strategie zum Skalieren eines dekodierten Bildes
type Resizer interface {
	Resize(img image.Image, width, height int) (*PixelBuffer, error)
}

// ResizerFunc erlaubt eine einfache Funktion als Resizer
type ResizerFunc func(img image.Image, width, height int) (*PixelBuffer, error)

// Resize implementiert Resizer
func (f ResizerFunc) Resize(img image.Image, width, height int) (*PixelBuffer, error) {
	return f(img, width, height)
}

// ============================================================================
// Interpolation
// ============================================================================

// Interpolation waehlt den Resampling-Kernel
type Interpolation string

const (
	InterpolationNearest        Interpolation = "nearest"
	InterpolationApproxBilinear Interpolation = "approx-bilinear"
	InterpolationBilinear       Interpolation = "bilinear"
	InterpolationCatmullRom     Interpolation = "catmull-rom"
)

// ParseInterpolation parst einen Kernel-Namen
func ParseInterpolation(s string) (Interpolation, error) {
	switch i := Interpolation(strings.ToLower(strings.TrimSpace(s))); i {
	case InterpolationNearest, InterpolationApproxBilinear, InterpolationBilinear, InterpolationCatmullRom:
		return i, nil
	case "":
		return InterpolationBilinear, nil
	}
	return "", fmt.Errorf("unbekannte Interpolation: %q", s)
}

func (i Interpolation) interpolator() draw.Interpolator {
	switch i {
	case InterpolationNearest:
		return draw.NearestNeighbor
	case InterpolationApproxBilinear:
		return draw.ApproxBiLinear
	case InterpolationCatmullRom:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// ============================================================================
// DrawResizer
// ============================================================================

// DrawResizer skaliert mit golang.org/x/image/draw in einen RGBA Puffer und
// ordnet die Bytes anschliessend in Order um.
//
// image.RGBA speichert vormultipliziertes Alpha: halbtransparente Pixel
// liefern abgedunkelte Farbbytes statt der Rohwerte des Quellbildes. Wer die
// Farben gegen einen Hintergrund braucht, setzt WithBackground.
type DrawResizer struct {
	Interpolation Interpolation
	// Order ist die Reihenfolge des Ergebnispuffers, leer bedeutet RGBA
	Order ChannelOrder
}

// Resize implementiert Resizer
func (r DrawResizer) Resize(img image.Image, width, height int) (*PixelBuffer, error) {
	if img == nil {
		return nil, errors.New("kein Bild")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ungueltige Groesse: %dx%d", width, height)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("leeres Bild: %v", bounds)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if bounds.Dx() == width && bounds.Dy() == height {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	} else {
		r.Interpolation.interpolator().Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	}

	buf := &PixelBuffer{
		Pix:    dst.Pix,
		Width:  width,
		Height: height,
		Stride: dst.Stride,
		Order:  OrderRGBA,
	}

	if r.Order != "" && r.Order != OrderRGBA {
		if !r.Order.Valid() {
			return nil, fmt.Errorf("unbekannte Kanal-Reihenfolge: %q", r.Order)
		}
		buf = buf.swizzle(r.Order)
	}
	return buf, nil
}

// ============================================================================
// image.Image als SourceImage
// ============================================================================

// SourceOption ist eine funktionale Option fuer FromImage
type SourceOption func(*imageSource)

// WithResizer setzt die Resize-Strategie
func WithResizer(r Resizer) SourceOption {
	return func(s *imageSource) {
		if r != nil {
			s.resizer = r
		}
	}
}

// WithInterpolation setzt den Kernel des Standard-Resizers
func WithInterpolation(i Interpolation) SourceOption {
	return func(s *imageSource) {
		s.resizer = DrawResizer{Interpolation: i}
	}
}

// WithBackground legt das Bild vor dem Resize auf eine Hintergrundfarbe
func WithBackground(c color.Color) SourceOption {
	return func(s *imageSource) {
		s.background = c
	}
}

type imageSource struct {
	img        image.Image
	resizer    Resizer
	background color.Color
}

// FromImage macht aus einem dekodierten Bild eine SourceImage.
// Standard ist bilineares Resampling in einen RGBA Puffer.
func FromImage(img image.Image, opts ...SourceOption) SourceImage {
	s := &imageSource{
		img:     img,
		resizer: DrawResizer{Interpolation: InterpolationBilinear},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resize implementiert SourceImage
func (s *imageSource) Resize(width, height int) (*PixelBuffer, error) {
	img := s.img
	if img != nil && s.background != nil {
		img = CompositeWithColor(img, s.background)
	}
	return s.resizer.Resize(img, width, height)
}
