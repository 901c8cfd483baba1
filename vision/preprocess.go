// MODUL: preprocess
// ZWECK: Resize -> planare Extraktion -> mean/std Normalisierung
// INPUT: SourceImage, Zielbreite, Zielhoehe
// OUTPUT: Tensor [1, 3, H, W] float64
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: image (Standardbibliothek)
// HINWEISE: Zustandslos, parallel auf unabhaengigen Eingaben nutzbar

package vision

import (
	"fmt"
	"image"
)

// Normalizer wandelt Bilder in normalisierte Tensoren um. Erzeugt wird er mit
// NewNormalizer; der Nullwert Normalizer{} verhaelt sich wie NewNormalizer()
// ohne Optionen, also ImageNet mean/std und native Reihenfolge.
type Normalizer struct {
	params NormalizationParams
	output ChannelOrder
}

// defaultNormalizer nutzt ImageNet-Werte und die Reihenfolge des Puffers
var defaultNormalizer = &Normalizer{params: ImageNet}

// NewNormalizer erstellt einen Normalizer. Ohne Optionen gelten ImageNet mean/std.
func NewNormalizer(opts ...Option) (*Normalizer, error) {
	o := normalizerOptions{params: ImageNet, output: OutputNative}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	if err := o.params.Validate(); err != nil {
		return nil, err
	}

	if o.output != OutputNative && (!o.output.Valid() || o.output.BytesPerPixel() != 3) {
		return nil, fmt.Errorf("ungueltige Ausgabe-Reihenfolge: %q", o.output)
	}

	return &Normalizer{params: o.params, output: o.output}, nil
}

// Params gibt die verwendeten mean/std Werte zurueck
func (n *Normalizer) Params() NormalizationParams {
	if n.params == (NormalizationParams{}) {
		return ImageNet
	}
	return n.params
}

// Preprocess skaliert das Bild mit den ImageNet-Standardwerten auf WxH und normalisiert es
func Preprocess(src SourceImage, width, height int) (*Tensor, error) {
	return defaultNormalizer.Preprocess(src, width, height)
}

// PreprocessImage ist Preprocess fuer ein dekodiertes Bild mit bilinearem Resize
func PreprocessImage(img image.Image, width, height int) (*Tensor, error) {
	return defaultNormalizer.Preprocess(FromImage(img), width, height)
}

// Preprocess skaliert src auf width x height, extrahiert die Farbkanaele planar
// nach [0,1] und normalisiert sie. Fehler wrappen ErrAllocation, ErrResize oder
// ErrDecode; im Fehlerfall wird kein Tensor zurueckgegeben.
func (n *Normalizer) Preprocess(src SourceImage, width, height int) (*Tensor, error) {
	if err := validateShape(width, height); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no source image", ErrResize)
	}

	buf, err := src.Resize(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResize, err)
	}
	if buf == nil {
		return nil, fmt.Errorf("%w: resizer returned no buffer", ErrResize)
	}
	if buf.Width != width || buf.Height != height {
		return nil, fmt.Errorf("%w: got %dx%d buffer, want %dx%d", ErrResize, buf.Width, buf.Height, width, height)
	}

	t, err := n.Extract(buf)
	if err != nil {
		return nil, err
	}

	Normalize(t, n.Params())
	return t, nil
}

// Extract liest die drei Farbkanaele aus dem Puffer in einen planaren Tensor
// mit Werten b/255. Alpha wird ignoriert.
func (n *Normalizer) Extract(buf *PixelBuffer) (*Tensor, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: no pixel buffer", ErrDecode)
	}
	if err := validateShape(buf.Width, buf.Height); err != nil {
		return nil, err
	}
	if err := buf.validate(); err != nil {
		return nil, err
	}

	order := buf.Order.Colors()
	offsets := buf.Order.colorOffsets()
	if n.output != OutputNative {
		order = n.output
		for c := 0; c < 3; c++ {
			offsets[c] = buf.Order.Offset(n.output[c])
		}
	}

	t, err := newTensor(buf.Width, buf.Height, order)
	if err != nil {
		return nil, err
	}

	plane := buf.Width * buf.Height
	bpp := buf.Order.BytesPerPixel()
	stride := buf.RowStride()

	for y := 0; y < buf.Height; y++ {
		row := y * stride
		for x := 0; x < buf.Width; x++ {
			px := row + x*bpp
			idx := y*buf.Width + x
			for c := 0; c < 3; c++ {
				t.Data[c*plane+idx] = float64(buf.Pix[px+offsets[c]]) / 255.0
			}
		}
	}

	return t, nil
}

// validateShape prueft die Zielgroesse bevor etwas alloziert wird
func validateShape(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid shape [1 3 %d %d]", ErrAllocation, height, width)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: shape [1 3 %d %d] exceeds %d", ErrAllocation, height, width, MaxDimension)
	}
	return nil
}
