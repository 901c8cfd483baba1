// MODUL: image
// ZWECK: Bild-Ladefunktionen fuer die Tensor-Normalisierung
// INPUT: Dateipfad, Bytes oder io.Reader
// OUTPUT: ImageInput Struktur mit dekodiertem Bild
// NEBENEFFEKTE: Dateisystem-Lesezugriff bei LoadImage
// ABHAENGIGKEITEN: golang.org/x/image/{draw,webp,bmp,tiff} (extern), image/jpeg, image/png, image/gif
// HINWEISE: Das dekodierte Bild bleibt unveraendert, konvertiert wird erst beim Resize

package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	// Standard-Decoder registrieren
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageInput enthaelt ein dekodiertes Bild mit Metadaten
type ImageInput struct {
	Image  image.Image
	Width  int
	Height int
	Format ImageFormat
}

// LoadImage laedt ein Bild von einem Dateipfad
func LoadImage(path string) (*ImageInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datei lesen fehlgeschlagen: %w", err)
	}
	return LoadImageFromBytes(data)
}

// MaxDecodePixels ist die Pixelgrenze von LoadImageFromBytes
const MaxDecodePixels = 64 << 20

// LoadImageFromBytes dekodiert ein Bild aus Byte-Daten mit MaxDecodePixels als Grenze
func LoadImageFromBytes(data []byte) (*ImageInput, error) {
	return LoadImageFromBytesLimit(data, MaxDecodePixels)
}

// LoadImageFromBytesLimit dekodiert ein Bild aus Byte-Daten. Die Groesse wird
// vorher aus dem Header gelesen; Bilder mit mehr als maxPixels Pixeln werden
// mit ErrAllocation abgelehnt ohne dass Pixeldaten dekodiert werden.
func LoadImageFromBytesLimit(data []byte, maxPixels uint64) (*ImageInput, error) {
	format := DetectFormat(data)
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bild-header lesen fehlgeschlagen: %w", err)
	}
	if cfg.Width < 0 || cfg.Height < 0 || uint64(cfg.Width)*uint64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: image is %dx%d, limit is %d pixels", ErrAllocation, cfg.Width, cfg.Height, maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bild dekodieren fehlgeschlagen: %w", err)
	}

	bounds := img.Bounds()
	return &ImageInput{
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
	}, nil
}

// DecodeImage dekodiert ein Bild aus einem io.Reader
func DecodeImage(reader io.Reader) (*ImageInput, error) {
	// Erst Daten puffern fuer Format-Erkennung
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("daten lesen fehlgeschlagen: %w", err)
	}
	return LoadImageFromBytes(data)
}

// Source gibt das Bild als SourceImage mit den gegebenen Optionen zurueck
func (img *ImageInput) Source(opts ...SourceOption) SourceImage {
	return FromImage(img.Image, opts...)
}

// Composite entfernt den Alpha-Kanal durch weissen Hintergrund
func Composite(img image.Image) *image.RGBA {
	return CompositeWithColor(img, color.White)
}

// CompositeWithColor entfernt den Alpha-Kanal mit gegebener Hintergrundfarbe
func CompositeWithColor(img image.Image, bgColor color.Color) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)

	// Hintergrund fuellen
	draw.Draw(dst, bounds, &image.Uniform{bgColor}, image.Point{}, draw.Src)
	// Bild darueber zeichnen
	draw.Draw(dst, bounds, img, bounds.Min, draw.Over)

	return dst
}
