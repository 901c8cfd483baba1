// MODUL: types
// ZWECK: REST API Types fuer /api/preprocess und /api/preprocess/batch
// INPUT: Keine (Type-Definitionen)
// OUTPUT: Strukturierte Request/Response Types
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: vision (intern)
// HINWEISE: Nullwerte in Requests werden durch envconfig-Defaults ersetzt

package server

import (
	"time"

	"github.com/ollama/imagenorm/vision"
)

// ============================================================================
// Request Types
// ============================================================================

// PreprocessOptions sind die gemeinsamen Parameter beider Endpoints
type PreprocessOptions struct {
	// Width und Height sind die Zielgroesse, 0 bedeutet IMAGENORM_WIDTH/HEIGHT
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Preset ist imagenet, standard, clip oder none
	Preset string `json:"preset,omitempty"`

	// Mean und Std ueberschreiben das Preset, wenn beide gesetzt sind
	Mean *[3]float64 `json:"mean,omitempty"`
	Std  *[3]float64 `json:"std,omitempty"`

	// Order ist native, RGB oder BGR
	Order string `json:"order,omitempty"`

	// Interpolation ist nearest, approx-bilinear, bilinear oder catmull-rom
	Interpolation string `json:"interpolation,omitempty"`

	// DType ist f32 (Default) oder f64
	DType string `json:"dtype,omitempty"`
}

// PreprocessRequest - Anfrage fuer ein einzelnes Bild.
// Endpoint: POST /api/preprocess
type PreprocessRequest struct {
	// Image ist das Base64-kodierte Bild
	Image string `json:"image"`

	// Stats fordert Kanal-Statistiken des Ergebnisses an
	Stats bool `json:"stats,omitempty"`

	PreprocessOptions
}

// BatchRequest - Anfrage fuer mehrere Bilder.
// Endpoint: POST /api/preprocess/batch
type BatchRequest struct {
	// Images ist die Liste von Base64-kodierten Bildern
	Images []string `json:"images"`

	PreprocessOptions
}

// ============================================================================
// Response Types
// ============================================================================

// PreprocessResponse - planarer Tensor [N,3,H,W] als flaches Array
type PreprocessResponse struct {
	ID    string              `json:"id"`
	Shape []int               `json:"shape"`
	Order vision.ChannelOrder `json:"order"`
	DType vision.DType        `json:"dtype"`

	// Data ist []float32 oder []float64 je nach DType
	Data any `json:"data"`

	Params vision.NormalizationParams `json:"params"`

	// Stats enthaelt je Kanal Mittelwert, Standardabweichung, Minimum und Maximum
	Stats []vision.Stats `json:"stats,omitempty"`

	TotalDuration time.Duration `json:"total_duration,omitempty"`
}
