// MODUL: normalize
// ZWECK: Kanalweise mean/std Normalisierung planarer Tensoren
// INPUT: Tensor im [1,3,H,W] Layout, NormalizationParams
// OUTPUT: In-place normalisierter Tensor
// NEBENEFFEKTE: ueberschreibt Tensor.Data
// ABHAENGIGKEITEN: math, strings (Standardbibliothek)
// HINWEISE: Kanal eines Elements ist i / (H*W), nicht i % 3

package vision

import (
	"fmt"
	"math"
	"strings"
)

// NormalizationParams enthaelt mean und std je Farbkanal
type NormalizationParams struct {
	Mean [3]float64 `json:"mean"`
	Std  [3]float64 `json:"std"`
}

// Standard-Normalisierungswerte fuer verschiedene Modelle
var (
	// ImageNet Default (ResNet, EfficientNet, etc.)
	ImageNet = NormalizationParams{
		Mean: [3]float64{0.485, 0.456, 0.406},
		Std:  [3]float64{0.229, 0.224, 0.225},
	}

	// Normalisiert auf [-1, 1]
	Standard = NormalizationParams{
		Mean: [3]float64{0.5, 0.5, 0.5},
		Std:  [3]float64{0.5, 0.5, 0.5},
	}

	// CLIP Default
	CLIP = NormalizationParams{
		Mean: [3]float64{0.48145466, 0.4578275, 0.40821073},
		Std:  [3]float64{0.26862954, 0.26130258, 0.27577711},
	}

	// Keine Normalisierung (nur Skalierung auf [0,1])
	NoNorm = NormalizationParams{
		Mean: [3]float64{0, 0, 0},
		Std:  [3]float64{1, 1, 1},
	}
)

// Preset-Namen fuer CLI, Server und Environment
const (
	PresetImageNet = "imagenet"
	PresetStandard = "standard"
	PresetCLIP     = "clip"
	PresetNone     = "none"
)

// ParsePreset gibt die Parameter eines benannten Presets zurueck
func ParsePreset(name string) (NormalizationParams, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PresetImageNet, "":
		return ImageNet, nil
	case PresetStandard:
		return Standard, nil
	case PresetCLIP:
		return CLIP, nil
	case PresetNone:
		return NoNorm, nil
	}
	return NormalizationParams{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidParams, name)
}

// Validate prueft dass alle Werte endlich sind, std nicht 0 ist und
// (v - mean) / std fuer jedes v in [0,1] auch als float32 endlich bleibt
func (p NormalizationParams) Validate() error {
	for c := 0; c < 3; c++ {
		if math.IsNaN(p.Mean[c]) || math.IsInf(p.Mean[c], 0) {
			return fmt.Errorf("%w: mean[%d] = %v", ErrInvalidParams, c, p.Mean[c])
		}
		if p.Std[c] == 0 || math.IsNaN(p.Std[c]) || math.IsInf(p.Std[c], 0) {
			return fmt.Errorf("%w: std[%d] = %v", ErrInvalidParams, c, p.Std[c])
		}

		// Die Extremwerte liegen bei v = 0 und v = 1
		for _, v := range [2]float64{0, 1} {
			if x := (v - p.Mean[c]) / p.Std[c]; !inFloat32Range(x) {
				return fmt.Errorf("%w: (%v - mean[%d]) / std[%d] = %v overflows", ErrInvalidParams, v, c, c, x)
			}
		}
	}
	return nil
}

// inFloat32Range meldet ob x endlich ist und ohne Ueberlauf nach float32 passt
func inFloat32Range(x float64) bool {
	return !math.IsNaN(x) && math.Abs(x) <= math.MaxFloat32
}

// Normalize wendet (v - mean[c]) / std[c] in-place auf den Tensor an
func Normalize(t *Tensor, p NormalizationParams) {
	plane := t.Height * t.Width
	if plane == 0 {
		return
	}

	for i, v := range t.Data {
		c := (i / plane) % 3
		t.Data[i] = (v - p.Mean[c]) / p.Std[c]
	}
}
