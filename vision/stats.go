// MODUL: stats
// ZWECK: Kanal-Statistiken und Schaetzung von mean/std ueber einen Datensatz
// INPUT: Tensoren
// OUTPUT: Stats je Kanal, NormalizationParams
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: gonum.org/v1/gonum/stat, gonum.org/v1/gonum/floats
// HINWEISE: EstimateParams erwartet unnormalisierte Tensoren (Preset "none")

package vision

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats fasst die Werte einer Tensor-Ebene zusammen
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// ChannelStats berechnet Mittelwert, Standardabweichung, Minimum und Maximum je Kanal
func ChannelStats(t *Tensor) [3]Stats {
	var out [3]Stats
	for c := 0; c < 3; c++ {
		out[c] = planeStats(t.Plane(c))
	}
	return out
}

func planeStats(plane []float64) Stats {
	mean, std := stat.PopMeanStdDev(plane, nil)
	return Stats{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(plane),
		Max:    floats.Max(plane),
	}
}

// EstimateParams schaetzt mean/std je Kanal ueber alle Pixel der Tensoren.
// Alle Tensoren muessen dieselbe Farbreihenfolge haben.
func EstimateParams(ts ...*Tensor) (NormalizationParams, error) {
	if len(ts) == 0 {
		return NormalizationParams{}, errors.New("vision: no tensors to estimate from")
	}

	var p NormalizationParams
	for c := 0; c < 3; c++ {
		var values []float64
		for i, t := range ts {
			if t.Order != ts[0].Order {
				return NormalizationParams{}, fmt.Errorf("vision: tensor %d has order %s, want %s", i, t.Order, ts[0].Order)
			}
			values = append(values, t.Plane(c)...)
		}
		p.Mean[c], p.Std[c] = stat.PopMeanStdDev(values, nil)
	}
	return p, nil
}
