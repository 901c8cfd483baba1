// MODUL: stats_test
// ZWECK: Tests fuer Kanal-Statistiken und Parameter-Schaetzung
// INPUT: Handgebaute Tensoren, einfarbige Bilder
// OUTPUT: Testresultate
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: testing
// HINWEISE: keine

package vision

import (
	"image/color"
	"math"
	"testing"
)

func TestChannelStats(t *testing.T) {
	tt := &Tensor{
		Data: []float64{
			0, 1, 0, 1, // R
			0.5, 0.5, 0.5, 0.5, // G
			-1, 1, -1, 1, // B
		},
		Width:  2,
		Height: 2,
		Order:  OrderRGB,
	}

	want := [3]Stats{
		{Mean: 0.5, StdDev: 0.5, Min: 0, Max: 1},
		{Mean: 0.5, StdDev: 0, Min: 0.5, Max: 0.5},
		{Mean: 0, StdDev: 1, Min: -1, Max: 1},
	}

	got := ChannelStats(tt)
	for c := range want {
		if math.Abs(got[c].Mean-want[c].Mean) > 1e-12 ||
			math.Abs(got[c].StdDev-want[c].StdDev) > 1e-12 ||
			got[c].Min != want[c].Min || got[c].Max != want[c].Max {
			t.Errorf("Kanal %d = %+v, erwartet %+v", c, got[c], want[c])
		}
	}
}

func TestEstimateParams(t *testing.T) {
	n, err := NewNormalizer(WithPreset(PresetNone))
	if err != nil {
		t.Fatal(err)
	}

	black, err := n.Preprocess(FromImage(createTestImage(2, 2, color.Black)), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	white, err := n.Preprocess(FromImage(createTestImage(2, 2, color.White)), 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	p, err := EstimateParams(black, white)
	if err != nil {
		t.Fatal(err)
	}

	for c := 0; c < 3; c++ {
		if math.Abs(p.Mean[c]-0.5) > 1e-12 || math.Abs(p.Std[c]-0.5) > 1e-12 {
			t.Errorf("Kanal %d: mean=%v std=%v, erwartet 0.5/0.5", c, p.Mean[c], p.Std[c])
		}
	}

	// Mit den geschaetzten Werten normalisiert liegt Schwarz bei -1
	est, err := NewNormalizer(WithParams(p))
	if err != nil {
		t.Fatal(err)
	}
	norm, err := est.Preprocess(FromImage(createTestImage(1, 1, color.Black)), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(norm.At(0, 0, 0)+1) > 1e-12 {
		t.Errorf("Schwarz = %v, erwartet -1", norm.At(0, 0, 0))
	}
}

func TestEstimateParamsErrors(t *testing.T) {
	if _, err := EstimateParams(); err == nil {
		t.Error("Erwartet Fehler ohne Tensoren")
	}

	bgr := sampleTensor()
	bgr.Order = OrderBGR
	if _, err := EstimateParams(sampleTensor(), bgr); err == nil {
		t.Error("Erwartet Fehler bei gemischter Reihenfolge")
	}
}
