// MODUL: options
// ZWECK: Functional Options Pattern fuer die Normalizer-Konfiguration
// INPUT: Optionale Parameter (Normalisierung, Ausgabe-Reihenfolge)
// OUTPUT: normalizerOptions
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: keine
// HINWEISE: Ungueltige Werte werden erst in NewNormalizer gemeldet

package vision

import "strings"

// OutputNative uebernimmt die Farbreihenfolge des Pixelpuffers unveraendert
const OutputNative ChannelOrder = ""

type normalizerOptions struct {
	params NormalizationParams
	output ChannelOrder
	err    error
}

// Option ist eine funktionale Option fuer NewNormalizer
type Option func(*normalizerOptions)

// WithParams setzt mean/std
func WithParams(p NormalizationParams) Option {
	return func(o *normalizerOptions) {
		o.params = p
	}
}

// WithPreset setzt mean/std aus einem benannten Preset
func WithPreset(name string) Option {
	return func(o *normalizerOptions) {
		p, err := ParsePreset(name)
		if err != nil {
			o.err = err
			return
		}
		o.params = p
	}
}

// WithOutputOrder setzt die Farbreihenfolge der Tensor-Ebenen.
// OutputNative (Default) uebernimmt die Reihenfolge des Puffers, OrderRGB bzw.
// OrderBGR sortieren die Kanaele nach ihrer Bedeutung um.
func WithOutputOrder(order ChannelOrder) Option {
	return func(o *normalizerOptions) {
		o.output = order
	}
}

// ParseOutputOrder parst "native", "rgb" oder "bgr"
func ParseOutputOrder(s string) (ChannelOrder, error) {
	if v := strings.ToLower(strings.TrimSpace(s)); v == "" || v == "native" {
		return OutputNative, nil
	}

	order, err := ParseChannelOrder(s)
	if err != nil {
		return "", err
	}
	return order.Colors(), nil
}
