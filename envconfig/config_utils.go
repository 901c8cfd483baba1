// config_utils.go - Utility-Funktionen und Export fuer Konfiguration
//
// Dieses Modul enthaelt:
// - Uint/Uint64: Integer-Getter mit Default-Wert
// - EnvVar: Struktur fuer Environment-Variablen-Info
// - AsMap: Gibt alle Konfigurationen als Map zurueck
// - Values: Gibt alle Konfigurationswerte als String-Map zurueck
package envconfig

import (
	"fmt"
	"log/slog"
	"strconv"
)

// =============================================================================
// Integer-Getter
// =============================================================================

// Uint gibt eine Funktion zurueck, die einen uint mit Default-Wert liest
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// Uint64 gibt eine Funktion zurueck, die einen uint64 mit Default-Wert liest
func Uint64(key string, defaultValue uint64) func() uint64 {
	return func() uint64 {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return n
			}
		}
		return defaultValue
	}
}

// =============================================================================
// Export-Strukturen und -Funktionen
// =============================================================================

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Konfigurationen als Map zurueck
// Enthaelt Namen, aktuelle Werte und Beschreibungen
func AsMap() map[string]EnvVar {
	ret := map[string]EnvVar{
		"IMAGENORM_DEBUG":           {"IMAGENORM_DEBUG", LogLevel(), "Show additional debug information (e.g. IMAGENORM_DEBUG=1)"},
		"IMAGENORM_HOST":            {"IMAGENORM_HOST", Host(), "IP Address for the imagenorm server (default 127.0.0.1:11535)"},
		"IMAGENORM_ORIGINS":         {"IMAGENORM_ORIGINS", AllowedOrigins(), "A comma separated list of allowed origins"},
		"IMAGENORM_WIDTH":           {"IMAGENORM_WIDTH", Width(), "Default target width (default 384)"},
		"IMAGENORM_HEIGHT":          {"IMAGENORM_HEIGHT", Height(), "Default target height (default 384)"},
		"IMAGENORM_PRESET":          {"IMAGENORM_PRESET", Preset(), "Default normalization preset: imagenet, standard, clip, none"},
		"IMAGENORM_INTERPOLATION":   {"IMAGENORM_INTERPOLATION", Interpolation(), "Default resize kernel: nearest, approx-bilinear, bilinear, catmull-rom"},
		"IMAGENORM_NUM_PARALLEL":    {"IMAGENORM_NUM_PARALLEL", NumParallel(), "Maximum number of images preprocessed in parallel"},
		"IMAGENORM_MAX_BATCH":       {"IMAGENORM_MAX_BATCH", MaxBatch(), "Maximum number of images per batch request (default 32)"},
		"IMAGENORM_MAX_IMAGE_BYTES": {"IMAGENORM_MAX_IMAGE_BYTES", MaxImageBytes(), "Maximum size of a single image in a request (bytes)"},
		"IMAGENORM_MAX_PIXELS":      {"IMAGENORM_MAX_PIXELS", MaxPixels(), "Maximum width*height of a target tensor or decoded image (default 16777216)"},
	}

	return ret
}

// Values gibt alle Konfigurationswerte als String-Map zurueck
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
