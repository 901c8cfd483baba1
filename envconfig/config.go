// config.go - Haupt-Konfigurationsfunktionen fuer imagenorm
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host zurueck (IMAGENORM_HOST)
// - AllowedOrigins: Gibt erlaubte Origins zurueck (IMAGENORM_ORIGINS)
// - LogLevel: Gibt Log-Level zurueck (IMAGENORM_DEBUG)
// - Width/Height/Preset/Interpolation: Preprocessing-Defaults
// - NumParallel/MaxBatch/MaxImageBytes/MaxPixels: Grenzen fuer den Server
//
// Getter und Export sind ausgelagert:
// - config_utils.go: Utility-Funktionen und AsMap/Values
package envconfig

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Host gibt Scheme und Host zurueck
// Konfigurierbar via IMAGENORM_HOST
// Default: http://127.0.0.1:11535
func Host() *url.URL {
	defaultPort := "11535"

	s := strings.TrimSpace(Var("IMAGENORM_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "127.0.0.1", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// AllowedOrigins gibt erlaubte Origins zurueck
// Konfigurierbar via IMAGENORM_ORIGINS (komma-separiert)
// Enthaelt Standard-Origins fuer localhost
func AllowedOrigins() (origins []string) {
	if s := Var("IMAGENORM_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	for _, origin := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		origins = append(origins,
			fmt.Sprintf("http://%s", origin),
			fmt.Sprintf("https://%s", origin),
			fmt.Sprintf("http://%s", net.JoinHostPort(origin, "*")),
			fmt.Sprintf("https://%s", net.JoinHostPort(origin, "*")),
		)
	}

	origins = append(origins,
		"app://*",
		"file://*",
		"vscode-webview://*",
	)

	return origins
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via IMAGENORM_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("IMAGENORM_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

var (
	// Width ist die Standard-Zielbreite
	Width = Uint("IMAGENORM_WIDTH", 384)

	// Height ist die Standard-Zielhoehe
	Height = Uint("IMAGENORM_HEIGHT", 384)

	// MaxBatch begrenzt die Anzahl Bilder pro Batch-Request
	MaxBatch = Uint("IMAGENORM_MAX_BATCH", 32)

	// MaxImageBytes begrenzt die dekodierte Groesse eines Bildes im Request
	MaxImageBytes = Uint64("IMAGENORM_MAX_IMAGE_BYTES", 32<<20)

	// MaxPixels begrenzt Zielgroesse und dekodierte Bildgroesse (Breite * Hoehe)
	MaxPixels = Uint64("IMAGENORM_MAX_PIXELS", 16<<20)
)

// Preset gibt das Standard-Normalisierungs-Preset zurueck
// Konfigurierbar via IMAGENORM_PRESET
// Default: imagenet
func Preset() string {
	if s := Var("IMAGENORM_PRESET"); s != "" {
		return strings.ToLower(s)
	}
	return "imagenet"
}

// Interpolation gibt den Standard-Resize-Kernel zurueck
// Konfigurierbar via IMAGENORM_INTERPOLATION
// Default: bilinear
func Interpolation() string {
	if s := Var("IMAGENORM_INTERPOLATION"); s != "" {
		return strings.ToLower(s)
	}
	return "bilinear"
}

// NumParallel gibt die maximale Anzahl paralleler Preprocessing-Worker zurueck
// Konfigurierbar via IMAGENORM_NUM_PARALLEL
// Default: Anzahl CPUs
func NumParallel() uint {
	return Uint("IMAGENORM_NUM_PARALLEL", uint(runtime.NumCPU()))()
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
