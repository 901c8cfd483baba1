// MODUL: errors
// ZWECK: Fehler-Definitionen und Error-Handler fuer die Preprocessing API
// INPUT: Fehler aus Request-Validierung und vision-Pipeline
// OUTPUT: JSON-formatierte Fehler-Responses mit stabilem Code
// NEBENEFFEKTE: HTTP-Responses schreiben, Server-Fehler loggen
// ABHAENGIGKEITEN: github.com/gin-gonic/gin, vision (intern)
// HINWEISE: Reihenfolge in errorCodes ist relevant, der erste Treffer gewinnt

package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ollama/imagenorm/vision"
)

// ============================================================================
// API Fehler-Definitionen
// ============================================================================

var (
	// ErrInvalidRequest wird geworfen bei unlesbaren oder unvollstaendigen Requests
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidImage wird geworfen wenn die Bilddaten nicht dekodiert werden koennen
	ErrInvalidImage = errors.New("invalid image data")

	// ErrInvalidBase64 wird geworfen bei ungueltiger Base64-Kodierung
	ErrInvalidBase64 = errors.New("invalid base64 encoding")

	// ErrBatchTooLarge wird geworfen wenn die Batch-Groesse das Limit ueberschreitet
	ErrBatchTooLarge = errors.New("batch size exceeds limit")

	// ErrImageTooLarge wird geworfen wenn ein Bild IMAGENORM_MAX_IMAGE_BYTES ueberschreitet
	ErrImageTooLarge = errors.New("image exceeds size limit")

	// ErrNonFinite wird geworfen wenn der Tensor Werte enthaelt die JSON nicht darstellen kann
	ErrNonFinite = errors.New("tensor contains non-finite values")
)

// ============================================================================
// Strukturierter API-Fehler
// ============================================================================

// APIError ist der JSON-Body jeder Fehler-Response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

// Error implementiert das error Interface
func (e APIError) Error() string {
	return e.Message
}

// ============================================================================
// Fehler-Code Mapping
// ============================================================================

type errorCode struct {
	err    error
	code   string
	status int
}

var errorCodes = []errorCode{
	{ErrInvalidRequest, "INVALID_REQUEST", http.StatusBadRequest},
	{ErrInvalidBase64, "INVALID_BASE64", http.StatusBadRequest},
	{ErrBatchTooLarge, "BATCH_TOO_LARGE", http.StatusBadRequest},
	{ErrImageTooLarge, "IMAGE_TOO_LARGE", http.StatusRequestEntityTooLarge},
	{ErrInvalidImage, "INVALID_IMAGE", http.StatusBadRequest},
	{vision.ErrUnknownFormat, "INVALID_IMAGE", http.StatusBadRequest},
	{vision.ErrUnsupportedFormat, "INVALID_IMAGE", http.StatusBadRequest},
	{vision.ErrInvalidParams, "INVALID_REQUEST", http.StatusBadRequest},
	{vision.ErrAllocation, "ALLOCATION_FAILED", http.StatusBadRequest},
	{vision.ErrResize, "RESIZE_FAILED", http.StatusInternalServerError},
	{vision.ErrDecode, "DECODE_FAILED", http.StatusInternalServerError},
	{ErrNonFinite, "NON_FINITE_OUTPUT", http.StatusInternalServerError},
}

// classify liefert API-Code und HTTP-Status fuer einen Fehler
func classify(err error) (string, int) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code, ec.status
		}
	}
	return "INTERNAL_ERROR", http.StatusInternalServerError
}

// ============================================================================
// HTTP Response Helper
// ============================================================================

// abortWithError schreibt err als JSON Response und bricht den Request ab
func abortWithError(c *gin.Context, err error) {
	code, status := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("preprocess failed", "path", c.Request.URL.Path, "code", code, "error", err)
	} else {
		slog.Debug("request rejected", "path", c.Request.URL.Path, "code", code, "error", err)
	}

	c.AbortWithStatusJSON(status, APIError{Code: code, Message: err.Error()})
}
