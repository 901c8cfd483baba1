// MODUL: handlers
// ZWECK: HTTP Handler fuer Einzelbild- und Batch-Preprocessing
// INPUT: HTTP POST Requests mit Base64-kodierten Bildern
// OUTPUT: JSON Responses mit planaren, normalisierten Tensoren
// NEBENEFFEKTE: Dekodiert Base64-Bilder, startet Worker fuer Batches
// ABHAENGIGKEITEN: github.com/gin-gonic/gin, github.com/google/uuid, vision (intern)
// HINWEISE: Fehler werden ueber abortWithError auf API-Codes abgebildet

package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ollama/imagenorm/logutil"
	"github.com/ollama/imagenorm/vision"
)

// ============================================================================
// POST /api/preprocess - Einzelbild
// ============================================================================

// PreprocessHandler verarbeitet POST /api/preprocess
func (s *Server) PreprocessHandler(c *gin.Context) {
	start := time.Now()

	var req PreprocessRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	if req.Image == "" {
		abortWithError(c, fmt.Errorf("%w: image is required", ErrInvalidRequest))
		return
	}

	p, err := s.resolve(req.PreprocessOptions)
	if err != nil {
		abortWithError(c, err)
		return
	}

	src, err := s.decodeImage(req.Image, p.interpolation)
	if err != nil {
		abortWithError(c, err)
		return
	}

	t, err := p.normalizer.Preprocess(src, p.width, p.height)
	if err != nil {
		abortWithError(c, err)
		return
	}

	data, err := encodeData(t.Data, p.dtype)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := PreprocessResponse{
		ID:     uuid.NewString(),
		Shape:  t.Shape(),
		Order:  t.Order,
		DType:  p.dtype,
		Data:   data,
		Params: p.normalizer.Params(),
	}
	if req.Stats {
		stats := vision.ChannelStats(t)
		resp.Stats = stats[:]
	}
	resp.TotalDuration = time.Since(start)

	slog.Log(c.Request.Context(), logutil.LevelTrace, "preprocessed image", "id", resp.ID, "shape", resp.Shape, "duration", resp.TotalDuration)
	c.JSON(http.StatusOK, resp)
}

// ============================================================================
// POST /api/preprocess/batch - Mehrere Bilder
// ============================================================================

// BatchHandler verarbeitet POST /api/preprocess/batch
func (s *Server) BatchHandler(c *gin.Context) {
	start := time.Now()

	var req BatchRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	switch {
	case len(req.Images) == 0:
		abortWithError(c, fmt.Errorf("%w: images are required", ErrInvalidRequest))
		return
	case len(req.Images) > s.maxBatch:
		abortWithError(c, fmt.Errorf("%w: %d images, limit is %d", ErrBatchTooLarge, len(req.Images), s.maxBatch))
		return
	}

	p, err := s.resolve(req.PreprocessOptions)
	if err != nil {
		abortWithError(c, err)
		return
	}

	srcs := make([]vision.SourceImage, len(req.Images))
	for i, encoded := range req.Images {
		src, err := s.decodeImage(encoded, p.interpolation)
		if err != nil {
			abortWithError(c, fmt.Errorf("image %d: %w", i, err))
			return
		}
		srcs[i] = src
	}

	tensors, err := p.normalizer.PreprocessBatch(c.Request.Context(), srcs, p.width, p.height, s.numParallel)
	if err != nil {
		abortWithError(c, err)
		return
	}

	stacked, err := vision.Stack(tensors)
	if err != nil {
		abortWithError(c, err)
		return
	}

	data, err := encodeData(stacked.Data().([]float64), p.dtype)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := PreprocessResponse{
		ID:            uuid.NewString(),
		Shape:         stacked.Shape().Clone(),
		Order:         tensors[0].Order,
		DType:         p.dtype,
		Data:          data,
		Params:        p.normalizer.Params(),
		TotalDuration: time.Since(start),
	}

	slog.Debug("preprocessed batch", "id", resp.ID, "count", len(tensors), "shape", resp.Shape, "duration", resp.TotalDuration)
	c.JSON(http.StatusOK, resp)
}

// ============================================================================
// Hilfsfunktionen
// ============================================================================

// pipeline sind die aufgeloesten Parameter eines Requests
type pipeline struct {
	normalizer    *vision.Normalizer
	interpolation vision.Interpolation
	width, height int
	dtype         vision.DType
}

// resolve ersetzt leere Felder durch Server-Defaults und baut den Normalizer
func (s *Server) resolve(opts PreprocessOptions) (*pipeline, error) {
	p := &pipeline{width: opts.Width, height: opts.Height}
	if p.width == 0 {
		p.width = s.width
	}
	if p.height == 0 {
		p.height = s.height
	}
	if p.width > 0 && p.height > 0 && uint64(p.width)*uint64(p.height) > s.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", vision.ErrAllocation, p.width, p.height, s.maxPixels)
	}

	preset := opts.Preset
	if preset == "" {
		preset = s.preset
	}

	nopts := []vision.Option{vision.WithPreset(preset)}
	switch {
	case opts.Mean != nil && opts.Std != nil:
		nopts = append(nopts, vision.WithParams(vision.NormalizationParams{Mean: *opts.Mean, Std: *opts.Std}))
	case opts.Mean != nil, opts.Std != nil:
		return nil, fmt.Errorf("%w: mean and std must be set together", ErrInvalidRequest)
	}

	order, err := vision.ParseOutputOrder(opts.Order)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	nopts = append(nopts, vision.WithOutputOrder(order))

	interpolation := opts.Interpolation
	if interpolation == "" {
		interpolation = s.interpolation
	}
	if p.interpolation, err = vision.ParseInterpolation(interpolation); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if p.dtype, err = vision.ParseDType(opts.DType); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if p.dtype != vision.DTypeF32 && p.dtype != vision.DTypeF64 {
		return nil, fmt.Errorf("%w: dtype %s is not supported over JSON", ErrInvalidRequest, p.dtype)
	}

	if p.normalizer, err = vision.NewNormalizer(nopts...); err != nil {
		if errors.Is(err, vision.ErrInvalidParams) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return p, nil
}

// decodeImage dekodiert ein Base64-Bild und prueft Byte- und Pixellimit
func (s *Server) decodeImage(encoded string, interpolation vision.Interpolation) (vision.SourceImage, error) {
	if uint64(base64.StdEncoding.DecodedLen(len(encoded))) > s.maxImageBytes+2 {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, s.maxImageBytes)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBase64, err)
	}
	if uint64(len(data)) > s.maxImageBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, s.maxImageBytes)
	}

	img, err := vision.LoadImageFromBytesLimit(data, s.maxPixels)
	if err != nil {
		if errors.Is(err, vision.ErrUnknownFormat) || errors.Is(err, vision.ErrUnsupportedFormat) || errors.Is(err, vision.ErrAllocation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	return img.Source(vision.WithInterpolation(interpolation)), nil
}

// bindJSON liest den Request-Body als JSON
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: missing request body", ErrInvalidRequest)
	} else if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// encodeData konvertiert die Tensor-Daten in den angefragten Datentyp.
// JSON kann weder NaN noch Inf darstellen, daher wird jeder Wert vorher geprueft.
func encodeData(data []float64, dtype vision.DType) (any, error) {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: value %d is %v", ErrNonFinite, i, v)
		}
	}

	if dtype == vision.DTypeF64 {
		return data, nil
	}

	f32s := make([]float32, len(data))
	for i, v := range data {
		f32s[i] = float32(v)
		if math.IsInf(float64(f32s[i]), 0) {
			return nil, fmt.Errorf("%w: value %d (%v) overflows f32", ErrNonFinite, i, v)
		}
	}
	return f32s, nil
}
