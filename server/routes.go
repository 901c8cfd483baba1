// Package server - HTTP-Router und Server-Setup fuer imagenorm
// Beinhaltet: Server-Struct, Router-Registrierung, CORS, Server-Start
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ollama/imagenorm/envconfig"
	"github.com/ollama/imagenorm/logutil"
	"github.com/ollama/imagenorm/version"
)

var mode string = gin.DebugMode

// Server haelt die Defaults und Grenzen der Preprocessing API
type Server struct {
	addr net.Addr

	width, height int
	preset        string
	interpolation string

	numParallel   int
	maxBatch      int
	maxImageBytes uint64
	maxPixels     uint64
}

func init() {
	switch mode {
	case gin.DebugMode:
	case gin.ReleaseMode:
	case gin.TestMode:
	default:
		mode = gin.DebugMode
	}

	gin.SetMode(mode)
}

// NewServer liest Defaults und Grenzen aus der Umgebung
func NewServer(addr net.Addr) *Server {
	return &Server{
		addr:          addr,
		width:         int(envconfig.Width()),
		height:        int(envconfig.Height()),
		preset:        envconfig.Preset(),
		interpolation: envconfig.Interpolation(),
		numParallel:   int(envconfig.NumParallel()),
		maxBatch:      int(envconfig.MaxBatch()),
		maxImageBytes: envconfig.MaxImageBytes(),
		maxPixels:     envconfig.MaxPixels(),
	}
}

// GenerateRoutes erstellt und konfiguriert den HTTP-Router
func (s *Server) GenerateRoutes() (http.Handler, error) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowWildcard = true
	corsConfig.AllowBrowserExtensions = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"User-Agent",
		"Accept",
		"X-Requested-With",
	}
	corsConfig.AllowOrigins = envconfig.AllowedOrigins()

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.Use(cors.New(corsConfig))

	// General
	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "imagenorm is running") })
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "imagenorm is running") })
	r.HEAD("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })
	r.GET("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })

	// Preprocessing
	r.POST("/api/preprocess", s.PreprocessHandler)
	r.POST("/api/preprocess/batch", s.BatchHandler)

	return r, nil
}

// Serve startet den HTTP-Server auf ln und blockiert bis SIGINT/SIGTERM
func Serve(ln net.Listener) error {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
	slog.Info("server config", "env", envconfig.Values())

	s := NewServer(ln.Addr())
	h, err := s.GenerateRoutes()
	if err != nil {
		return err
	}

	slog.Info("Listening on " + ln.Addr().String() + " (version " + version.Version + ")")
	srvr := &http.Server{Handler: h}

	ctx, done := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		srvr.Close()
		done()
	}()

	err = srvr.Serve(ln)
	// If server is closed from the signal handler, wait for the ctx to be done
	// otherwise error out quickly
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-ctx.Done()
	return nil
}
