// cmd_serve.go - Startet die HTTP API
// Hauptfunktionen: RunServer
package cmd

import (
	"errors"
	"net"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ollama/imagenorm/envconfig"
	"github.com/ollama/imagenorm/server"
)

// RunServer - Startet den imagenorm-Server auf IMAGENORM_HOST
func RunServer(_ *cobra.Command, _ []string) error {
	ln, err := net.Listen("tcp", envconfig.Host().Host)
	if err != nil {
		return err
	}

	err = server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// newServeCmd - Erstellt den serve Command
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the preprocessing API",
		Args:    cobra.ExactArgs(0),
		RunE:    RunServer,
	}
}
