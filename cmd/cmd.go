// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ollama/imagenorm/envconfig"
	"github.com/ollama/imagenorm/version"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-26s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "imagenorm",
		Short:         "Image to normalized tensor preprocessing",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if show, _ := cmd.Flags().GetBool("version"); show {
				cmd.Printf("imagenorm version is %s\n", version.Version)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	serveCmd := newServeCmd()
	preprocessCmd := newPreprocessCmd()
	statsCmd := newStatsCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	defaults := []envconfig.EnvVar{
		envVars["IMAGENORM_WIDTH"],
		envVars["IMAGENORM_HEIGHT"],
		envVars["IMAGENORM_INTERPOLATION"],
		envVars["IMAGENORM_NUM_PARALLEL"],
	}

	for _, cmd := range []*cobra.Command{serveCmd, preprocessCmd, statsCmd} {
		switch cmd {
		case serveCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["IMAGENORM_DEBUG"],
				envVars["IMAGENORM_HOST"],
				envVars["IMAGENORM_ORIGINS"],
				envVars["IMAGENORM_WIDTH"],
				envVars["IMAGENORM_HEIGHT"],
				envVars["IMAGENORM_PRESET"],
				envVars["IMAGENORM_INTERPOLATION"],
				envVars["IMAGENORM_NUM_PARALLEL"],
				envVars["IMAGENORM_MAX_BATCH"],
				envVars["IMAGENORM_MAX_IMAGE_BYTES"],
				envVars["IMAGENORM_MAX_PIXELS"],
			})
		case preprocessCmd:
			appendEnvDocs(cmd, append(defaults, envVars["IMAGENORM_PRESET"]))
		default:
			appendEnvDocs(cmd, defaults)
		}
	}

	rootCmd.AddCommand(
		serveCmd,
		preprocessCmd,
		statsCmd,
	)

	return rootCmd
}
