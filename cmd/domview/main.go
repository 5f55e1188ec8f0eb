// Command domview renders markup documents as DOM tree diagrams, either in
// the browser through the bundled server or straight to SVG files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/domview/internal/config"
	"github.com/dgallion1/domview/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	configPath string
	debugMode  bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "domview",
	Short: "domview — DOM tree viewer",
	Long: ui.Brand.Sprint("domview") + " — see the element tree behind any markup\n" +
		ui.Subtle.Sprint("Serve the interactive viewer or render documents to SVG"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("domview {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file (default $DOMVIEW_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(
		serveCmd(),
		renderCmd(),
		outlineCmd(),
		inspectCmd(),
		watchCmd(),
		examplesCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ui.Bad.Fprintf(os.Stderr, "domview: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration for a command. Startup failures are
// reported as a blocking alert.
func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err == nil && debugMode {
		cfg.Debug = true
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		ui.Fatal(os.Stderr, "Failed to start domview: %v", err)
		return cfg, fmt.Errorf("configuration: %w", err)
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
