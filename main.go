// Package main provides the entry point for the Ceph Tracer application.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ceph-tracer/internal/app"
	"ceph-tracer/internal/catalog"
	"ceph-tracer/internal/config"
	"ceph-tracer/internal/gallery"
	"ceph-tracer/internal/logging"
	"ceph-tracer/internal/version"
)

var (
	configDir   string
	logLevel    string
	catalogPath string

	logger    = zerolog.Nop()
	logCloser io.Closer
	cat       *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "ceph-tracer [image]",
	Short: "Cephalometric landmark tracing and angle measurement",
	Long: `ceph-tracer places anatomical landmarks on a lateral cephalogram, measures
the clinical angles between them against their norms, and keeps uploaded
radiographs in a gallery database.

Without a subcommand the desktop application is started. An image file may be
given to open it on startup.`,
	Args:               cobra.MaximumNArgs(1),
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runGUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing ceph-tracer.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "landmark catalog file (JSON or YAML)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

// setup loads configuration, the logger and the catalog for every command.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Load(configDir); err != nil {
		return err
	}
	if logLevel != "" {
		config.Set("logLevel", logLevel)
	}
	if catalogPath != "" {
		config.Set("catalog.path", catalogPath)
	}

	var err error
	logger, logCloser, err = logging.Setup(config.GetString("logLevel"), os.Stderr, config.GetString("logFile"))
	if err != nil {
		return err
	}
	if used := config.Used(); used != "" {
		logger.Debug().Str("file", used).Msg("config loaded")
	}

	cat, err = catalog.Load(config.GetString("catalog.path"))
	if err != nil {
		return err
	}
	if locale := config.GetString("catalog.locale"); locale != "" {
		cat.Locale = locale
	}
	logger.Debug().Int("landmarks", cat.Len()).Int("angles", len(cat.Angles)).Str("locale", cat.Locale).Msg("catalog loaded")
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

// newState creates a session from the loaded configuration.
func newState() *app.State {
	return app.NewState(app.Options{
		Catalog:     cat,
		Calibration: config.CalibrationLine(),
		HitRadius:   config.GetFloat("interaction.hitRadius"),
		MaxWidth:    config.GetInt("display.maxWidth"),
		Logger:      logger,
	})
}

// openGallery opens the configured gallery database.
func openGallery() (*gallery.Store, error) {
	driver := config.GetString("gallery.driver")
	var dsn string
	switch driver {
	case "postgres":
		dsn = config.GetString("gallery.postgres.dsn")
	default:
		dsn = config.GetString("gallery.sqlite.path")
	}
	return gallery.Open(driver, dsn, logger.With().Str("component", "gallery").Logger())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
