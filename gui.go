package main

import (
	"context"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"ceph-tracer/internal/app"
	"ceph-tracer/internal/image"
	"ceph-tracer/internal/version"
	"ceph-tracer/ui/mainwindow"
	"ceph-tracer/ui/prefs"
)

var guiCmd = &cobra.Command{
	Use:   "gui [image]",
	Short: "Start the desktop application",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(cmd *cobra.Command, args []string) error {
	logger.Info().Str("version", version.Version).Msg("starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openGallery()
	if err != nil {
		// The application stays usable with local files.
		logger.Warn().Err(err).Msg("gallery unavailable")
	} else {
		defer store.Close()
	}

	fyneApp := fyneapp.NewWithID("io.github.ceph-tracer")
	fyneApp.Settings().SetTheme(&app.CephTracerTheme{})

	state := newState()
	win := mainwindow.New(ctx, fyneApp, state, store, prefs.Load(), logger)

	if len(args) == 1 {
		state.SelectImage(ctx, image.FileSource{}, args[0])
	}

	win.ShowAndRun()
	return nil
}
