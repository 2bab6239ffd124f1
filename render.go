package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ceph-tracer/internal/filter"
	"ceph-tracer/internal/image"
	"ceph-tracer/internal/render"
)

var (
	renderOutput      string
	renderNoGuides    bool
	renderTimeout     time.Duration
	renderCalibration string
	renderFilters     = filter.DefaultParams()
)

var renderCmd = &cobra.Command{
	Use:   "render <image> [x,y]...",
	Short: "Draw landmarks and angle guides on an image",
	Long: `Load an image, apply the display filters and draw the calibration line, the
given landmarks and the guides of every angle they complete, then write the
result as PNG. Positions are bitmap pixels of the downscaled working image,
in catalog order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addFilterFlags(renderCmd, &renderFilters)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "tracing.png", "output PNG file")
	renderCmd.Flags().BoolVar(&renderNoGuides, "no-guides", false, "omit angle guide lines")
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", 30*time.Second, "image load timeout")
	renderCmd.Flags().StringVar(&renderCalibration, "calibration", "", "calibration line x1,y1,x2,y2 (default from config)")
}

func runRender(cmd *cobra.Command, args []string) error {
	points, err := parsePoints(args[1:])
	if err != nil {
		return err
	}
	line, err := calibrationFlag(renderCalibration)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	state := newState()
	if err := state.LoadImage(ctx, image.FileSource{}, args[0]); err != nil {
		return err
	}
	if err := state.SetPoints(points); err != nil {
		return err
	}
	state.SetCalibration(line)
	state.SetFilters(renderFilters)

	base, err := state.Filtered()
	if err != nil {
		return err
	}
	out := render.Compose(base, render.Scene{
		Calibration: state.Calibration(),
		Points:      points,
		Labels:      render.Labels(cat, len(points)),
		Angles:      state.Angles(),
		HideGuides:  renderNoGuides,
	})
	if err := writePNG(renderOutput, out); err != nil {
		return err
	}

	logger.Info().Str("output", renderOutput).Int("points", len(points)).Msg("image rendered")
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", renderOutput, out.Bounds().Dx(), out.Bounds().Dy())
	return nil
}
