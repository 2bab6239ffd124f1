package main

import (
	"fmt"
	goimage "image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"ceph-tracer/internal/config"
	"ceph-tracer/internal/filter"
	"ceph-tracer/internal/image"
)

var (
	filterParams   = filter.DefaultParams()
	filterOutput   string
	filterFullSize bool
)

var filterCmd = &cobra.Command{
	Use:   "filter <image>",
	Short: "Apply the display filters to an image",
	Long: `Apply brightness, contrast, saturation, gamma and optionally the Sobel
sketch filter to an image and write the result as PNG. Values outside their
range are clamped.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)
	addFilterFlags(filterCmd, &filterParams)
	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", "filtered.png", "output PNG file")
	filterCmd.Flags().BoolVar(&filterFullSize, "full-size", false, "do not downscale to display.maxWidth")
}

// addFilterFlags binds the filter settings to cmd's flags.
func addFilterFlags(cmd *cobra.Command, p *filter.Params) {
	f := cmd.Flags()
	f.Float64Var(&p.BrightnessPct, "brightness", 100, "brightness in percent (0-200)")
	f.Float64Var(&p.ContrastPct, "contrast", 100, "contrast in percent (0-200)")
	f.Float64Var(&p.SaturationPct, "saturation", 100, "saturation in percent (0-200)")
	f.Float64Var(&p.Gamma, "gamma", 1, "gamma (0.1-2.5)")
	f.BoolVar(&p.Sketch, "sketch", false, "apply Sobel edge detection")
}

func writePNG(path string, img goimage.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runFilter(cmd *cobra.Command, args []string) error {
	maxWidth := config.GetInt("display.maxWidth")
	if filterFullSize {
		maxWidth = 0
	}
	layer, err := image.Load(args[0], maxWidth)
	if err != nil {
		return err
	}

	params := filterParams.Clamped()
	out := filter.Apply(layer.Image, params)
	logger.Debug().Stringer("params", params).Int("width", layer.Width()).Msg("filter applied")

	if err := writePNG(filterOutput, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", filterOutput, params)
	return nil
}
