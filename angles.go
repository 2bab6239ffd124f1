package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ceph-tracer/internal/angle"
	"ceph-tracer/internal/calibration"
	"ceph-tracer/internal/config"
	"ceph-tracer/internal/landmark"
)

var (
	anglesJSON        bool
	anglesCalibration string
)

var anglesCmd = &cobra.Command{
	Use:   "angles <x,y>...",
	Short: "Compute the angles for landmark positions",
	Long: `Compute every catalog angle whose landmarks are given and print the value,
its norm and the deviation from the norm. Positions are bitmap pixels in
catalog order: the first is N, the second S, and so on (see "catalog").`,
	Example: `  ceph-tracer angles 412,188 180,240 390,260 120,300 430,420 420,520`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runAngles,
}

func init() {
	rootCmd.AddCommand(anglesCmd)
	anglesCmd.Flags().BoolVar(&anglesJSON, "json", false, "print JSON instead of a table")
	anglesCmd.Flags().StringVar(&anglesCalibration, "calibration", "", "calibration line x1,y1,x2,y2 (default from config)")
}

// angleRow is the JSON form of a measured angle.
type angleRow struct {
	Name      string   `json:"name"`
	Value     float64  `json:"value"`
	Norm      string   `json:"norm,omitempty"`
	Deviation *float64 `json:"deviation,omitempty"`
	InNorm    bool     `json:"in_norm"`
}

func runAngles(cmd *cobra.Command, args []string) error {
	points, err := parsePoints(args)
	if err != nil {
		return err
	}
	if err := landmark.NewStore(cat.Len()).Replace(points); err != nil {
		return err
	}
	line, err := calibrationFlag(anglesCalibration)
	if err != nil {
		return err
	}

	angles := angle.NewEngine(cat).Compute(points)
	logger.Debug().Int("points", len(points)).Int("angles", len(angles)).Msg("angles computed")

	if anglesJSON {
		return writeAnglesJSON(cmd.OutOrStdout(), angles)
	}
	writeAnglesTable(cmd.OutOrStdout(), angles)
	fmt.Fprintf(cmd.OutOrStdout(), "\nScale: %s\n", line)
	return nil
}

// calibrationFlag parses a --calibration value, falling back to the configured line.
func calibrationFlag(value string) (calibration.Line, error) {
	if value == "" {
		return config.CalibrationLine(), nil
	}
	return parseLine(value)
}

func writeAnglesJSON(w io.Writer, angles []angle.Angle) error {
	rows := make([]angleRow, len(angles))
	for i, a := range angles {
		rows[i] = angleRow{Name: a.Name, Value: a.Value, Deviation: a.Deviation, InNorm: a.WithinNorm()}
		if a.Norm != nil {
			rows[i].Norm = a.Norm.String()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeAnglesTable(w io.Writer, angles []angle.Angle) {
	if len(angles) == 0 {
		fmt.Fprintln(w, "No angles: place more landmarks.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ANGLE\tVALUE\tNORM\tDEVIATION\t")
	for _, a := range angles {
		norm, dev, flag := "-", "-", ""
		if a.Norm != nil && a.Deviation != nil {
			norm = a.Norm.String()
			dev = fmt.Sprintf("%+.1f", *a.Deviation)
			if !a.WithinNorm() {
				flag = "out of norm"
			}
		}
		fmt.Fprintf(tw, "%s\t%.1f°\t%s\t%s\t%s\n", a.Name, a.Value, norm, dev, flag)
	}
	tw.Flush()
}
