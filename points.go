package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ceph-tracer/internal/calibration"
	"ceph-tracer/pkg/geometry"
)

// parsePoints reads landmark positions given as "x,y" in ordinal order.
func parsePoints(args []string) ([]geometry.Point2D, error) {
	points := make([]geometry.Point2D, 0, len(args))
	for i, arg := range args {
		v, err := parseFloats(arg, 2)
		if err != nil {
			return nil, fmt.Errorf("point %d (%s): %w", i+1, cat.Label(i), err)
		}
		points = append(points, geometry.NewPoint2D(v[0], v[1]))
	}
	return points, nil
}

// parseLine reads a calibration line given as "x1,y1,x2,y2".
func parseLine(s string) (calibration.Line, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return calibration.Line{}, fmt.Errorf("calibration: %w", err)
	}
	return calibration.Line{
		Start: geometry.NewPoint2D(v[0], v[1]),
		End:   geometry.NewPoint2D(v[2], v[3]),
	}, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out[i] = v
	}
	return out, nil
}
