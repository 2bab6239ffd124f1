package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceph-tracer/internal/catalog"
	"ceph-tracer/internal/landmark"
	"ceph-tracer/pkg/geometry"
)

// N, S, Or, Po, A: a right angle at S and SNA of 90.
var fivePoints = []string{"100,100", "0,100", "0,0", "50,50", "100,200"}

func TestParsePoints(t *testing.T) {
	cat = catalog.Default()

	points, err := parsePoints([]string{"1.5,2", " 3 , 4 "})
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point2D{{X: 1.5, Y: 2}, {X: 3, Y: 4}}, points)

	for _, bad := range []string{"1", "1,2,3", "a,2", "NaN,1", "1,Inf"} {
		_, err := parsePoints([]string{bad})
		assert.Error(t, err, bad)
	}

	_, err = parsePoints([]string{"1,2", "x,y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "point 2 (S)")
}

func TestParseLine(t *testing.T) {
	line, err := parseLine("10,20,110,20")
	require.NoError(t, err)
	assert.Equal(t, 100.0, line.Scale())

	_, err = parseLine("10,20,110")
	assert.Error(t, err)
}

func TestAnglesTable(t *testing.T) {
	cat = catalog.Default()
	anglesCalibration = "100,100,200,100"
	defer func() { anglesCalibration = "" }()

	var buf bytes.Buffer
	anglesCmd.SetOut(&buf)
	anglesJSON = false
	require.NoError(t, runAngles(anglesCmd, fivePoints))

	out := buf.String()
	assert.Contains(t, out, "ANGLE")
	assert.Contains(t, out, "Kąt podstawy czaszki")
	assert.Contains(t, out, "82±2")
	assert.Contains(t, out, "+8.0")
	assert.Contains(t, out, "out of norm")
	assert.Contains(t, out, "Scale: 1 cm = 100.00 px")
	assert.NotContains(t, out, "Kąt SNB")
}

func TestAnglesJSON(t *testing.T) {
	cat = catalog.Default()
	anglesCalibration = "100,100,200,100"
	anglesJSON = true
	defer func() { anglesJSON, anglesCalibration = false, "" }()

	var buf bytes.Buffer
	anglesCmd.SetOut(&buf)
	require.NoError(t, runAngles(anglesCmd, fivePoints))

	var rows []angleRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)

	byName := map[string]angleRow{}
	for _, r := range rows {
		byName[r.Name] = r
	}
	sna := byName["Kąt SNA"]
	assert.Equal(t, 90.0, sna.Value)
	require.NotNil(t, sna.Deviation)
	assert.InDelta(t, 8.0, *sna.Deviation, 1e-9)
	assert.False(t, sna.InNorm)

	base := byName["Kąt podstawy czaszki"]
	assert.Equal(t, 90.0, base.Value)
	assert.Nil(t, base.Deviation)
	assert.True(t, base.InNorm)
}

func TestAnglesNoAngles(t *testing.T) {
	cat = catalog.Default()
	anglesCalibration = "100,100,200,100"
	defer func() { anglesCalibration = "" }()

	var buf bytes.Buffer
	anglesCmd.SetOut(&buf)
	require.NoError(t, runAngles(anglesCmd, fivePoints[:2]))
	assert.Contains(t, buf.String(), "No angles")
}

func TestAnglesTooManyPoints(t *testing.T) {
	cat = catalog.Default()
	args := make([]string, cat.Len()+1)
	for i := range args {
		args[i] = "1,1"
	}

	err := runAngles(anglesCmd, args)
	assert.ErrorIs(t, err, landmark.ErrCapacityExceeded)
}

func TestCatalogListing(t *testing.T) {
	cat = catalog.Default()

	var buf bytes.Buffer
	catalogCmd.SetOut(&buf)
	require.NoError(t, runCatalog(catalogCmd, nil))

	out := buf.String()
	assert.Contains(t, out, "Pterygomaxillare")
	assert.Contains(t, out, "S-N-B")
	assert.Contains(t, out, "80±2")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Two headers, one blank separator, 15 landmarks, 7 angles.
	assert.Len(t, lines, 2+1+cat.Len()+len(cat.Angles))
}
