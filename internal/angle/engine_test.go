package angle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceph-tracer/internal/catalog"
	"ceph-tracer/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestMeasure(t *testing.T) {
	tests := []struct {
		name              string
		start, vertex, end geometry.Point2D
		want              float64
	}{
		{"right angle", pt(1, 0), pt(0, 0), pt(0, 1), 90},
		{"right angle reversed", pt(0, 1), pt(0, 0), pt(1, 0), 90},
		{"straight", pt(-1, 0), pt(0, 0), pt(1, 0), 180},
		{"reflex reduced", pt(1, 0), pt(0, 0), pt(1, -1), 45},
		{"rounded", pt(3, 0), pt(0, 0), pt(1, 1), 45},
		{"one decimal", pt(10, 0), pt(0, 0), pt(10, 1), 5.7},
		{"coincident", pt(0, 0), pt(0, 0), pt(1, 1), 45},
		{"all coincident", pt(2, 2), pt(2, 2), pt(2, 2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Measure(tt.start, tt.vertex, tt.end))
		})
	}
}

func TestMeasureRange(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a := pt(r.Float64()*800, r.Float64()*600)
		b := pt(r.Float64()*800, r.Float64()*600)
		c := pt(r.Float64()*800, r.Float64()*600)
		v := Measure(a, b, c)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 180.0)
	}
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Locale: "pl",
		Landmarks: []catalog.Landmark{
			{Ordinal: 1, Name: "N"}, {Ordinal: 2, Name: "S"}, {Ordinal: 3, Name: "A"}, {Ordinal: 4, Name: "B"},
		},
		Angles: []catalog.AngleDefinition{
			{Operands: [3]int{2, 1, 4}, Name: "Kąt SNB", Norm: &catalog.Norm{Mean: 80, Deviation: 2}},
			{Operands: [3]int{2, 1, 3}, Name: "Kąt SNA", Norm: &catalog.Norm{Mean: 82, Deviation: 2}},
			{Operands: [3]int{3, 1, 4}, Name: "Kąt ANB"},
		},
	}
}

func TestComputeOrderingAndNorms(t *testing.T) {
	e := NewEngine(testCatalog())
	points := []geometry.Point2D{pt(0, 0), pt(-100, 0), pt(10, 100), pt(0, 100)}

	got := e.Compute(points)
	require.Len(t, got, 3)
	assert.Equal(t, "Kąt ANB", got[0].Name)
	assert.Equal(t, "Kąt SNA", got[1].Name)
	assert.Equal(t, "Kąt SNB", got[2].Name)

	snb := got[2]
	assert.Equal(t, 90.0, snb.Value)
	require.NotNil(t, snb.Deviation)
	assert.Equal(t, 10.0, *snb.Deviation)
	assert.False(t, snb.WithinNorm())

	assert.Nil(t, got[0].Norm)
	assert.Nil(t, got[0].Deviation)
	assert.True(t, got[0].WithinNorm())
	assert.Equal(t, [3]geometry.Point2D{pt(10, 100), pt(0, 0), pt(0, 100)}, got[0].Operands)
}

func TestComputeOmitsMissingOperands(t *testing.T) {
	e := NewEngine(testCatalog())

	assert.Empty(t, e.Compute(nil))
	got := e.Compute([]geometry.Point2D{pt(0, 0), pt(-100, 0), pt(10, 100)})
	require.Len(t, got, 1)
	assert.Equal(t, "Kąt SNA", got[0].Name)
}

func TestComputeDeterministic(t *testing.T) {
	e := NewEngine(catalog.Default())
	points := make([]geometry.Point2D, 15)
	r := rand.New(rand.NewSource(7))
	for i := range points {
		points[i] = pt(r.Float64()*800, r.Float64()*600)
	}
	first := e.Compute(points)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Compute(points))
	}
}

func TestDefaultCatalogOrder(t *testing.T) {
	e := NewEngine(catalog.Default())
	points := make([]geometry.Point2D, 15)
	for i := range points {
		points[i] = pt(float64(i*10), float64(i*i))
	}
	var names []string
	for _, a := range e.Compute(points) {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{
		"Kąt ANB",
		"Kąt gonialny",
		"Kąt podstawy czaszki",
		"Kąt SNA",
		"Kąt SNB",
		"Kąt trzonu żuchwy",
		"Kąt wypukłości twarzy",
	}, names)
}
