// Package angle provides the angle engine that derives measured angles from
// placed landmarks and the catalog's angle definitions.
package angle

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"ceph-tracer/internal/catalog"
	"ceph-tracer/pkg/geometry"
)

// Angle is a measured angle. It is derived from the current points and is
// never stored.
type Angle struct {
	Operands    [3]geometry.Point2D
	Value       float64
	Name        string
	Description string
	Norm        *catalog.Norm
	Deviation   *float64
}

// WithinNorm reports whether the value lies inside the norm's range.
// Angles without a norm are always within range.
func (a Angle) WithinNorm() bool {
	if a.Norm == nil || a.Deviation == nil {
		return true
	}
	return math.Abs(*a.Deviation) <= a.Norm.Deviation
}

// Engine computes angles for one catalog.
type Engine struct {
	defs []catalog.AngleDefinition
	tag  language.Tag
}

// NewEngine creates an engine for the catalog's angle definitions, sorting
// results with the catalog's locale.
func NewEngine(c *catalog.Catalog) *Engine {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		tag = language.Polish
	}
	return &Engine{defs: c.Angles, tag: tag}
}

// Compute returns every angle whose operands have all been placed, sorted by
// name. Definitions with missing operands are left out.
func (e *Engine) Compute(points []geometry.Point2D) []Angle {
	out := make([]Angle, 0, len(e.defs))
	for _, def := range e.defs {
		if !placed(def, len(points)) {
			continue
		}
		start := points[catalog.OrdinalToIndex(def.Start())]
		vertex := points[catalog.OrdinalToIndex(def.Vertex())]
		end := points[catalog.OrdinalToIndex(def.End())]

		a := Angle{
			Operands:    [3]geometry.Point2D{start, vertex, end},
			Value:       Measure(start, vertex, end),
			Name:        def.Name,
			Description: def.Description,
		}
		if def.Norm != nil {
			norm := *def.Norm
			dev := a.Value - norm.Mean
			a.Norm = &norm
			a.Deviation = &dev
		}
		out = append(out, a)
	}

	// Collators keep internal buffers, so each call gets its own.
	col := collate.New(e.tag)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

func placed(def catalog.AngleDefinition, n int) bool {
	for _, op := range def.Operands {
		if op < 1 || op > n {
			return false
		}
	}
	return true
}

// Measure returns the non-reflex angle at vertex between the rays towards
// start and end, in degrees rounded to one decimal place. Coincident points
// give 0.
func Measure(start, vertex, end geometry.Point2D) float64 {
	raw := vertex.Heading(end) - vertex.Heading(start)
	deg := raw * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	if deg > 180 {
		deg = 360 - deg
	}
	return math.Round(deg*10) / 10
}
