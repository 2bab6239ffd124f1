package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 15, c.Len())
	assert.Equal(t, "pl", c.Locale)
	assert.Len(t, c.Angles, 7)

	n, err := c.Landmark(1)
	require.NoError(t, err)
	assert.Equal(t, "N", n.Name)

	pt, err := c.Landmark(15)
	require.NoError(t, err)
	assert.Equal(t, "Pt", pt.Name)

	for _, a := range c.Angles {
		if a.Name == "Kąt SNA" {
			assert.Equal(t, [3]int{2, 1, 5}, a.Operands)
			require.NotNil(t, a.Norm)
			assert.Equal(t, 82.0, a.Norm.Mean)
			assert.Equal(t, 2, a.Start())
			assert.Equal(t, 1, a.Vertex())
			assert.Equal(t, 5, a.End())
		}
	}
}

func TestOrdinalMapping(t *testing.T) {
	c := Default()

	idx, err := c.OrdinalToIndex(1)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	ord, err := c.IndexToOrdinal(14)
	require.NoError(t, err)
	assert.Equal(t, 15, ord)

	_, err = c.OrdinalToIndex(0)
	assert.ErrorIs(t, err, ErrOrdinalOutOfRange)
	_, err = c.OrdinalToIndex(16)
	assert.ErrorIs(t, err, ErrOrdinalOutOfRange)
	_, err = c.IndexToOrdinal(15)
	assert.ErrorIs(t, err, ErrOrdinalOutOfRange)

	for i := 0; i < c.Len(); i++ {
		assert.Equal(t, i, OrdinalToIndex(IndexToOrdinal(i)))
	}
}

func TestUsageAndLabel(t *testing.T) {
	c := Default()

	// Nasion takes part in every angle except the mandibular body angle.
	used := c.Usage(1)
	assert.Len(t, used, 6)
	assert.NotContains(t, used, "Kąt trzonu żuchwy")

	assert.Empty(t, c.Usage(4))
	assert.Equal(t, "Go", c.Label(9))
	assert.Equal(t, "#16", c.Label(15))

	l, ok := c.ByName("ans")
	assert.True(t, ok)
	assert.Equal(t, 11, l.Ordinal)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cat  Catalog
	}{
		{"empty", Catalog{}},
		{"gap", Catalog{Landmarks: []Landmark{{Ordinal: 1, Name: "A"}, {Ordinal: 3, Name: "B"}}}},
		{"duplicate", Catalog{Landmarks: []Landmark{{Ordinal: 1, Name: "A"}, {Ordinal: 2, Name: "A"}}}},
		{"operand out of range", Catalog{
			Landmarks: []Landmark{{Ordinal: 1, Name: "A"}},
			Angles:    []AngleDefinition{{Operands: [3]int{1, 1, 2}, Name: "x"}},
		}},
		{"negative deviation", Catalog{
			Landmarks: []Landmark{{Ordinal: 1, Name: "A"}},
			Angles:    []AngleDefinition{{Operands: [3]int{1, 1, 1}, Name: "x", Norm: &Norm{Mean: 1, Deviation: -1}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cat.Validate(), ErrInvalid)
		})
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
locale: en
landmarks:
  - {ordinal: 1, name: P, description: first}
  - {ordinal: 2, name: Q, description: second}
  - {ordinal: 3, name: R, description: third}
angles:
  - operands: [1, 2, 3]
    name: PQR
    norm: {mean: 90, deviation: 5}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "en", c.Locale)
	assert.Equal(t, 3, c.Len())
	require.Len(t, c.Angles, 1)
	assert.Equal(t, [3]int{1, 2, 3}, c.Angles[0].Operands)
	require.NotNil(t, c.Angles[0].Norm)
	assert.Equal(t, "90±5", c.Angles[0].Norm.String())
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"landmarks":[{"ordinal":2,"name":"X"}]}`), 0o644))
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), c.Len())
}
