// Package catalog provides the static landmark and angle definitions that
// drive point placement and angle measurement.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
)

//go:embed default_catalog.json
var defaultCatalog []byte

// ErrInvalid is returned when a catalog fails validation.
var ErrInvalid = errors.New("invalid catalog")

// ErrOrdinalOutOfRange is returned when an ordinal or index does not name a landmark.
var ErrOrdinalOutOfRange = errors.New("landmark ordinal out of range")

// Landmark is a named anatomical point. Ordinals are 1-based.
type Landmark struct {
	Ordinal     int    `json:"ordinal" mapstructure:"ordinal"`
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
}

// Norm is a clinical reference range for an angle.
type Norm struct {
	Mean      float64 `json:"mean" mapstructure:"mean"`
	Deviation float64 `json:"deviation" mapstructure:"deviation"`
}

// String renders the norm as "mean±deviation".
func (n Norm) String() string {
	return fmt.Sprintf("%g±%g", n.Mean, n.Deviation)
}

// AngleDefinition names an angle measured at Operands[1] between the rays
// towards Operands[0] and Operands[2]. Operands are landmark ordinals.
type AngleDefinition struct {
	Operands    [3]int `json:"operands" mapstructure:"operands"`
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	Norm        *Norm  `json:"norm,omitempty" mapstructure:"norm"`
}

// Start returns the ray start ordinal.
func (d AngleDefinition) Start() int { return d.Operands[0] }

// Vertex returns the vertex ordinal.
func (d AngleDefinition) Vertex() int { return d.Operands[1] }

// End returns the ray end ordinal.
func (d AngleDefinition) End() int { return d.Operands[2] }

// Catalog holds the landmark list and the angle definitions for a session.
// It is read-only once loaded.
type Catalog struct {
	Locale    string            `json:"locale" mapstructure:"locale"`
	Landmarks []Landmark        `json:"landmarks" mapstructure:"landmarks"`
	Angles    []AngleDefinition `json:"angles" mapstructure:"angles"`
}

// Default returns the built-in cephalometric catalog.
func Default() *Catalog {
	c, err := parse(bytes.NewReader(defaultCatalog), "json")
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a JSON or YAML file.
func LoadFile(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return decode(v)
}

// Load returns the catalog at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

func parse(r io.Reader, format string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Catalog, error) {
	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if c.Locale == "" {
		c.Locale = "pl"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that ordinals are contiguous from 1, names are unique,
// and every angle references existing landmarks.
func (c *Catalog) Validate() error {
	if len(c.Landmarks) == 0 {
		return fmt.Errorf("%w: no landmarks", ErrInvalid)
	}
	names := make(map[string]bool, len(c.Landmarks))
	for i, l := range c.Landmarks {
		if l.Ordinal != i+1 {
			return fmt.Errorf("%w: landmark %q has ordinal %d, expected %d", ErrInvalid, l.Name, l.Ordinal, i+1)
		}
		if l.Name == "" {
			return fmt.Errorf("%w: landmark %d has no name", ErrInvalid, l.Ordinal)
		}
		if names[l.Name] {
			return fmt.Errorf("%w: duplicate landmark %q", ErrInvalid, l.Name)
		}
		names[l.Name] = true
	}
	for _, a := range c.Angles {
		for _, op := range a.Operands {
			if op < 1 || op > len(c.Landmarks) {
				return fmt.Errorf("%w: angle %q references ordinal %d", ErrInvalid, a.Name, op)
			}
		}
		if a.Norm != nil && a.Norm.Deviation < 0 {
			return fmt.Errorf("%w: angle %q has negative norm deviation", ErrInvalid, a.Name)
		}
	}
	return nil
}

// Len returns the number of landmarks, which is also the point store capacity.
func (c *Catalog) Len() int {
	return len(c.Landmarks)
}

// Landmark returns the landmark with the given ordinal.
func (c *Catalog) Landmark(ordinal int) (Landmark, error) {
	idx, err := c.OrdinalToIndex(ordinal)
	if err != nil {
		return Landmark{}, err
	}
	return c.Landmarks[idx], nil
}

// ByName looks up a landmark by its short name.
func (c *Catalog) ByName(name string) (Landmark, bool) {
	for _, l := range c.Landmarks {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Landmark{}, false
}

// OrdinalToIndex maps a 1-based landmark ordinal to a point store index.
func (c *Catalog) OrdinalToIndex(ordinal int) (int, error) {
	if ordinal < 1 || ordinal > len(c.Landmarks) {
		return 0, fmt.Errorf("%w: %d", ErrOrdinalOutOfRange, ordinal)
	}
	return OrdinalToIndex(ordinal), nil
}

// IndexToOrdinal maps a point store index to its landmark ordinal.
func (c *Catalog) IndexToOrdinal(index int) (int, error) {
	if index < 0 || index >= len(c.Landmarks) {
		return 0, fmt.Errorf("%w: index %d", ErrOrdinalOutOfRange, index)
	}
	return IndexToOrdinal(index), nil
}

// OrdinalToIndex is the unchecked ordinal to index mapping.
func OrdinalToIndex(ordinal int) int { return ordinal - 1 }

// IndexToOrdinal is the unchecked index to ordinal mapping.
func IndexToOrdinal(index int) int { return index + 1 }

// Usage returns the names of the angles that use the landmark.
func (c *Catalog) Usage(ordinal int) []string {
	var used []string
	for _, a := range c.Angles {
		for _, op := range a.Operands {
			if op == ordinal {
				used = append(used, a.Name)
				break
			}
		}
	}
	return used
}

// Label returns "Name" for a point index, or "#n" past the catalog end.
func (c *Catalog) Label(index int) string {
	if index >= 0 && index < len(c.Landmarks) {
		return c.Landmarks[index].Name
	}
	return fmt.Sprintf("#%d", IndexToOrdinal(index))
}
