package biome

import (
	"riverworld/internal/noise"
)

// Params holds every noise table used for classification and height.
// A Params value is built once at startup and never mutated afterwards.
type Params struct {
	Dark        noise.FbmParams `yaml:"dark"`
	Desert      noise.FbmParams `yaml:"desert"`
	Frozen      noise.FbmParams `yaml:"frozen"`
	Jungle      noise.FbmParams `yaml:"jungle"`
	Moisture    noise.FbmParams `yaml:"moisture"`
	Temperature noise.FbmParams `yaml:"temperature"`

	SeaLevel   int `yaml:"sea_level"`
	BaseHeight int `yaml:"base_height"`
	// Stretch widens the moisture and temperature fields before clamping.
	Stretch float32 `yaml:"stretch"`
}

// DefaultParams returns the stock world tables.
func DefaultParams() Params {
	p := Params{
		Dark:        noise.DefaultFbmParams(),
		Desert:      noise.DefaultFbmParams(),
		Frozen:      noise.DefaultFbmParams(),
		Jungle:      noise.DefaultFbmParams(),
		Moisture:    noise.DefaultFbmParams(),
		Temperature: noise.DefaultFbmParams(),
		SeaLevel:    128,
		BaseHeight:  129,
		Stretch:     1.33,
	}

	p.Dark.Exponent = 3
	p.Dark.ScaleY = 60
	p.Dark.OffsetY = 10

	p.Desert.Exponent = 1
	p.Desert.ScaleY = 4

	p.Frozen.Exponent = 5
	p.Frozen.ScaleY = 80

	p.Jungle.Exponent = 1
	p.Jungle.ScaleY = 10
	p.Jungle.OffsetY = -7

	p.Moisture.Exponent = 1
	p.Moisture.ScaleX = 0.002
	p.Moisture.ScaleY = 100
	p.Moisture.ScaleZ = 0.002
	p.Moisture.Seed1 = 123.4

	p.Temperature.Exponent = 1
	p.Temperature.ScaleX = 0.002
	p.Temperature.ScaleY = 100
	p.Temperature.ScaleZ = 0.002
	p.Temperature.Seed1 = 345.6

	return p
}

// Sample is the classification of a single column.
type Sample struct {
	Type        Type
	Moisture    float32
	Temperature float32
}

// Classifier maps world columns to biomes. It is a pure function of its
// Params and safe for concurrent use.
type Classifier struct {
	params *Params
}

// NewClassifier binds a classifier to p. A nil p uses DefaultParams.
func NewClassifier(p *Params) *Classifier {
	if p == nil {
		d := DefaultParams()
		p = &d
	}
	return &Classifier{params: p}
}

// Params returns the tables the classifier was built with.
func (c *Classifier) Params() *Params { return c.params }

func (c *Classifier) field(x, z int, p noise.FbmParams) float32 {
	v := float32(noise.SealedFbm2D(x, z, p))
	if p.ScaleY != 0 {
		v /= p.ScaleY
	}
	return noise.Clamp(v*c.params.Stretch, 0, 1)
}

// Sample classifies the column at (x, z).
func (c *Classifier) Sample(x, z int) Sample {
	m := c.field(x, z, c.params.Moisture)
	t := c.field(x, z, c.params.Temperature)
	return Sample{Type: classify(m, t), Moisture: m, Temperature: t}
}

func classify(m, t float32) Type {
	switch {
	case m > 0.58 && t > 0.58:
		return Jungle
	case m > 0.45 && t > 0.5:
		return Plain
	case m > 0.55 && t <= 0.45:
		return Frozen
	case m > 0.5 && t <= 0.5:
		return Tundra
	case m <= 0.4 && t <= 0.4:
		return Dark
	case m <= 0.5 && t <= 0.5:
		return Mountain
	default:
		return Desert
	}
}

// Type returns only the category at (x, z).
func (c *Classifier) Type(x, z int) Type {
	return c.Sample(x, z).Type
}

// Height blends the four height fields with the same moisture and
// temperature weights that pick the category.
func (c *Classifier) Height(s Sample, x, z int) int {
	base := c.params.BaseHeight
	dark := float32(base + noise.SealedFbm2D(x, z, c.params.Dark))
	desert := float32(base + noise.SealedFbm2D(x, z, c.params.Desert))
	frozen := float32(base + noise.SealedFbm2D(x, z, c.params.Frozen))
	jungle := float32(base + noise.SealedFbm2D(x, z, c.params.Jungle))
	return int(noise.Mix(
		noise.Mix(dark, frozen, s.Moisture),
		noise.Mix(desert, jungle, s.Moisture),
		s.Temperature,
	))
}

// Classify returns the category and surface height at (x, z).
func (c *Classifier) Classify(x, z int) (Type, int) {
	s := c.Sample(x, z)
	return s.Type, c.Height(s, x, z)
}

// CanRain reports whether rain falls over the column.
func (c *Classifier) CanRain(x, z int) bool { return c.Type(x, z) == Jungle }

// CanSnow reports whether snow falls over the column.
func (c *Classifier) CanSnow(x, z int) bool { return c.Type(x, z) == Frozen }
