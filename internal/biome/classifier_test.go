package biome

import (
	"testing"

	"riverworld/internal/noise"
	"riverworld/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		m, t float32
		want Type
	}{
		{0.9, 0.9, Jungle},
		{0.5, 0.55, Plain},
		{0.59, 0.55, Plain},
		{0.6, 0.4, Frozen},
		{0.52, 0.48, Tundra},
		{0.3, 0.3, Dark},
		{0.45, 0.45, Mountain},
		{0.1, 0.9, Desert},
		{0.45, 0.6, Desert},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.m, tt.t), "m=%v t=%v", tt.m, tt.t)
	}
}

// TestClassifierDeterministic checks repeated queries and fresh classifiers agree
func TestClassifierDeterministic(t *testing.T) {
	a := NewClassifier(nil)
	b := NewClassifier(nil)
	for x := -300; x < 300; x += 37 {
		for z := -300; z < 300; z += 41 {
			ta, ha := a.Classify(x, z)
			tb, hb := b.Classify(x, z)
			tc, hc := a.Classify(x, z)
			require.Equal(t, ta, tb)
			require.Equal(t, ta, tc)
			require.Equal(t, ha, hb)
			require.Equal(t, ha, hc)
		}
	}
}

func TestSampleRange(t *testing.T) {
	c := NewClassifier(nil)
	for i := 0; i < 200; i++ {
		s := c.Sample(i*97, -i*53)
		assert.GreaterOrEqual(t, s.Moisture, float32(0))
		assert.LessOrEqual(t, s.Moisture, float32(1))
		assert.GreaterOrEqual(t, s.Temperature, float32(0))
		assert.LessOrEqual(t, s.Temperature, float32(1))
	}
}

// forced pins moisture and temperature to the given extremes
func forced(wet, hot bool) *Params {
	p := DefaultParams()
	pin := func(f *noise.FbmParams, high bool) {
		f.ScaleY = 100
		if high {
			f.OffsetY = 1000
		} else {
			f.OffsetY = -1000
		}
	}
	pin(&p.Moisture, wet)
	pin(&p.Temperature, hot)
	return &p
}

func TestParamsOverride(t *testing.T) {
	assert.Equal(t, Jungle, NewClassifier(forced(true, true)).Type(10, 10))
	assert.Equal(t, Frozen, NewClassifier(forced(true, false)).Type(10, 10))
	assert.Equal(t, Dark, NewClassifier(forced(false, false)).Type(10, 10))
	assert.Equal(t, Desert, NewClassifier(forced(false, true)).Type(10, 10))
}

func TestHeightBlendCorners(t *testing.T) {
	p := forced(true, true)
	c := NewClassifier(p)
	for x := 0; x < 64; x += 9 {
		_, h := c.Classify(x, 2*x)
		assert.Equal(t, p.BaseHeight+noise.SealedFbm2D(x, 2*x, p.Jungle), h)
	}

	p = forced(false, false)
	c = NewClassifier(p)
	_, h := c.Classify(5, 5)
	assert.Equal(t, p.BaseHeight+noise.SealedFbm2D(5, 5, p.Dark), h)
}

func TestWeatherPredicates(t *testing.T) {
	wet := NewClassifier(forced(true, true))
	assert.True(t, wet.CanRain(0, 0))
	assert.False(t, wet.CanSnow(0, 0))

	cold := NewClassifier(forced(true, false))
	assert.True(t, cold.CanSnow(0, 0))
	assert.False(t, cold.CanRain(0, 0))
}

func TestBiomeBlocks(t *testing.T) {
	assert.Equal(t, registry.BlockGrass, Plain.TopBlock())
	assert.Equal(t, registry.BlockDirt, Plain.FillBlock())
	assert.Equal(t, registry.BlockWater, Plain.SeaBlock())
	assert.Equal(t, registry.BlockIce, Tundra.SeaBlock())
	assert.Equal(t, registry.BlockFrozenDirt, Tundra.TopBlock())
	assert.Equal(t, registry.BlockWater, Jungle.SeaBlock())

	got, err := Parse("mountain")
	require.NoError(t, err)
	assert.Equal(t, Mountain, got)
	_, err = Parse("ocean")
	assert.Error(t, err)
}
