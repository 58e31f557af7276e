package graphics

import (
	"image"
	"image/color"

	"riverworld/internal/noise"
	"riverworld/internal/registry"
)

const (
	// AtlasTiles is the number of tiles along each atlas edge.
	AtlasTiles = 16
	TilePixels = 16
)

// base colours per block name; "_top" entries cover distinct top tiles
var tileColors = map[string]color.NRGBA{
	"grass":           {106, 122, 70, 255},
	"grass_top":       {92, 160, 60, 255},
	"dirt":            {121, 85, 58, 255},
	"stone":           {125, 125, 125, 255},
	"lava":            {224, 96, 24, 255},
	"water":           {48, 92, 200, 170},
	"snow":            {200, 210, 220, 255},
	"snow_top":        {245, 248, 255, 255},
	"bedrock":         {60, 60, 64, 255},
	"wood":            {102, 76, 46, 255},
	"wood_top":        {150, 120, 80, 255},
	"leaf":            {48, 120, 40, 255},
	"ice":             {160, 200, 240, 200},
	"red_flower":      {200, 30, 40, 255},
	"cross_grass":     {90, 170, 60, 255},
	"mushroom":        {180, 60, 50, 255},
	"lake_bottom":     {90, 80, 60, 255},
	"sand":            {220, 205, 150, 255},
	"evil":            {70, 40, 80, 255},
	"leaf_mold":       {80, 70, 40, 255},
	"frozen_dirt":     {120, 110, 100, 255},
	"frozen_dirt_top": {210, 220, 225, 255},
	"grey_mushroom":   {150, 150, 140, 255},
	"bush":            {70, 130, 50, 255},
	"dead_branch":     {110, 90, 60, 255},
	"gold":            {230, 190, 40, 255},
	"coal":            {40, 40, 40, 255},
	"ruby":            {170, 20, 60, 255},
	"yellow_rock":     {210, 170, 80, 255},
	"orange_rock":     {200, 110, 50, 255},
	"red_rock":        {160, 60, 40, 255},
}

var fallbackColor = color.NRGBA{200, 0, 200, 255}

// GenerateAtlas paints a placeholder block atlas with a flat speckled
// colour in every registered tile. Decal tiles get a transparent
// background.
func GenerateAtlas() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, AtlasTiles*TilePixels, AtlasTiles*TilePixels))
	for _, def := range registry.Blocks {
		if def == nil || def.ID == registry.BlockEmpty || def.ID == registry.BlockCloud {
			continue
		}
		paintTile(img, def.TileSide, tileColor(def.Name), def.Cross)
		if def.TileTop != def.TileSide {
			paintTile(img, def.TileTop, tileColor(def.Name+"_top"), def.Cross)
		}
	}
	return img
}

func tileColor(name string) color.NRGBA {
	if c, ok := tileColors[name]; ok {
		return c
	}
	return fallbackColor
}

func paintTile(img *image.NRGBA, t registry.Tile, c color.NRGBA, decal bool) {
	tx, ty := int(t.X), int(t.Y)
	if tx < 0 || ty < 0 || tx >= AtlasTiles || ty >= AtlasTiles {
		return
	}
	for py := 0; py < TilePixels; py++ {
		for px := 0; px < TilePixels; px++ {
			x, y := tx*TilePixels+px, ty*TilePixels+py
			j := noise.Rand2D(float32(x), float32(y), 12.9898, 78.233, 43758.5453)
			if decal && !decalMask(px, py, j) {
				continue
			}
			img.SetNRGBA(x, y, speckle(c, 0.85+0.3*j))
		}
	}
}

// decalMask draws a stem widening into a ragged crown. Row 0 is the
// bottom of the tile.
func decalMask(px, py int, j float32) bool {
	d := px - TilePixels/2
	if d < 0 {
		d = -d - 1
	}
	if py < TilePixels/2 {
		return d == 0
	}
	return d <= (py-TilePixels/2)/2+1 && j > 0.25
}

func speckle(c color.NRGBA, f float32) color.NRGBA {
	ch := func(v uint8) uint8 {
		return uint8(min(float32(v)*f, 255))
	}
	return color.NRGBA{ch(c.R), ch(c.G), ch(c.B), c.A}
}
