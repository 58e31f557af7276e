package biome

import (
	"fmt"

	"riverworld/internal/registry"
)

type Type uint8

const (
	Plain Type = iota
	Dark
	Desert
	Frozen
	Jungle
	Tundra
	Mountain
)

// Info defines the blocks a biome lays down
type Info struct {
	Name   string
	Top    registry.BlockType // surface cap
	Filler registry.BlockType // between stone and the cap
	// Freezes reports whether the biome seals submerged columns with ice
	// instead of water.
	Freezes bool
}

var infos = [...]Info{
	Plain:    {Name: "plain", Top: registry.BlockGrass, Filler: registry.BlockDirt},
	Dark:     {Name: "dark", Top: registry.BlockEvil, Filler: registry.BlockEvil, Freezes: true},
	Desert:   {Name: "desert", Top: registry.BlockSand, Filler: registry.BlockSand},
	Frozen:   {Name: "frozen", Top: registry.BlockSnow, Filler: registry.BlockDirt, Freezes: true},
	Jungle:   {Name: "jungle", Top: registry.BlockLeafMold, Filler: registry.BlockLeafMold},
	Tundra:   {Name: "tundra", Top: registry.BlockFrozenDirt, Filler: registry.BlockDirt, Freezes: true},
	Mountain: {Name: "mountain", Top: registry.BlockStone, Filler: registry.BlockStone, Freezes: true},
}

// Types lists every biome in declaration order.
var Types = []Type{Plain, Dark, Desert, Frozen, Jungle, Tundra, Mountain}

func (t Type) Info() Info {
	if int(t) < len(infos) {
		return infos[t]
	}
	return infos[Plain]
}

func (t Type) String() string {
	if int(t) < len(infos) {
		return infos[t].Name
	}
	return fmt.Sprintf("biome(%d)", uint8(t))
}

// TopBlock is the surface cap block.
func (t Type) TopBlock() registry.BlockType { return t.Info().Top }

// FillBlock is the block between stone and the surface.
func (t Type) FillBlock() registry.BlockType { return t.Info().Filler }

// SeaBlock is what fills a column below sea level.
func (t Type) SeaBlock() registry.BlockType {
	if t.Info().Freezes {
		return registry.BlockIce
	}
	return registry.BlockWater
}

// Parse resolves a biome name.
func Parse(name string) (Type, error) {
	for i, info := range infos {
		if info.Name == name {
			return Type(i), nil
		}
	}
	return Plain, fmt.Errorf("unknown biome %q", name)
}
