package registry

import (
	"fmt"
	"sort"
)

type BlockType uint16

const (
	BlockEmpty BlockType = iota
	BlockGrass
	BlockDirt
	BlockStone
	BlockLava
	BlockWater
	BlockSnow
	BlockBedrock
	BlockWood
	BlockLeaf
	BlockIce
	BlockRedFlower
	BlockCrossGrass
	BlockMushroom
	BlockLakeBottom
	BlockSand
	BlockEvil
	BlockLeafMold
	BlockFrozenDirt
	BlockGreyMushroom
	BlockBush
	BlockDeadBranch
	BlockGold
	BlockCoal
	BlockRuby
	BlockYellowRock
	BlockOrangeRock
	BlockRedRock
	BlockCloud

	blockCount
)

// BlockFace identifies a face of a block
type BlockFace uint8

const (
	FaceLeft   BlockFace = iota // -x
	FaceRight                   // +x
	FaceFront                   // +z
	FaceBack                    // -z
	FaceTop
	FaceBottom
)

var faceNames = [...]string{"left", "right", "front", "back", "top", "bottom"}

func (f BlockFace) String() string {
	if int(f) < len(faceNames) {
		return faceNames[f]
	}
	return fmt.Sprintf("face(%d)", uint8(f))
}

// Tile is the lower-left corner of a texture cell in the 16x16 atlas,
// in cell units.
type Tile struct {
	X, Y float32
}

// BlockDefinition defines the properties of a block type
type BlockDefinition struct {
	ID   BlockType
	Name string

	TileSide Tile
	TileTop  Tile // equal to TileSide unless the top face differs

	// Shade is the per-block lighting coefficient handed to the shader.
	Shade float32
	// Animated selects a shader-side animation program; 0 is static.
	Animated float32

	Opaque     bool
	Cross      bool
	Collidable bool
	Liquid     bool
}

var (
	Blocks     [blockCount]*BlockDefinition
	BlockNames = make(map[string]BlockType)
)

func RegisterBlock(def *BlockDefinition) {
	if def.TileTop == (Tile{}) {
		def.TileTop = def.TileSide
	}
	Blocks[def.ID] = def
	BlockNames[def.Name] = def.ID
}

// Get returns the definition for t, or the empty definition for unknown ids.
func Get(t BlockType) *BlockDefinition {
	if t < blockCount && Blocks[t] != nil {
		return Blocks[t]
	}
	return Blocks[BlockEmpty]
}

// ByName looks up a block by its registry name.
func ByName(name string) (BlockType, bool) {
	t, ok := BlockNames[name]
	return t, ok
}

// Names returns all registered block names sorted.
func Names() []string {
	names := make([]string, 0, len(BlockNames))
	for n := range BlockNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (t BlockType) String() string {
	if t < blockCount && Blocks[t] != nil {
		return Blocks[t].Name
	}
	return fmt.Sprintf("block(%d)", uint16(t))
}

// IsOpaque reports whether t hides the faces of blocks behind it.
func IsOpaque(t BlockType) bool { return Get(t).Opaque }

// IsCross reports whether t renders as crossed decal planes.
func IsCross(t BlockType) bool { return Get(t).Cross }

// IsCollidable reports whether rays and feet stop at t.
func IsCollidable(t BlockType) bool { return Get(t).Collidable }

// IsLiquid reports water, lava and ice. Erosion never recaps these.
func IsLiquid(t BlockType) bool { return Get(t).Liquid }

// TileFor returns the atlas tile used on the given face.
func (d *BlockDefinition) TileFor(face BlockFace) Tile {
	if face == FaceTop {
		return d.TileTop
	}
	return d.TileSide
}

func solid(id BlockType, name string, side Tile, shade float32) *BlockDefinition {
	return &BlockDefinition{ID: id, Name: name, TileSide: side, Shade: shade, Opaque: true, Collidable: true}
}

func decal(id BlockType, name string, side Tile) *BlockDefinition {
	return &BlockDefinition{ID: id, Name: name, TileSide: side, Shade: 5, Cross: true}
}

func init() {
	RegisterBlock(&BlockDefinition{ID: BlockEmpty, Name: "empty"})

	grass := solid(BlockGrass, "grass", Tile{3.01, 15.01}, 5)
	grass.TileTop = Tile{8.01, 13.01}
	RegisterBlock(grass)
	RegisterBlock(solid(BlockDirt, "dirt", Tile{2.01, 15.01}, 5))
	RegisterBlock(solid(BlockStone, "stone", Tile{1.01, 15.01}, 3))
	RegisterBlock(&BlockDefinition{
		ID: BlockLava, Name: "lava", TileSide: Tile{14.01, 1.01},
		Shade: 8, Animated: 1, Collidable: true, Liquid: true,
	})
	RegisterBlock(&BlockDefinition{
		ID: BlockWater, Name: "water", TileSide: Tile{14.01, 3.01},
		Shade: 8, Animated: 1, Liquid: true,
	})
	snow := solid(BlockSnow, "snow", Tile{4.01, 11.01}, 5)
	snow.TileTop = Tile{2.01, 11.01}
	RegisterBlock(snow)
	RegisterBlock(solid(BlockBedrock, "bedrock", Tile{1.01, 14.01}, 3))
	wood := solid(BlockWood, "wood", Tile{4.01, 14.01}, 5)
	wood.TileTop = Tile{5.01, 14.01}
	RegisterBlock(wood)
	leaf := solid(BlockLeaf, "leaf", Tile{5.01, 12.01}, 5)
	leaf.Animated = 10
	RegisterBlock(leaf)
	RegisterBlock(&BlockDefinition{
		ID: BlockIce, Name: "ice", TileSide: Tile{3.01, 11.01},
		Shade: 3, Collidable: true, Liquid: true,
	})
	RegisterBlock(decal(BlockRedFlower, "red_flower", Tile{12.01, 15.01}))
	RegisterBlock(decal(BlockCrossGrass, "cross_grass", Tile{7.01, 13.01}))
	RegisterBlock(decal(BlockMushroom, "mushroom", Tile{12.01, 14.01}))
	RegisterBlock(solid(BlockLakeBottom, "lake_bottom", Tile{2.01, 14.01}, 3))
	RegisterBlock(solid(BlockSand, "sand", Tile{0.01, 4.01}, 5))
	RegisterBlock(solid(BlockEvil, "evil", Tile{5.01, 13.01}, 5))
	RegisterBlock(solid(BlockLeafMold, "leaf_mold", Tile{4.01, 12.01}, 5))
	frozen := solid(BlockFrozenDirt, "frozen_dirt", Tile{13.01, 11.01}, 5)
	frozen.TileTop = Tile{14.01, 11.01}
	RegisterBlock(frozen)
	RegisterBlock(decal(BlockGreyMushroom, "grey_mushroom", Tile{13.01, 14.01}))
	RegisterBlock(decal(BlockBush, "bush", Tile{15.01, 12.01}))
	RegisterBlock(decal(BlockDeadBranch, "dead_branch", Tile{7.01, 12.01}))
	RegisterBlock(solid(BlockGold, "gold", Tile{0.01, 13.01}, 3))
	RegisterBlock(solid(BlockCoal, "coal", Tile{2.01, 13.01}, 3))
	RegisterBlock(solid(BlockRuby, "ruby", Tile{3.01, 12.01}, 3))
	RegisterBlock(solid(BlockYellowRock, "yellow_rock", Tile{2.01, 5.01}, 5))
	RegisterBlock(solid(BlockOrangeRock, "orange_rock", Tile{2.01, 2.01}, 5))
	RegisterBlock(solid(BlockRedRock, "red_rock", Tile{1.01, 7.01}, 5))
	RegisterBlock(&BlockDefinition{
		ID: BlockCloud, Name: "cloud", TileSide: Tile{-1, -1},
		Shade: 8, Animated: 9,
	})
}
