package world

import (
	"riverworld/internal/biome"
	"riverworld/internal/noise"
	"riverworld/internal/profiling"
	"riverworld/internal/registry"
	"riverworld/internal/spatial"
)

// BlockAccess is the write target of terrain synthesis: the live store at
// bootstrap, a Staging chunk on the background job.
type BlockAccess interface {
	GetBlockAt(x, y, z int) registry.BlockType
	SetBlockAt(x, y, z int, t registry.BlockType)
	// UpdateHeight records the rest height of a column, -1 for liquid.
	UpdateHeight(x, z, h int)
}

const (
	cloudHeight = 180
	cloudRegion = 64
	duneStart   = 134
	scanFloor   = 100
	// trees grow on leaf mold up to this far above the sea
	treeBand = 12
)

// AssetParams holds the decoration noise tables.
type AssetParams struct {
	Glacier noise.FbmParams `yaml:"glacier"`
	Ruby    noise.FbmParams `yaml:"ruby"`
	Gold    noise.FbmParams `yaml:"gold"`
	Coal    noise.FbmParams `yaml:"coal"`
}

// DefaultAssetParams returns the stock decoration tables.
func DefaultAssetParams() AssetParams {
	ore := func(seed float32) noise.FbmParams {
		p := noise.DefaultFbmParams()
		p.Exponent = 3
		p.ScaleX = 0.1
		p.ScaleZ = 0.1
		p.Seed1 = seed
		return p
	}
	glacier := noise.DefaultFbmParams()
	glacier.Exponent = 3
	glacier.Seed1 = 432.1
	return AssetParams{
		Glacier: glacier,
		Ruby:    ore(579.1),
		Gold:    ore(135.7),
		Coal:    ore(357.9),
	}
}

// Generator synthesises and decorates terrain. It holds no mutable state.
type Generator struct {
	classifier *biome.Classifier
	assets     AssetParams
}

// NewGenerator creates a generator over the given classifier.
func NewGenerator(c *biome.Classifier, assets AssetParams) *Generator {
	if c == nil {
		c = biome.NewClassifier(nil)
	}
	return &Generator{classifier: c, assets: assets}
}

func (g *Generator) Classifier() *biome.Classifier { return g.classifier }

// BuildChunk fills the chunk at (x0, z0) with base terrain and its cloud.
func (g *Generator) BuildChunk(dst BlockAccess, x0, z0 int) {
	defer profiling.Track("world.BuildChunk")()
	x0, z0 = AlignToChunk(x0), AlignToChunk(z0)
	sea := g.classifier.Params().SeaLevel

	for x := 0; x < ChunkSizeX; x++ {
		for z := 0; z < ChunkSizeZ; z++ {
			xi, zi := x+x0, z+z0
			kind, top := g.classifier.Classify(xi, zi)
			// lakes sink one block
			if top <= sea {
				top--
			}
			if kind == biome.Desert && top > duneStart {
				top = duneStart + int(float32(top-duneStart)*0.3)
			}
			rest := top
			for y := 0; y < ChunkSizeY; y++ {
				var t registry.BlockType
				switch {
				case y <= sea && y < top:
					t = registry.BlockStone
				case y <= sea && y == top:
					t = registry.BlockBedrock
				case y <= sea:
					t = kind.SeaBlock()
					if t == registry.BlockWater {
						rest = -1
					}
				case y < top:
					t = kind.FillBlock()
				case y == top:
					t = kind.TopBlock()
				default:
					t = registry.BlockEmpty
				}
				dst.SetBlockAt(xi, y, zi, t)
			}
			dst.UpdateHeight(xi, zi, rest)
		}
	}
	g.CreateCloud(dst, x0, z0)
}

// WaterErode carves column (x, z) down to restY: air above sea level,
// water or ice below it, and a fresh cap on solid ground.
func (g *Generator) WaterErode(dst BlockAccess, x, z, restY int) {
	kind := g.classifier.Type(x, z)
	sea := g.classifier.Params().SeaLevel
	hasWater := false
	for y := ChunkSizeY - 1; y > restY; y-- {
		if y > sea {
			dst.SetBlockAt(x, y, z, registry.BlockEmpty)
			continue
		}
		hasWater = true
		dst.SetBlockAt(x, y, z, kind.SeaBlock())
	}
	if hasWater {
		dst.UpdateHeight(x, z, -1)
	}

	rest := dst.GetBlockAt(x, restY, z)
	if rest == registry.BlockEmpty || registry.IsLiquid(rest) {
		return
	}
	if restY >= sea {
		dst.SetBlockAt(x, restY, z, kind.TopBlock())
	} else {
		dst.SetBlockAt(x, restY, z, registry.BlockBedrock)
	}
	dst.UpdateHeight(x, z, restY)
}

// CreateCloud places one cloud slab per 64x64 region, inside the chunk at
// the region's origin.
func (g *Generator) CreateCloud(dst BlockAccess, px, pz int) {
	px, pz = AlignToChunk(px), AlignToChunk(pz)
	if px%cloudRegion != 0 || pz%cloudRegion != 0 {
		return
	}
	seed := noise.ColumnSeed(px, pz)
	xori := int(noise.Rand1D(seed+12.3)*3) + px
	xdim := int(noise.Rand1D(seed+123.4)*9) + 4
	zori := int(noise.Rand1D(seed+23.4)*3) + pz
	zdim := int(noise.Rand1D(seed+2314.5)*9) + 4
	for dx := 0; dx <= xdim; dx++ {
		for dz := 0; dz <= zdim; dz++ {
			dst.SetBlockAt(xori+dx, cloudHeight, zori+dz, registry.BlockCloud)
		}
	}
}

// surface returns the highest collidable block between scanFloor and the
// sky, or the world ceiling when the column is open.
func surface(dst BlockAccess, x, z int) int {
	for y := ChunkSizeY - 1; y >= scanFloor; y-- {
		if registry.IsCollidable(dst.GetBlockAt(x, y, z)) {
			return y
		}
	}
	return ChunkSizeY - 1
}

// PlaceAssets decorates every column of scope according to its biome.
func (g *Generator) PlaceAssets(dst BlockAccess, scope spatial.Rect) {
	defer profiling.Track("world.PlaceAssets")()
	for x := scope.XMin; x <= scope.XMax; x++ {
		for z := scope.ZMin; z <= scope.ZMax; z++ {
			top := surface(dst, x, z)
			seed := noise.ColumnSeed(x, z)
			rand := noise.Rand1D(seed)

			switch g.classifier.Type(x, z) {
			case biome.Plain:
				g.plants(dst, x, z, top, rand)
			case biome.Dark:
				g.lava(dst, x, z, top, rand)
			case biome.Desert:
				g.redRock(dst, x, z, top)
			case biome.Frozen:
				g.glacier(dst, x, z, top)
			case biome.Jungle:
				if x > scope.XMin+1 && x < scope.XMax-1 && z > scope.ZMin+1 && z < scope.ZMax-1 {
					g.tree(dst, x, z, top, seed, rand)
				}
			case biome.Tundra:
				g.hardyPlants(dst, x, z, top, rand)
			case biome.Mountain:
				g.ores(dst, x, z, top)
			}
		}
	}
}

func (g *Generator) plants(dst BlockAccess, x, z, top int, rand float32) {
	if top <= g.classifier.Params().SeaLevel || dst.GetBlockAt(x, top, z) != registry.BlockGrass {
		return
	}
	switch {
	case rand > 0.95:
		dst.SetBlockAt(x, top+1, z, registry.BlockMushroom)
	case rand > 0.9:
		dst.SetBlockAt(x, top+1, z, registry.BlockRedFlower)
	case rand > 0.6:
		dst.SetBlockAt(x, top+1, z, registry.BlockCrossGrass)
	}
}

func (g *Generator) hardyPlants(dst BlockAccess, x, z, top int, rand float32) {
	if top <= g.classifier.Params().SeaLevel || dst.GetBlockAt(x, top, z) != registry.BlockFrozenDirt {
		return
	}
	switch {
	case rand > 0.98:
		dst.SetBlockAt(x, top+1, z, registry.BlockBush)
	case rand > 0.96:
		dst.SetBlockAt(x, top+1, z, registry.BlockDeadBranch)
	case rand > 0.9:
		dst.SetBlockAt(x, top+1, z, registry.BlockGreyMushroom)
	}
}

func (g *Generator) lava(dst BlockAccess, x, z, top int, rand float32) {
	if top <= 130 {
		return
	}
	if rand > float32(165-top)/30 && rand > 0.3 {
		end := top - int(float32(top-135)*rand)
		for y := top; y >= end; y-- {
			dst.SetBlockAt(x, y, z, registry.BlockLava)
		}
	}
}

func (g *Generator) redRock(dst BlockAccess, x, z, top int) {
	const bottom = 135
	if top <= bottom {
		return
	}
	orange := top + 1
	red := top + 3 + int(float32(top-bottom)*0.3)
	for y := top + 1; y <= red; y++ {
		if y <= orange {
			dst.SetBlockAt(x, y, z, registry.BlockOrangeRock)
		} else {
			dst.SetBlockAt(x, y, z, registry.BlockRedRock)
		}
	}
}

func (g *Generator) glacier(dst BlockAccess, x, z, top int) {
	if top <= 120 || top >= 140 {
		return
	}
	p := g.assets.Glacier
	if float32(noise.SealedFbm2D(x, z, p))/p.ScaleY <= 0.25*float32(top-130)/10 {
		return
	}
	end := top + 1 + int(float32(140-top)*0.15)
	for y := end; y > top; y-- {
		dst.SetBlockAt(x, y, z, registry.BlockIce)
	}
}

func (g *Generator) tree(dst BlockAccess, x, z, top int, seed, rand float32) {
	sea := g.classifier.Params().SeaLevel
	if top <= sea || top >= sea+treeBand || rand <= 0.92 || dst.GetBlockAt(x, top, z) != registry.BlockLeafMold {
		return
	}
	height := 2 + int(5*noise.Rand1D(seed+12.3))
	leaf := registry.BlockLeafMold
	if noise.Rand1D(seed+23.4) > 0.3 {
		leaf = registry.BlockLeaf
	}
	for y := top + 1; y < top+height; y++ {
		dst.SetBlockAt(x, y, z, registry.BlockWood)
	}
	y := top + height
	for _, r := range []int{1, 2, 1} {
		for xi := x - r; xi <= x+r; xi++ {
			for zi := z - r; zi <= z+r; zi++ {
				dst.SetBlockAt(xi, y, zi, leaf)
			}
		}
		y++
	}
	x0, z0 := x, z
	if noise.Rand1D(seed+34.5) > 0.5 {
		x0--
	}
	if noise.Rand1D(seed+45.6) > 0.5 {
		z0--
	}
	dst.SetBlockAt(x0, y, z0, leaf)
	dst.SetBlockAt(x0+1, y, z0, leaf)
	dst.SetBlockAt(x0, y, z0+1, leaf)
	dst.SetBlockAt(x0+1, y, z0+1, leaf)
}

// ores lays thin ruby, gold and coal bands under mountain surfaces.
func (g *Generator) ores(dst BlockAccess, x, z, top int) {
	const bottom = 130
	if top <= bottom {
		return
	}
	bands := []struct {
		params    noise.FbmParams
		threshold float32
		low, high int
		block     registry.BlockType
	}{
		{g.assets.Ruby, 0.2, 13, 14, registry.BlockRuby},
		{g.assets.Gold, 0.15, 8, 9, registry.BlockGold},
		{g.assets.Coal, 0.08, 2, 5, registry.BlockCoal},
	}
	for _, b := range bands {
		if float32(noise.SealedFbm2D(x, z, b.params))/b.params.ScaleY <= b.threshold {
			continue
		}
		low := bottom + b.low + int(float32(top-bottom)*0.05)
		high := bottom + b.high + int(float32(top-bottom)*0.1)
		for y := low; y <= high && y <= top; y++ {
			dst.SetBlockAt(x, y, z, b.block)
		}
	}
}
