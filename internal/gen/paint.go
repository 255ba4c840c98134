package gen

import (
	"anvilgen/internal/biome"
	"anvilgen/internal/block"
	"anvilgen/internal/climate"
	"anvilgen/internal/noise"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"

	"github.com/go-gl/mathgl/mgl64"
)

// PaintBlocks names the fixed blocks the paint pass works with, alongside the
// per-biome surfaces.
type PaintBlocks struct {
	// Reset matches blocks that restart the surface tracking (air) when they lie
	// above SeaCoord; at or below it they are passed over.
	Reset block.Matcher
	// Ignore matches blocks the painter passes over. Kept for profile parity;
	// the reference painter never consults it.
	Ignore    block.Matcher
	Air       block.Block
	Stone     block.Block
	Gravel    block.Block
	Sand      block.Block
	Sandstone block.Block
	Bedrock   block.Block
}

// DefaultPaintBlocks returns the vanilla block assignment.
func DefaultPaintBlocks() PaintBlocks {
	return PaintBlocks{
		Reset:     block.Is(block.Air),
		Ignore:    block.IsNot(block.Stone),
		Air:       block.Air,
		Stone:     block.Stone,
		Gravel:    block.Gravel,
		Sand:      block.Sand,
		Sandstone: block.Sandstone,
		Bedrock:   block.Bedrock,
	}
}

// surfaceAssociations is a Surface resolved against a frozen column palette.
type surfaceAssociations struct {
	top   voxel.ColumnAssociation
	fill  voxel.ColumnAssociation
	chain []followupAssociation
}

type followupAssociation struct {
	block    voxel.ColumnAssociation
	maxDepth uint32
}

func lookupSurface(surface *biome.Surface, palette *voxel.ColumnPalettes) surfaceAssociations {
	top, _ := palette.ReverseLookup(surface.Top)
	fill, _ := palette.ReverseLookup(surface.Fill)

	chain := make([]followupAssociation, 0, len(surface.Chain))
	for _, followup := range surface.Chain {
		assoc, _ := palette.ReverseLookup(followup.Block)
		chain = append(chain, followupAssociation{block: assoc, maxDepth: followup.MaxDepth})
	}

	return surfaceAssociations{top: top, fill: fill, chain: chain}
}

// PaintPass stratifies the shaped terrain: biome surface layers, beach bands
// around sea level, randomized bedrock at the bottom.
type PaintPass struct {
	Lookup    *biome.Lookup
	Blocks    PaintBlocks
	Sand      *noise.PerlinOctaves
	Gravel    *noise.PerlinOctaves
	Thickness *noise.PerlinOctaves
	SeaCoord  uint8
	// Beach is the inclusive Y band where beach surfaces replace the biome
	// surface; nil disables beaches.
	Beach *[2]uint8
	// MaxBedrockHeight bounds the randomized bedrock band; nil disables bedrock.
	MaxBedrockHeight *uint8
}

// Apply implements Pass.
func (p *PaintPass) Apply(target *voxel.Column, climates *climate.Layer, pos voxel.GlobalColumnPos) {
	maxY := uint8(0)
	for i := 0; i < 8; i++ {
		if !target.Cubes[i].FilledWithHeuristic(p.Blocks.Air) {
			maxY = uint8(i+1) * 16
		}
	}

	blockX := float64(pos.X) * 16.0
	blockZ := float64(pos.Z) * 16.0

	r := rng.New(ColumnSeed(pos))

	biomeLayer := p.Lookup.ClimatesToBiomes(climates)

	sandVertical := p.Sand.VerticalRef(blockZ, 16)
	thicknessVertical := p.Thickness.VerticalRef(blockZ, 16)

	verticalOffset := mgl64.Vec3{blockX, blockZ, 0.0}
	horizontalOffset := mgl64.Vec2{blockX, blockZ}

	target.EnsureAvailable(p.Blocks.Air)
	target.EnsureAvailable(p.Blocks.Stone)
	target.EnsureAvailable(p.Blocks.Gravel)
	target.EnsureAvailable(p.Blocks.Sand)
	target.EnsureAvailable(p.Blocks.Sandstone)
	target.EnsureAvailable(p.Blocks.Bedrock)

	for _, b := range biomeLayer.Palette() {
		target.EnsureAvailable(b.Surface.Top)
		target.EnsureAvailable(b.Surface.Fill)

		for _, followup := range b.Surface.Chain {
			target.EnsureAvailable(followup.Block)
		}
	}

	blocks, palette := target.FreezePalettes()

	surfaces := make([]surfaceAssociations, len(biomeLayer.Palette()))
	for i, b := range biomeLayer.Palette() {
		surfaces[i] = lookupSurface(&b.Surface, palette)
	}

	bedrock, _ := palette.ReverseLookup(p.Blocks.Bedrock)
	airAssoc, _ := palette.ReverseLookup(p.Blocks.Air)
	stoneAssoc, _ := palette.ReverseLookup(p.Blocks.Stone)
	gravelAssoc, _ := palette.ReverseLookup(p.Blocks.Gravel)
	sandAssoc, _ := palette.ReverseLookup(p.Blocks.Sand)
	sandstoneAssoc, _ := palette.ReverseLookup(p.Blocks.Sandstone)

	gravelBeach := surfaceAssociations{top: airAssoc, fill: gravelAssoc}
	sandBeach := surfaceAssociations{
		top:  sandAssoc,
		fill: sandAssoc,
		chain: []followupAssociation{
			{block: sandstoneAssoc, maxDepth: 3},
		},
	}
	basin := surfaceAssociations{top: airAssoc, fill: stoneAssoc}

	for zx := 0; zx < 256; zx++ {
		layer := voxel.LayerPosFromZX(uint8(zx))
		x := float64(layer.X())
		z := float64(layer.Z())

		sandVariation := r.NextF64() * 0.2
		gravelVariation := r.NextF64() * 0.2
		thicknessVariation := r.NextF64() * 0.25

		// Sand and thickness sample along Z through the vertical column cache,
		// gravel samples horizontally.
		column := verticalOffset.Add(mgl64.Vec3{x, z, 0.0})

		sand := sandVertical.GenerateOverride(column, int(layer.Z()))+sandVariation > 0.0
		gravel := p.Gravel.Sample(horizontalOffset.Add(mgl64.Vec2{x, z}))+gravelVariation > 3.0
		thickness := int32(thicknessVertical.GenerateOverride(column, int(layer.Z()))/3.0 + 3.0 + thicknessVariation)

		surface := &surfaces[biomeLayer.Get(uint8(zx))]

		beach := surface
		if sand {
			beach = &sandBeach
		} else if gravel {
			beach = &gravelBeach
		}

		p.paintStack(r, blocks, palette, &bedrock, layer, surface, beach, &basin, thickness, maxY)
	}
}

// paintStack walks one XZ column top-down, laying the bedrock band, the top
// and fill blocks and the followup chain, restarting whenever air resets the
// surface tracking above SeaCoord (air at or below it is passed over).
func (p *PaintPass) paintStack(
	r *rng.Source, blocks *voxel.ColumnBlocks, palette *voxel.ColumnPalettes,
	bedrock *voxel.ColumnAssociation, layer voxel.LayerPos,
	surface, beach, basin *surfaceAssociations, thickness int32, maxY uint8,
) {
	hasReset := thickness != -1
	resetRemaining := uint32(0)
	if thickness > 0 {
		resetRemaining = uint32(thickness)
	}

	hasRemaining := false
	remaining := uint32(0)
	followupIndex := -1

	currentSurface := surface
	if thickness <= 0 {
		currentSurface = basin
	}

	for y := int(maxY) - 1; y >= 0; y-- {
		position := voxel.ColumnPosFromLayer(uint8(y), layer)

		if p.MaxBedrockHeight != nil {
			if uint32(y) <= r.NextU32Bound(uint32(*p.MaxBedrockHeight)) {
				blocks.Set(position, bedrock)
				continue
			}
		}

		existing := blocks.Get(position, palette)

		if p.Blocks.Reset.Matches(existing) {
			if uint8(y) > p.SeaCoord {
				hasRemaining = false
			}

			continue
		}

		switch {
		case hasRemaining && remaining == 0:
			// Strata exhausted; leave the stone in place.

		case hasRemaining:
			b := &currentSurface.fill
			if followupIndex >= 0 {
				b = &currentSurface.chain[followupIndex].block
			}

			blocks.Set(position, b)

			remaining--
			if remaining == 0 {
				newIndex := followupIndex + 1

				if newIndex < len(currentSurface.chain) {
					remaining = r.NextU32Bound(currentSurface.chain[newIndex].maxDepth + 1)
				}

				followupIndex = newIndex
			}

		default:
			if thickness <= 0 {
				currentSurface = basin
			} else if p.Beach != nil && uint8(y) >= p.Beach[0] && uint8(y) <= p.Beach[1] {
				currentSurface = beach
			}

			if uint8(y) >= p.SeaCoord {
				blocks.Set(position, &currentSurface.top)
			} else {
				blocks.Set(position, &currentSurface.fill)
			}

			hasRemaining = hasReset
			remaining = resetRemaining
			followupIndex = -1
		}
	}
}
