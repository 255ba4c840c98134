package gen

import (
	"anvilgen/internal/block"
	"anvilgen/internal/climate"
	"anvilgen/internal/voxel"
)

// OceanBlocks selects the fluids of the ocean pass.
type OceanBlocks struct {
	Air   block.Block
	Ocean block.Block
	Ice   block.Block
}

// DefaultOceanBlocks is still water with ice.
func DefaultOceanBlocks() OceanBlocks {
	return OceanBlocks{Air: block.Air, Ocean: block.StillWater, Ice: block.Ice}
}

// OceanPass floods air below SeaTop with the ocean block. With IceCaps
// enabled, the surface layer freezes wherever the climate is cold enough.
type OceanPass struct {
	Blocks OceanBlocks
	// SeaTop is the exclusive upper bound of the flooded volume; 0 disables
	// the pass entirely.
	SeaTop  uint32
	IceCaps bool
}

// Apply implements Pass.
func (p *OceanPass) Apply(target *voxel.Column, climates *climate.Layer, pos voxel.GlobalColumnPos) {
	if p.SeaTop == 0 {
		return
	}

	hasIce := uint32(0)
	if p.IceCaps {
		hasIce = 1
	}

	// Whole cubes below the sea surface flood with a bulk replace.
	chunkBase := (p.SeaTop - hasIce) / 16
	for i := uint32(0); i < chunkBase && i < 16; i++ {
		target.Cubes[i].Replace(p.Blocks.Air, p.Blocks.Ocean)
	}

	if chunkBase > 15 {
		return
	}

	cube := target.Cubes[chunkBase]

	// Nothing to flood if the partial cube never contained air.
	if _, ok := cube.Palette().ReverseLookup(p.Blocks.Air); !ok {
		return
	}

	cube.EnsureAvailable(p.Blocks.Ocean)
	if p.IceCaps {
		cube.EnsureAvailable(p.Blocks.Ice)
	}

	storage, palette := cube.FreezePalette()
	ocean, _ := palette.ReverseLookup(p.Blocks.Ocean)
	air, _ := palette.ReverseLookup(p.Blocks.Air)

	seaLayers := (p.SeaTop - hasIce) % 16

	for index := uint16(0); index < uint16(seaLayers*256); index++ {
		position := voxel.CubePosFromYZX(index)

		if storage.Get(position) == air {
			storage.Set(position, ocean)
		}
	}

	if !p.IceCaps {
		return
	}

	ice, _ := palette.ReverseLookup(p.Blocks.Ice)
	y := uint8((p.SeaTop - 1) % 16)

	for zx := 0; zx < 256; zx++ {
		layer := voxel.LayerPosFromZX(uint8(zx))
		position := voxel.CubePosFromLayer(y, layer)

		if storage.Get(position) != air {
			continue
		}

		if climates.Get(uint8(zx)).Freezing() {
			storage.Set(position, ice)
		} else {
			storage.Set(position, ocean)
		}
	}
}
