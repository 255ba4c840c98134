package decorator

import (
	"math"

	"anvilgen/internal/block"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

const largeTreeTau = 2.0 * 3.14159

// LargeTreeSettings shapes the big oak: a trunk with sloped branches carrying
// foliage clusters.
type LargeTreeSettings struct {
	// BranchScale lengthens or shortens branches relative to the spread.
	BranchScale float64
	// BranchSlope lowers the branch start on the trunk per block of length.
	BranchSlope float64
	// BaseFoliagePerY is added to the squared height factor before truncation.
	BaseFoliagePerY float64
	// TrunkHeightScale is the trunk fraction of the total height.
	TrunkHeightScale float64
	MinHeight        int32
	AddHeight        int32
}

// DefaultLargeTreeSettings is the vanilla big oak.
func DefaultLargeTreeSettings() LargeTreeSettings {
	return LargeTreeSettings{
		BranchScale:      1.0,
		BranchSlope:      0.381,
		BaseFoliagePerY:  1.382,
		TrunkHeightScale: 0.618,
		MinHeight:        5,
		AddHeight:        11,
	}
}

// LargeTreeDecorator places the big oak.
type LargeTreeDecorator struct {
	Blocks   TreeBlocks
	Settings LargeTreeSettings
}

// NewLargeTreeDecorator builds the default big-oak decorator.
func NewLargeTreeDecorator() *LargeTreeDecorator {
	return &LargeTreeDecorator{Blocks: DefaultTreeBlocks(), Settings: DefaultLargeTreeSettings()}
}

// foliageCluster is one leaf ball: the branch endpoint plus where the branch
// leaves the trunk.
type foliageCluster struct {
	base          voxel.QuadPos
	branchYOffset int32
}

func (c *foliageCluster) place(blocks *voxel.QuadBlocks, foliage *voxel.QuadAssociation, palette *voxel.QuadPalettes, replace block.Matcher) {
	position := c.base

	layerAt := func(radius uint8, pos voxel.QuadPos) {
		l := foliageLayer{position: pos, radius: radius}
		l.place(blocks, foliage, palette, replace)
	}

	layerAt(1, position)

	for i := 0; i < 3; i++ {
		next, ok := position.Offset(voxel.Up)
		if !ok {
			return
		}
		position = next
		layerAt(2, position)
	}

	next, ok := position.Offset(voxel.Up)
	if !ok {
		return
	}
	layerAt(1, next)
}

func (d *LargeTreeDecorator) foliagePerY(height float64) int32 {
	heightFactor := height / 13.0
	n := int32(d.Settings.BaseFoliagePerY + heightFactor*heightFactor)

	if n < 1 {
		return 1
	}

	return n
}

func (d *LargeTreeDecorator) foliage(trunkHeight int32, r *rng.Source, spread float64, yOffset int32, origin voxel.QuadPos) (foliageCluster, bool) {
	branchFactor := d.Settings.BranchScale * spread * (float64(r.NextF32()) + 0.328)
	angle := float64(r.NextF32()) * largeTreeTau

	x := int32(math.Floor(branchFactor*math.Sin(angle) + 0.5))
	z := int32(math.Floor(branchFactor*math.Cos(angle) + 0.5))

	branchLength := math.Sqrt(float64(x*x + z*z))

	// Longer branches start lower on the trunk.
	slope := int32(branchLength * d.Settings.BranchSlope)
	branchBase := yOffset - slope
	if branchBase > trunkHeight {
		branchBase = trunkHeight
	}

	base, ok := origin.OffsetXYZ(int8(x), int8(yOffset), int8(z))
	if !ok {
		return foliageCluster{}, false
	}

	return foliageCluster{base: base, branchYOffset: branchBase}, true
}

// Generate implements Decorator.
func (d *LargeTreeDecorator) Generate(quad *voxel.Quad, outer *rng.Source, pos voxel.QuadPos) error {
	r := rng.New(outer.NextU64())

	height := d.Settings.MinHeight + r.NextI32Bound(d.Settings.AddHeight+1)
	trunkHeight := int32(float64(height) * d.Settings.TrunkHeightScale)
	if trunkHeight > height-1 {
		trunkHeight = height - 1
	}

	below, ok := pos.Offset(voxel.Down)
	if !ok {
		return nil
	}

	soil, _ := quad.Get(below)
	if !d.Blocks.Soil.Matches(soil) {
		return nil
	}

	quad.SetImmediate(below, d.Blocks.NewSoil)

	quad.EnsureAvailable(d.Blocks.Log)
	quad.EnsureAvailable(d.Blocks.Foliage)

	blocks, palette := quad.FreezePalettes()

	log, _ := palette.ReverseLookup(d.Blocks.Log)
	leaves, _ := palette.ReverseLookup(d.Blocks.Foliage)

	// The topmost cluster sits at the crown.
	if crown, ok := pos.OffsetXYZ(0, int8(height-4), 0); ok {
		top := foliageCluster{base: crown, branchYOffset: trunkHeight}
		top.place(blocks, &leaves, palette, d.Blocks.Replace)
	}

	clusters := d.foliagePerY(float64(height))

	for yOffset := height - 4; yOffset >= (height*3)/10; yOffset-- {
		for i := int32(0); i < clusters; i++ {
			spread := 0.5 * math.Sqrt(float64(yOffset)*math.Abs(float64(height-yOffset)))

			cluster, ok := d.foliage(trunkHeight, r, spread, yOffset, pos)
			if !ok {
				continue
			}

			cluster.place(blocks, &leaves, palette, d.Blocks.Replace)

			branchStart := voxel.NewQuadPos(pos.X(), uint8(int32(pos.Y())+cluster.branchYOffset), pos.Z())

			traceLine(branchStart, cluster.base, func(limb voxel.QuadPos) {
				blocks.Set(limb, &log)
			})
		}
	}

	d.placeTrunk(pos, blocks, palette, &log, height-4+1)

	return nil
}

func (d *LargeTreeDecorator) placeTrunk(pos voxel.QuadPos, blocks *voxel.QuadBlocks, palette *voxel.QuadPalettes, log *voxel.QuadAssociation, trunkHeight int32) {
	at := pos

	for i := int32(0); i < trunkHeight; i++ {
		if d.Blocks.Replace.Matches(blocks.Get(at, palette)) {
			blocks.Set(at, log)
		}

		next, ok := at.Offset(voxel.Up)
		if !ok {
			return
		}
		at = next
	}
}
