package structure

import (
	"anvilgen/internal/block"
	"anvilgen/internal/mcmath"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// The reference's truncated π, not math.Pi.
	notchPi  = float32(3.141593)
	piOver2  = float32(1.570796)
	minHSize = 1.5
)

// caveRarity makes most chunks spawn no cave starts at all while letting the
// rare populated chunk spawn many; starts in other chunks still carve through.
var caveRarity = chancePacked3{max: 39, chance: 15}

// chancePacked3 is the Chance<Packed3> distribution of the cave start count,
// inlined here so the structure package does not depend on gen.
type chancePacked3 struct {
	max    uint32
	chance uint32
}

func (d chancePacked3) next(r *rng.Source) uint32 {
	payload := r.NextU32Bound(d.max + 1)
	payload = r.NextU32Bound(payload + 1)
	payload = r.NextU32Bound(payload + 1)

	if r.NextU32Bound(d.chance) == 0 {
		return payload
	}

	return 0
}

// CavesGenerator carves branching tunnel systems.
type CavesGenerator struct {
	Carve        block.Block
	Lower        block.Block
	SurfaceBlock block.Block
	Ocean        block.Matcher
	SurfaceTop   block.Matcher
	SurfaceFill  block.Matcher
	Carvable     block.Matcher
	// SpheroidSizeMultiplier widens every carved spheroid (nether uses 2).
	SpheroidSizeMultiplier float32
	// VerticalMultiplier flattens spheroids vertically (nether uses 0.5).
	VerticalMultiplier float64
	// LowerSurface is the Y below which carving exposes Lower instead of Carve.
	LowerSurface uint8
}

// DefaultCavesGenerator returns the overworld configuration.
func DefaultCavesGenerator() *CavesGenerator {
	return &CavesGenerator{
		Carve:                  block.Air,
		Lower:                  block.FlowingLava,
		SurfaceBlock:           block.Grass,
		Ocean:                  block.Include(block.FlowingWater, block.StillWater),
		SurfaceTop:             block.Is(block.Grass),
		SurfaceFill:            block.Is(block.Dirt),
		Carvable:               block.Include(block.Stone, block.Grass, block.Dirt),
		SpheroidSizeMultiplier: 1.0,
		VerticalMultiplier:     1.0,
		LowerSurface:           10,
	}
}

type cavesAssociations struct {
	carve   voxel.ColumnAssociation
	lower   voxel.ColumnAssociation
	surface voxel.ColumnAssociation
}

// Generate implements Generator.
func (g *CavesGenerator) Generate(r *rng.Source, column *voxel.Column, chunk, from voxel.GlobalColumnPos, radius uint32) {
	caves := newCaves(r, chunk, from, radius, g.SpheroidSizeMultiplier)

	column.EnsureAvailable(g.Carve)
	column.EnsureAvailable(g.Lower)
	column.EnsureAvailable(g.SurfaceBlock)

	blocks, palette := column.FreezePalettes()

	carve, _ := palette.ReverseLookup(g.Carve)
	lower, _ := palette.ReverseLookup(g.Lower)
	surface, _ := palette.ReverseLookup(g.SurfaceBlock)

	assoc := cavesAssociations{carve: carve, lower: lower, surface: surface}

	for {
		tunnel, spheroid, ok := caves.next()
		switch {
		case !ok:
			return
		case tunnel != nil:
			g.carveTunnel(tunnel, caves, &assoc, blocks, palette, chunk)
		case spheroid != nil:
			g.carveSpheroid(spheroid, &assoc, blocks, palette, chunk)
		}
	}
}

func (g *CavesGenerator) carveTunnel(
	tunnel *tunnel, caves *caves, assoc *cavesAssociations,
	blocks *voxel.ColumnBlocks, palette *voxel.ColumnPalettes, chunk voxel.GlobalColumnPos,
) {
	for {
		outcome, spheroid := tunnel.step(g.VerticalMultiplier)

		switch outcome {
		case outcomeSplit:
			a, b := tunnel.forkChildren(caves)

			g.carveTunnel(a, caves, assoc, blocks, palette, chunk)
			g.carveTunnel(b, caves, assoc, blocks, palette, chunk)

			return
		case outcomeUnreachable, outcomeDone:
			return
		case outcomeCarve:
			if spheroid != nil {
				g.carveSpheroid(spheroid, assoc, blocks, palette, chunk)
			}
		}
		// Constrict and out-of-chunk steps continue without carving.
	}
}

func (g *CavesGenerator) carveSpheroid(
	s *spheroid, assoc *cavesAssociations,
	blocks *voxel.ColumnBlocks, palette *voxel.ColumnPalettes, chunk voxel.GlobalColumnPos,
) {
	chunkBlockX := float64(chunk.X) * 16.0
	chunkBlockZ := float64(chunk.Z) * 16.0

	// Abort if the spheroid borders ocean, so caves don't drain the sea into
	// themselves. Chunk boundaries still slip through this check; there is no
	// cheap way to fix that without neighbor access.
	yTop := int(s.upper.Y()) + 2
	yBottom := int(s.lower.Y()) - 1

	checkWater := func(x, y, z int) bool {
		b := blocks.Get(voxel.NewColumnPos(uint8(x), uint8(y), uint8(z)), palette)
		return g.Ocean.Matches(b)
	}

	for z := int(s.lower.Z()); z <= int(s.upper.Z()); z++ {
		for x := int(s.lower.X()); x <= int(s.upper.X()); x++ {
			edge := z == int(s.lower.Z()) || z == int(s.upper.Z()) ||
				x == int(s.lower.X()) || x == int(s.upper.X())

			if !edge {
				if checkWater(x, yTop, z) || checkWater(x, yBottom, z) {
					return
				}
				continue
			}

			for y := yTop; y >= yBottom; y-- {
				if checkWater(x, y, z) {
					return
				}
			}
		}
	}

	for z := int(s.lower.Z()); z <= int(s.upper.Z()); z++ {
		for x := int(s.lower.X()); x <= int(s.upper.X()); x++ {
			hitSurfaceTop := false

			// Walk downwards so exposed grass gets pulled down with the floor.
			for y := int(s.upper.Y()); y >= int(s.lower.Y()); y-- {
				position := voxel.NewColumnPos(uint8(x), uint8(y), uint8(z))

				scaledX := (float64(x) + chunkBlockX + 0.5 - s.center[0]) / s.horizontal
				scaledY := (float64(y) + 0.5 - s.center[1]) / s.vertical
				scaledZ := (float64(z) + chunkBlockZ + 0.5 - s.center[2]) / s.horizontal

				// The scaledY > -0.7 condition flattens cave floors.
				if scaledY <= -0.7 || scaledX*scaledX+scaledY*scaledY+scaledZ*scaledZ >= 1.0 {
					continue
				}

				b := blocks.Get(position, palette)

				if g.SurfaceTop.Matches(b) {
					hitSurfaceTop = true
				}

				if !g.Carvable.Matches(b) && !g.Ocean.Matches(b) {
					continue
				}

				if uint8(y) < g.LowerSurface {
					blocks.Set(position, &assoc.lower)
					continue
				}

				blocks.Set(position, &assoc.carve)

				if y > 0 && hitSurfaceTop {
					below := voxel.NewColumnPos(uint8(x), uint8(y-1), uint8(z))

					if g.SurfaceFill.Matches(blocks.Get(below, palette)) {
						blocks.Set(below, &assoc.surface)
					}
				}
			}
		}
	}
}

// caves enumerates the cave starts of one neighbor chunk.
type caves struct {
	state          *rng.Source
	chunk          voxel.GlobalColumnPos
	from           voxel.GlobalColumnPos
	remaining      uint32
	maxChunkRadius uint32
	sizeMultiplier float32

	extraRemaining uint32
	extraOrigin    mgl64.Vec3
	hasExtra       bool
}

func newCaves(state *rng.Source, chunk, from voxel.GlobalColumnPos, radius uint32, sizeMultiplier float32) *caves {
	remaining := caveRarity.next(state)

	return &caves{
		state:          state,
		chunk:          chunk,
		from:           from,
		remaining:      remaining,
		maxChunkRadius: radius,
		sizeMultiplier: sizeMultiplier,
	}
}

// next yields either a tunnel start or a circular spheroid (which may be nil
// when it falls outside the target chunk). ok is false once exhausted.
func (c *caves) next() (*tunnel, *spheroid, bool) {
	if c.remaining == 0 {
		return nil, nil, false
	}

	c.remaining--

	if c.hasExtra && c.extraRemaining > 0 {
		c.extraRemaining--

		return newTunnel(c.state, c.chunk, c.extraOrigin, c.maxChunkRadius, c.sizeMultiplier), nil, true
	}

	c.hasExtra = false

	x := c.state.NextI32Bound(16)
	y := c.state.NextU32Bound(120)
	y = c.state.NextU32Bound(y + 8)
	z := c.state.NextI32Bound(16)

	origin := mgl64.Vec3{
		float64(c.from.X*16 + x),
		float64(y),
		float64(c.from.Z*16 + z),
	}

	if c.state.NextU32Bound(4) == 0 {
		circular := circularStart(c.state, c.chunk, origin, c.maxChunkRadius)
		extra := 1 + c.state.NextU32Bound(4)

		c.remaining += extra
		c.extraRemaining = extra
		c.extraOrigin = origin
		c.hasExtra = true

		return nil, circular, true
	}

	return newTunnel(c.state, c.chunk, origin, c.maxChunkRadius, c.sizeMultiplier), nil, true
}

// circularStart produces the single wide spheroid of a circular cave room.
func circularStart(r *rng.Source, chunk voxel.GlobalColumnPos, origin mgl64.Vec3, maxChunkRadius uint32) *spheroid {
	sizeFactor := 1.0 + r.NextF32()*6.0
	state := rng.New(r.NextU64())

	size := newSystemSize(state, 0, maxChunkRadius)
	size.current = size.max / 2

	horizontal := minHSize + float64(mcmath.Sin(float32(size.current)*notchPi/float32(size.max))*sizeFactor)

	pos := position{
		chunk: chunk,
		pos:   mgl64.Vec3{origin[0] + 1.0, origin[1], origin[2]},
	}

	if pos.outOfChunk(horizontal) {
		return nil
	}

	return pos.spheroid(horizontal, horizontal*0.5)
}

type outcome uint8

const (
	outcomeSplit outcome = iota
	outcomeConstrict
	outcomeUnreachable
	outcomeOutOfChunk
	outcomeCarve
	outcomeDone
)

// tunnel is the full carving state of one tunnel.
type tunnel struct {
	state    *rng.Source
	position position
	size     systemSize
	// split is the size at which the tunnel forks; -1 when it never forks.
	split int64
	// pitchKeep damps the pitch each step: 0.92 carves steep tunnels, 0.7 normal.
	pitchKeep  float32
	sizeFactor float32
}

func newTunnel(r *rng.Source, chunk voxel.GlobalColumnPos, origin mgl64.Vec3, maxChunkRadius uint32, sizeMultiplier float32) *tunnel {
	pos := position{
		chunk: chunk,
		pos:   origin,
		yaw:   r.NextF32() * notchPi * 2.0,
		pitch: (r.NextF32() - 0.5) / 4.0,
	}

	sizeFactor := (r.NextF32()*2.0 + r.NextF32()) * sizeMultiplier

	state := rng.New(r.NextU64())
	size := newSystemSize(state, 0, maxChunkRadius)

	return &tunnel{
		state:      state,
		position:   pos,
		size:       size,
		split:      size.splitPoint(state, sizeFactor),
		pitchKeep:  pitchKeep(state),
		sizeFactor: sizeFactor,
	}
}

func pitchKeep(state *rng.Source) float32 {
	if state.NextU32Bound(6) == 0 {
		return 0.92
	}

	return 0.7
}

// splitOff forks a child tunnel at the current position with a yaw offset.
// The child's RNG seed comes from the ROOT chunk RNG, not the tunnel's own
// stream; see split.
func (t *tunnel) splitOff(root *rng.Source, yawOffset float32) *tunnel {
	pos := position{
		chunk: t.position.chunk,
		pos:   t.position.pos,
		yaw:   t.position.yaw + yawOffset,
		pitch: t.position.pitch / 3.0,
	}

	sizeFactor := t.state.NextF32()*0.5 + 0.5

	state := rng.New(root.NextU64())
	size := t.size

	return &tunnel{
		state:      state,
		position:   pos,
		size:       size,
		split:      size.splitPoint(state, sizeFactor),
		pitchKeep:  pitchKeep(state),
		sizeFactor: sizeFactor,
	}
}

// split forks the tunnel into its two children. Splitting draws from the root
// chunk RNG (MC-7196): when the unreachable check aborts a tunnel before its
// split point, the root stream shifts, producing the reference's chunk-edge
// discontinuities. Reproduced on purpose.
func (t *tunnel) forkChildren(caves *caves) (*tunnel, *tunnel) {
	return t.splitOff(caves.state, -piOver2), t.splitOff(caves.state, piOver2)
}

// unreachable tests whether the tunnel can still reach the target chunk.
// The reference subtracts remaining² from the squared distance, which is not
// a valid metric (MC-7200), and the bug is part of the output contract.
func (t *tunnel) unreachable() bool {
	remaining := float64(t.size.max - t.size.current)
	buffer := float64(t.sizeFactor*2.0 + 16.0)

	return t.position.distanceFromChunkSquared()-remaining*remaining > buffer*buffer
}

func (t *tunnel) nextSpheroidSize() float64 {
	return minHSize + float64(mcmath.Sin(float32(t.size.current)*notchPi/float32(t.size.max))*t.sizeFactor)
}

// step advances the tunnel one block and decides what happens there.
func (t *tunnel) step(verticalMultiplier float64) (outcome, *spheroid) {
	if t.size.done() {
		return outcomeDone, nil
	}

	t.position.step(t.state, t.pitchKeep)

	if t.split >= 0 && int64(t.size.current) == t.split {
		return outcomeSplit, nil
	}

	if t.state.NextU32Bound(4) == 0 {
		t.size.step()
		return outcomeConstrict, nil
	}

	if t.unreachable() {
		return outcomeUnreachable, nil
	}

	horizontal := t.nextSpheroidSize()

	if t.position.outOfChunk(horizontal) {
		t.size.step()
		return outcomeOutOfChunk, nil
	}

	s := t.position.spheroid(horizontal, horizontal*verticalMultiplier)
	t.size.step()

	return outcomeCarve, s
}

// systemSize tracks tunnel progress in steps.
type systemSize struct {
	current uint32
	max     uint32
}

func newSystemSize(r *rng.Source, current, maxChunkRadius uint32) systemSize {
	maxBlockRadius := maxChunkRadius*16 - 16
	max := maxBlockRadius - r.NextU32Bound(maxBlockRadius/4)

	return systemSize{current: current, max: max}
}

func (s *systemSize) step() {
	s.current++
}

func (s systemSize) done() bool {
	return s.current >= s.max
}

// splitPoint draws where the tunnel forks; tunnels with a small size factor
// never fork (-1).
func (s systemSize) splitPoint(r *rng.Source, sizeFactor float32) int64 {
	split := r.NextU32Bound(s.max/2) + s.max/4

	if sizeFactor > 1.0 {
		return int64(split)
	}

	return -1
}

// position is the tunnel head: absolute block position plus angles and their
// velocities.
type position struct {
	chunk voxel.GlobalColumnPos
	pos   mgl64.Vec3

	yaw, pitch       float32
	yawVel, pitchVel float32
}

// step advances one block along the heading and perturbs the angles.
func (p *position) step(r *rng.Source, pitchKeep float32) {
	cosPitch := mcmath.Cos(p.pitch)

	p.pos[0] += float64(mcmath.Cos(p.yaw) * cosPitch)
	p.pos[1] += float64(mcmath.Sin(p.pitch))
	p.pos[2] += float64(mcmath.Sin(p.yaw) * cosPitch)

	p.pitch *= pitchKeep
	p.pitch += p.pitchVel * 0.1
	p.yaw += p.yawVel * 0.1

	p.pitchVel *= 0.9
	p.yawVel *= 0.75
	p.pitchVel += (r.NextF32() - r.NextF32()) * r.NextF32() * 2.0
	p.yawVel += (r.NextF32() - r.NextF32()) * r.NextF32() * 4.0
}

func (p *position) distanceFromChunkSquared() float64 {
	dx := p.pos[0] - float64(p.chunk.X)*16.0 - 8.0
	dz := p.pos[2] - float64(p.chunk.Z)*16.0 - 8.0

	return dx*dx + dz*dz
}

func (p *position) outOfChunk(horizontal float64) bool {
	diameter := horizontal * 2.0

	return p.pos[0] < float64(p.chunk.X)*16.0-8.0-diameter ||
		p.pos[2] < float64(p.chunk.Z)*16.0-8.0-diameter ||
		p.pos[0] > float64(p.chunk.X)*16.0+24.0+diameter ||
		p.pos[2] > float64(p.chunk.Z)*16.0+24.0+diameter
}

// spheroid clamps the bounding box into the chunk; nil when nothing would be
// carved (a case outOfChunk does not catch).
func (p *position) spheroid(horizontal, vertical float64) *spheroid {
	lowerX := int32(mcmath.FloorClamped(p.pos[0]-horizontal)) - p.chunk.X*16 - 1
	lowerY := int32(mcmath.FloorClamped(p.pos[1]-vertical)) - 1
	lowerZ := int32(mcmath.FloorClamped(p.pos[2]-horizontal)) - p.chunk.Z*16 - 1

	upperX := int32(mcmath.FloorClamped(p.pos[0]+horizontal)) - p.chunk.X*16 + 1
	upperY := int32(mcmath.FloorClamped(p.pos[1]+vertical)) + 1
	upperZ := int32(mcmath.FloorClamped(p.pos[2]+horizontal)) - p.chunk.Z*16 + 1

	lx := clampI32(lowerX, 0, 16)
	ly := clampI32(lowerY, 1, 255)
	lz := clampI32(lowerZ, 0, 16)

	ux := clampI32(upperX, 0, 16)
	uy := clampI32(upperY, 0, 120)
	uz := clampI32(upperZ, 0, 16)

	if lx >= ux || ly >= uy || lz >= uz {
		return nil
	}

	return &spheroid{
		center:     p.pos,
		horizontal: horizontal,
		vertical:   vertical,
		lower:      voxel.NewColumnPos(uint8(lx), uint8(ly), uint8(lz)),
		upper:      voxel.NewColumnPos(uint8(ux-1), uint8(uy-1), uint8(uz-1)),
	}
}

func clampI32(x, min, max int32) int32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}

	return x
}

// spheroid is one excavation volume clamped into the target chunk.
// lower/upper are inclusive chunk-local bounds.
type spheroid struct {
	center     mgl64.Vec3
	horizontal float64
	vertical   float64
	lower      voxel.ColumnPos
	upper      voxel.ColumnPos
}
