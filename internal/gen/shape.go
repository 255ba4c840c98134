package gen

import (
	"anvilgen/internal/block"
	"anvilgen/internal/climate"
	"anvilgen/internal/mcmath"
	"anvilgen/internal/noise"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"

	"github.com/go-gl/mathgl/mgl64"
)

// TriNoiseSettings configures the three stacked fields of the shape noise.
type TriNoiseSettings struct {
	MainOutScale  float64
	UpperOutScale float64
	LowerOutScale float64
	LowerScale    mgl64.Vec3
	UpperScale    mgl64.Vec3
	MainScale     mgl64.Vec3
	YSize         int
}

// DefaultTriNoiseSettings returns the reference overworld parameters.
func DefaultTriNoiseSettings() TriNoiseSettings {
	return TriNoiseSettings{
		MainOutScale:  20.0,
		UpperOutScale: 512.0,
		LowerOutScale: 512.0,
		LowerScale:    mgl64.Vec3{684.412, 684.412, 684.412},
		UpperScale:    mgl64.Vec3{684.412, 684.412, 684.412},
		MainScale:     mgl64.Vec3{684.412 / 80.0, 684.412 / 160.0, 684.412 / 80.0},
		YSize:         17,
	}
}

// TriNoiseSource blends a lower and an upper noise field by a main selector:
// value = lerp(lower/512, upper/512, clamp(main/20 + 0.5, 0, 1)).
type TriNoiseSource struct {
	lower *noise.PerlinOctavesVertical
	upper *noise.PerlinOctavesVertical
	main  *noise.PerlinOctavesVertical

	mainOutScale  float64
	upperOutScale float64
	lowerOutScale float64
}

// NewTriNoiseSource consumes the RNG for the lower (16 octaves), upper (16)
// and main (8) stacks, in that order.
func NewTriNoiseSource(r *rng.Source, settings TriNoiseSettings) *TriNoiseSource {
	return &TriNoiseSource{
		lower:         noise.NewPerlinOctavesVertical(r, 16, settings.LowerScale, 0.0, settings.YSize),
		upper:         noise.NewPerlinOctavesVertical(r, 16, settings.UpperScale, 0.0, settings.YSize),
		main:          noise.NewPerlinOctavesVertical(r, 8, settings.MainScale, 0.0, settings.YSize),
		mainOutScale:  settings.MainOutScale,
		upperOutScale: settings.UpperOutScale,
		lowerOutScale: settings.LowerOutScale,
	}
}

// Sample evaluates the blend at a noise-grid point; index is the vertical
// table index (equal to point's Y).
func (s *TriNoiseSource) Sample(point mgl64.Vec3, index int) float64 {
	lower := s.lower.GenerateOverride(point, index) / s.lowerOutScale
	upper := s.upper.GenerateOverride(point, index) / s.upperOutScale
	main := s.main.GenerateOverride(point, index)/s.mainOutScale + 0.5

	return mcmath.Lerp(lower, upper, mcmath.Clamp(main, 0.0, 1.0))
}

// ShapeSettings controls the height reduction applied to the tri noise.
type ShapeSettings struct {
	// SeabedStretch amplifies distance below the height center.
	SeabedStretch float64
	// GroundStretch amplifies distance above the height center.
	GroundStretch float64
	// TaperControl is the distance from the top of the field where tapering
	// begins; larger values cut mountains shorter.
	TaperControl float64
	// HeightStretch multiplies the distance from the height center.
	HeightStretch float64
}

// DefaultShapeSettings returns the reference overworld parameters.
func DefaultShapeSettings() ShapeSettings {
	return ShapeSettings{
		SeabedStretch: 4.0,
		GroundStretch: 1.0,
		TaperControl:  4.0,
		HeightStretch: 12.0,
	}
}

// ComputeNoiseValue reduces a tri-noise sample by its distance from the
// height center, then tapers the top of the field toward -10 so terrain never
// reaches the world ceiling.
func (s ShapeSettings) ComputeNoiseValue(y float64, height Height, triNoise float64) float64 {
	distance := y - height.Center

	if distance < 0.0 {
		distance *= s.SeabedStretch
	} else {
		distance *= s.GroundStretch
	}

	reduction := distance * s.HeightStretch / height.Chaos
	value := triNoise - reduction

	return ReduceUpper(value, -10.0, y, s.TaperControl, 17.0)
}

// ReduceUpper linearly drives value toward min as y approaches maxY.
func ReduceUpper(value, min, y, control, maxY float64) float64 {
	threshold := maxY - control
	divisor := control - 1.0
	factor := (maxFloat(y, threshold) - threshold) / divisor

	return mcmath.LerpPrecise(value, min, factor)
}

// ReduceLower linearly drives value toward min as y approaches 0.
func ReduceLower(value, min, y, control float64) float64 {
	divisor := control - 1.0
	factor := (control - minFloat(y, control)) / divisor

	return mcmath.LerpPrecise(value, min, factor)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// TriField is the 5x17x5 shape field, indexed [x][y][z].
type TriField [5][17][5]float64

// Trilinear128 upsamples the field to block resolution for y < 128:
// 4-block cells horizontally, 8-block cells vertically.
func Trilinear128(field *TriField, pos voxel.ColumnPos) float64 {
	innerX := float64(pos.X()%4) / 4.0
	innerY := float64(pos.Y()%8) / 8.0
	innerZ := float64(pos.Z()%4) / 4.0

	ix := int(pos.X() / 4)
	iy := int(pos.Y() / 8)
	iz := int(pos.Z() / 4)

	return mcmath.Lerp(
		mcmath.Lerp(
			mcmath.Lerp(field[ix][iy][iz], field[ix][iy+1][iz], innerY),
			mcmath.Lerp(field[ix+1][iy][iz], field[ix+1][iy+1][iz], innerY),
			innerX,
		),
		mcmath.Lerp(
			mcmath.Lerp(field[ix][iy][iz+1], field[ix][iy+1][iz+1], innerY),
			mcmath.Lerp(field[ix+1][iy][iz+1], field[ix+1][iy+1][iz+1], innerY),
			innerX,
		),
		innerZ,
	)
}

// ShapeBlocks selects the solid/air pair the shape pass writes.
type ShapeBlocks struct {
	Solid block.Block
	Air   block.Block
}

// DefaultShapeBlocks is stone and air.
func DefaultShapeBlocks() ShapeBlocks {
	return ShapeBlocks{Solid: block.Stone, Air: block.Air}
}

// ShapePass fills the lower 128 blocks of a column with solid or air from the
// upsampled tri-noise field.
type ShapePass struct {
	Blocks ShapeBlocks
	Tri    *TriNoiseSource
	Height *HeightSource
	Field  ShapeSettings
}

// Apply implements Pass.
func (p *ShapePass) Apply(target *voxel.Column, climates *climate.Layer, pos voxel.GlobalColumnPos) {
	offsetX := float64(pos.X) * 4.0
	offsetZ := float64(pos.Z) * 4.0

	var field TriField

	for x := 0; x < 5; x++ {
		for z := 0; z < 5; z++ {
			c := climates.Get(LerpToLayer(uint8(x), uint8(z)))
			height := p.Height.Sample(mgl64.Vec2{offsetX + float64(x), offsetZ + float64(z)}, c)

			for y := 0; y < 17; y++ {
				tri := p.Tri.Sample(mgl64.Vec3{offsetX + float64(x), float64(y), offsetZ + float64(z)}, y)

				field[x][y][z] = p.Field.ComputeNoiseValue(float64(y), height, tri)
			}
		}
	}

	target.EnsureAvailable(p.Blocks.Air)
	target.EnsureAvailable(p.Blocks.Solid)

	blocks, palette := target.FreezePalettes()

	air, _ := palette.ReverseLookup(p.Blocks.Air)
	solid, _ := palette.ReverseLookup(p.Blocks.Solid)

	for i := 0; i < 32768; i++ {
		position := voxel.ColumnPosFromYZX(uint16(i))

		if Trilinear128(&field, position) > 0.0 {
			blocks.Set(position, &solid)
		} else {
			blocks.Set(position, &air)
		}
	}
}
