// Package render draws overview maps of the generated area: biome coloring,
// grass shading by climate, and a heightmap relief, stitched per region and
// optionally downscaled.
package render

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"anvilgen/internal/biome"
	"anvilgen/internal/climate"
	"anvilgen/internal/light"
	"anvilgen/internal/voxel"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/draw"
)

// biomeColors maps biome display names to map colors.
var biomeColors = map[string]color.RGBA{
	"Tundra":          {221, 221, 228, 255},
	"Taiga":           {144, 181, 144, 255},
	"Swampland":       {111, 131, 94, 255},
	"Savanna":         {189, 178, 95, 255},
	"Shrubland":       {158, 169, 98, 255},
	"Forest":          {85, 134, 61, 255},
	"Seasonal Forest": {130, 156, 80, 255},
	"Rainforest":      {70, 120, 54, 255},
	"Plains":          {141, 179, 96, 255},
	"Desert":          {247, 233, 163, 255},
	"Ice Desert":      {228, 240, 244, 255},
}

func biomeColor(name string) color.RGBA {
	if c, ok := biomeColors[name]; ok {
		return c
	}

	return color.RGBA{255, 0, 255, 255}
}

// BiomeMap paints one pixel per block from the climate fields and biome lookup.
func BiomeMap(source *climate.Source, lookup *biome.Lookup, minX, minZ int32, blocksX, blocksZ int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, blocksX, blocksZ))

	for z := 0; z < blocksZ; z++ {
		for x := 0; x < blocksX; x++ {
			c := source.Sample(mgl64.Vec2{float64(minX)*16.0 + float64(x), float64(minZ)*16.0 + float64(z)})
			img.SetRGBA(x, z, biomeColor(lookup.Lookup(c).Name))
		}
	}

	return img
}

// GrassMap shades grass by adjusted rainfall and temperature, the classic
// colormap diagonal.
func GrassMap(source *climate.Source, minX, minZ int32, blocksX, blocksZ int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, blocksX, blocksZ))

	for z := 0; z < blocksZ; z++ {
		for x := 0; x < blocksX; x++ {
			c := source.Sample(mgl64.Vec2{float64(minX)*16.0 + float64(x), float64(minZ)*16.0 + float64(z)})

			// Lerp across the arid→lush corner colors.
			t := c.Temperature
			r := c.AdjustedRainfall()

			red := uint8(191.0*t + 71.0*(1.0-t))
			green := uint8(183.0*r + 139.0*(1.0-r))
			img.SetRGBA(x, z, color.RGBA{red, green, 85, 255})
		}
	}

	return img
}

// HeightMap renders a grayscale relief from the computed column heightmaps.
func HeightMap(heightmaps light.WorldHeightmaps, minX, minZ int32, blocksX, blocksZ int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, blocksX, blocksZ))

	for z := 0; z < blocksZ; z++ {
		for x := 0; x < blocksX; x++ {
			column := voxel.NewGlobalColumnPos(minX+int32(x/16), minZ+int32(z/16))

			sector, ok := heightmaps[column.Sector()]
			if !ok {
				continue
			}

			heightmap := sector.Get(column.LocalLayer())
			if heightmap == nil {
				continue
			}

			h := heightmap.Get(voxel.NewLayerPos(uint8(x&0xF), uint8(z&0xF)))
			img.SetGray(x, z, color.Gray{Y: uint8(h)})
		}
	}

	return img
}

// Downscale resizes a stitched map by an integer factor with bilinear
// filtering, for area overviews too large to view at block resolution.
func Downscale(src image.Image, factor int) image.Image {
	if factor <= 1 {
		return src
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()/factor, bounds.Dy()/factor))

	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	return dst
}

// WritePNG encodes an image to a file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
