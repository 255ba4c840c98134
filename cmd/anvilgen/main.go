// Command anvilgen regenerates a classic overworld from a 64-bit seed and
// writes it out as Anvil region files, with optional overview map renders.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"anvilgen/internal/anvil"
	"anvilgen/internal/block"
	"anvilgen/internal/config"
	"anvilgen/internal/light"
	"anvilgen/internal/profiling"
	"anvilgen/internal/render"
	"anvilgen/internal/voxel"
	"anvilgen/internal/worldgen"
)

func main() {
	var (
		seedArg  = flag.String("seed", "8399452073110208023", "world seed (decimal, may be negative)")
		width    = flag.Int("width", 1, "generated area width in regions (32x32 chunks each)")
		height   = flag.Int("height", 1, "generated area height in regions")
		threads  = flag.Int("threads", runtime.NumCPU(), "worker thread count")
		quiet    = flag.Bool("quiet", false, "suppress progress output")
		worldOut = flag.String("world", "", "output directory for region files")
		biomeOut = flag.String("biome", "", "output path for the biome map PNG")
		grassOut = flag.String("grass", "", "output path for the grass shading PNG")
		profile  = flag.String("profile", "", "generation profile YAML (defaults to the built-in overworld)")
		scale    = flag.Int("scale", 1, "downscale factor for map renders")
	)
	flag.Parse()

	if err := run(*seedArg, *width, *height, *threads, *quiet, *worldOut, *biomeOut, *grassOut, *profile, *scale); err != nil {
		fmt.Fprintln(os.Stderr, "anvilgen:", err)
		os.Exit(1)
	}
}

func run(seedArg string, width, height, threads int, quiet bool, worldOut, biomeOut, grassOut, profilePath string, scale int) error {
	seed, err := parseSeed(seedArg)
	if err != nil {
		return err
	}

	prof := config.Default()
	if profilePath != "" {
		if prof, err = config.Load(profilePath); err != nil {
			return err
		}
	}

	progress := log.Printf
	if quiet {
		progress = func(string, ...any) {}
	}

	generator, err := worldgen.New(seed, prof)
	if err != nil {
		return err
	}

	area := worldgen.Area{Width: int32(width), Height: int32(height)}

	start := time.Now()
	world := generator.GenerateArea(area, threads, quiet)
	progress("generation done in %v", time.Since(start))

	start = time.Now()
	heightmaps := light.ComputeHeightmaps(world, anvil.SurfaceOpaque, threads)
	progress("heightmaps done in %v", time.Since(start))

	start = time.Now()
	skyLight := light.ComputeSkyLight(world, heightmaps, blockOpacity, threads, nil)
	progress("sky lighting done in %v", time.Since(start))

	if worldOut != "" {
		start = time.Now()
		if err := writeRegions(generator, heightmaps, skyLight, area, worldOut); err != nil {
			return err
		}
		progress("region write done in %v", time.Since(start))
	}

	blocksX := width * 512
	blocksZ := height * 512

	if biomeOut != "" {
		img := render.BiomeMap(generator.Climate(), generator.BiomeLookup(), 0, 0, blocksX, blocksZ)
		if err := render.WritePNG(biomeOut, render.Downscale(img, scale)); err != nil {
			return err
		}
		progress("biome map written to %s", biomeOut)
	}

	if grassOut != "" {
		img := render.GrassMap(generator.Climate(), 0, 0, blocksX, blocksZ)
		if err := render.WritePNG(grassOut, render.Downscale(img, scale)); err != nil {
			return err
		}
		progress("grass map written to %s", grassOut)
	}

	if !quiet {
		log.Printf("phase totals: %s", profiling.TopN(6))
	}

	return nil
}

// parseSeed accepts a signed decimal seed and reinterprets it as the unsigned
// 64-bit value the generators consume.
func parseSeed(s string) (uint64, error) {
	if signed, err := strconv.ParseInt(s, 10, 64); err == nil {
		return uint64(signed), nil
	}

	unsigned, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad seed %q", s)
	}

	return unsigned, nil
}

// blockOpacity is the lighting opacity table: air passes light, water dims
// it, everything else is opaque.
func blockOpacity(b block.Block) uint8 {
	switch b {
	case block.Air:
		return 0
	case block.FlowingWater, block.StillWater:
		return 2
	default:
		return 15
	}
}

func writeRegions(
	generator *worldgen.Generator, heightmaps light.WorldHeightmaps,
	skyLight *voxel.SharedWorld[voxel.NibbleCube], area worldgen.Area, outDir string,
) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	// The Biomes byte array is left zeroed; biome persistence predates this
	// format's consumers recomputing them from the climate anyway.
	biomes := make([]byte, 256)

	for rx := int32(0); rx < area.Width; rx++ {
		for rz := int32(0); rz < area.Height; rz++ {
			path := filepath.Join(outDir, fmt.Sprintf("r.%d.%d.mca", rx, rz))

			if err := writeRegion(generator, heightmaps, skyLight, area, rx, rz, biomes, path); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
	}

	return nil
}

func writeRegion(
	generator *worldgen.Generator, heightmaps light.WorldHeightmaps,
	skyLight *voxel.SharedWorld[voxel.NibbleCube], area worldgen.Area,
	rx, rz int32, biomes []byte, path string,
) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer, err := anvil.StartRegion(f)
	if err != nil {
		return err
	}

	for z := int32(0); z < 32; z++ {
		for x := int32(0); x < 32; x++ {
			pos := voxel.NewGlobalColumnPos(area.MinX+rx*32+x, area.MinZ+rz*32+z)

			column := generator.Column(pos)
			if column == nil {
				continue
			}

			var sky [16]*voxel.NibbleCube
			for y := int32(0); y < 16; y++ {
				sky[y] = skyLight.Remove(voxel.ChunkFromColumn(pos, y))
			}

			heightmap := heightmaps[pos.Sector()].Get(pos.LocalLayer())

			root := anvil.Column(pos.X, pos.Z, column, &sky, heightmap, biomes)

			raw, err := root.MarshalNBT()
			if err != nil {
				return err
			}

			compressed, err := anvil.Compress(raw)
			if err != nil {
				return err
			}

			if err := writer.WriteColumn(uint8(x), uint8(z), compressed); err != nil {
				return err
			}
		}
	}

	return writer.Finish()
}
