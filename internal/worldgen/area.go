package worldgen

import (
	"log"
	"runtime"
	"sync"

	"anvilgen/internal/profiling"
	"anvilgen/internal/voxel"
)

// Area is the rectangle of columns to generate, in chunk coordinates.
type Area struct {
	MinX, MinZ int32
	// Width and Height are in 32-chunk regions.
	Width, Height int32
}

// Columns returns the chunk dimensions of the area.
func (a Area) Columns() (int32, int32) {
	return a.Width * 32, a.Height * 32
}

// GenerateArea generates every column of the area in parallel (columns are
// independent given the column-derived seeds), then decorates every interior
// quad sequentially (quads overlap their neighbors, and the decoration RNG
// order is part of the output). The generated chunks are shared into the
// returned world.
func (g *Generator) GenerateArea(area Area, workers int, quiet bool) *voxel.World[voxel.PalettedCube] {
	defer profiling.Track("worldgen.GenerateArea")()

	columnsX, columnsZ := area.Columns()

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	jobs := make(chan voxel.GlobalColumnPos)

	world := voxel.NewWorld[voxel.PalettedCube]()

	// Pre-create the sectors so parallel workers never mutate the map.
	for sx := int32(0); sx < area.Width*2; sx++ {
		for sz := int32(0); sz < area.Height*2; sz++ {
			world.GetOrCreateSector(voxel.NewGlobalSectorPos(area.MinX/16+sx, area.MinZ/16+sz))
		}
	}

	var worldMu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for pos := range jobs {
				column := g.GenerateColumn(pos)

				worldMu.Lock()
				world.SetColumn(pos, column.Cubes)
				worldMu.Unlock()
			}
		}()
	}

	for x := int32(0); x < columnsX; x++ {
		for z := int32(0); z < columnsZ; z++ {
			jobs <- voxel.NewGlobalColumnPos(area.MinX+x, area.MinZ+z)
		}
	}
	close(jobs)
	wg.Wait()

	if !quiet {
		log.Printf("generated %d columns", int(columnsX)*int(columnsZ))
	}

	decorated := 0
	for x := int32(0); x < columnsX-1; x++ {
		for z := int32(0); z < columnsZ-1; z++ {
			pos := voxel.NewGlobalColumnPos(area.MinX+x, area.MinZ+z)

			if err := g.DecorateQuad(pos); err != nil {
				// A spilled decorator skips that quad; the terrain stays valid.
				log.Printf("decorating %v: %v", pos, err)
				continue
			}

			decorated++
		}
	}

	if !quiet {
		log.Printf("decorated %d quads", decorated)
	}

	return world
}

// Column returns a generated column, or nil.
func (g *Generator) Column(pos voxel.GlobalColumnPos) *voxel.Column {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.columns[pos]
}
