package light

import (
	"runtime"
	"sync"

	"anvilgen/internal/block"
	"anvilgen/internal/voxel"
)

// SectorHeightmaps holds one column heightmap per XZ of a sector.
type SectorHeightmaps [256]*voxel.ColumnHeightMap

// Get returns the heightmap of a column.
func (h *SectorHeightmaps) Get(pos voxel.LayerPos) *voxel.ColumnHeightMap {
	return h[pos.ZX()]
}

// WorldHeightmaps maps sectors to their heightmaps.
type WorldHeightmaps map[voxel.GlobalSectorPos]*SectorHeightmaps

func workerCount(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}

	return workers
}

// ComputeHeightmaps scans every column of the world top-down for the highest
// block matching the predicate, in parallel across sectors.
func ComputeHeightmaps(world *voxel.World[voxel.PalettedCube], predicate func(block.Block) bool, workers int) WorldHeightmaps {
	out := make(WorldHeightmaps, len(world.Sectors()))

	var mu sync.Mutex
	var wg sync.WaitGroup

	jobs := make(chan voxel.GlobalSectorPos)

	for i := 0; i < workerCount(workers); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for pos := range jobs {
				heightmaps := computeSectorHeightmaps(world.Sector(pos), predicate)

				mu.Lock()
				out[pos] = heightmaps
				mu.Unlock()
			}
		}()
	}

	for pos := range world.Sectors() {
		jobs <- pos
	}
	close(jobs)
	wg.Wait()

	return out
}

func computeSectorHeightmaps(sector *voxel.Sector[voxel.PalettedCube], predicate func(block.Block) bool) *SectorHeightmaps {
	heightmaps := &SectorHeightmaps{}

	sector.EnumerateColumns(func(layer voxel.LayerPos, column *[16]*voxel.PalettedCube) {
		heightmaps[layer.ZX()] = computeColumnHeightmap(column, predicate)
	})

	return heightmaps
}

func computeColumnHeightmap(column *[16]*voxel.PalettedCube, predicate func(block.Block) bool) *voxel.ColumnHeightMap {
	var mask voxel.BitLayer
	builder := voxel.NewHeightMapBuilder()

	for y := 15; y >= 0; y-- {
		chunk := column[y]

		if chunk == nil {
			// Missing chunks are treated as empty air.
			mask = builder.Add(voxel.CubeHeightMapFilled(mask))
			continue
		}

		storage, palette := chunk.FreezePalette()

		matches := make([]bool, palette.Len())
		for i := range matches {
			if entry, ok := palette.Entry(uint32(i)); ok {
				matches[i] = predicate(entry)
			}
		}

		mask = builder.Add(voxel.BuildCubeHeightMap(storage, matches, mask))
	}

	return builder.Build()
}

// ComputeSkyLight runs the two-phase sky light fixpoint over the whole world:
// every sector is first lit in isolation (intra-sector fixpoint), then the
// leaked spills are reconciled through the parity-phased world queue until
// nothing is queued anywhere. The result is deterministic regardless of
// scheduling because the propagation operator is monotone.
func ComputeSkyLight(
	world *voxel.World[voxel.PalettedCube], heightmaps WorldHeightmaps,
	opacity func(block.Block) uint8, workers int, trace func(format string, args ...any),
) *voxel.SharedWorld[voxel.NibbleCube] {
	if trace == nil {
		trace = func(string, ...any) {}
	}

	skyLight := voxel.NewSharedWorld[voxel.NibbleCube]()
	for pos := range world.Sectors() {
		skyLight.GetOrCreateSector(pos)
	}

	var queueMu sync.Mutex
	worldQueue := NewWorldQueue()

	// Phase one: light every sector against dark neighbors.
	runSectorTasks(world, workers, func(pos voxel.GlobalSectorPos, blockSector *voxel.Sector[voxel.PalettedCube]) {
		lightSector := skyLight.Sector(pos)
		sectorHeightmaps := heightmaps[pos]

		sectorQueue := initialSector(blockSector, lightSector, sectorHeightmaps, opacity)

		iterations, ops := fullSector(blockSector, lightSector, [6]*voxel.SharedSector[voxel.NibbleCube]{}, sectorQueue, sectorHeightmaps, opacity)

		spills := sectorQueue.ResetSpills()

		queueMu.Lock()
		worldQueue.EnqueueSpills(pos, spills)
		queueMu.Unlock()

		trace("initial sky light for sector %v: %d iterations, %d chunk operations", pos, iterations, ops)
	})

	// Phase two: alternate parities until the queue runs dry. Sectors inside
	// one drained map never touch each other's chunks, so each map lights in
	// parallel.
	iteration := 0
	for {
		queueMu.Lock()
		drained := worldQueue.Flip()
		queueMu.Unlock()

		if drained == nil {
			break
		}

		iteration++

		runQueuedSectors(drained, workers, func(pos voxel.GlobalSectorPos, masks *voxel.Sector[voxel.BitCube]) {
			blockSector := world.Sector(pos)
			if blockSector == nil {
				// No sense in lighting the void.
				return
			}

			center := skyLight.Sector(pos)

			var neighbors [6]*voxel.SharedSector[voxel.NibbleCube]
			for _, d := range sectorFaceDirs {
				neighborPos, _ := pos.Offset(d)
				neighbors[d] = skyLight.Sector(neighborPos)
			}

			sectorQueue := NewSectorQueue()
			sectorQueue.ResetFromMask(masks)

			iterations, ops := fullSector(blockSector, center, neighbors, sectorQueue, heightmaps[pos], opacity)

			spills := sectorQueue.ResetSpills()

			queueMu.Lock()
			worldQueue.EnqueueSpills(pos, spills)
			queueMu.Unlock()

			trace("sky light pass %d for sector %v: %d iterations, %d chunk operations", iteration, pos, iterations, ops)
		})
	}

	return skyLight
}

func runSectorTasks(world *voxel.World[voxel.PalettedCube], workers int, task func(voxel.GlobalSectorPos, *voxel.Sector[voxel.PalettedCube])) {
	var wg sync.WaitGroup
	jobs := make(chan voxel.GlobalSectorPos)

	for i := 0; i < workerCount(workers); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for pos := range jobs {
				task(pos, world.Sector(pos))
			}
		}()
	}

	for pos := range world.Sectors() {
		jobs <- pos
	}
	close(jobs)
	wg.Wait()
}

func runQueuedSectors(drained map[voxel.GlobalSectorPos]*voxel.Sector[voxel.BitCube], workers int, task func(voxel.GlobalSectorPos, *voxel.Sector[voxel.BitCube])) {
	var wg sync.WaitGroup
	jobs := make(chan voxel.GlobalSectorPos)

	for i := 0; i < workerCount(workers); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for pos := range jobs {
				task(pos, drained[pos])
			}
		}()
	}

	for pos := range drained {
		jobs <- pos
	}
	close(jobs)
	wg.Wait()
}

// chunkOpacity maps a chunk's palette through the opacity function.
func chunkOpacity(chunk *voxel.PalettedCube, opacity func(block.Block) uint8) (*voxel.PackedCube, *voxel.NibbleArray) {
	storage, palette := chunk.FreezePalette()

	return storage, OpacityTable(palette, opacity)
}

// initialSector computes every chunk's isolated initial light and collects
// the resulting spills into a fresh sector queue.
func initialSector(
	blockSector *voxel.Sector[voxel.PalettedCube], lightSector *voxel.SharedSector[voxel.NibbleCube],
	heightmaps *SectorHeightmaps, opacity func(block.Block) uint8,
) *SectorQueue {
	sectorQueue := NewSectorQueue()

	blockSector.Enumerate(func(pos voxel.CubePos, chunk *voxel.PalettedCube) {
		storage, opacityTable := chunkOpacity(chunk, opacity)

		sources := NewSkyLightSources(heightmaps.Get(pos.Layer()).Slice(pos.Y()))

		data := &voxel.NibbleCube{}
		lighting := NewLighting(data, [6]*voxel.NibbleCube{}, sources, opacityTable)

		queue := NewCubeQueue()
		lighting.Initial(storage, queue)
		lighting.Finish(storage, queue)

		sectorQueue.EnqueueSpills(pos, queue.ResetSpills())
		lightSector.Put(pos, data)
	})

	return sectorQueue
}

// fullSector drains a sector queue to its intra-sector fixpoint, reading
// neighbor light through the per-cell locks.
func fullSector(
	blockSector *voxel.Sector[voxel.PalettedCube], center *voxel.SharedSector[voxel.NibbleCube],
	neighbors [6]*voxel.SharedSector[voxel.NibbleCube], sectorQueue *SectorQueue,
	heightmaps *SectorHeightmaps, opacity func(block.Block) uint8,
) (iterations, chunkOperations int) {
	for sectorQueue.Flip() {
		iterations++

		for {
			pos, incomplete, ok := sectorQueue.PopFirst()
			if !ok {
				break
			}

			blocks := blockSector.Get(pos)
			if blocks == nil {
				continue
			}

			chunkOperations++

			queue := completeChunk(pos, blocks, center, neighbors, incomplete, heightmaps, opacity)

			sectorQueue.EnqueueSpills(pos, queue.ResetSpills())
		}
	}

	return iterations, chunkOperations
}

// completeChunk re-lights one chunk from a queued mask. The chunk's own cell
// is write-locked for the duration; the six neighbor cells are read-locked.
func completeChunk(
	pos voxel.CubePos, blocks *voxel.PalettedCube,
	center *voxel.SharedSector[voxel.NibbleCube], neighborSectors [6]*voxel.SharedSector[voxel.NibbleCube],
	incomplete *voxel.BitCube, heightmaps *SectorHeightmaps, opacity func(block.Block) uint8,
) *CubeQueue {
	storage, opacityTable := chunkOpacity(blocks, opacity)

	sources := NewSkyLightSources(heightmaps.Get(pos.Layer()).Slice(pos.Y()))

	central, release := center.WriteOrCreate(pos, func() *voxel.NibbleCube { return &voxel.NibbleCube{} })
	defer release()

	var neighbors [6]*voxel.NibbleCube
	for _, d := range voxel.Dirs {
		if next, ok := pos.Offset(d); ok {
			value, unlock := center.Read(next)
			defer unlock()
			neighbors[d] = value

			continue
		}

		sector := neighborSectors[d]
		if sector == nil {
			continue
		}

		value, unlock := sector.Read(pos.OffsetWrapping(d))
		defer unlock()
		neighbors[d] = value
	}

	lighting := NewLighting(central, neighbors, sources, opacityTable)

	queue := NewCubeQueue()
	queue.ResetFromMask(incomplete)
	lighting.Finish(storage, queue)

	return queue
}
