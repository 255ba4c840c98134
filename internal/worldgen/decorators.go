package worldgen

import (
	"sort"

	"anvilgen/internal/block"
	"anvilgen/internal/config"
	"anvilgen/internal/decorator"
	"anvilgen/internal/gen"
)

// buildDecorators assembles the dispatcher list from a profile. The order is
// fixed (lakes, veins, plants, canes, cacti, trees) because every dispatcher
// advances the shared quad RNG stream.
func buildDecorators(profile *config.Profile) ([]*decorator.Dispatcher, error) {
	var out []*decorator.Dispatcher

	if profile.Lakes != nil {
		out = append(out, &decorator.Dispatcher{
			Decorator: &decorator.LakeDecorator{
				Blocks: decorator.LakeBlocks{
					IsLiquid: block.Include(block.FlowingWater, block.StillWater, block.FlowingLava, block.StillLava),
					IsSolid:  block.Exclude(block.Air, block.FlowingWater, block.StillWater, block.FlowingLava, block.StillLava),
					Replaceable: block.MatchNone(),
					Liquid:      block.StillWater,
					Carve:       block.Air,
				},
				Settings: decorator.DefaultLakeSettings(),
			},
			Height: gen.Linear{Min: 0, Max: 127},
			Rarity: gen.Chance{Base: gen.Constant{Value: 1}, Chance: profile.Lakes.Chance, Ordering: gen.AlwaysGeneratePayload},
		})
	}

	for _, vein := range profile.Veins {
		anvil, err := config.ParseBlock(vein.Block)
		if err != nil {
			return nil, err
		}

		var height gen.Distribution = gen.Linear{Min: vein.MinY, Max: vein.MaxY - 1}
		if vein.Spread != 0 {
			height = gen.Centered{Center: vein.CenterY, Radius: vein.Spread}
		}

		inner := decorator.VeinDecorator{
			Blocks: decorator.VeinBlocks{
				Replace: block.Is(block.Stone),
				Block:   block.FromAnvil(anvil),
			},
			Size: vein.Size,
		}

		var d decorator.Decorator = &inner
		if vein.Seaside {
			inner.Blocks.Replace = block.Is(block.Sand)
			d = &decorator.SeasideVeinDecorator{
				Vein:  inner,
				Ocean: block.Include(block.FlowingWater, block.StillWater),
			}
		}

		out = append(out, &decorator.Dispatcher{
			Decorator: d,
			Height:    height,
			Rarity:    gen.Linear{Min: 0, Max: vein.Count - 1},
		})
	}

	// Map iteration order is not deterministic; plants dispatch sorted by name.
	plantNames := make([]string, 0, len(profile.Plants))
	for name := range profile.Plants {
		plantNames = append(plantNames, name)
	}
	sort.Strings(plantNames)

	for _, name := range plantNames {
		plant := profile.Plants[name]

		anvil, err := config.ParseBlock(plant.Block)
		if err != nil {
			return nil, err
		}

		clump, err := decorator.NewClump(plant.Iterations, plant.Horizontal, plant.Vertical, &decorator.PlantDecorator{
			Block:   block.FromAnvil(anvil),
			Base:    block.Include(block.Grass, block.Dirt, block.Farmland),
			Replace: block.Is(block.Air),
		})
		if err != nil {
			return nil, err
		}

		out = append(out, &decorator.Dispatcher{
			Decorator: clump,
			Height:    gen.Linear{Min: 0, Max: 127},
			Rarity:    gen.Linear{Min: 0, Max: plant.MaxCount},
		})
	}

	// Sugar cane and cacti ride along wherever their soil conditions allow.
	cane, err := decorator.NewClump(20, 4, 0, &decorator.SugarCaneDecorator{
		Block:      block.SugarCane,
		Base:       block.Include(block.Grass, block.Dirt, block.Sand),
		Liquid:     block.Include(block.FlowingWater, block.StillWater),
		Replace:    block.Is(block.Air),
		BaseHeight: 2,
		AddHeight:  2,
	})
	if err != nil {
		return nil, err
	}
	out = append(out, &decorator.Dispatcher{
		Decorator: cane,
		Height:    gen.Linear{Min: 0, Max: 127},
		Rarity:    gen.Linear{Min: 0, Max: 9},
	})

	cactus, err := decorator.NewClump(10, 8, 4, &decorator.CactusDecorator{
		Blocks: decorator.CactusBlocks{
			Replace: block.Is(block.Air),
			Base:    block.Include(block.Cactus, block.Sand),
			Solid:   block.Exclude(block.Air),
			Block:   block.Cactus,
		},
		Settings: decorator.DefaultCactusSettings(),
	})
	if err != nil {
		return nil, err
	}
	out = append(out, &decorator.Dispatcher{
		Decorator: cactus,
		Height:    gen.Linear{Min: 0, Max: 127},
		Rarity:    gen.Chance{Base: gen.Constant{Value: 2}, Chance: 4, Ordering: gen.AlwaysGeneratePayload},
	})

	if profile.Trees != nil {
		out = append(out, &decorator.Dispatcher{
			Decorator: &treeSelector{
				normal:      decorator.NewNormalTreeDecorator(),
				large:       decorator.NewLargeTreeDecorator(),
				largeChance: profile.Trees.LargeChance,
			},
			Height: gen.Linear{Min: 0, Max: 127},
			Rarity: gen.Chance{Base: gen.Constant{Value: 1}, Chance: profile.Trees.Chance, Ordering: gen.AlwaysGeneratePayload},
		})
	}

	return out, nil
}
