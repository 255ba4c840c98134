// Package config loads generation profiles: the biome grid, surface
// descriptors, ocean and bedrock parameters, and the ore vein table. Profiles
// are YAML; the compiled-in default mirrors the reference overworld.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile captures everything a world profile can tune.
type Profile struct {
	// SeaLevel is the first Y above the ocean; 0 disables the ocean pass.
	SeaLevel int `yaml:"seaLevel"`
	// LavaOcean switches the ocean fluid to lava.
	LavaOcean bool `yaml:"lavaOcean"`
	// IceCaps freezes the ocean surface in cold climates.
	IceCaps bool `yaml:"iceCaps"`
	// Beach is the inclusive Y band for beach surfaces; empty disables beaches.
	Beach *BeachConfig `yaml:"beach"`
	// MaxBedrockHeight bounds the random bedrock band; nil disables bedrock.
	MaxBedrockHeight *int `yaml:"maxBedrockHeight"`
	// Caves toggles the cave carver.
	Caves bool `yaml:"caves"`
	// HeightStretch scales the terrain's vertical compression.
	HeightStretch float64 `yaml:"heightStretch"`

	Default string            `yaml:"default"`
	Biomes  map[string]Biome  `yaml:"biomes"`
	Grid    []Rect            `yaml:"grid"`
	Veins   []Vein            `yaml:"veins"`
	Lakes   *LakeConfig       `yaml:"lakes"`
	Plants  map[string]Plant  `yaml:"plants"`
	Trees   *TreeConfig       `yaml:"trees"`
}

// BeachConfig is the beach band.
type BeachConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Biome describes the surface strata of one biome.
type Biome struct {
	Name    string     `yaml:"name"`
	Top     string     `yaml:"top"`
	Fill    string     `yaml:"fill"`
	Chain   []Followup `yaml:"chain"`
}

// Followup is one link of the strata chain below the fill block.
type Followup struct {
	Block    string `yaml:"block"`
	MaxDepth uint32 `yaml:"maxDepth"`
}

// Rect assigns a biome over a temperature × rainfall rectangle.
type Rect struct {
	Temperature [2]float64 `yaml:"temperature"`
	Rainfall    [2]float64 `yaml:"rainfall"`
	Biome       string     `yaml:"biome"`
}

// Vein is one ore vein table entry.
type Vein struct {
	Block string `yaml:"block"`
	Size  uint32 `yaml:"size"`
	Count uint32 `yaml:"count"`
	MinY  uint32 `yaml:"minY"`
	MaxY  uint32 `yaml:"maxY"`
	// CenterY/Spread switch the height draw to the centered distribution
	// (lapis); MinY/MaxY are ignored when Spread is nonzero.
	CenterY uint32 `yaml:"centerY"`
	Spread  uint32 `yaml:"spread"`
	// Seaside gates the vein on nearby ocean (clay patches).
	Seaside bool `yaml:"seaside"`
}

// LakeConfig sets the water lake rarity: one attempt per chunk with
// probability 1/Chance.
type LakeConfig struct {
	Chance uint32 `yaml:"chance"`
}

// Plant is a clumped vegetation entry.
type Plant struct {
	Block      string `yaml:"block"`
	Iterations uint32 `yaml:"iterations"`
	Horizontal uint8  `yaml:"horizontal"`
	Vertical   uint8  `yaml:"vertical"`
	MaxCount   uint32 `yaml:"maxCount"`
}

// TreeConfig sets the tree dispatch rates.
type TreeConfig struct {
	// Chance gates one tree attempt per chunk with probability 1/Chance.
	Chance uint32 `yaml:"chance"`
	// LargeChance is the 1/N probability a placed tree is the big variant.
	LargeChance uint32 `yaml:"largeChance"`
}

// Load reads a YAML profile from disk.
func Load(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading profile: %w", err)
	}

	profile := Default()
	if err := yaml.Unmarshal(raw, profile); err != nil {
		return nil, fmt.Errorf("config: parsing profile: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks cross-field consistency.
func (p *Profile) Validate() error {
	if _, ok := p.Biomes[p.Default]; !ok {
		return fmt.Errorf("config: default biome %q not defined", p.Default)
	}

	for _, rect := range p.Grid {
		if _, ok := p.Biomes[rect.Biome]; !ok {
			return fmt.Errorf("config: grid references undefined biome %q", rect.Biome)
		}
	}

	for name, plant := range p.Plants {
		if plant.Horizontal > 8 {
			return fmt.Errorf("config: plant %q horizontal variance %d exceeds quad reach", name, plant.Horizontal)
		}
	}

	if p.SeaLevel < 0 || p.SeaLevel > 256 {
		return fmt.Errorf("config: sea level %d out of range", p.SeaLevel)
	}

	return nil
}

// Default returns the reference overworld profile.
func Default() *Profile {
	bedrock := 5

	grass := Biome{Top: "2:0", Fill: "3:0"}
	sand := Biome{Top: "12:0", Fill: "12:0", Chain: []Followup{{Block: "24:0", MaxDepth: 3}}}

	return &Profile{
		SeaLevel:         64,
		Beach:            &BeachConfig{Min: 59, Max: 65},
		MaxBedrockHeight: &bedrock,
		Caves:            true,
		HeightStretch:    12.0,
		Default:          "plains",
		Biomes: map[string]Biome{
			"tundra":          withName(grass, "Tundra"),
			"taiga":           withName(grass, "Taiga"),
			"swampland":       withName(grass, "Swampland"),
			"savanna":         withName(grass, "Savanna"),
			"shrubland":       withName(grass, "Shrubland"),
			"forest":          withName(grass, "Forest"),
			"seasonal_forest": withName(grass, "Seasonal Forest"),
			"rainforest":      withName(grass, "Rainforest"),
			"plains":          withName(grass, "Plains"),
			"desert":          withName(sand, "Desert"),
			"ice_desert":      withName(sand, "Ice Desert"),
		},
		Grid: []Rect{
			{Temperature: [2]float64{0.0, 0.1}, Rainfall: [2]float64{0.0, 1.0}, Biome: "tundra"},
			{Temperature: [2]float64{0.1, 0.5}, Rainfall: [2]float64{0.0, 0.2}, Biome: "tundra"},
			{Temperature: [2]float64{0.1, 0.5}, Rainfall: [2]float64{0.2, 0.5}, Biome: "taiga"},
			{Temperature: [2]float64{0.1, 0.7}, Rainfall: [2]float64{0.5, 1.0}, Biome: "swampland"},
			{Temperature: [2]float64{0.5, 0.95}, Rainfall: [2]float64{0.0, 0.2}, Biome: "savanna"},
			{Temperature: [2]float64{0.5, 0.97}, Rainfall: [2]float64{0.2, 0.35}, Biome: "shrubland"},
			{Temperature: [2]float64{0.5, 0.97}, Rainfall: [2]float64{0.35, 0.5}, Biome: "forest"},
			{Temperature: [2]float64{0.7, 0.97}, Rainfall: [2]float64{0.5, 1.0}, Biome: "forest"},
			{Temperature: [2]float64{0.95, 1.0}, Rainfall: [2]float64{0.0, 0.2}, Biome: "desert"},
			{Temperature: [2]float64{0.97, 1.0}, Rainfall: [2]float64{0.2, 0.45}, Biome: "plains"},
			{Temperature: [2]float64{0.97, 1.0}, Rainfall: [2]float64{0.45, 0.9}, Biome: "seasonal_forest"},
			{Temperature: [2]float64{0.97, 1.0}, Rainfall: [2]float64{0.9, 1.0}, Biome: "rainforest"},
		},
		Veins: []Vein{
			{Block: "3:0", Size: 33, Count: 10, MinY: 0, MaxY: 128},
			{Block: "13:0", Size: 33, Count: 8, MinY: 0, MaxY: 128},
			{Block: "16:0", Size: 17, Count: 20, MinY: 0, MaxY: 128},
			{Block: "15:0", Size: 9, Count: 20, MinY: 0, MaxY: 64},
			{Block: "14:0", Size: 9, Count: 2, MinY: 0, MaxY: 32},
			{Block: "73:0", Size: 8, Count: 8, MinY: 0, MaxY: 16},
			{Block: "56:0", Size: 8, Count: 1, MinY: 0, MaxY: 16},
			{Block: "21:0", Size: 7, Count: 1, CenterY: 16, Spread: 16},
			{Block: "82:0", Size: 32, Count: 10, MinY: 0, MaxY: 64, Seaside: true},
		},
		Lakes: &LakeConfig{Chance: 4},
		Plants: map[string]Plant{
			"tall_grass": {Block: "31:1", Iterations: 64, Horizontal: 8, Vertical: 4, MaxCount: 90},
		},
		Trees: &TreeConfig{Chance: 2, LargeChance: 10},
	}
}

func withName(b Biome, name string) Biome {
	b.Name = name
	return b
}

// ParseBlock parses the "id:meta" block notation into an anvil identifier.
func ParseBlock(s string) (uint16, error) {
	var id, meta uint16

	n, err := fmt.Sscanf(s, "%d:%d", &id, &meta)
	if err != nil || n != 2 {
		if n, err = fmt.Sscanf(s, "%d", &id); err != nil || n != 1 {
			return 0, fmt.Errorf("config: bad block id %q", s)
		}
	}

	if id > 4095 || meta > 15 {
		return 0, fmt.Errorf("config: block id %q out of range", s)
	}

	return id*16 + meta, nil
}
