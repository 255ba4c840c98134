package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultProfileValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
}

func TestParseBlock(t *testing.T) {
	cases := []struct {
		in   string
		want uint16
		ok   bool
	}{
		{"1:0", 16, true},
		{"2:0", 32, true},
		{"31:1", 31*16 + 1, true},
		{"9", 9 * 16, true},
		{"4096:0", 0, false},
		{"1:16", 0, false},
		{"rock", 0, false},
	}

	for _, c := range cases {
		got, err := ParseBlock(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("ParseBlock(%q) = (%d, %v), want %d", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("ParseBlock(%q) should fail", c.in)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")

	payload := "seaLevel: 32\nlavaOcean: true\ncaves: false\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	profile, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if profile.SeaLevel != 32 || !profile.LavaOcean || profile.Caves {
		t.Errorf("overrides not applied: %+v", profile)
	}

	// Unspecified fields keep their defaults.
	if profile.Default != "plains" || len(profile.Grid) == 0 {
		t.Error("defaults lost during load")
	}
}

func TestValidateRejectsUnknownBiome(t *testing.T) {
	profile := Default()
	profile.Grid = append(profile.Grid, Rect{Biome: "void"})

	if err := profile.Validate(); err == nil {
		t.Error("grid entry with unknown biome must fail validation")
	}
}
