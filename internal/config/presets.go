package config

import "sort"

// Presets are named seed lists selectable with --preset.
var Presets = map[string]*Config{
	"nytimes": {
		Scenes: ScenesConfig{
			Seed:   []string{"https://www.nytimes.com/"},
			AddURL: "https://www.nytimes.com/",
		},
	},
	"news": {
		Scenes: ScenesConfig{
			Seed: []string{
				"https://www.nytimes.com/",
				"https://www.theguardian.com/",
				"https://www.bbc.com/news",
			},
			AddURL: "https://www.washingtonpost.com/",
		},
	},
	"maps": {
		Scenes: ScenesConfig{
			Seed:   []string{"https://www.openstreetmap.org/"},
			AddURL: "https://www.google.com/maps",
		},
	},
}

// GetPreset returns a copy of the named preset on top of the defaults, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scenes.Seed = append([]string(nil), p.Scenes.Seed...)
	cfg.Scenes.AddURL = p.Scenes.AddURL
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
