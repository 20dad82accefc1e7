package game

import "github.com/vovakirdan/carmerge/internal/registry"

func init() {
	registry.Register(registry.Variant{
		ID:    "classic",
		Title: "Classic",
		Fleet: []registry.Fleet{
			{Type: "red", Count: 2},
			{Type: "blue", Count: 2},
		},
	})
	registry.Register(registry.Variant{
		ID:    "rush",
		Title: "Rush Hour",
		Fleet: []registry.Fleet{
			{Type: "red", Count: 4},
			{Type: "blue", Count: 4},
		},
	})
	registry.Register(registry.Variant{
		ID:    "trio",
		Title: "Odd Trio",
		Fleet: []registry.Fleet{
			{Type: "green", Count: 3},
			{Type: "yellow", Count: 3},
		},
	})
}
