// Package assets loads the level and vehicle models a round is built from.
// Models live in named slots; every slot is loaded concurrently and the
// catalog is only handed out once all of them have arrived.
package assets

import (
	"embed"
	"fmt"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/carmerge/internal/engine"
)

//go:embed models/*.yaml
var embeddedModels embed.FS

// Slot names a model in the catalog. The model file is <slot>.yaml.
type Slot string

const (
	SlotLevel  Slot = "level"
	SlotPolice Slot = "car_police"
	SlotRed    Slot = "car_red"
	SlotBlue   Slot = "car_blue"
	SlotGreen  Slot = "car_green"
	SlotYellow Slot = "car_yellow"
)

// VehicleSlots lists the vehicle slots in catalog order.
var VehicleSlots = []Slot{SlotPolice, SlotRed, SlotBlue, SlotGreen, SlotYellow}

// Catalog is the resolved set of models.
type Catalog struct {
	level    Level
	vehicles []Vehicle
	byType   map[engine.CarType]int
}

// Load reads every slot from fsys. Loads run concurrently; the first
// failure is returned once all loads have finished.
func Load(fsys fs.FS) (*Catalog, error) {
	var (
		level    Level
		vehicles = make([]Vehicle, len(VehicleSlots))
		g        errgroup.Group
	)

	g.Go(func() error {
		data, err := fs.ReadFile(fsys, fileName(SlotLevel))
		if err != nil {
			return fmt.Errorf("assets: %s: %w", SlotLevel, err)
		}
		level, err = parseLevel(data)
		if err != nil {
			return fmt.Errorf("assets: %s: %w", SlotLevel, err)
		}
		return nil
	})

	for i, slot := range VehicleSlots {
		i, slot := i, slot
		g.Go(func() error {
			data, err := fs.ReadFile(fsys, fileName(slot))
			if err != nil {
				return fmt.Errorf("assets: %s: %w", slot, err)
			}
			v, err := parseVehicle(data, slot)
			if err != nil {
				return fmt.Errorf("assets: %s: %w", slot, err)
			}
			vehicles[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Catalog{
		level:    level,
		vehicles: vehicles,
		byType:   make(map[engine.CarType]int, len(vehicles)),
	}
	for i, v := range vehicles {
		if _, dup := c.byType[v.Type]; dup {
			return nil, fmt.Errorf("assets: type %q defined twice", v.Type)
		}
		c.byType[v.Type] = i
	}
	return c, nil
}

// Default loads the built-in models.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embeddedModels, "models")
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	return Load(sub)
}

func fileName(s Slot) string {
	return string(s) + ".yaml"
}

// Level returns the ground model.
func (c *Catalog) Level() Level {
	return c.level
}

// Vehicles returns all vehicle models in slot order.
func (c *Catalog) Vehicles() []Vehicle {
	return append([]Vehicle(nil), c.vehicles...)
}

// Vehicle returns the model for a car type.
func (c *Catalog) Vehicle(t engine.CarType) (Vehicle, bool) {
	i, ok := c.byType[t]
	if !ok {
		return Vehicle{}, false
	}
	return c.vehicles[i], true
}

// Footprint returns the ground outline of a car type. Unknown types get a
// zero footprint, which never overlaps anything.
func (c *Catalog) Footprint(t engine.CarType) engine.Footprint {
	v, _ := c.Vehicle(t)
	return v.Footprint
}

// Has reports whether the catalog defines a car type.
func (c *Catalog) Has(t engine.CarType) bool {
	_, ok := c.byType[t]
	return ok
}
