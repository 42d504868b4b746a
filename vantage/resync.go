package vantage

import (
	"fmt"
)

// Resync reloads the object inventory from the source and reconciles the
// controllers against it: new objects are added, objects no longer present
// are removed (emitting ObjectDeleted). Existing objects keep their live
// state.
func (c *Client) Resync() error {
	objects, err := c.source.LoadObjects()
	if err != nil {
		return fmt.Errorf("failed to reload object inventory: %w", err)
	}

	seen := map[int]bool{}

	for _, obj := range objects {
		seen[obj.ObjectID()] = true

		if !c.Contains(obj.ObjectID()) {
			c.add(obj)
		}
	}

	removeUnseen(c.Masters, seen)
	removeUnseen(c.Modules, seen)
	removeUnseen(c.Stations, seen)
	removeUnseen(c.PortDevices, seen)
	removeUnseen(c.BackBoxes, seen)
	removeUnseen(c.Areas, seen)
	removeUnseen(c.Loads, seen)
	removeUnseen(c.RGBLoads, seen)
	removeUnseen(c.LoadGroups, seen)
	removeUnseen(c.Blinds, seen)
	removeUnseen(c.BlindGroups, seen)
	removeUnseen(c.Thermostats, seen)
	removeUnseen(c.Temperatures, seen)
	removeUnseen(c.DryContacts, seen)
	removeUnseen(c.OmniSensors, seen)
	removeUnseen(c.LightSensors, seen)
	removeUnseen(c.GMems, seen)
	removeUnseen(c.Buttons, seen)
	removeUnseen(c.Tasks, seen)

	return nil
}

func removeUnseen[T Object](ctrl *Controller[T], seen map[int]bool) {
	for _, obj := range ctrl.All() {
		if !seen[obj.ObjectID()] {
			ctrl.Remove(obj.ObjectID())
		}
	}
}
