package bridge

import (
	"context"
	"strconv"
	"strings"

	"github.com/shimmeringbee/logwrap"
	"github.com/vantagebridge/controller/vantage"
)

// Setup populates the registries from the client's object graph and wires an
// entity adapter over every supported object. It must be called after the
// client has initialised; everything it subscribes is released by Unload.
func Setup(b *Bridge) {
	setupDevices(b)

	// Lighting loads, split by load type.
	AddEntities(b, b.Client.Loads, LightKind(), (*vantage.Load).IsLight)
	AddEntities(b, b.Client.Loads, SwitchKind(), (*vantage.Load).IsRelay)
	AddEntities(b, b.Client.Loads, FanKind(), (*vantage.Load).IsMotor)
	AddEntities(b, b.Client.RGBLoads, RGBLightKind(), nil)
	AddEntities(b, b.Client.LoadGroups, LoadGroupKind(), nil)

	AddEntities(b, b.Client.Blinds, CoverKind(), nil)
	AddEntities(b, b.Client.BlindGroups, BlindGroupKind(), nil)

	AddEntities(b, b.Client.Thermostats, ClimateKind(), nil)

	AddEntities(b, b.Client.DryContacts, BinarySensorKind(), nil)
	AddEntities(b, b.Client.OmniSensors, OmniSensorKind(), nil)
	AddEntities(b, b.Client.LightSensors, LightSensorKind(), nil)

	// Temperatures at well known positions on a thermostat are part of the
	// climate entity, not standalone sensors.
	AddEntities(b, b.Client.Temperatures, TemperatureSensorKind(), func(t *vantage.Temperature) bool {
		ref, has := t.ParentRef()
		return !has || !b.Client.Thermostats.Contains(ref.VID)
	})

	// Variables. Fixed variables are read only constants and are not
	// surfaced.
	AddEntities(b, b.Client.GMems, VariableSwitchKind(), func(g *vantage.GMem) bool {
		return g.IsBool() && !g.IsFixed
	})
	AddEntities(b, b.Client.GMems, VariableNumberKind(), func(g *vantage.GMem) bool {
		return g.IsNumber() && !g.IsFixed
	})
	AddEntities(b, b.Client.GMems, VariableTextKind(), func(g *vantage.GMem) bool {
		return g.IsText() && !g.IsFixed
	})

	setupEvents(b)
	cleanupStale(b)
}

// setupDevices creates registry entries for the physical infrastructure
// objects that carry no entities of their own, and keeps them in sync with
// the object graph.
func setupDevices(b *Bridge) {
	syncDevices(b, b.Client.Masters)
	syncDevices(b, b.Client.Modules)
	syncDevices(b, b.Client.Stations)
	syncDevices(b, b.Client.PortDevices)
}

func syncDevices[T vantage.Object](b *Bridge, controller *vantage.Controller[T]) {
	refresh := func(obj T) {
		b.Devices.GetOrCreate(DeriveDeviceInfo(b.Client, obj).DeviceEntry(b.Gateway))
	}

	for _, obj := range controller.All() {
		refresh(obj)
	}

	b.OnUnload(
		controller.Subscribe(vantage.ObjectAdded, func(event vantage.Event[T]) {
			refresh(event.Obj)
		}),
		controller.Subscribe(vantage.ObjectUpdated, func(event vantage.Event[T]) {
			refresh(event.Obj)
		}),
		controller.Subscribe(vantage.ObjectDeleted, func(event vantage.Event[T]) {
			b.Devices.Remove(Domain, b.Gateway, strconv.Itoa(event.Obj.ObjectID()))
		}),
	)
}

// cleanupStale removes registry entries left behind by objects that no
// longer exist in the project, including device entries for back boxes
// created by earlier releases.
func cleanupStale(b *Bridge) {
	for _, entry := range b.Devices.ForGateway(b.Gateway) {
		identifier := entry.Identifier

		if suffix, found := strings.CutSuffix(identifier, ":variables"); found {
			identifier = suffix
		}

		vid, err := strconv.Atoi(identifier)
		if err != nil {
			continue
		}

		if !b.Client.Contains(vid) || b.Client.BackBoxes.Contains(vid) {
			b.Logger.LogInfo(context.Background(), "Removing stale device registry entry.", logwrap.Datum("identifier", entry.Identifier))
			b.Devices.Remove(Domain, b.Gateway, entry.Identifier)
		}
	}

	for _, entry := range b.Entities.ForGateway(b.Gateway) {
		vid, err := strconv.Atoi(entry.UniqueID)
		if err != nil {
			continue
		}

		if _, live := b.EntityView(entry.UniqueID); !live && !b.Client.Contains(vid) {
			b.Logger.LogInfo(context.Background(), "Removing stale entity registry entry.", logwrap.Datum("entityId", entry.EntityID))
			b.Entities.Remove(entry.EntityID)
		}
	}
}
