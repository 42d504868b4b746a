package bridge

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/vantagebridge/controller/vantage"
	"testing"
)

func TestLightKind(t *testing.T) {
	t.Run("state reports on, dimmable and brightness", func(t *testing.T) {
		h := newTestHarness()

		load := newLoad(10, "Downlights", 0)
		level := 50.0
		load.Level = &level
		h.client.Loads.Add(load)

		AddEntities(h.bridge, h.client.Loads, LightKind(), nil)

		v, _ := h.bridge.EntityView("10")
		s := v.State()

		assert.Equal(t, true, s["on"])
		assert.Equal(t, true, s["dimmable"])
		assert.Equal(t, 128, s["brightness"])
	})

	t.Run("turn on ignores brightness on non dimmable loads", func(t *testing.T) {
		h := newTestHarness()

		relay := newLoad(10, "Pump", 0)
		relay.LoadType = "High Voltage Relay"
		h.client.Loads.Add(relay)

		AddEntities(h.bridge, h.client.Loads, LightKind(), nil)

		v, _ := h.bridge.EntityView("10")
		assert.NoError(t, v.Invoke(context.Background(), "turn_on", []byte(`{"brightness":128}`)))

		assert.Equal(t, []string{"LOAD 10 100"}, h.session.commands)
	})

	t.Run("turn on with a transition ramps", func(t *testing.T) {
		h := newTestHarness()
		h.client.Loads.Add(newLoad(10, "Downlights", 0))

		AddEntities(h.bridge, h.client.Loads, LightKind(), nil)

		v, _ := h.bridge.EntityView("10")
		assert.NoError(t, v.Invoke(context.Background(), "turn_on", []byte(`{"transition":2}`)))

		assert.Equal(t, []string{"RAMPLOAD 10 100 2"}, h.session.commands)
	})
}

func TestRGBLightKind(t *testing.T) {
	newRGB := func(colorType vantage.ColorType) *vantage.RGBLoad {
		return &vantage.RGBLoad{
			SystemObject: vantage.SystemObject{VID: 11, Name: "Strip", Type: "RGBLoad", Master: 1},
			ColorType:    colorType,
			MinTemp:      2700,
			MaxTemp:      6500,
		}
	}

	t.Run("state follows the declared color type", func(t *testing.T) {
		h := newTestHarness()

		load := newRGB(vantage.ColorTypeCCT)
		temp := 3000
		load.ColorTemp = &temp
		h.client.RGBLoads.Add(load)

		AddEntities(h.bridge, h.client.RGBLoads, RGBLightKind(), nil)

		v, _ := h.bridge.EntityView("11")
		s := v.State()

		assert.Equal(t, "CCT", s["colorType"])
		assert.Equal(t, 3000, s["colorTemp"])
		assert.Equal(t, 2700, s["minColorTemp"])
		assert.Equal(t, 6500, s["maxColorTemp"])
	})

	t.Run("hs requests invoke the hsl interface", func(t *testing.T) {
		h := newTestHarness()
		h.client.RGBLoads.Add(newRGB(vantage.ColorTypeHSL))

		AddEntities(h.bridge, h.client.RGBLoads, RGBLightKind(), nil)

		v, _ := h.bridge.EntityView("11")
		assert.NoError(t, v.Invoke(context.Background(), "turn_on", []byte(`{"hs":[120,100],"brightness":255}`)))

		assert.Equal(t, []string{"INVOKE 11 RGBLoad.SetHSL 120 100 100"}, h.session.commands)
	})

	t.Run("rgb values are scaled by brightness", func(t *testing.T) {
		h := newTestHarness()
		h.client.RGBLoads.Add(newRGB(vantage.ColorTypeRGB))

		AddEntities(h.bridge, h.client.RGBLoads, RGBLightKind(), nil)

		v, _ := h.bridge.EntityView("11")
		assert.NoError(t, v.Invoke(context.Background(), "turn_on", []byte(`{"rgb":[255,128,0],"brightness":128}`)))

		assert.Equal(t, []string{"INVOKE 11 RGBLoad.SetRGB 128 64 0"}, h.session.commands)
	})

	t.Run("color temperature is clamped to the load's range", func(t *testing.T) {
		h := newTestHarness()
		h.client.RGBLoads.Add(newRGB(vantage.ColorTypeCCT))

		AddEntities(h.bridge, h.client.RGBLoads, RGBLightKind(), nil)

		v, _ := h.bridge.EntityView("11")
		assert.NoError(t, v.Invoke(context.Background(), "turn_on", []byte(`{"colorTemp":10000}`)))

		assert.Equal(t, []string{
			"INVOKE 11 ColorTemperature.Set 6500",
			"INVOKE 11 Load.SetLevel 100",
		}, h.session.commands)
	})

	t.Run("a bare turn on goes to full", func(t *testing.T) {
		h := newTestHarness()
		h.client.RGBLoads.Add(newRGB(vantage.ColorTypeRGB))

		AddEntities(h.bridge, h.client.RGBLoads, RGBLightKind(), nil)

		v, _ := h.bridge.EntityView("11")
		assert.NoError(t, v.Invoke(context.Background(), "turn_on", nil))

		assert.Equal(t, []string{"LOAD 11 100"}, h.session.commands)
	})
}

func TestSwitchKind(t *testing.T) {
	t.Run("relays expose on off only", func(t *testing.T) {
		h := newTestHarness()

		relay := newLoad(10, "Pump", 0)
		relay.LoadType = "Low Voltage Relay"
		h.client.Loads.Add(relay)

		AddEntities(h.bridge, h.client.Loads, SwitchKind(), (*vantage.Load).IsRelay)

		v, _ := h.bridge.EntityView("10")
		assert.Equal(t, map[string]any{"on": false}, v.State())

		assert.NoError(t, v.Invoke(context.Background(), "turn_on", nil))
		assert.NoError(t, v.Invoke(context.Background(), "turn_off", nil))

		assert.Equal(t, []string{"LOAD 10 100", "LOAD 10 0"}, h.session.commands)
	})
}

func TestCoverKind(t *testing.T) {
	newBlind := func(vid int, blindType string) *vantage.Blind {
		return &vantage.Blind{
			SystemObject: vantage.SystemObject{VID: vid, Name: "Shade", Type: blindType, Master: 1},
		}
	}

	t.Run("state distinguishes shades from curtains and derives closed", func(t *testing.T) {
		h := newTestHarness()

		blind := newBlind(20, "Drapery")
		position := 0.5
		blind.Position = &position
		h.client.Blinds.Add(blind)

		AddEntities(h.bridge, h.client.Blinds, CoverKind(), nil)

		v, _ := h.bridge.EntityView("20")
		s := v.State()

		assert.Equal(t, "curtain", s["kind"])
		assert.Equal(t, 0.5, s["position"])
		assert.Equal(t, true, s["closed"])
	})

	t.Run("commands drive the blind and clamp positions", func(t *testing.T) {
		h := newTestHarness()
		h.client.Blinds.Add(newBlind(20, "Blind"))

		AddEntities(h.bridge, h.client.Blinds, CoverKind(), nil)

		v, _ := h.bridge.EntityView("20")
		assert.NoError(t, v.Invoke(context.Background(), "open", nil))
		assert.NoError(t, v.Invoke(context.Background(), "close", nil))
		assert.NoError(t, v.Invoke(context.Background(), "stop", nil))
		assert.NoError(t, v.Invoke(context.Background(), "set_position", []byte(`{"position":150}`)))

		assert.Equal(t, []string{
			"BLIND 20 OPEN",
			"BLIND 20 CLOSE",
			"BLIND 20 STOP",
			"BLIND 20 POS 100",
		}, h.session.commands)
	})
}

func TestClimateKind(t *testing.T) {
	setupThermostat := func(h *testHarness) {
		h.client.Thermostats.Add(&vantage.Thermostat{
			SystemObject:  vantage.SystemObject{VID: 40, Name: "Hallway", Type: "Thermostat", Master: 1},
			OperationMode: vantage.OperationModeHeat,
			FanMode:       vantage.FanModeAuto,
			Status:        vantage.StatusHeating,
		})

		indoor := 21.5
		cool := 24.0
		heat := 19.0

		for _, temperature := range []*vantage.Temperature{
			{SystemObject: vantage.SystemObject{VID: 41, Type: "Temperature", Master: 1}, Child: vantage.Child{Parent: vantage.ParentRef{VID: 40, Position: vantage.ThermostatPositionIndoor}}, Value: &indoor},
			{SystemObject: vantage.SystemObject{VID: 43, Type: "Temperature", Master: 1}, Child: vantage.Child{Parent: vantage.ParentRef{VID: 40, Position: vantage.ThermostatPositionCoolSetPoint}}, Value: &cool},
			{SystemObject: vantage.SystemObject{VID: 44, Type: "Temperature", Master: 1}, Child: vantage.Child{Parent: vantage.ParentRef{VID: 40, Position: vantage.ThermostatPositionHeatSetPoint}}, Value: &heat},
		} {
			h.client.Temperatures.Add(temperature)
		}
	}

	t.Run("state folds the temperature children into the climate entity", func(t *testing.T) {
		h := newTestHarness()
		setupThermostat(h)

		AddEntities(h.bridge, h.client.Thermostats, ClimateKind(), nil)

		v, _ := h.bridge.EntityView("40")
		s := v.State()

		assert.Equal(t, "Heat", s["operationMode"])
		assert.Equal(t, "Auto", s["fanMode"])
		assert.Equal(t, "Heating", s["status"])
		assert.Equal(t, 21.5, s["currentTemperature"])
		assert.Equal(t, 24.0, s["coolSetPoint"])
		assert.Equal(t, 19.0, s["heatSetPoint"])
	})

	t.Run("temperature child updates re-export the climate entity", func(t *testing.T) {
		h := newTestHarness()
		setupThermostat(h)

		AddEntities(h.bridge, h.client.Thermostats, ClimateKind(), nil)

		ch := make(chan any, 8)
		h.bus.Subscribe(ch)

		value := 22.0
		h.client.Temperatures.Apply(41, func(temp *vantage.Temperature) { temp.Value = &value }, "value")

		changes := drainStateChanges(ch)
		assert.Len(t, changes, 1)
		assert.Equal(t, "40", changes[0].Entity.UniqueID)
		assert.Equal(t, 22.0, changes[0].State["currentTemperature"])
	})

	t.Run("mode commands validate their input", func(t *testing.T) {
		h := newTestHarness()
		setupThermostat(h)

		AddEntities(h.bridge, h.client.Thermostats, ClimateKind(), nil)

		v, _ := h.bridge.EntityView("40")

		assert.Error(t, v.Invoke(context.Background(), "set_operation_mode", []byte(`{"mode":"Defrost"}`)))
		assert.NoError(t, v.Invoke(context.Background(), "set_operation_mode", []byte(`{"mode":"Cool"}`)))
		assert.NoError(t, v.Invoke(context.Background(), "set_fan_mode", []byte(`{"mode":"On"}`)))
		assert.NoError(t, v.Invoke(context.Background(), "set_cool_setpoint", []byte(`{"temperature":23.5}`)))

		assert.Equal(t, []string{
			"THERMOP 40 Cool",
			"THERMFAN 40 On",
			"THERMTEMP 40 COOL 23.5",
		}, h.session.commands)
	})
}

func TestSensorKinds(t *testing.T) {
	t.Run("omni sensors report class and unit by kind", func(t *testing.T) {
		h := newTestHarness()

		level := 2.5
		h.client.OmniSensors.Add(&vantage.OmniSensor{
			SystemObject: vantage.SystemObject{VID: 50, Name: "Line Current", Type: "OmniSensor", Master: 1},
			Kind:         vantage.OmniSensorCurrent,
			Level:        &level,
		})

		AddEntities(h.bridge, h.client.OmniSensors, OmniSensorKind(), nil)

		v, _ := h.bridge.EntityView("50")
		s := v.State()

		assert.Equal(t, "current", s["class"])
		assert.Equal(t, "A", s["unit"])
		assert.Equal(t, 2.5, s["value"])
	})

	t.Run("light sensors convert footcandles to lux", func(t *testing.T) {
		h := newTestHarness()

		level := 10.0
		h.client.LightSensors.Add(&vantage.LightSensor{
			SystemObject: vantage.SystemObject{VID: 51, Name: "Porch", Type: "LightSensor", Master: 1},
			Level:        &level,
		})

		AddEntities(h.bridge, h.client.LightSensors, LightSensorKind(), nil)

		v, _ := h.bridge.EntityView("51")
		assert.InDelta(t, 107.639, v.State()["value"].(float64), 0.001)
	})

	t.Run("temperature sensors attach to a live parent's device", func(t *testing.T) {
		h := newTestHarness()
		h.client.Stations.Add(&vantage.Station{SystemObject: vantage.SystemObject{VID: 20, Name: "Keypad", Type: "Station", Master: 1}})

		h.client.Temperatures.Add(&vantage.Temperature{
			SystemObject: vantage.SystemObject{VID: 52, Name: "Keypad Temp", Type: "Temperature", Master: 1},
			Child:        vantage.Child{Parent: vantage.ParentRef{VID: 20, Position: 1}},
		})

		AddEntities(h.bridge, h.client.Temperatures, TemperatureSensorKind(), nil)

		entry, _ := h.bridge.Entities.Get("house", "52")
		assert.Equal(t, "20", entry.DeviceIdentifier)
	})
}

func TestVariableKinds(t *testing.T) {
	t.Run("boolean variables are hidden switches on the variables device", func(t *testing.T) {
		h := newTestHarness()

		on := true
		h.client.GMems.Add(&vantage.GMem{
			SystemObject: vantage.SystemObject{VID: 60, Name: "Party Mode", Type: "GMem", Master: 1},
			Tag:          vantage.GMemTagBool,
			BoolValue:    &on,
		})

		AddEntities(h.bridge, h.client.GMems, VariableSwitchKind(), (*vantage.GMem).IsBool)

		entry, _ := h.bridge.Entities.Get("house", "60")
		assert.False(t, entry.Visible)
		assert.Equal(t, "1:variables", entry.DeviceIdentifier)

		device, found := h.bridge.Devices.Get(Domain, "house", "1:variables")
		assert.True(t, found)
		assert.Equal(t, "service", device.EntryType)

		v, _ := h.bridge.EntityView("60")
		assert.Equal(t, map[string]any{"on": true}, v.State())

		assert.NoError(t, v.Invoke(context.Background(), "turn_off", nil))
		assert.Equal(t, []string{"INVOKE 60 GMem.SetValue 0"}, h.session.commands)
	})
}

func TestGroupKinds(t *testing.T) {
	t.Run("load group state aggregates its members", func(t *testing.T) {
		h := newTestHarness()

		off := 0.0
		on := 100.0

		first := newLoad(10, "Left", 0)
		first.Level = &off
		second := newLoad(11, "Right", 0)
		second.Level = &on
		h.client.Loads.Add(first)
		h.client.Loads.Add(second)

		h.client.LoadGroups.Add(&vantage.LoadGroup{
			SystemObject: vantage.SystemObject{VID: 70, Name: "Hall", Type: "LoadGroup", Master: 1},
			LoadIDs:      []int{10, 11},
		})

		AddEntities(h.bridge, h.client.LoadGroups, LoadGroupKind(), nil)

		v, _ := h.bridge.EntityView("70")
		s := v.State()

		assert.Equal(t, true, s["on"])
		assert.Equal(t, true, s["group"])
		assert.Equal(t, 128, s["brightness"])
	})

	t.Run("member updates re-export the group entity", func(t *testing.T) {
		h := newTestHarness()

		h.client.Loads.Add(newLoad(10, "Left", 0))
		h.client.LoadGroups.Add(&vantage.LoadGroup{
			SystemObject: vantage.SystemObject{VID: 70, Name: "Hall", Type: "LoadGroup", Master: 1},
			LoadIDs:      []int{10},
		})

		AddEntities(h.bridge, h.client.LoadGroups, LoadGroupKind(), nil)

		ch := make(chan any, 8)
		h.bus.Subscribe(ch)

		level := 100.0
		h.client.Loads.Apply(10, func(l *vantage.Load) { l.Level = &level }, "level")

		changes := drainStateChanges(ch)
		assert.Len(t, changes, 1)
		assert.Equal(t, "70", changes[0].Entity.UniqueID)
		assert.Equal(t, true, changes[0].State["on"])
	})

	t.Run("group commands address the group id", func(t *testing.T) {
		h := newTestHarness()

		h.client.BlindGroups.Add(&vantage.BlindGroup{
			SystemObject: vantage.SystemObject{VID: 71, Name: "West Shades", Type: "BlindGroup", Master: 1},
			BlindIDs:     []int{20, 21},
		})

		AddEntities(h.bridge, h.client.BlindGroups, BlindGroupKind(), nil)

		v, _ := h.bridge.EntityView("71")
		assert.NoError(t, v.Invoke(context.Background(), "set_position", []byte(`{"position":40}`)))

		assert.Equal(t, []string{"BLIND 71 POS 40"}, h.session.commands)
	})
}

func TestFanKind(t *testing.T) {
	t.Run("motor loads expose a percentage speed", func(t *testing.T) {
		h := newTestHarness()

		fan := newLoad(10, "Ceiling Fan", 0)
		fan.LoadType = "Motor"
		h.client.Loads.Add(fan)

		AddEntities(h.bridge, h.client.Loads, FanKind(), (*vantage.Load).IsMotor)

		v, _ := h.bridge.EntityView("10")
		assert.NoError(t, v.Invoke(context.Background(), "turn_on", []byte(`{"percentage":25}`)))
		assert.NoError(t, v.Invoke(context.Background(), "set_percentage", []byte(`{"percentage":150}`)))
		assert.NoError(t, v.Invoke(context.Background(), "turn_off", nil))

		assert.Equal(t, []string{"LOAD 10 25", "LOAD 10 100", "LOAD 10 0"}, h.session.commands)
	})
}

func TestBinarySensorKind(t *testing.T) {
	t.Run("dry contacts report triggered", func(t *testing.T) {
		h := newTestHarness()

		h.client.DryContacts.Add(&vantage.DryContact{
			SystemObject: vantage.SystemObject{VID: 80, Name: "Front Door", Type: "DryContact", Master: 1},
			Triggered:    true,
		})

		AddEntities(h.bridge, h.client.DryContacts, BinarySensorKind(), nil)

		v, _ := h.bridge.EntityView("80")
		assert.Equal(t, map[string]any{"triggered": true}, v.State())
	})
}
