package bridge

import "github.com/vantagebridge/controller/vantage"

// OmniSensorKind exposes the general purpose analog sensors on a master or
// module (line current, power draw, internal temperature).
func OmniSensorKind() Kind[*vantage.OmniSensor] {
	return Kind[*vantage.OmniSensor]{
		Domain: "sensor",
		State: func(e *Entity[*vantage.OmniSensor]) map[string]any {
			s := map[string]any{}

			switch e.Obj.Kind {
			case vantage.OmniSensorCurrent:
				s["class"] = "current"
				s["unit"] = "A"
			case vantage.OmniSensorPower:
				s["class"] = "power"
				s["unit"] = "W"
			case vantage.OmniSensorTemperature:
				s["class"] = "temperature"
				s["unit"] = "°C"
			}

			if e.Obj.Level != nil {
				s["value"] = *e.Obj.Level
			}

			return s
		},
	}
}

// LightSensorKind exposes ambient light sensors. The controller reports in
// footcandles; the exported value is lux.
func LightSensorKind() Kind[*vantage.LightSensor] {
	return Kind[*vantage.LightSensor]{
		Domain: "sensor",
		State: func(e *Entity[*vantage.LightSensor]) map[string]any {
			s := map[string]any{
				"class": "illuminance",
				"unit":  "lx",
			}

			if e.Obj.Level != nil {
				s["value"] = footcandlesToLux(*e.Obj.Level)
			}

			return s
		},
	}
}

// TemperatureSensorKind exposes standalone temperature values. When the
// declared parent is live the entity attaches to the parent's device entry,
// so a thermostat and its probes appear as one device. Temperatures that
// feed a thermostat's own display are already part of the climate entity and
// are filtered out before entities are created.
func TemperatureSensorKind() Kind[*vantage.Temperature] {
	return Kind[*vantage.Temperature]{
		Domain: "sensor",
		Init: func(e *Entity[*vantage.Temperature]) {
			if ref, has := e.Obj.ParentRef(); has {
				if parent, found := e.Bridge.Client.Object(ref.VID); found {
					e.ParentObj = parent
				}
			}
		},
		State: func(e *Entity[*vantage.Temperature]) map[string]any {
			s := map[string]any{
				"class": "temperature",
				"unit":  "°C",
			}

			if e.Obj.Value != nil {
				s["value"] = *e.Obj.Value
			}

			return s
		},
	}
}
