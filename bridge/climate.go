package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vantagebridge/controller/vantage"
)

type thermostatSensors struct {
	Indoor *vantage.Temperature
	Cool   *vantage.Temperature
	Heat   *vantage.Temperature
}

func (t *thermostatSensors) ids() map[int]bool {
	ids := map[int]bool{}
	for _, s := range []*vantage.Temperature{t.Indoor, t.Cool, t.Heat} {
		if s != nil {
			ids[s.ObjectID()] = true
		}
	}

	return ids
}

type climateSetMode struct {
	Mode string `json:"mode"`
}

type climateSetTemperature struct {
	Temperature float64 `json:"temperature"`
}

// ClimateKind exposes thermostats. A thermostat reports its indoor
// temperature and setpoints through Temperature children at well known
// positions; those are resolved once at construction and their updates
// re-export this entity's state.
func ClimateKind() Kind[*vantage.Thermostat] {
	return Kind[*vantage.Thermostat]{
		Domain: "climate",
		Init: func(e *Entity[*vantage.Thermostat]) {
			sensors := &thermostatSensors{}

			for _, t := range e.Bridge.Client.Temperatures.Filter(func(t *vantage.Temperature) bool {
				ref, ok := t.ParentRef()
				return ok && ref.VID == e.Obj.ObjectID()
			}) {
				ref, _ := t.ParentRef()
				switch ref.Position {
				case vantage.ThermostatPositionIndoor:
					sensors.Indoor = t
				case vantage.ThermostatPositionCoolSetPoint:
					sensors.Cool = t
				case vantage.ThermostatPositionHeatSetPoint:
					sensors.Heat = t
				}
			}

			e.Aux = sensors

			ids := sensors.ids()
			e.Bridge.OnUnload(e.Bridge.Client.Temperatures.Subscribe(vantage.ObjectUpdated, func(event vantage.Event[*vantage.Temperature]) {
				if ids[event.Obj.ObjectID()] {
					e.WriteState()
				}
			}))
		},
		State: func(e *Entity[*vantage.Thermostat]) map[string]any {
			s := map[string]any{
				"operationMode": string(e.Obj.OperationMode),
				"fanMode":       string(e.Obj.FanMode),
				"status":        string(e.Obj.Status),
			}

			sensors, _ := e.Aux.(*thermostatSensors)
			if sensors == nil {
				return s
			}

			if sensors.Indoor != nil && sensors.Indoor.Value != nil {
				s["currentTemperature"] = *sensors.Indoor.Value
			}
			if sensors.Cool != nil && sensors.Cool.Value != nil {
				s["coolSetPoint"] = *sensors.Cool.Value
			}
			if sensors.Heat != nil && sensors.Heat.Value != nil {
				s["heatSetPoint"] = *sensors.Heat.Value
			}

			return s
		},
		Commands: map[string]Command[*vantage.Thermostat]{
			"set_operation_mode": func(ctx context.Context, e *Entity[*vantage.Thermostat], payload []byte) error {
				var req climateSetMode
				if err := json.Unmarshal(payload, &req); err != nil {
					return err
				}

				mode, err := parseOperationMode(req.Mode)
				if err != nil {
					return err
				}

				return e.Bridge.Client.SetThermostatOperationMode(ctx, e.Obj.ObjectID(), mode)
			},
			"set_fan_mode": func(ctx context.Context, e *Entity[*vantage.Thermostat], payload []byte) error {
				var req climateSetMode
				if err := json.Unmarshal(payload, &req); err != nil {
					return err
				}

				mode, err := parseFanMode(req.Mode)
				if err != nil {
					return err
				}

				return e.Bridge.Client.SetThermostatFanMode(ctx, e.Obj.ObjectID(), mode)
			},
			"set_cool_setpoint": func(ctx context.Context, e *Entity[*vantage.Thermostat], payload []byte) error {
				var req climateSetTemperature
				if err := json.Unmarshal(payload, &req); err != nil {
					return err
				}

				return e.Bridge.Client.SetThermostatCoolSetPoint(ctx, e.Obj.ObjectID(), req.Temperature)
			},
			"set_heat_setpoint": func(ctx context.Context, e *Entity[*vantage.Thermostat], payload []byte) error {
				var req climateSetTemperature
				if err := json.Unmarshal(payload, &req); err != nil {
					return err
				}

				return e.Bridge.Client.SetThermostatHeatSetPoint(ctx, e.Obj.ObjectID(), req.Temperature)
			},
		},
	}
}

func parseOperationMode(s string) (vantage.OperationMode, error) {
	switch vantage.OperationMode(s) {
	case vantage.OperationModeOff, vantage.OperationModeHeat, vantage.OperationModeCool, vantage.OperationModeAuto:
		return vantage.OperationMode(s), nil
	}

	return "", fmt.Errorf("unknown operation mode: %s", s)
}

func parseFanMode(s string) (vantage.FanMode, error) {
	switch vantage.FanMode(s) {
	case vantage.FanModeAuto, vantage.FanModeOn:
		return vantage.FanMode(s), nil
	}

	return "", fmt.Errorf("unknown fan mode: %s", s)
}
