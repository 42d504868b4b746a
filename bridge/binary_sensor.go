package bridge

import "github.com/vantagebridge/controller/vantage"

// BinarySensorKind exposes dry contact inputs.
func BinarySensorKind() Kind[*vantage.DryContact] {
	return Kind[*vantage.DryContact]{
		Domain: "binary_sensor",
		State: func(e *Entity[*vantage.DryContact]) map[string]any {
			return map[string]any{"triggered": e.Obj.Triggered}
		},
	}
}
