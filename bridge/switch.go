package bridge

import (
	"context"

	"github.com/vantagebridge/controller/vantage"
)

// SwitchKind exposes relay loads as simple on/off switches.
func SwitchKind() Kind[*vantage.Load] {
	return Kind[*vantage.Load]{
		Domain: "switch",
		State: func(e *Entity[*vantage.Load]) map[string]any {
			return map[string]any{"on": e.Obj.IsOn()}
		},
		Commands: map[string]Command[*vantage.Load]{
			"turn_on": func(ctx context.Context, e *Entity[*vantage.Load], payload []byte) error {
				return e.Bridge.Client.TurnLoadOn(ctx, e.Obj.ObjectID(), 100, 0)
			},
			"turn_off": func(ctx context.Context, e *Entity[*vantage.Load], payload []byte) error {
				return e.Bridge.Client.TurnLoadOff(ctx, e.Obj.ObjectID(), 0)
			},
		},
	}
}

// VariableSwitchKind exposes boolean variables as switches on the gateway's
// virtual variables device. Variables are hidden by default and fixed
// variables are read only, so the latter are filtered before entities are
// created.
func VariableSwitchKind() Kind[*vantage.GMem] {
	return Kind[*vantage.GMem]{
		Domain: "switch",
		Hidden: true,
		State: func(e *Entity[*vantage.GMem]) map[string]any {
			on := e.Obj.BoolValue != nil && *e.Obj.BoolValue
			return map[string]any{"on": on}
		},
		Commands: map[string]Command[*vantage.GMem]{
			"turn_on": func(ctx context.Context, e *Entity[*vantage.GMem], payload []byte) error {
				return e.Bridge.Client.SetGMemBool(ctx, e.Obj.ObjectID(), true)
			},
			"turn_off": func(ctx context.Context, e *Entity[*vantage.GMem], payload []byte) error {
				return e.Bridge.Client.SetGMemBool(ctx, e.Obj.ObjectID(), false)
			},
		},
		DeviceInfo: func(e *Entity[*vantage.GMem]) Descriptor {
			return VariablesDeviceInfo(e.Obj.MasterID())
		},
	}
}
