package bridge

import (
	"context"
	"encoding/json"

	"github.com/vantagebridge/controller/vantage"
)

type textSetValue struct {
	Value string `json:"value"`
}

// VariableTextKind exposes text variables on the gateway's virtual
// variables device.
func VariableTextKind() Kind[*vantage.GMem] {
	return Kind[*vantage.GMem]{
		Domain: "text",
		Hidden: true,
		State: func(e *Entity[*vantage.GMem]) map[string]any {
			s := map[string]any{}

			if e.Obj.StringValue != nil {
				s["value"] = *e.Obj.StringValue
			}

			return s
		},
		Commands: map[string]Command[*vantage.GMem]{
			"set_value": func(ctx context.Context, e *Entity[*vantage.GMem], payload []byte) error {
				var req textSetValue
				if err := json.Unmarshal(payload, &req); err != nil {
					return err
				}

				return e.Bridge.Client.SetGMemText(ctx, e.Obj.ObjectID(), req.Value)
			},
		},
		DeviceInfo: func(e *Entity[*vantage.GMem]) Descriptor {
			return VariablesDeviceInfo(e.Obj.MasterID())
		},
	}
}
