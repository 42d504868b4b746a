package bridge

import (
	"context"
	"encoding/json"

	"github.com/vantagebridge/controller/vantage"
)

type numberSetValue struct {
	Value int64 `json:"value"`
}

// VariableNumberKind exposes numeric variables on the gateway's virtual
// variables device.
func VariableNumberKind() Kind[*vantage.GMem] {
	return Kind[*vantage.GMem]{
		Domain: "number",
		Hidden: true,
		State: func(e *Entity[*vantage.GMem]) map[string]any {
			s := map[string]any{"tag": string(e.Obj.Tag)}

			if e.Obj.IntValue != nil {
				s["value"] = *e.Obj.IntValue
			}

			return s
		},
		Commands: map[string]Command[*vantage.GMem]{
			"set_value": func(ctx context.Context, e *Entity[*vantage.GMem], payload []byte) error {
				var req numberSetValue
				if err := json.Unmarshal(payload, &req); err != nil {
					return err
				}

				return e.Bridge.Client.SetGMemNumber(ctx, e.Obj.ObjectID(), req.Value)
			},
		},
		DeviceInfo: func(e *Entity[*vantage.GMem]) Descriptor {
			return VariablesDeviceInfo(e.Obj.MasterID())
		},
	}
}
