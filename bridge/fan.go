package bridge

import (
	"context"
	"encoding/json"

	"github.com/vantagebridge/controller/vantage"
)

type fanTurnOn struct {
	Percentage *float64 `json:"percentage"`
}

// FanKind exposes motor loads as fans with a percentage speed.
func FanKind() Kind[*vantage.Load] {
	return Kind[*vantage.Load]{
		Domain: "fan",
		State: func(e *Entity[*vantage.Load]) map[string]any {
			s := map[string]any{"on": e.Obj.IsOn()}

			if e.Obj.Level != nil {
				s["percentage"] = *e.Obj.Level
			}

			return s
		},
		Commands: map[string]Command[*vantage.Load]{
			"turn_on": func(ctx context.Context, e *Entity[*vantage.Load], payload []byte) error {
				var req fanTurnOn
				if len(payload) > 0 {
					if err := json.Unmarshal(payload, &req); err != nil {
						return err
					}
				}

				level := 100.0
				if req.Percentage != nil {
					level = clamp(*req.Percentage, 0, 100)
				}

				return e.Bridge.Client.TurnLoadOn(ctx, e.Obj.ObjectID(), level, 0)
			},
			"turn_off": func(ctx context.Context, e *Entity[*vantage.Load], payload []byte) error {
				return e.Bridge.Client.TurnLoadOff(ctx, e.Obj.ObjectID(), 0)
			},
			"set_percentage": func(ctx context.Context, e *Entity[*vantage.Load], payload []byte) error {
				var req fanTurnOn
				if err := json.Unmarshal(payload, &req); err != nil {
					return err
				}

				if req.Percentage == nil {
					return nil
				}

				return e.Bridge.Client.SetLoadLevel(ctx, e.Obj.ObjectID(), clamp(*req.Percentage, 0, 100), 0)
			},
		},
	}
}
