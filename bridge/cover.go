package bridge

import (
	"context"
	"encoding/json"

	"github.com/vantagebridge/controller/vantage"
)

type coverSetPosition struct {
	Position float64 `json:"position"`
}

// CoverKind exposes motorised blinds and draperies. Position 100 is fully
// open, matching the controller's convention.
func CoverKind() Kind[*vantage.Blind] {
	return Kind[*vantage.Blind]{
		Domain: "cover",
		State: func(e *Entity[*vantage.Blind]) map[string]any {
			kind := "shade"
			if e.Obj.IsDrapery() {
				kind = "curtain"
			}

			s := map[string]any{"kind": kind}

			if e.Obj.Position != nil {
				s["position"] = *e.Obj.Position
				s["closed"] = *e.Obj.Position < 1
			}

			return s
		},
		Commands: map[string]Command[*vantage.Blind]{
			"open": func(ctx context.Context, e *Entity[*vantage.Blind], payload []byte) error {
				return e.Bridge.Client.OpenBlind(ctx, e.Obj.ObjectID())
			},
			"close": func(ctx context.Context, e *Entity[*vantage.Blind], payload []byte) error {
				return e.Bridge.Client.CloseBlind(ctx, e.Obj.ObjectID())
			},
			"stop": func(ctx context.Context, e *Entity[*vantage.Blind], payload []byte) error {
				return e.Bridge.Client.StopBlind(ctx, e.Obj.ObjectID())
			},
			"set_position": func(ctx context.Context, e *Entity[*vantage.Blind], payload []byte) error {
				var req coverSetPosition
				if err := json.Unmarshal(payload, &req); err != nil {
					return err
				}

				return e.Bridge.Client.SetBlindPosition(ctx, e.Obj.ObjectID(), clamp(req.Position, 0, 100))
			},
		},
	}
}
