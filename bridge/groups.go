package bridge

import (
	"context"
	"encoding/json"

	"github.com/vantagebridge/controller/vantage"
)

// LoadGroupKind exposes named load groups as lights. Commands address the
// group id, which the controller fans out to every member; state is derived
// from the members, so member updates re-export the group entity.
func LoadGroupKind() Kind[*vantage.LoadGroup] {
	return Kind[*vantage.LoadGroup]{
		Domain: "light",
		Init: func(e *Entity[*vantage.LoadGroup]) {
			members := map[int]bool{}
			for _, id := range e.Obj.LoadIDs {
				members[id] = true
			}

			e.Bridge.OnUnload(e.Bridge.Client.Loads.Subscribe(vantage.ObjectUpdated, func(event vantage.Event[*vantage.Load]) {
				if members[event.Obj.ObjectID()] {
					e.WriteState()
				}
			}))
		},
		State: func(e *Entity[*vantage.LoadGroup]) map[string]any {
			on := false
			total, count := 0.0, 0

			for _, id := range e.Obj.LoadIDs {
				load, found := e.Bridge.Client.Loads.Get(id)
				if !found || load.Level == nil {
					continue
				}

				if *load.Level > 0 {
					on = true
				}

				total += *load.Level
				count++
			}

			s := map[string]any{
				"on":    on,
				"group": true,
			}

			if count > 0 {
				s["brightness"] = levelToBrightness(total / float64(count))
			}

			return s
		},
		Commands: map[string]Command[*vantage.LoadGroup]{
			"turn_on": func(ctx context.Context, e *Entity[*vantage.LoadGroup], payload []byte) error {
				var req lightTurnOn
				if len(payload) > 0 {
					if err := json.Unmarshal(payload, &req); err != nil {
						return err
					}
				}

				level := 100.0
				if req.Brightness != nil {
					level = brightnessToLevel(*req.Brightness)
				}

				return e.Bridge.Client.TurnLoadOn(ctx, e.Obj.ObjectID(), level, transitionOf(req.Transition))
			},
			"turn_off": func(ctx context.Context, e *Entity[*vantage.LoadGroup], payload []byte) error {
				var req lightTurnOff
				if len(payload) > 0 {
					if err := json.Unmarshal(payload, &req); err != nil {
						return err
					}
				}

				return e.Bridge.Client.TurnLoadOff(ctx, e.Obj.ObjectID(), transitionOf(req.Transition))
			},
		},
	}
}

// BlindGroupKind exposes named blind groups as covers, with position derived
// from the members.
func BlindGroupKind() Kind[*vantage.BlindGroup] {
	return Kind[*vantage.BlindGroup]{
		Domain: "cover",
		Init: func(e *Entity[*vantage.BlindGroup]) {
			members := map[int]bool{}
			for _, id := range e.Obj.BlindIDs {
				members[id] = true
			}

			e.Bridge.OnUnload(e.Bridge.Client.Blinds.Subscribe(vantage.ObjectUpdated, func(event vantage.Event[*vantage.Blind]) {
				if members[event.Obj.ObjectID()] {
					e.WriteState()
				}
			}))
		},
		State: func(e *Entity[*vantage.BlindGroup]) map[string]any {
			total, count := 0.0, 0

			for _, id := range e.Obj.BlindIDs {
				blind, found := e.Bridge.Client.Blinds.Get(id)
				if !found || blind.Position == nil {
					continue
				}

				total += *blind.Position
				count++
			}

			s := map[string]any{
				"kind":  "shade",
				"group": true,
			}

			if count > 0 {
				position := total / float64(count)
				s["position"] = position
				s["closed"] = position < 1
			}

			return s
		},
		Commands: map[string]Command[*vantage.BlindGroup]{
			"open": func(ctx context.Context, e *Entity[*vantage.BlindGroup], payload []byte) error {
				return e.Bridge.Client.OpenBlind(ctx, e.Obj.ObjectID())
			},
			"close": func(ctx context.Context, e *Entity[*vantage.BlindGroup], payload []byte) error {
				return e.Bridge.Client.CloseBlind(ctx, e.Obj.ObjectID())
			},
			"stop": func(ctx context.Context, e *Entity[*vantage.BlindGroup], payload []byte) error {
				return e.Bridge.Client.StopBlind(ctx, e.Obj.ObjectID())
			},
			"set_position": func(ctx context.Context, e *Entity[*vantage.BlindGroup], payload []byte) error {
				var req coverSetPosition
				if err := json.Unmarshal(payload, &req); err != nil {
					return err
				}

				return e.Bridge.Client.SetBlindPosition(ctx, e.Obj.ObjectID(), clamp(req.Position, 0, 100))
			},
		},
	}
}
