package bridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vantagebridge/controller/vantage"
)

type lightTurnOn struct {
	Brightness *int      `json:"brightness"`
	Transition *float64  `json:"transition"`
	HS         *[2]int   `json:"hs"`
	RGB        *[3]uint8 `json:"rgb"`
	RGBW       *[4]uint8 `json:"rgbw"`
	ColorTemp  *int      `json:"colorTemp"`
}

type lightTurnOff struct {
	Transition *float64 `json:"transition"`
}

func transitionOf(t *float64) time.Duration {
	if t == nil {
		return 0
	}

	return time.Duration(*t * float64(time.Second))
}

// LightKind exposes dimmable and non-dimmable lighting loads.
func LightKind() Kind[*vantage.Load] {
	return Kind[*vantage.Load]{
		Domain: "light",
		State: func(e *Entity[*vantage.Load]) map[string]any {
			s := map[string]any{
				"on":       e.Obj.IsOn(),
				"dimmable": e.Obj.IsDimmable(),
			}

			if e.Obj.Level != nil {
				s["brightness"] = levelToBrightness(*e.Obj.Level)
			}

			return s
		},
		Commands: map[string]Command[*vantage.Load]{
			"turn_on": func(ctx context.Context, e *Entity[*vantage.Load], payload []byte) error {
				var req lightTurnOn
				if len(payload) > 0 {
					if err := json.Unmarshal(payload, &req); err != nil {
						return err
					}
				}

				level := 100.0
				if req.Brightness != nil && e.Obj.IsDimmable() {
					level = brightnessToLevel(*req.Brightness)
				}

				return e.Bridge.Client.TurnLoadOn(ctx, e.Obj.ObjectID(), level, transitionOf(req.Transition))
			},
			"turn_off": func(ctx context.Context, e *Entity[*vantage.Load], payload []byte) error {
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

// RGBLightKind exposes color-capable loads. The supported color model
// follows the load's declared color type.
func RGBLightKind() Kind[*vantage.RGBLoad] {
	return Kind[*vantage.RGBLoad]{
		Domain: "light",
		State: func(e *Entity[*vantage.RGBLoad]) map[string]any {
			obj := e.Obj

			s := map[string]any{
				"on":        obj.IsOn(),
				"colorType": string(obj.ColorType),
			}

			if obj.Level != nil {
				s["brightness"] = levelToBrightness(*obj.Level)
			}

			switch obj.ColorType {
			case vantage.ColorTypeHSL:
				if obj.HSL != nil {
					s["hs"] = [2]int{obj.HSL[0], obj.HSL[1]}
				}
			case vantage.ColorTypeRGB:
				if obj.RGB != nil {
					s["rgb"] = *obj.RGB
				}
			case vantage.ColorTypeRGBW:
				if obj.RGBW != nil {
					s["rgbw"] = *obj.RGBW
				}
			case vantage.ColorTypeCCT:
				if obj.ColorTemp != nil {
					s["colorTemp"] = *obj.ColorTemp
				}
				s["minColorTemp"] = obj.MinTemp
				s["maxColorTemp"] = obj.MaxTemp
			}

			return s
		},
		Commands: map[string]Command[*vantage.RGBLoad]{
			"turn_on":  rgbTurnOn,
			"turn_off": rgbTurnOff,
		},
	}
}

func rgbTurnOn(ctx context.Context, e *Entity[*vantage.RGBLoad], payload []byte) error {
	var req lightTurnOn
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return err
		}
	}

	client := e.Bridge.Client
	vid := e.Obj.ObjectID()

	brightness := 255
	if req.Brightness != nil {
		brightness = *req.Brightness
	}

	switch {
	case req.HS != nil:
		return client.SetRGBLoadHSL(ctx, vid, req.HS[0], req.HS[1], brightnessToLevel(brightness))
	case req.RGB != nil:
		r := scaleColorBrightness(req.RGB[0], brightness)
		g := scaleColorBrightness(req.RGB[1], brightness)
		b := scaleColorBrightness(req.RGB[2], brightness)
		return client.SetRGBLoadRGB(ctx, vid, int(r), int(g), int(b))
	case req.RGBW != nil:
		r := scaleColorBrightness(req.RGBW[0], brightness)
		g := scaleColorBrightness(req.RGBW[1], brightness)
		bl := scaleColorBrightness(req.RGBW[2], brightness)
		w := scaleColorBrightness(req.RGBW[3], brightness)
		return client.SetRGBLoadRGBW(ctx, vid, int(r), int(g), int(bl), int(w))
	case req.ColorTemp != nil:
		kelvin := int(clamp(float64(*req.ColorTemp), float64(e.Obj.MinTemp), float64(e.Obj.MaxTemp)))
		if err := client.SetRGBLoadColorTemp(ctx, vid, kelvin); err != nil {
			return err
		}
		return client.SetRGBLoadLevel(ctx, vid, brightnessToLevel(brightness))
	case req.Brightness != nil:
		return client.SetRGBLoadLevel(ctx, vid, brightnessToLevel(brightness))
	default:
		return client.TurnLoadOn(ctx, vid, 100, transitionOf(req.Transition))
	}
}

func rgbTurnOff(ctx context.Context, e *Entity[*vantage.RGBLoad], payload []byte) error {
	var req lightTurnOff
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return err
		}
	}

	return e.Bridge.Client.TurnRGBLoadOff(ctx, e.Obj.ObjectID(), transitionOf(req.Transition))
}
