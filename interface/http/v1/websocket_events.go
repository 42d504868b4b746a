package v1

import (
	"context"

	"github.com/vantagebridge/controller/bridge"
	"github.com/vantagebridge/controller/state"
)

type eventMapper interface {
	MapEvent(ctx context.Context, e any) []any
	InitialEvents() []any
}

var _ eventMapper = (*websocketEventMapper)(nil)

type websocketEventMapper struct {
	directory *bridge.Directory
}

// WebsocketMessage is the envelope for every message sent down the event
// stream.
type WebsocketMessage struct {
	Type    string `json:"type"`
	Message any    `json:"message"`
}

type EntityUpdateMessage struct {
	Entity    state.EntityEntry `json:"entity"`
	Available bool              `json:"available"`
	State     map[string]any    `json:"state"`
}

// InitialEvents replays the current state of every entity, so a new
// connection starts with a complete picture.
func (w websocketEventMapper) InitialEvents() []any {
	var messages []any

	for _, b := range w.directory.Bridges() {
		for _, v := range b.EntityViews() {
			messages = append(messages, WebsocketMessage{
				Type: "EntityUpdate",
				Message: EntityUpdateMessage{
					Entity:    v.Entry(),
					Available: v.Available(),
					State:     v.State(),
				},
			})
		}
	}

	return messages
}

func (w websocketEventMapper) MapEvent(ctx context.Context, v any) []any {
	switch e := v.(type) {
	case state.EntityStateChanged:
		return []any{WebsocketMessage{
			Type: "EntityUpdate",
			Message: EntityUpdateMessage{
				Entity:    e.Entity,
				Available: e.Available,
				State:     e.State,
			},
		}}
	case state.EntityAdded:
		return []any{WebsocketMessage{Type: "EntityAdded", Message: e.Entity}}
	case state.EntityRemoved:
		return []any{WebsocketMessage{Type: "EntityRemoved", Message: e.Entity}}
	case state.DeviceAdded:
		return []any{WebsocketMessage{Type: "DeviceAdded", Message: exportDevice(e.Device)}}
	case state.DeviceUpdated:
		return []any{WebsocketMessage{Type: "DeviceUpdated", Message: exportDevice(e.Device)}}
	case state.DeviceRemoved:
		return []any{WebsocketMessage{Type: "DeviceRemoved", Message: exportDevice(e.Device)}}
	case state.ButtonPressed:
		return []any{WebsocketMessage{Type: "ButtonPressed", Message: e}}
	case state.ButtonReleased:
		return []any{WebsocketMessage{Type: "ButtonReleased", Message: e}}
	case state.TaskStarted:
		return []any{WebsocketMessage{Type: "TaskStarted", Message: e}}
	case state.TaskStopped:
		return []any{WebsocketMessage{Type: "TaskStopped", Message: e}}
	case state.TaskStateChanged:
		return []any{WebsocketMessage{Type: "TaskStateChanged", Message: e}}
	case state.ReauthRequired:
		return []any{WebsocketMessage{Type: "ReauthRequired", Message: e}}
	default:
		return nil
	}
}
