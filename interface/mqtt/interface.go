package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shimmeringbee/logwrap"
	"github.com/vantagebridge/controller/bridge"
	"github.com/vantagebridge/controller/state"
)

type Publisher func(ctx context.Context, topic string, payload []byte) error

type mqttError string

func (m mqttError) Error() string {
	return string(m)
}

const UnknownTopic = mqttError("unknown topic")
const UnknownGateway = mqttError("unknown gateway")
const UnknownEntity = mqttError("unknown entity")

type Interface struct {
	Publisher Publisher
	stop      chan bool

	Directory       *bridge.Directory
	EventSubscriber state.EventSubscriber

	Logger logwrap.Logger

	PublishStateOnConnect bool

	HomeAssistantDiscovery bool
	DiscoveryPrefix        string
}

// Inbound topics take the form devices/<gateway>/<id>/invoke/<action>, with
// the action's JSON body as the payload, or devices/<gateway>/<id>/invoke
// with the action named in an "action" payload field, plus
// tasks/<gateway>/<start|stop>.

func (i *Interface) IncomingMessage(ctx context.Context, topic string, payload []byte) error {
	topicParts := strings.Split(topic, "/")

	if len(topicParts) > 0 {
		switch topicParts[0] {
		case "devices":
			return i.IncomingMessageDevices(ctx, topicParts[1:], payload)
		case "tasks":
			return i.IncomingMessageTasks(ctx, topicParts[1:], payload)
		}
	}

	return fmt.Errorf("%w: %s", UnknownTopic, topic)
}

type invokeRequest struct {
	Action string `json:"action"`
}

func (i *Interface) IncomingMessageDevices(ctx context.Context, topic []string, payload []byte) error {
	if len(topic) >= 3 && topic[2] == "invoke" {
		action := ""

		if len(topic) >= 4 {
			action = topic[3]
		} else {
			// The discovery command topic carries no action segment; the
			// action is named in the payload instead.
			req := invokeRequest{}
			if err := json.Unmarshal(payload, &req); err != nil {
				return fmt.Errorf("unable to parse invoke request: %w", err)
			}

			action = req.Action
		}

		if action == "" {
			return fmt.Errorf("%w: %s", UnknownTopic, strings.Join(topic, "/"))
		}

		e, found := i.Directory.Entity(topic[0], topic[1])
		if !found {
			return fmt.Errorf("%w: %s/%s", UnknownEntity, topic[0], topic[1])
		}

		if err := e.Invoke(ctx, action, payload); err != nil {
			return fmt.Errorf("unable to invoke action on entity: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: %s", UnknownTopic, strings.Join(topic, "/"))
}

type taskRequest struct {
	Task string `json:"task"`
}

func (i *Interface) IncomingMessageTasks(ctx context.Context, topic []string, payload []byte) error {
	if len(topic) >= 2 {
		b, found := i.Directory.Bridge(topic[0])
		if !found {
			return fmt.Errorf("%w: %s", UnknownGateway, topic[0])
		}

		req := taskRequest{}
		if err := json.Unmarshal(payload, &req); err != nil {
			return fmt.Errorf("unable to parse task request: %w", err)
		}

		switch topic[1] {
		case "start":
			return b.StartTask(ctx, req.Task)
		case "stop":
			return b.StopTask(ctx, req.Task)
		}
	}

	return fmt.Errorf("%w: %s", UnknownTopic, strings.Join(topic, "/"))
}

func EmptyPublisher(ctx context.Context, topic string, payload []byte) error {
	return nil
}

func (i *Interface) Connected(ctx context.Context, publisher Publisher) error {
	i.Publisher = publisher

	if i.PublishStateOnConnect {
		i.Logger.LogInfo(ctx, "MQTT connected, publishing current state of all entities.")
		go i.publishAll()
	}

	return nil
}

func (i *Interface) publishAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, b := range i.Directory.Bridges() {
		for _, e := range b.EntityViews() {
			if i.HomeAssistantDiscovery {
				i.publishDiscovery(ctx, e)
			}

			i.publishEntityState(ctx, e.Entry(), e.Available(), e.State())
		}
	}
}

type entityState struct {
	EntityID  string         `json:"entityId"`
	Name      string         `json:"name"`
	Domain    string         `json:"domain"`
	Available bool           `json:"available"`
	State     map[string]any `json:"state"`
}

func (i *Interface) publishEntityState(ctx context.Context, entry state.EntityEntry, available bool, s map[string]any) {
	payload, err := json.Marshal(entityState{
		EntityID:  entry.EntityID,
		Name:      entry.Name,
		Domain:    entry.Domain,
		Available: available,
		State:     s,
	})
	if err != nil {
		i.Logger.LogError(ctx, "Failed to marshal entity state.", logwrap.Datum("entityId", entry.EntityID), logwrap.Err(err))
		return
	}

	topic := fmt.Sprintf("devices/%s/%s/state", entry.Gateway, entry.UniqueID)

	if err := i.Publisher(ctx, topic, payload); err != nil {
		i.Logger.LogError(ctx, "Failed to publish entity state.", logwrap.Datum("topic", topic), logwrap.Err(err))
	}

	i.publishAvailability(ctx, entry, available)

	// Each attribute also gets its own leaf topic, so subscribers can watch
	// one value without parsing the aggregate document.
	for attr, value := range s {
		leafPayload, err := json.Marshal(value)
		if err != nil {
			i.Logger.LogError(ctx, "Failed to marshal entity attribute.", logwrap.Datum("entityId", entry.EntityID), logwrap.Datum("attribute", attr), logwrap.Err(err))
			continue
		}

		leafTopic := fmt.Sprintf("%s/%s", topic, attr)
		if err := i.Publisher(ctx, leafTopic, leafPayload); err != nil {
			i.Logger.LogError(ctx, "Failed to publish entity attribute.", logwrap.Datum("topic", leafTopic), logwrap.Err(err))
		}
	}
}

func (i *Interface) publishAvailability(ctx context.Context, entry state.EntityEntry, available bool) {
	payload := "offline"
	if available {
		payload = "online"
	}

	topic := fmt.Sprintf("devices/%s/%s/availability", entry.Gateway, entry.UniqueID)

	if err := i.Publisher(ctx, topic, []byte(payload)); err != nil {
		i.Logger.LogError(ctx, "Failed to publish entity availability.", logwrap.Datum("topic", topic), logwrap.Err(err))
	}
}

// discoveryConfig is the Home Assistant MQTT discovery document for one
// entity.
type discoveryConfig struct {
	Name              string          `json:"name"`
	UniqueID          string          `json:"unique_id"`
	StateTopic        string          `json:"state_topic"`
	CommandTopic      string          `json:"command_topic,omitempty"`
	AvailabilityTopic string          `json:"availability_topic,omitempty"`
	Device            discoveryDevice `json:"device"`
}

type discoveryDevice struct {
	Identifiers   []string `json:"identifiers"`
	Name          string   `json:"name"`
	Manufacturer  string   `json:"manufacturer"`
	Model         string   `json:"model"`
	SWVersion     string   `json:"sw_version,omitempty"`
	SuggestedArea string   `json:"suggested_area,omitempty"`
	ViaDevice     string   `json:"via_device,omitempty"`
}

func (i *Interface) publishDiscovery(ctx context.Context, e bridge.EntityView) {
	entry := e.Entry()
	info := e.DeviceInfo()

	cfg := discoveryConfig{
		Name:              entry.Name,
		UniqueID:          fmt.Sprintf("%s_%s", entry.Gateway, entry.UniqueID),
		StateTopic:        fmt.Sprintf("devices/%s/%s/state", entry.Gateway, entry.UniqueID),
		AvailabilityTopic: fmt.Sprintf("devices/%s/%s/availability", entry.Gateway, entry.UniqueID),
		Device: discoveryDevice{
			Identifiers:   []string{fmt.Sprintf("%s_%s", entry.Gateway, info.Identifier)},
			Name:          info.Name,
			Manufacturer:  info.Manufacturer,
			Model:         info.Model,
			SWVersion:     info.SWVersion,
			SuggestedArea: info.SuggestedArea,
		},
	}

	if info.ViaDevice != "" {
		cfg.Device.ViaDevice = fmt.Sprintf("%s_%s", entry.Gateway, info.ViaDevice)
	}

	if len(e.Actions()) > 0 {
		cfg.CommandTopic = fmt.Sprintf("devices/%s/%s/invoke", entry.Gateway, entry.UniqueID)
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		i.Logger.LogError(ctx, "Failed to marshal discovery config.", logwrap.Datum("entityId", entry.EntityID), logwrap.Err(err))
		return
	}

	if err := i.Publisher(ctx, i.discoveryTopic(entry), payload); err != nil {
		i.Logger.LogError(ctx, "Failed to publish discovery config.", logwrap.Datum("entityId", entry.EntityID), logwrap.Err(err))
	}
}

func (i *Interface) retractDiscovery(ctx context.Context, entry state.EntityEntry) {
	// An empty retained payload removes the entity from Home Assistant.
	if err := i.Publisher(ctx, i.discoveryTopic(entry), []byte{}); err != nil {
		i.Logger.LogError(ctx, "Failed to retract discovery config.", logwrap.Datum("entityId", entry.EntityID), logwrap.Err(err))
	}
}

func (i *Interface) discoveryTopic(entry state.EntityEntry) string {
	prefix := i.DiscoveryPrefix
	if prefix == "" {
		prefix = "homeassistant"
	}

	return fmt.Sprintf("%s/%s/%s_%s/config", prefix, entry.Domain, entry.Gateway, entry.UniqueID)
}

func (i *Interface) Disconnected() {
	i.Publisher = EmptyPublisher
}

func (i *Interface) Start() {
	i.stop = make(chan bool, 1)

	ch := make(chan any, 100)
	i.EventSubscriber.Subscribe(ch)

	go i.handleEvents(ch)
}

func (i *Interface) Stop() {
	if i.stop != nil {
		i.stop <- true
	}
}

func (i *Interface) handleEvents(ch chan any) {
	for {
		select {
		case event := <-ch:
			i.serviceUpdateOnEvent(event)
		case <-i.stop:
			return
		}
	}
}

const MaximumServiceUpdateTime = 1 * time.Second

func (i *Interface) serviceUpdateOnEvent(e any) {
	ctx, cancel := context.WithTimeout(context.Background(), MaximumServiceUpdateTime)
	defer cancel()

	switch event := e.(type) {
	case state.EntityStateChanged:
		i.publishEntityState(ctx, event.Entity, event.Available, event.State)
	case state.EntityAdded:
		if i.HomeAssistantDiscovery {
			if view, found := i.Directory.Entity(event.Entity.Gateway, event.Entity.UniqueID); found {
				i.publishDiscovery(ctx, view)
			}
		}
	case state.EntityRemoved:
		if i.HomeAssistantDiscovery {
			i.retractDiscovery(ctx, event.Entity)
		}
	case state.ButtonPressed:
		i.publishEvent(ctx, event.Gateway, "button", event)
	case state.ButtonReleased:
		i.publishEvent(ctx, event.Gateway, "button", event)
	case state.TaskStarted:
		i.publishEvent(ctx, event.Gateway, "task", event)
	case state.TaskStopped:
		i.publishEvent(ctx, event.Gateway, "task", event)
	case state.TaskStateChanged:
		i.publishEvent(ctx, event.Gateway, "task", event)
	case state.ReauthRequired:
		i.publishEvent(ctx, event.Gateway, "reauth", event)
	}
}

func (i *Interface) publishEvent(ctx context.Context, gateway string, kind string, event any) {
	payload, err := json.Marshal(struct {
		Type  string `json:"type"`
		Event any    `json:"event"`
	}{Type: fmt.Sprintf("%T", event), Event: event})
	if err != nil {
		i.Logger.LogError(ctx, "Failed to marshal event.", logwrap.Err(err))
		return
	}

	topic := fmt.Sprintf("events/%s/%s", gateway, kind)

	if err := i.Publisher(ctx, topic, payload); err != nil {
		i.Logger.LogError(ctx, "Failed to publish event.", logwrap.Datum("topic", topic), logwrap.Err(err))
	}
}
