package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/stretchr/testify/assert"
	"github.com/vantagebridge/controller/bridge"
	"github.com/vantagebridge/controller/interface/http/auth/null"
	"github.com/vantagebridge/controller/state"
	"github.com/vantagebridge/controller/vantage"
)

type stubSession struct {
	commands []string
	err      error
}

func (s *stubSession) Invoke(ctx context.Context, command string) (string, error) {
	s.commands = append(s.commands, command)
	return "", s.err
}

func (s *stubSession) OnStatus(handler func(line string)) {}
func (s *stubSession) Close() error                       { return nil }

type noObjects struct{}

func (noObjects) LoadObjects() ([]vantage.Object, error) { return nil, nil }

type testHarness struct {
	router    http.Handler
	session   *stubSession
	devices   *state.DeviceRegistry
	entities  *state.EntityRegistry
	mux       *state.GatewayMux
	directory *bridge.Directory
}

// newTestHarness assembles a router backed by a real gateway called "house"
// carrying one light, one task and one area.
func newTestHarness() *testHarness {
	bus := state.NewEventBus()
	devices := state.NewDeviceRegistry(bus)
	entities := state.NewEntityRegistry(bus)

	session := &stubSession{}
	client := vantage.NewClient(session, noObjects{})

	client.Areas.Add(&vantage.Area{
		SystemObject: vantage.SystemObject{VID: 2, Name: "Kitchen", Type: "Area", Master: 1},
	})
	client.Loads.Add(&vantage.Load{
		SystemObject: vantage.SystemObject{VID: 10, Name: "Downlights", Type: "Load", Master: 1},
		Location:     vantage.Location{Area: 2},
		LoadType:     "Incandescent",
	})
	client.Tasks.Add(&vantage.Task{
		SystemObject: vantage.SystemObject{VID: 60, Name: "Goodnight", Type: "Task", Master: 1},
	})

	gwMux := state.NewGatewayMux(bus)
	gwMux.Add("house", client)

	b := bridge.New("house", client, devices, entities, bus, newReauthFor(gwMux), logwrap.New(discard.Discard()))
	bridge.AddEntities(b, client.Loads, bridge.LightKind(), nil)

	directory := bridge.NewDirectory()
	directory.Add(b)

	router := ConstructRouter(gwMux, directory, devices, entities, logwrap.New(discard.Discard()), null.Authenticator{}, bus)

	return &testHarness{
		router:    router,
		session:   session,
		devices:   devices,
		entities:  entities,
		mux:       gwMux,
		directory: directory,
	}
}

type reauthFor func()

func (r reauthFor) StartReauth() { r() }

func newReauthFor(mux *state.GatewayMux) reauthFor {
	return func() { mux.StartReauth("house") }
}

func (h *testHarness) do(method string, path string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)

	return rr
}

func Test_entityController_listEntities(t *testing.T) {
	t.Run("returns all entities keyed by entity id", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/entities", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("content-type"))

		var body map[string]ExportedEntity
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

		entity, found := body["light.downlights"]
		assert.True(t, found)
		assert.Equal(t, "10", entity.UniqueID)
		assert.Equal(t, "Downlights", entity.Name)
		assert.Equal(t, "light", entity.Domain)
		assert.Equal(t, "house", entity.Gateway)
		assert.Equal(t, "10", entity.Device)
		assert.True(t, entity.Available)
		assert.Contains(t, entity.Actions, "turn_on")
		assert.Contains(t, entity.Actions, "turn_off")
	})
}

func Test_entityController_getEntity(t *testing.T) {
	t.Run("returns a single entity by entity id", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/entities/light.downlights", "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var entity ExportedEntity
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entity))

		assert.Equal(t, "light.downlights", entity.EntityID)
		assert.Equal(t, map[string]any{"on": false, "dimmable": true}, entity.State)
	})

	t.Run("returns 404 for an unknown entity id", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/entities/light.missing", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func Test_entityController_invokeEntityAction(t *testing.T) {
	t.Run("invokes the action against the gateway and returns no content", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("POST", "/entities/light.downlights/actions/turn_off", "{}")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, []string{"LOAD 10 0"}, h.session.commands)
	})

	t.Run("passes the request body through to the action", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("POST", "/entities/light.downlights/actions/turn_on", `{"brightness": 51}`)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, []string{"LOAD 10 20"}, h.session.commands)
	})

	t.Run("returns 404 for an action the entity does not support", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("POST", "/entities/light.downlights/actions/levitate", "{}")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Empty(t, h.session.commands)
	})

	t.Run("returns 404 for an unknown entity", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("POST", "/entities/light.missing/actions/turn_on", "{}")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

// deviceID resolves the stable registry id the API addresses a device by.
func (h *testHarness) deviceID(t *testing.T, gateway string, identifier string) string {
	t.Helper()

	entry, found := h.devices.Get(bridge.Domain, gateway, identifier)
	assert.True(t, found)

	return entry.ID
}

func Test_deviceController_listDevices(t *testing.T) {
	t.Run("returns all devices keyed by registry id", func(t *testing.T) {
		h := newTestHarness()
		id := h.deviceID(t, "house", "10")

		rr := h.do("GET", "/devices", "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var body map[string]ExportedDevice
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

		device, found := body[id]
		assert.True(t, found)
		assert.Equal(t, id, device.ID)
		assert.Equal(t, "10", device.Identifier)
		assert.Equal(t, "house", device.Gateway)
		assert.Equal(t, "Downlights", device.Name)
		assert.Equal(t, "Vantage", device.Manufacturer)
		assert.Equal(t, "Kitchen", device.SuggestedArea)
	})
}

func Test_deviceController_getDevice(t *testing.T) {
	t.Run("returns a single device by registry id", func(t *testing.T) {
		h := newTestHarness()
		id := h.deviceID(t, "house", "10")

		rr := h.do("GET", "/devices/"+id, "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var device ExportedDevice
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &device))

		assert.Equal(t, id, device.ID)
		assert.Equal(t, "10", device.Identifier)
		assert.Equal(t, "Load", device.Model)
	})

	t.Run("returns 404 for an unknown device", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/devices/missing", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func Test_deviceController_listEntitiesOnDevice(t *testing.T) {
	t.Run("returns the entities registered against a device", func(t *testing.T) {
		h := newTestHarness()
		id := h.deviceID(t, "house", "10")

		rr := h.do("GET", "/devices/"+id+"/entities", "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var body map[string]state.EntityEntry
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

		entry, found := body["light.downlights"]
		assert.True(t, found)
		assert.Equal(t, "10", entry.DeviceIdentifier)
	})

	t.Run("returns 404 for an unknown device", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/devices/missing/entities", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
