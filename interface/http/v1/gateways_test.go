package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_gatewayController_listGateways(t *testing.T) {
	t.Run("returns all gateways keyed by identifier", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/gateways", "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var body map[string]ExportedGateway
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

		gw, found := body["house"]
		assert.True(t, found)
		assert.Equal(t, "house", gw.Identifier)
		assert.False(t, gw.NeedsReauth)
		assert.Equal(t, 1, gw.Entities)
	})

	t.Run("reports a gateway whose credentials have stopped working", func(t *testing.T) {
		h := newTestHarness()

		h.mux.StartReauth("house")

		rr := h.do("GET", "/gateways/house", "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var gw ExportedGateway
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &gw))

		assert.True(t, gw.NeedsReauth)
	})
}

func Test_gatewayController_getGateway(t *testing.T) {
	t.Run("returns 404 for an unknown gateway", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/gateways/missing", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func Test_gatewayController_listEntitiesOnGateway(t *testing.T) {
	t.Run("returns the entities belonging to the gateway", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/gateways/house/entities", "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var body map[string]ExportedEntity
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

		assert.Contains(t, body, "light.downlights")
	})

	t.Run("returns 404 for an unknown gateway", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/gateways/missing/entities", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func Test_gatewayController_listAreasOnGateway(t *testing.T) {
	t.Run("returns the gateway's areas", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/gateways/house/areas", "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var areas []ExportedArea
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &areas))

		assert.Equal(t, []ExportedArea{{ID: 2, Name: "Kitchen"}}, areas)
	})
}

func Test_taskController_startTask(t *testing.T) {
	t.Run("starts a task by id", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("POST", "/gateways/house/tasks/60/start", "")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, []string{"TASK 60 START"}, h.session.commands)
	})

	t.Run("starts a task by name", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("POST", "/gateways/house/tasks/Goodnight/start", "")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, []string{"TASK 60 START"}, h.session.commands)
	})

	t.Run("returns 404 for an unknown task", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("POST", "/gateways/house/tasks/99/start", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Empty(t, h.session.commands)
	})

	t.Run("returns 404 for an unknown gateway", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("POST", "/gateways/missing/tasks/60/start", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func Test_taskController_stopTask(t *testing.T) {
	t.Run("stops a task by id", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("POST", "/gateways/house/tasks/60/stop", "")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, []string{"TASK 60 STOP"}, h.session.commands)
	})
}

func Test_authentication(t *testing.T) {
	t.Run("reports the authentication type in use", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/auth/type", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"type":"null"}`, rr.Body.String())
	})

	t.Run("check reports the identity the middleware established", func(t *testing.T) {
		h := newTestHarness()

		rr := h.do("GET", "/auth/check", "")

		assert.Equal(t, http.StatusOK, rr.Code)

		var payload AuthenticationCheckPayload
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))

		assert.True(t, payload.Authenticated)
		assert.Equal(t, "NullAuthentication", payload.Identity)
	})
}
