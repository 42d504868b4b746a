package v1

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/gorilla/mux"
	"github.com/vantagebridge/controller/bridge"
	"github.com/vantagebridge/controller/state"
	"net/http"
)

type gatewayController struct {
	gatewayMapper state.GatewayMapper
	directory     *bridge.Directory
}

func (g *gatewayController) export(name string) ExportedGateway {
	entities := 0
	if b, found := g.directory.Bridge(name); found {
		entities = len(b.EntityViews())
	}

	return ExportedGateway{
		Identifier:  name,
		NeedsReauth: g.gatewayMapper.NeedsReauth(name),
		Entities:    entities,
	}
}

func (g *gatewayController) listGateways(w http.ResponseWriter, r *http.Request) {
	apiGateways := make(map[string]ExportedGateway)

	for name := range g.gatewayMapper.Gateways() {
		apiGateways[name] = g.export(name)
	}

	data, err := json.Marshal(apiGateways)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

func (g *gatewayController) getGateway(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	id, ok := params["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if _, ok := g.gatewayMapper.Gateways()[id]; !ok {
		http.NotFound(w, r)
		return
	}

	data, err := json.Marshal(g.export(id))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

func (g *gatewayController) listEntitiesOnGateway(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	id, ok := params["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	b, found := g.directory.Bridge(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	apiEntities := make(map[string]ExportedEntity)

	for _, v := range b.EntityViews() {
		exported := exportEntity(v)
		apiEntities[exported.EntityID] = exported
	}

	data, err := json.Marshal(apiEntities)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

func (g *gatewayController) listAreasOnGateway(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	id, ok := params["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	b, found := g.directory.Bridge(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	apiAreas := []ExportedArea{}

	for _, area := range b.Client.Areas.All() {
		apiAreas = append(apiAreas, ExportedArea{
			ID:   area.ObjectID(),
			Name: area.ObjectDisplayName(),
		})
	}

	data, err := json.Marshal(apiAreas)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

type taskController struct {
	directory *bridge.Directory
}

func (t *taskController) startTask(w http.ResponseWriter, r *http.Request) {
	t.runTask(w, r, (*bridge.Bridge).StartTask)
}

func (t *taskController) stopTask(w http.ResponseWriter, r *http.Request) {
	t.runTask(w, r, (*bridge.Bridge).StopTask)
}

func (t *taskController) runTask(w http.ResponseWriter, r *http.Request, run func(*bridge.Bridge, context.Context, string) error) {
	params := mux.Vars(r)

	id, ok := params["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	task, ok := params["task"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	b, found := t.directory.Bridge(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	if err := run(b, r.Context(), task); err != nil {
		if errors.Is(err, bridge.TaskNotFound) {
			http.NotFound(w, r)
		} else {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
