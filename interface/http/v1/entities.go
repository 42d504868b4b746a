package v1

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/gorilla/mux"
	"github.com/vantagebridge/controller/bridge"
	"io"
	"net/http"
)

type entityController struct {
	directory *bridge.Directory
}

// findEntity resolves an entity by its registry entity id ("light.kitchen")
// across all bridges.
func (e *entityController) findEntity(entityID string) (bridge.EntityView, bool) {
	for _, b := range e.directory.Bridges() {
		for _, v := range b.EntityViews() {
			if v.Entry().EntityID == entityID {
				return v, true
			}
		}
	}

	return nil, false
}

func (e *entityController) listEntities(w http.ResponseWriter, r *http.Request) {
	apiEntities := make(map[string]ExportedEntity)

	for _, b := range e.directory.Bridges() {
		for _, v := range b.EntityViews() {
			exported := exportEntity(v)
			apiEntities[exported.EntityID] = exported
		}
	}

	data, err := json.Marshal(apiEntities)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

func (e *entityController) getEntity(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	id, ok := params["entityId"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	v, found := e.findEntity(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	data, err := json.Marshal(exportEntity(v))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

func (e *entityController) invokeEntityAction(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	id, ok := params["entityId"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	action, ok := params["action"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	v, found := e.findEntity(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	var body []byte
	var err error

	if r.Body != nil {
		body, err = io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if r.Body.Close() != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	if err := v.Invoke(r.Context(), action, body); err != nil {
		var actionErr bridge.ActionError

		if errors.As(err, &actionErr) {
			http.NotFound(w, r)
		} else if errors.Is(err, context.DeadlineExceeded) {
			http.Error(w, "Entity action exceeded permitted time.", http.StatusInternalServerError)
		} else {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
