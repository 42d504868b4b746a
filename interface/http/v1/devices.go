package v1

import (
	"encoding/json"
	"github.com/gorilla/mux"
	"github.com/vantagebridge/controller/state"
	"net/http"
)

type deviceController struct {
	devices  *state.DeviceRegistry
	entities *state.EntityRegistry
}

func (d *deviceController) listDevices(w http.ResponseWriter, r *http.Request) {
	apiDevices := make(map[string]ExportedDevice)

	for _, entry := range d.devices.All() {
		exported := exportDevice(entry)
		apiDevices[exported.ID] = exported
	}

	data, err := json.Marshal(apiDevices)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

func (d *deviceController) getDevice(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	id, ok := params["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entry, found := d.devices.GetByID(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	data, err := json.Marshal(exportDevice(entry))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

func (d *deviceController) listEntitiesOnDevice(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	id, ok := params["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	device, found := d.devices.GetByID(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	apiEntities := make(map[string]state.EntityEntry)

	for _, entry := range d.entities.All() {
		if entry.Gateway == device.Gateway && entry.DeviceIdentifier == device.Identifier {
			apiEntities[entry.EntityID] = entry
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
