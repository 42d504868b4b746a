package v1

import (
	"github.com/vantagebridge/controller/bridge"
	"github.com/vantagebridge/controller/state"
)

// ExportedEntity is the wire representation of one entity.
type ExportedEntity struct {
	EntityID  string         `json:"entityId"`
	UniqueID  string         `json:"uniqueId"`
	Name      string         `json:"name"`
	Domain    string         `json:"domain"`
	Gateway   string         `json:"gateway"`
	Device    string         `json:"device"`
	Visible   bool           `json:"visible"`
	Available bool           `json:"available"`
	State     map[string]any `json:"state"`
	Actions   []string       `json:"actions"`
}

// ExportedDevice is the wire representation of one device registry entry. ID
// is the stable registry id used to address the device over the API;
// Identifier is the Vantage object id, which is only unique per gateway.
type ExportedDevice struct {
	ID            string `json:"id"`
	Identifier    string `json:"identifier"`
	Gateway       string `json:"gateway"`
	Name          string `json:"name"`
	Manufacturer  string `json:"manufacturer"`
	Model         string `json:"model"`
	SerialNumber  string `json:"serialNumber,omitempty"`
	SWVersion     string `json:"swVersion,omitempty"`
	ViaDevice     string `json:"viaDevice,omitempty"`
	SuggestedArea string `json:"suggestedArea,omitempty"`
	EntryType     string `json:"entryType,omitempty"`
}

type ExportedGateway struct {
	Identifier  string `json:"identifier"`
	NeedsReauth bool   `json:"needsReauth"`
	Entities    int    `json:"entities"`
}

type ExportedArea struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func exportEntity(v bridge.EntityView) ExportedEntity {
	entry := v.Entry()

	return ExportedEntity{
		EntityID:  entry.EntityID,
		UniqueID:  entry.UniqueID,
		Name:      entry.Name,
		Domain:    entry.Domain,
		Gateway:   entry.Gateway,
		Device:    entry.DeviceIdentifier,
		Visible:   entry.Visible,
		Available: v.Available(),
		State:     v.State(),
		Actions:   v.Actions(),
	}
}

func exportDevice(entry state.DeviceEntry) ExportedDevice {
	return ExportedDevice{
		ID:            entry.ID,
		Identifier:    entry.Identifier,
		Gateway:       entry.Gateway,
		Name:          entry.Name,
		Manufacturer:  entry.Manufacturer,
		Model:         entry.Model,
		SerialNumber:  entry.SerialNumber,
		SWVersion:     entry.SWVersion,
		ViaDevice:     entry.ViaDevice,
		SuggestedArea: entry.SuggestedArea,
		EntryType:     entry.EntryType,
	}
}
