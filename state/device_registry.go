package state

import (
	"sync"

	"github.com/google/uuid"
)

// DeviceEntry is one physical or virtual device in the registry, keyed by
// (Domain, Gateway, Identifier); identifiers collide across gateways because
// every InFusion project numbers its objects from the same space. The
// registry id is stable for the lifetime of the entry and is what external
// consumers should reference.
type DeviceEntry struct {
	ID         string
	Domain     string
	Identifier string
	Gateway    string

	Name          string
	Manufacturer  string
	Model         string
	SerialNumber  string
	SWVersion     string
	ViaDevice     string
	SuggestedArea string
	EntryType     string
}

// DeviceEntryTypeService marks virtual devices with no physical counterpart.
const DeviceEntryTypeService = "service"

type deviceKey struct {
	domain     string
	gateway    string
	identifier string
}

type DeviceRegistry struct {
	lock    sync.Mutex
	devices map[deviceKey]*DeviceEntry

	eventPublisher EventPublisher
}

func NewDeviceRegistry(publisher EventPublisher) *DeviceRegistry {
	return &DeviceRegistry{
		devices:        map[deviceKey]*DeviceEntry{},
		eventPublisher: publisher,
	}
}

// GetOrCreate inserts the entry if its key is unknown, otherwise refreshes
// the stored entry's descriptive fields in place. The registry id is assigned
// on first insert and never changes.
func (r *DeviceRegistry) GetOrCreate(entry DeviceEntry) DeviceEntry {
	r.lock.Lock()

	key := deviceKey{domain: entry.Domain, gateway: entry.Gateway, identifier: entry.Identifier}

	existing, found := r.devices[key]
	if found {
		entry.ID = existing.ID
		*existing = entry
	} else {
		entry.ID = uuid.New().String()
		copied := entry
		r.devices[key] = &copied
	}

	r.lock.Unlock()

	if found {
		r.eventPublisher.Publish(DeviceUpdated{Device: entry})
	} else {
		r.eventPublisher.Publish(DeviceAdded{Device: entry})
	}

	return entry
}

func (r *DeviceRegistry) Get(domain string, gateway string, identifier string) (DeviceEntry, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if entry, found := r.devices[deviceKey{domain: domain, gateway: gateway, identifier: identifier}]; found {
		return *entry, true
	}

	return DeviceEntry{}, false
}

// GetByID resolves a device by its stable registry id.
func (r *DeviceRegistry) GetByID(id string) (DeviceEntry, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, entry := range r.devices {
		if entry.ID == id {
			return *entry, true
		}
	}

	return DeviceEntry{}, false
}

func (r *DeviceRegistry) Remove(domain string, gateway string, identifier string) bool {
	r.lock.Lock()

	key := deviceKey{domain: domain, gateway: gateway, identifier: identifier}

	entry, found := r.devices[key]
	if found {
		delete(r.devices, key)
	}

	r.lock.Unlock()

	if found {
		r.eventPublisher.Publish(DeviceRemoved{Device: *entry})
	}

	return found
}

// ForGateway returns every device owned by the named gateway.
func (r *DeviceRegistry) ForGateway(gateway string) []DeviceEntry {
	r.lock.Lock()
	defer r.lock.Unlock()

	var result []DeviceEntry

	for _, entry := range r.devices {
		if entry.Gateway == gateway {
			result = append(result, *entry)
		}
	}

	return result
}

// All returns every device in the registry.
func (r *DeviceRegistry) All() []DeviceEntry {
	r.lock.Lock()
	defer r.lock.Unlock()

	result := make([]DeviceEntry, 0, len(r.devices))
	for _, entry := range r.devices {
		result = append(result, *entry)
	}

	return result
}
