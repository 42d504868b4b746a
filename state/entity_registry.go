package state

import (
	"fmt"
	"strings"
	"sync"
)

// EntityEntry is one entity in the registry. UniqueID is the vendor object
// identifier (with an optional suffix); together with the gateway name it is
// the join key against the device registry, since every InFusion project
// numbers its objects from the same space. EntityID is the user-facing
// "<domain>.<slug>" handle and is unique across gateways.
type EntityEntry struct {
	EntityID string
	UniqueID string
	Domain   string
	Gateway  string

	Name             string
	DeviceIdentifier string
	Visible          bool
	Available        bool
}

type entityKey struct {
	gateway  string
	uniqueID string
}

type EntityRegistry struct {
	lock       sync.Mutex
	byUniqueID map[entityKey]*EntityEntry
	byEntityID map[string]*EntityEntry

	eventPublisher EventPublisher
}

func NewEntityRegistry(publisher EventPublisher) *EntityRegistry {
	return &EntityRegistry{
		byUniqueID:     map[entityKey]*EntityEntry{},
		byEntityID:     map[string]*EntityEntry{},
		eventPublisher: publisher,
	}
}

// GetOrCreate registers an entity, assigning an entity id derived from the
// domain and name, de-duplicated with a numeric suffix. An entry that already
// exists for the unique id keeps its entity id and has its descriptive fields
// refreshed.
func (r *EntityRegistry) GetOrCreate(entry EntityEntry) EntityEntry {
	r.lock.Lock()

	existing, found := r.byUniqueID[entityKey{gateway: entry.Gateway, uniqueID: entry.UniqueID}]
	if found {
		entry.EntityID = existing.EntityID
		entry.Available = existing.Available
		*existing = entry
		r.lock.Unlock()
		return entry
	}

	base := fmt.Sprintf("%s.%s", entry.Domain, slugify(entry.Name))

	entityID := base
	for suffix := 2; ; suffix++ {
		if _, taken := r.byEntityID[entityID]; !taken {
			break
		}

		entityID = fmt.Sprintf("%s_%d", base, suffix)
	}

	entry.EntityID = entityID
	entry.Available = true

	copied := entry
	r.byUniqueID[entityKey{gateway: entry.Gateway, uniqueID: entry.UniqueID}] = &copied
	r.byEntityID[entry.EntityID] = &copied

	r.lock.Unlock()

	r.eventPublisher.Publish(EntityAdded{Entity: entry})
	return entry
}

func (r *EntityRegistry) Get(gateway string, uniqueID string) (EntityEntry, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if entry, found := r.byUniqueID[entityKey{gateway: gateway, uniqueID: uniqueID}]; found {
		return *entry, true
	}

	return EntityEntry{}, false
}

func (r *EntityRegistry) GetByEntityID(entityID string) (EntityEntry, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if entry, found := r.byEntityID[entityID]; found {
		return *entry, true
	}

	return EntityEntry{}, false
}

func (r *EntityRegistry) Remove(entityID string) bool {
	r.lock.Lock()

	entry, found := r.byEntityID[entityID]
	if found {
		delete(r.byEntityID, entityID)
		delete(r.byUniqueID, entityKey{gateway: entry.Gateway, uniqueID: entry.UniqueID})
	}

	r.lock.Unlock()

	if found {
		r.eventPublisher.Publish(EntityRemoved{Entity: *entry})
	}

	return found
}

// SetAvailable flips an entity's availability flag.
func (r *EntityRegistry) SetAvailable(gateway string, uniqueID string, available bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if entry, found := r.byUniqueID[entityKey{gateway: gateway, uniqueID: uniqueID}]; found {
		entry.Available = available
	}
}

// ForGateway returns every entity owned by the named gateway.
func (r *EntityRegistry) ForGateway(gateway string) []EntityEntry {
	r.lock.Lock()
	defer r.lock.Unlock()

	var result []EntityEntry

	for _, entry := range r.byUniqueID {
		if entry.Gateway == gateway {
			result = append(result, *entry)
		}
	}

	return result
}

// All returns every entity in the registry.
func (r *EntityRegistry) All() []EntityEntry {
	r.lock.Lock()
	defer r.lock.Unlock()

	result := make([]EntityEntry, 0, len(r.byUniqueID))
	for _, entry := range r.byUniqueID {
		result = append(result, *entry)
	}

	return result
}

// slugify lowercases a name and squashes anything that is not alphanumeric
// into single underscores.
func slugify(name string) string {
	var b strings.Builder
	lastUnderscore := true

	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		slug = "unnamed"
	}

	return slug
}
