package bridge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/vantagebridge/controller/state"
	"github.com/vantagebridge/controller/vantage"
)

type ActionError string

func (e ActionError) Error() string {
	return string(e)
}

const ActionNotSupported = ActionError("action not available on entity")

// Command handles one inbound action against an entity. The payload is the
// raw JSON body of the request.
type Command[T vantage.Object] func(ctx context.Context, e *Entity[T], payload []byte) error

// Kind configures the generic entity adapter for one class of Vantage
// object. There is one Kind value per entity domain; per-object behaviour
// lives in the closures, per-object data in Entity.Aux.
type Kind[T vantage.Object] struct {
	// Domain is the entity domain this kind exposes ("light", "cover", ...).
	Domain string

	// Hidden marks entities that should not be shown by default.
	Hidden bool

	// Init runs once after construction, before the entity is registered.
	// It may attach a parent object override or look up sibling objects.
	Init func(e *Entity[T])

	// State exports the entity's current state from the live object.
	State func(e *Entity[T]) map[string]any

	// Commands maps action names to handlers.
	Commands map[string]Command[T]

	// DeviceInfo overrides device descriptor derivation entirely, for
	// entities that attach to a virtual device.
	DeviceInfo func(e *Entity[T]) Descriptor
}

// Entity adapts one Vantage object to the registry and event model: it
// bridges the object's controller events to state writes and registry
// updates, and routes outbound commands through a uniform error translation
// path. It holds a non-owning reference to the live object; the client
// mutates it in place before events are delivered, so State always reads
// current values.
type Entity[T vantage.Object] struct {
	Bridge *Bridge
	Obj    T

	// ParentObj, when set, attributes this entity's device entry to another
	// object instead of the wrapped one. Used when side-channel entities
	// (e.g. a thermostat's temperature sensors) should collapse into one
	// physical device node.
	ParentObj vantage.Object

	// Aux carries per-entity data stashed by the kind's Init hook.
	Aux any

	kind       Kind[T]
	controller *vantage.Controller[T]

	lock      sync.Mutex
	entry     state.EntityEntry
	available bool
}

var _ EntityView = (*Entity[vantage.Object])(nil)

func newEntity[T vantage.Object](b *Bridge, controller *vantage.Controller[T], kind Kind[T], obj T) *Entity[T] {
	e := &Entity[T]{
		Bridge:     b,
		Obj:        obj,
		kind:       kind,
		controller: controller,
		available:  true,
	}

	if kind.Init != nil {
		kind.Init(e)
	}

	// The device entry the entity hangs off is materialised here, so the
	// registries stay consistent regardless of the order kinds are set up in.
	descriptor := e.DeviceInfo()
	b.Devices.GetOrCreate(descriptor.DeviceEntry(b.Gateway))

	e.entry = b.Entities.GetOrCreate(state.EntityEntry{
		UniqueID:         e.UniqueID(),
		Domain:           kind.Domain,
		Gateway:          b.Gateway,
		Name:             obj.ObjectDisplayName(),
		DeviceIdentifier: descriptor.Identifier,
		Visible:          !kind.Hidden,
	})

	return e
}

// UniqueID is the string form of the wrapped object's id, the join key
// against the entity and device registries.
func (e *Entity[T]) UniqueID() string {
	return strconv.Itoa(e.Obj.ObjectID())
}

func (e *Entity[T]) Entry() state.EntityEntry {
	if entry, found := e.Bridge.Entities.Get(e.Bridge.Gateway, e.UniqueID()); found {
		return entry
	}

	e.lock.Lock()
	defer e.lock.Unlock()
	return e.entry
}

func (e *Entity[T]) Available() bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.available
}

func (e *Entity[T]) setAvailable(available bool) {
	e.lock.Lock()
	e.available = available
	e.lock.Unlock()

	e.Bridge.Entities.SetAvailable(e.Bridge.Gateway, e.UniqueID(), available)
}

// State exports the entity's current state from the in-memory object.
func (e *Entity[T]) State() map[string]any {
	if e.kind.State == nil {
		return nil
	}

	return e.kind.State(e)
}

// Actions lists the action names this entity accepts, sorted.
func (e *Entity[T]) Actions() []string {
	result := make([]string, 0, len(e.kind.Commands))
	for name := range e.kind.Commands {
		result = append(result, name)
	}

	sort.Strings(result)
	return result
}

// DeviceInfo returns the descriptor for the wrapped object, or for the
// parent object override when one was attached during Init.
func (e *Entity[T]) DeviceInfo() Descriptor {
	if e.kind.DeviceInfo != nil {
		return e.kind.DeviceInfo(e)
	}

	if e.ParentObj != nil {
		return DeriveDeviceInfo(e.Bridge.Client, e.ParentObj)
	}

	return DeriveDeviceInfo(e.Bridge.Client, e.Obj)
}

// Invoke runs a named action through the command wrapper.
func (e *Entity[T]) Invoke(ctx context.Context, action string, payload []byte) error {
	cmd, found := e.kind.Commands[action]
	if !found {
		return fmt.Errorf("%w: %s", ActionNotSupported, action)
	}

	return e.Request(ctx, func(ctx context.Context) error {
		return cmd(ctx, e, payload)
	})
}

// Request executes one command against the controller, translating the
// client's error taxonomy. Authentication failures trigger the gateway's
// reauth flow; a stale object id marks the entity unavailable. Nothing is
// retried; the translated error carries the entity and object ids.
func (e *Entity[T]) Request(ctx context.Context, command func(ctx context.Context) error) error {
	err := command(ctx)
	if err == nil {
		return nil
	}

	switch {
	case vantage.IsAuthError(err):
		e.Bridge.Reauth.StartReauth()
	case errors.Is(err, vantage.ErrInvalidObject):
		e.setAvailable(false)
	}

	return fmt.Errorf("request for %s (%d) failed: %w", e.Entry().EntityID, e.Obj.ObjectID(), err)
}

// WriteState publishes the entity's current state on the event bus.
func (e *Entity[T]) WriteState() {
	e.Bridge.Events.Publish(state.EntityStateChanged{
		Entity:    e.Entry(),
		Available: e.Available(),
		State:     e.State(),
	})
}

// attach registers the update and delete subscriptions on the wrapped
// object's own controller. Both are released by the bridge's unload scope.
func (e *Entity[T]) attach() {
	e.Bridge.OnUnload(
		e.controller.Subscribe(vantage.ObjectUpdated, e.onObjectUpdated),
		e.controller.Subscribe(vantage.ObjectDeleted, e.onObjectDeleted),
	)
}

func (e *Entity[T]) onObjectUpdated(event vantage.Event[T]) {
	if event.Obj.ObjectID() != e.Obj.ObjectID() {
		return
	}

	// If this object also owns a device entry, refresh it with a newly
	// derived descriptor.
	if _, found := e.Bridge.Devices.Get(Domain, e.Bridge.Gateway, e.UniqueID()); found {
		e.Bridge.Devices.GetOrCreate(DeriveDeviceInfo(e.Bridge.Client, e.Obj).DeviceEntry(e.Bridge.Gateway))
	}

	// The object has already been mutated in place; just re-export.
	e.WriteState()
}

func (e *Entity[T]) onObjectDeleted(event vantage.Event[T]) {
	if event.Obj.ObjectID() != e.Obj.ObjectID() {
		return
	}

	if entry, found := e.Bridge.Entities.Get(e.Bridge.Gateway, e.UniqueID()); found {
		e.Bridge.Entities.Remove(entry.EntityID)
	}

	e.Bridge.Devices.Remove(Domain, e.Bridge.Gateway, e.UniqueID())
	e.Bridge.forgetEntity(e.UniqueID())

	e.setAvailable(false)
	e.WriteState()
}

// AddEntities wraps every current member of a controller matching the filter
// in an entity adapter, and keeps doing so for objects added later. The
// late-addition subscription is owned by the bridge's unload scope.
func AddEntities[T vantage.Object](b *Bridge, controller *vantage.Controller[T], kind Kind[T], filter func(T) bool) {
	add := func(obj T) {
		if filter != nil && !filter(obj) {
			return
		}

		e := newEntity(b, controller, kind, obj)
		e.attach()
		b.trackEntity(e)
		e.WriteState()
	}

	for _, obj := range controller.All() {
		add(obj)
	}

	b.OnUnload(controller.Subscribe(vantage.ObjectAdded, func(event vantage.Event[T]) {
		add(event.Obj)
	}))
}
