package bridge

import (
	"context"
	"sync"

	"github.com/shimmeringbee/logwrap"
	"github.com/vantagebridge/controller/state"
	"github.com/vantagebridge/controller/vantage"
)

// ReauthTrigger is raised when a gateway's credentials stop working and the
// user needs to reconfigure it.
type ReauthTrigger interface {
	StartReauth()
}

// Bridge owns everything one Vantage gateway exposes: its client, the entity
// adapters wrapping its objects, and the scope that tears their
// subscriptions down on unload.
type Bridge struct {
	Gateway  string
	Client   *vantage.Client
	Devices  *state.DeviceRegistry
	Entities *state.EntityRegistry
	Events   state.EventPublisher
	Reauth   ReauthTrigger
	Logger   logwrap.Logger

	unloadLock sync.Mutex
	unload     []func()

	entityLock sync.Mutex
	entities   map[string]EntityView
}

func New(gateway string, client *vantage.Client, devices *state.DeviceRegistry, entities *state.EntityRegistry, events state.EventPublisher, reauth ReauthTrigger, logger logwrap.Logger) *Bridge {
	return &Bridge{
		Gateway:  gateway,
		Client:   client,
		Devices:  devices,
		Entities: entities,
		Events:   events,
		Reauth:   reauth,
		Logger:   logger,
		entities: map[string]EntityView{},
	}
}

// OnUnload registers cleanup to run when the bridge unloads. Everything the
// bridge acquires over its lifetime (controller subscriptions above all) is
// released through here; there is no manual unsubscribe path.
func (b *Bridge) OnUnload(fns ...func()) {
	b.unloadLock.Lock()
	defer b.unloadLock.Unlock()

	b.unload = append(b.unload, fns...)
}

// Unload runs the registered cleanup in reverse order.
func (b *Bridge) Unload() {
	b.unloadLock.Lock()
	fns := b.unload
	b.unload = nil
	b.unloadLock.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// EntityView is the read/invoke surface an entity adapter presents to the
// outward interfaces.
type EntityView interface {
	Entry() state.EntityEntry
	Available() bool
	State() map[string]any
	DeviceInfo() Descriptor
	Actions() []string
	Invoke(ctx context.Context, action string, payload []byte) error
}

func (b *Bridge) trackEntity(v EntityView) {
	b.entityLock.Lock()
	defer b.entityLock.Unlock()

	b.entities[v.Entry().UniqueID] = v
}

func (b *Bridge) forgetEntity(uniqueID string) {
	b.entityLock.Lock()
	defer b.entityLock.Unlock()

	delete(b.entities, uniqueID)
}

// EntityViews returns every live entity on this bridge.
func (b *Bridge) EntityViews() []EntityView {
	b.entityLock.Lock()
	defer b.entityLock.Unlock()

	result := make([]EntityView, 0, len(b.entities))
	for _, v := range b.entities {
		result = append(result, v)
	}

	return result
}

// EntityView returns the live entity with the given unique id.
func (b *Bridge) EntityView(uniqueID string) (EntityView, bool) {
	b.entityLock.Lock()
	defer b.entityLock.Unlock()

	v, found := b.entities[uniqueID]
	return v, found
}
