package vantage

import (
	"sync"
)

// EventKind identifies the lifecycle events a controller emits.
type EventKind int

const (
	ObjectAdded EventKind = iota
	ObjectUpdated
	ObjectDeleted
)

// Event is delivered to controller subscribers. For ObjectUpdated events
// AttrsChanged names the attributes that were mutated; the object itself has
// already been updated in place before the event is delivered.
type Event[T Object] struct {
	Kind         EventKind
	Obj          T
	AttrsChanged []string
}

// Controller is a per-type collection of Vantage objects which also acts as
// an event source. Objects are stored by reference; the controller mutates
// them in place and notifies subscribers afterwards, so a subscriber always
// observes the post-update state.
type Controller[T Object] struct {
	mu      sync.RWMutex
	objects map[int]T

	subMu   sync.Mutex
	subs    map[EventKind]map[int]func(Event[T])
	nextSub int
}

func NewController[T Object]() *Controller[T] {
	return &Controller[T]{
		objects: map[int]T{},
		subs:    map[EventKind]map[int]func(Event[T]){},
	}
}

// Get returns the object with the given id, if present.
func (c *Controller[T]) Get(vid int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	obj, found := c.objects[vid]
	return obj, found
}

// Contains reports whether an object with the given id is present.
func (c *Controller[T]) Contains(vid int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, found := c.objects[vid]
	return found
}

// All returns every object in the collection.
func (c *Controller[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]T, 0, len(c.objects))
	for _, obj := range c.objects {
		result = append(result, obj)
	}

	return result
}

// Filter returns every object matching the predicate.
func (c *Controller[T]) Filter(match func(T) bool) []T {
	var result []T

	for _, obj := range c.All() {
		if match(obj) {
			result = append(result, obj)
		}
	}

	return result
}

// First returns the first object matching the predicate. Order is undefined;
// callers are expected to use predicates with at most one match.
func (c *Controller[T]) First(match func(T) bool) (T, bool) {
	for _, obj := range c.All() {
		if match(obj) {
			return obj, true
		}
	}

	var zero T
	return zero, false
}

// Subscribe registers a callback for one event kind, returning a function
// that removes the subscription. Callbacks for a given controller are invoked
// sequentially in delivery order.
func (c *Controller[T]) Subscribe(kind EventKind, cb func(Event[T])) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	if c.subs[kind] == nil {
		c.subs[kind] = map[int]func(Event[T]){}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[kind][id] = cb

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs[kind], id)
	}
}

// Add inserts an object and notifies ObjectAdded subscribers.
func (c *Controller[T]) Add(obj T) {
	c.mu.Lock()
	c.objects[obj.ObjectID()] = obj
	c.mu.Unlock()

	c.emit(Event[T]{Kind: ObjectAdded, Obj: obj})
}

// Apply mutates an object in place, then notifies ObjectUpdated subscribers
// naming the changed attributes. The mutation happens before any callback
// runs, preserving the write-then-notify contract relied upon by consumers.
func (c *Controller[T]) Apply(vid int, mutate func(T), attrsChanged ...string) bool {
	c.mu.Lock()
	obj, found := c.objects[vid]
	if found {
		mutate(obj)
	}
	c.mu.Unlock()

	if !found {
		return false
	}

	c.emit(Event[T]{Kind: ObjectUpdated, Obj: obj, AttrsChanged: attrsChanged})
	return true
}

// Remove deletes an object and notifies ObjectDeleted subscribers.
func (c *Controller[T]) Remove(vid int) {
	c.mu.Lock()
	obj, found := c.objects[vid]
	if found {
		delete(c.objects, vid)
	}
	c.mu.Unlock()

	if found {
		c.emit(Event[T]{Kind: ObjectDeleted, Obj: obj})
	}
}

func (c *Controller[T]) emit(e Event[T]) {
	c.subMu.Lock()
	cbs := make([]func(Event[T]), 0, len(c.subs[e.Kind]))
	for _, cb := range c.subs[e.Kind] {
		cbs = append(cbs, cb)
	}
	c.subMu.Unlock()

	for _, cb := range cbs {
		cb(e)
	}
}
