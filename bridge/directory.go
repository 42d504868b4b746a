package bridge

import "sync"

// Directory tracks the live bridges by gateway name, giving the outward
// interfaces a single place to resolve entities.
type Directory struct {
	lock    sync.RWMutex
	bridges map[string]*Bridge
}

func NewDirectory() *Directory {
	return &Directory{
		bridges: map[string]*Bridge{},
	}
}

func (d *Directory) Add(b *Bridge) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.bridges[b.Gateway] = b
}

func (d *Directory) Remove(gateway string) {
	d.lock.Lock()
	defer d.lock.Unlock()

	delete(d.bridges, gateway)
}

func (d *Directory) Bridge(gateway string) (*Bridge, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	b, found := d.bridges[gateway]
	return b, found
}

func (d *Directory) Bridges() []*Bridge {
	d.lock.RLock()
	defer d.lock.RUnlock()

	result := make([]*Bridge, 0, len(d.bridges))
	for _, b := range d.bridges {
		result = append(result, b)
	}

	return result
}

// Entity resolves an entity by gateway name and unique id.
func (d *Directory) Entity(gateway string, uniqueID string) (EntityView, bool) {
	b, found := d.Bridge(gateway)
	if !found {
		return nil, false
	}

	return b.EntityView(uniqueID)
}
