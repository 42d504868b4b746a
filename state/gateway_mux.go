package state

import (
	"sync"

	"github.com/vantagebridge/controller/vantage"
)

// GatewayMapper resolves gateway names to their Vantage clients.
type GatewayMapper interface {
	Gateways() map[string]*vantage.Client
	Client(name string) (*vantage.Client, bool)
	NeedsReauth(name string) bool
}

var _ GatewayMapper = (*GatewayMux)(nil)

// GatewayMux tracks the connected Vantage gateways and their authentication
// health.
type GatewayMux struct {
	lock sync.RWMutex

	clientByName map[string]*vantage.Client
	needsReauth  map[string]bool

	eventPublisher EventPublisher
}

func NewGatewayMux(publisher EventPublisher) *GatewayMux {
	return &GatewayMux{
		clientByName:   map[string]*vantage.Client{},
		needsReauth:    map[string]bool{},
		eventPublisher: publisher,
	}
}

func (m *GatewayMux) Add(name string, c *vantage.Client) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.clientByName[name] = c
}

func (m *GatewayMux) Gateways() map[string]*vantage.Client {
	m.lock.RLock()
	defer m.lock.RUnlock()

	result := make(map[string]*vantage.Client, len(m.clientByName))
	for name, c := range m.clientByName {
		result[name] = c
	}

	return result
}

func (m *GatewayMux) Client(name string) (*vantage.Client, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	c, found := m.clientByName[name]
	return c, found
}

// StartReauth flags the gateway as needing reconfiguration and publishes a
// ReauthRequired event the first time the flag is raised.
func (m *GatewayMux) StartReauth(name string) {
	m.lock.Lock()
	already := m.needsReauth[name]
	m.needsReauth[name] = true
	m.lock.Unlock()

	if !already {
		m.eventPublisher.Publish(ReauthRequired{Gateway: name})
	}
}

// ClearReauth resets the flag after a gateway reconnects with working
// credentials.
func (m *GatewayMux) ClearReauth(name string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	delete(m.needsReauth, name)
}

func (m *GatewayMux) NeedsReauth(name string) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.needsReauth[name]
}

// Stop closes every gateway client.
func (m *GatewayMux) Stop() {
	m.lock.RLock()
	defer m.lock.RUnlock()

	for _, c := range m.clientByName {
		c.Close()
	}
}
