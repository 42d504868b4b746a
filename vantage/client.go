package vantage

import (
	"context"
	"fmt"
)

// Client is a connection to one InFusion system: the typed object
// controllers, plus the Host Command session used for commands and live
// state.
type Client struct {
	session Session
	source  ObjectSource

	username string
	password string

	Masters      *Controller[*Master]
	Modules      *Controller[*Module]
	Stations     *Controller[*Station]
	PortDevices  *Controller[*PortDevice]
	BackBoxes    *Controller[*BackBox]
	Areas        *Controller[*Area]
	Loads        *Controller[*Load]
	RGBLoads     *Controller[*RGBLoad]
	LoadGroups   *Controller[*LoadGroup]
	Blinds       *Controller[*Blind]
	BlindGroups  *Controller[*BlindGroup]
	Thermostats  *Controller[*Thermostat]
	Temperatures *Controller[*Temperature]
	DryContacts  *Controller[*DryContact]
	OmniSensors  *Controller[*OmniSensor]
	LightSensors *Controller[*LightSensor]
	GMems        *Controller[*GMem]
	Buttons      *Controller[*Button]
	Tasks        *Controller[*Task]

	membership []func(int) bool
	lookup     []func(int) (Object, bool)
}

func lookupIn[T Object](ctrl *Controller[T]) func(int) (Object, bool) {
	return func(vid int) (Object, bool) {
		obj, found := ctrl.Get(vid)
		if !found {
			return nil, false
		}

		return obj, true
	}
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials supplies a username and password for controllers with
// authentication enabled.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// NewClient constructs a client over an established session, loading its
// object inventory from the given source.
func NewClient(session Session, source ObjectSource, opts ...Option) *Client {
	c := &Client{
		session: session,
		source:  source,

		Masters:      NewController[*Master](),
		Modules:      NewController[*Module](),
		Stations:     NewController[*Station](),
		PortDevices:  NewController[*PortDevice](),
		BackBoxes:    NewController[*BackBox](),
		Areas:        NewController[*Area](),
		Loads:        NewController[*Load](),
		RGBLoads:     NewController[*RGBLoad](),
		LoadGroups:   NewController[*LoadGroup](),
		Blinds:       NewController[*Blind](),
		BlindGroups:  NewController[*BlindGroup](),
		Thermostats:  NewController[*Thermostat](),
		Temperatures: NewController[*Temperature](),
		DryContacts:  NewController[*DryContact](),
		OmniSensors:  NewController[*OmniSensor](),
		LightSensors: NewController[*LightSensor](),
		GMems:        NewController[*GMem](),
		Buttons:      NewController[*Button](),
		Tasks:        NewController[*Task](),
	}

	c.membership = []func(int) bool{
		c.Masters.Contains, c.Modules.Contains, c.Stations.Contains,
		c.PortDevices.Contains, c.BackBoxes.Contains, c.Areas.Contains,
		c.Loads.Contains, c.RGBLoads.Contains, c.LoadGroups.Contains,
		c.Blinds.Contains, c.BlindGroups.Contains, c.Thermostats.Contains,
		c.Temperatures.Contains, c.DryContacts.Contains, c.OmniSensors.Contains,
		c.LightSensors.Contains, c.GMems.Contains, c.Buttons.Contains,
		c.Tasks.Contains,
	}

	c.lookup = []func(int) (Object, bool){
		lookupIn(c.Masters), lookupIn(c.Modules), lookupIn(c.Stations),
		lookupIn(c.PortDevices), lookupIn(c.BackBoxes), lookupIn(c.Areas),
		lookupIn(c.Loads), lookupIn(c.RGBLoads), lookupIn(c.LoadGroups),
		lookupIn(c.Blinds), lookupIn(c.BlindGroups), lookupIn(c.Thermostats),
		lookupIn(c.Temperatures), lookupIn(c.DryContacts), lookupIn(c.OmniSensors),
		lookupIn(c.LightSensors), lookupIn(c.GMems), lookupIn(c.Buttons),
		lookupIn(c.Tasks),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Initialize logs in if credentials were supplied, loads the object
// inventory, and enables the status feed.
func (c *Client) Initialize(ctx context.Context) error {
	if c.username != "" {
		if _, err := c.session.Invoke(ctx, fmt.Sprintf("LOGIN %s %s", c.username, c.password)); err != nil {
			return err
		}
	}

	objects, err := c.source.LoadObjects()
	if err != nil {
		return fmt.Errorf("failed to load object inventory: %w", err)
	}

	for _, obj := range objects {
		c.add(obj)
	}

	c.session.OnStatus(c.handleStatus)

	if _, err := c.session.Invoke(ctx, "STATUS ALL"); err != nil {
		return fmt.Errorf("failed to enable status feed: %w", err)
	}

	return nil
}

// Close shuts down the Host Command session.
func (c *Client) Close() error {
	return c.session.Close()
}

// Contains reports whether any controller holds an object with the given id.
func (c *Client) Contains(vid int) bool {
	for _, contains := range c.membership {
		if contains(vid) {
			return true
		}
	}

	return false
}

// Object returns the object with the given id from whichever controller
// holds it.
func (c *Client) Object(vid int) (Object, bool) {
	for _, get := range c.lookup {
		if obj, found := get(vid); found {
			return obj, true
		}
	}

	return nil, false
}

func (c *Client) add(obj Object) {
	switch o := obj.(type) {
	case *Master:
		c.Masters.Add(o)
	case *Module:
		c.Modules.Add(o)
	case *Station:
		c.Stations.Add(o)
	case *PortDevice:
		c.PortDevices.Add(o)
	case *BackBox:
		c.BackBoxes.Add(o)
	case *Area:
		c.Areas.Add(o)
	case *Load:
		c.Loads.Add(o)
	case *RGBLoad:
		c.RGBLoads.Add(o)
	case *LoadGroup:
		c.LoadGroups.Add(o)
	case *Blind:
		c.Blinds.Add(o)
	case *BlindGroup:
		c.BlindGroups.Add(o)
	case *Thermostat:
		c.Thermostats.Add(o)
	case *Temperature:
		c.Temperatures.Add(o)
	case *DryContact:
		c.DryContacts.Add(o)
	case *OmniSensor:
		c.OmniSensors.Add(o)
	case *LightSensor:
		c.LightSensors.Add(o)
	case *GMem:
		c.GMems.Add(o)
	case *Button:
		c.Buttons.Add(o)
	case *Task:
		c.Tasks.Add(o)
	}
}
