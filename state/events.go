package state

// Events published on the bus by the registries and bridges. Interfaces
// subscribe to these to push changes outward.

type DeviceAdded struct {
	Device DeviceEntry
}

type DeviceUpdated struct {
	Device DeviceEntry
}

type DeviceRemoved struct {
	Device DeviceEntry
}

type EntityAdded struct {
	Entity EntityEntry
}

type EntityRemoved struct {
	Entity EntityEntry
}

// EntityStateChanged carries a freshly exported entity state.
type EntityStateChanged struct {
	Entity    EntityEntry
	Available bool
	State     map[string]any
}

// ReauthRequired is published when a gateway's credentials stop working and
// the user needs to reconfigure it.
type ReauthRequired struct {
	Gateway string
}

type ButtonPressed struct {
	Gateway        string
	ButtonID       int
	ButtonName     string
	ButtonPosition int
	Text1          string
	Text2          string
	StationID      int
	StationName    string
}

type ButtonReleased struct {
	Gateway        string
	ButtonID       int
	ButtonName     string
	ButtonPosition int
	Text1          string
	Text2          string
	StationID      int
	StationName    string
}

type TaskStarted struct {
	Gateway  string
	TaskID   int
	TaskName string
}

type TaskStopped struct {
	Gateway  string
	TaskID   int
	TaskName string
}

type TaskStateChanged struct {
	Gateway   string
	TaskID    int
	TaskName  string
	TaskState int
}
