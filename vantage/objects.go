package vantage

// VendorName is the manufacturer reported for built-in Vantage objects.
const VendorName = "Vantage"

// ParentRef is a reference from an object to its structural parent, with the
// position the object occupies on that parent (e.g. a button number on a
// keypad, or a sensor slot on a thermostat).
type ParentRef struct {
	VID      int `json:"vid"`
	Position int `json:"position"`
}

// Object is implemented by every Vantage system object.
type Object interface {
	ObjectID() int
	ObjectName() string
	ObjectDisplayName() string
	ObjectType() string
	MasterID() int
}

// ChildObject is implemented by objects which declare a structural parent.
type ChildObject interface {
	ParentRef() (ParentRef, bool)
}

// LocationObject is implemented by objects which are placed in an area.
type LocationObject interface {
	AreaID() int
}

// SystemObject carries the fields common to all Vantage objects. The Type tag
// is dot-delimited ("manufacturer.model") for third party custom devices, and
// a bare type name for built-in objects.
type SystemObject struct {
	VID         int    `json:"vid"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
	Master      int    `json:"master"`
}

func (o *SystemObject) ObjectID() int      { return o.VID }
func (o *SystemObject) ObjectName() string { return o.Name }
func (o *SystemObject) ObjectType() string { return o.Type }
func (o *SystemObject) MasterID() int      { return o.Master }

func (o *SystemObject) ObjectDisplayName() string {
	if o.DisplayName != "" {
		return o.DisplayName
	}

	return o.Name
}

// Location embeds an area reference into location-bearing objects.
type Location struct {
	Area int `json:"area"`
}

func (l *Location) AreaID() int { return l.Area }

// Child embeds a parent reference into child objects.
type Child struct {
	Parent ParentRef `json:"parent"`
}

func (c *Child) ParentRef() (ParentRef, bool) {
	return c.Parent, c.Parent.VID != 0
}

// Master is the InFusion controller itself, the root of the object tree.
type Master struct {
	SystemObject
	SerialNumber    string `json:"serialNumber"`
	FirmwareVersion string `json:"firmwareVersion"`
}

// Module is a DIN or enclosure module attached to a master.
type Module struct {
	SystemObject
	Child
}

// Station is a wall station, keypad or similar user-facing device.
type Station struct {
	SystemObject
	Child
	Location
	SerialNumber string `json:"serialNumber"`
}

// PortDevice is a third party device driven through a master's port.
type PortDevice struct {
	SystemObject
	Child
	Location
}

// BackBox is the wiring enclosure a station is mounted in. Back boxes are
// structural only and are never surfaced as devices, children whose parent is
// a back box attach to the master instead.
type BackBox struct {
	SystemObject
	Location
}

// Area is a room or zone in the Design Center project.
type Area struct {
	SystemObject
	Child
}

// Load is a dimmer, relay or motor output.
type Load struct {
	SystemObject
	Child
	Location
	LoadType string   `json:"loadType"`
	Level    *float64 `json:"level"`
}

// IsRelay reports whether the load is switched rather than dimmed.
func (l *Load) IsRelay() bool {
	switch l.LoadType {
	case "High Voltage Relay", "Low Voltage Relay":
		return true
	}

	return false
}

// IsMotor reports whether the load drives a motor.
func (l *Load) IsMotor() bool {
	return l.LoadType == "Motor"
}

// IsLight reports whether the load should be treated as lighting.
func (l *Load) IsLight() bool {
	return !l.IsRelay() && !l.IsMotor()
}

// IsDimmable reports whether the load supports levels other than on and off.
func (l *Load) IsDimmable() bool {
	return l.IsLight()
}

func (l *Load) IsOn() bool {
	return l.Level != nil && *l.Level > 0
}

// ColorType enumerates the color models an RGBLoad can drive.
type ColorType string

const (
	ColorTypeHSL  ColorType = "HSL"
	ColorTypeRGB  ColorType = "RGB"
	ColorTypeRGBW ColorType = "RGBW"
	ColorTypeCCT  ColorType = "CCT"
)

// RGBLoad is a color-capable load.
type RGBLoad struct {
	SystemObject
	Child
	Location
	ColorType ColorType `json:"colorType"`
	MinTemp   int       `json:"minTemp"`
	MaxTemp   int       `json:"maxTemp"`

	Level     *float64 `json:"level"`
	HSL       *[3]int  `json:"hsl"`
	RGB       *[3]int  `json:"rgb"`
	RGBW      *[4]int  `json:"rgbw"`
	ColorTemp *int     `json:"colorTemp"`
}

func (l *RGBLoad) IsOn() bool {
	return l.Level != nil && *l.Level > 0
}

// LoadGroup is a named collection of loads controlled together.
type LoadGroup struct {
	SystemObject
	Location
	LoadIDs []int `json:"loadIds"`
}

// Blind is a motorised shade or drapery.
type Blind struct {
	SystemObject
	Child
	Location
	Position *float64 `json:"position"`
}

// IsDrapery reports whether the blind travels horizontally.
func (b *Blind) IsDrapery() bool {
	return b.Type == "Drapery"
}

// BlindGroup is a named collection of blinds controlled together.
type BlindGroup struct {
	SystemObject
	Location
	BlindIDs []int `json:"blindIds"`
}

// OperationMode enumerates thermostat operation modes.
type OperationMode string

const (
	OperationModeOff  OperationMode = "Off"
	OperationModeHeat OperationMode = "Heat"
	OperationModeCool OperationMode = "Cool"
	OperationModeAuto OperationMode = "Auto"
)

// FanMode enumerates thermostat fan modes.
type FanMode string

const (
	FanModeAuto FanMode = "Auto"
	FanModeOn   FanMode = "On"
)

// ThermostatStatus enumerates what a thermostat is currently doing.
type ThermostatStatus string

const (
	StatusOff     ThermostatStatus = "Off"
	StatusHeating ThermostatStatus = "Heating"
	StatusCooling ThermostatStatus = "Cooling"
)

// Thermostat is an HVAC controller.
type Thermostat struct {
	SystemObject
	Child
	Location
	OperationMode OperationMode    `json:"operationMode"`
	FanMode       FanMode          `json:"fanMode"`
	Status        ThermostatStatus `json:"status"`
}

// Temperature is a temperature value attached to a parent device. A
// thermostat exposes its indoor temperature and setpoints as Temperature
// children at well known positions.
type Temperature struct {
	SystemObject
	Child
	Value *float64 `json:"value"`
}

// Positions of Temperature children on a Thermostat parent.
const (
	ThermostatPositionIndoor       = 1
	ThermostatPositionCoolSetPoint = 3
	ThermostatPositionHeatSetPoint = 4
)

// DryContact is a contact closure input, typically a motion or door sensor.
type DryContact struct {
	SystemObject
	Child
	Location
	Triggered bool `json:"triggered"`
}

// OmniSensorKind enumerates what an OmniSensor measures.
type OmniSensorKind string

const (
	OmniSensorCurrent     OmniSensorKind = "Current"
	OmniSensorPower       OmniSensorKind = "Power"
	OmniSensorTemperature OmniSensorKind = "Temperature"
)

// OmniSensor is a general purpose analog sensor on a master or module.
type OmniSensor struct {
	SystemObject
	Child
	Kind  OmniSensorKind `json:"kind"`
	Level *float64       `json:"level"`
}

// LightSensor measures ambient light, reported by the controller in
// footcandles.
type LightSensor struct {
	SystemObject
	Child
	Location
	Level *float64 `json:"level"`
}

// GMemTag enumerates the declared value types of GMem variables.
type GMemTag string

const (
	GMemTagBool        GMemTag = "bool"
	GMemTagNumber      GMemTag = "Number"
	GMemTagLevel       GMemTag = "Level"
	GMemTagDelay       GMemTag = "Delay"
	GMemTagSeconds     GMemTag = "Seconds"
	GMemTagDegC        GMemTag = "DegC"
	GMemTagDeviceUnits GMemTag = "DeviceUnits"
	GMemTagLoad        GMemTag = "Load"
	GMemTagTask        GMemTag = "Task"
	GMemTagText        GMemTag = "Text"
)

// GMem is a general purpose variable on a master.
type GMem struct {
	SystemObject
	Tag     GMemTag `json:"tag"`
	IsFixed bool    `json:"isFixed"`

	BoolValue   *bool   `json:"boolValue"`
	IntValue    *int64  `json:"intValue"`
	StringValue *string `json:"stringValue"`
}

func (g *GMem) IsBool() bool { return g.Tag == GMemTagBool }
func (g *GMem) IsText() bool { return g.Tag == GMemTagText }

func (g *GMem) IsNumber() bool {
	switch g.Tag {
	case GMemTagNumber, GMemTagLevel, GMemTagDelay, GMemTagSeconds, GMemTagDegC, GMemTagDeviceUnits, GMemTagLoad, GMemTagTask:
		return true
	}

	return false
}

// Button is a physical button on a station.
type Button struct {
	SystemObject
	Child
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
	Down  bool   `json:"down"`
}

// Task is a programmed routine on a master.
type Task struct {
	SystemObject
	Running bool `json:"running"`
	State   int  `json:"state"`
}
