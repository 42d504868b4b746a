package bridge

import (
	"strconv"
	"strings"

	"github.com/vantagebridge/controller/state"
	"github.com/vantagebridge/controller/vantage"
)

// Domain is the registry namespace for everything owned by this bridge.
const Domain = "vantage"

// Descriptor is the derived device metadata for one Vantage object: how it
// should appear in the device registry. It is recomputed on demand and never
// stored independently of the registry.
type Descriptor struct {
	Identifier    string
	Name          string
	Manufacturer  string
	Model         string
	SuggestedArea string
	SerialNumber  string
	SWVersion     string
	ViaDevice     string
	EntryType     string
}

// DeriveDeviceInfo computes the device descriptor for a Vantage object. Pure
// with respect to the client's current object graph; it mutates nothing and
// is safe to call repeatedly.
func DeriveDeviceInfo(c *vantage.Client, obj vantage.Object) Descriptor {
	d := Descriptor{
		Identifier: strconv.Itoa(obj.ObjectID()),
		Name:       obj.ObjectDisplayName(),
	}

	// CustomDevice type tags take the form "manufacturer.model"; everything
	// else is a built-in Vantage object.
	if manufacturer, model, isCustom := strings.Cut(obj.ObjectType(), "."); isCustom {
		d.Manufacturer = manufacturer
		d.Model = model
	} else {
		d.Manufacturer = vantage.VendorName
		d.Model = obj.ObjectType()
	}

	// Suggest an area for location-bearing objects, but only when the
	// reference resolves to a live area.
	if location, ok := obj.(vantage.LocationObject); ok && location.AreaID() != 0 {
		if area, found := c.Areas.Get(location.AreaID()); found {
			d.SuggestedArea = area.ObjectName()
		}
	}

	switch o := obj.(type) {
	case *vantage.Master:
		d.SerialNumber = o.SerialNumber
		d.SWVersion = o.FirmwareVersion
	case *vantage.Station:
		d.SerialNumber = o.SerialNumber
	}

	// Masters are the root of the tree and have no parent link. Everything
	// else attaches to its declared parent when that parent is live and not
	// a back box; back boxes are never surfaced as devices, so their
	// children attach to the master instead.
	if _, isMaster := obj.(*vantage.Master); !isMaster {
		d.ViaDevice = strconv.Itoa(obj.MasterID())

		if child, ok := obj.(vantage.ChildObject); ok {
			if parent, has := child.ParentRef(); has && c.Contains(parent.VID) && !c.BackBoxes.Contains(parent.VID) {
				d.ViaDevice = strconv.Itoa(parent.VID)
			}
		}
	}

	return d
}

// VariablesDeviceInfo is the virtual device that collects a master's GMem
// variable entities into a single registry node.
func VariablesDeviceInfo(master int) Descriptor {
	return Descriptor{
		Identifier:   strconv.Itoa(master) + ":variables",
		Name:         "Variables",
		Manufacturer: vantage.VendorName,
		Model:        "Variables",
		EntryType:    state.DeviceEntryTypeService,
		ViaDevice:    strconv.Itoa(master),
	}
}

// DeviceEntry converts a descriptor into a registry entry for the named
// gateway.
func (d Descriptor) DeviceEntry(gateway string) state.DeviceEntry {
	return state.DeviceEntry{
		Domain:        Domain,
		Identifier:    d.Identifier,
		Gateway:       gateway,
		Name:          d.Name,
		Manufacturer:  d.Manufacturer,
		Model:         d.Model,
		SerialNumber:  d.SerialNumber,
		SWVersion:     d.SWVersion,
		ViaDevice:     d.ViaDevice,
		SuggestedArea: d.SuggestedArea,
		EntryType:     d.EntryType,
	}
}
