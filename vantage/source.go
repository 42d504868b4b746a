package vantage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// ObjectSource supplies the object inventory for a controller. The Host
// Command service carries live state only; the object tree itself comes from
// a Design Center project export.
type ObjectSource interface {
	LoadObjects() ([]Object, error)
}

// ProjectFile loads objects from a JSON Design Center project export. Each
// object carries a "category" naming its object class and optionally a
// "type" tag (defaulting to the category, dot-delimited for third party
// custom devices).
type ProjectFile struct {
	Path string
}

func (p ProjectFile) LoadObjects() ([]Object, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project export '%s': %w", p.Path, err)
	}

	return ParseObjects(data)
}

// ParseObjects decodes a project export document.
func ParseObjects(data []byte) ([]Object, error) {
	objects := gjson.GetBytes(data, "objects")
	if !objects.Exists() {
		return nil, fmt.Errorf("unable to find objects stanza in project export")
	}

	var result []Object
	var parseErr error

	objects.ForEach(func(_, value gjson.Result) bool {
		obj, err := parseObject(value)
		if err != nil {
			parseErr = err
			return false
		}

		result = append(result, obj)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return result, nil
}

func parseObject(value gjson.Result) (Object, error) {
	category := value.Get("category")
	if !category.Exists() {
		return nil, fmt.Errorf("failed to find object category information")
	}

	var obj Object

	switch category.String() {
	case "Master":
		obj = &Master{}
	case "Module":
		obj = &Module{}
	case "Station":
		obj = &Station{}
	case "PortDevice":
		obj = &PortDevice{}
	case "BackBox":
		obj = &BackBox{}
	case "Area":
		obj = &Area{}
	case "Load":
		obj = &Load{}
	case "RGBLoad":
		obj = &RGBLoad{}
	case "LoadGroup":
		obj = &LoadGroup{}
	case "Blind":
		obj = &Blind{}
	case "BlindGroup":
		obj = &BlindGroup{}
	case "Thermostat":
		obj = &Thermostat{}
	case "Temperature":
		obj = &Temperature{}
	case "DryContact":
		obj = &DryContact{}
	case "OmniSensor":
		obj = &OmniSensor{}
	case "LightSensor":
		obj = &LightSensor{}
	case "GMem":
		obj = &GMem{}
	case "Button":
		obj = &Button{}
	case "Task":
		obj = &Task{}
	default:
		return nil, fmt.Errorf("unknown object category: %s", category.String())
	}

	if err := json.Unmarshal([]byte(value.Raw), obj); err != nil {
		return nil, fmt.Errorf("failed to parse %s object: %w", category.String(), err)
	}

	if base := baseOf(obj); base.Type == "" {
		base.Type = category.String()
	}

	return obj, nil
}

func baseOf(obj Object) *SystemObject {
	type hasBase interface{ base() *SystemObject }

	if b, ok := obj.(hasBase); ok {
		return b.base()
	}

	return nil
}

func (o *SystemObject) base() *SystemObject { return o }
