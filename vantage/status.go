package vantage

import (
	"strconv"
	"strings"
)

// handleStatus dispatches one "S:" line from the controller into the owning
// controller, mutating the object in place before subscribers are notified.
func (c *Client) handleStatus(line string) {
	fields := strings.Fields(strings.TrimPrefix(line, "S:"))
	if len(fields) < 2 {
		return
	}

	category := fields[0]

	vid, err := strconv.Atoi(fields[1])
	if err != nil {
		return
	}

	args := fields[2:]

	switch category {
	case "LOAD":
		c.statusLoad(vid, args)
	case "BLIND":
		c.statusBlind(vid, args)
	case "BTN":
		c.statusButton(vid, args)
	case "TEMP":
		c.statusTemperature(vid, args)
	case "THERMOP":
		c.statusThermostatOperation(vid, args)
	case "THERMFAN":
		c.statusThermostatFan(vid, args)
	case "CONTACT":
		c.statusDryContact(vid, args)
	case "SENSOR":
		c.statusSensor(vid, args)
	case "VARIABLE":
		c.statusVariable(vid, args)
	case "TASK":
		c.statusTask(vid, args)
	}
}

func (c *Client) statusLoad(vid int, args []string) {
	if len(args) < 1 {
		return
	}

	level, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return
	}

	if c.Loads.Apply(vid, func(l *Load) { l.Level = &level }, "level") {
		return
	}

	c.RGBLoads.Apply(vid, func(l *RGBLoad) { l.Level = &level }, "level")
}

func (c *Client) statusBlind(vid int, args []string) {
	if len(args) < 1 {
		return
	}

	position, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return
	}

	c.Blinds.Apply(vid, func(b *Blind) { b.Position = &position }, "position")
}

func (c *Client) statusButton(vid int, args []string) {
	if len(args) < 1 {
		return
	}

	down := args[0] == "PRESS"

	c.Buttons.Apply(vid, func(b *Button) { b.Down = down }, "down")
}

func (c *Client) statusTemperature(vid int, args []string) {
	if len(args) < 1 {
		return
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return
	}

	c.Temperatures.Apply(vid, func(t *Temperature) { t.Value = &value }, "value")
}

func (c *Client) statusThermostatOperation(vid int, args []string) {
	if len(args) < 1 {
		return
	}

	c.Thermostats.Apply(vid, func(t *Thermostat) { t.OperationMode = OperationMode(args[0]) }, "operationMode")
}

func (c *Client) statusThermostatFan(vid int, args []string) {
	if len(args) < 1 {
		return
	}

	c.Thermostats.Apply(vid, func(t *Thermostat) { t.FanMode = FanMode(args[0]) }, "fanMode")
}

func (c *Client) statusDryContact(vid int, args []string) {
	if len(args) < 1 {
		return
	}

	triggered := args[0] == "1"

	c.DryContacts.Apply(vid, func(d *DryContact) { d.Triggered = triggered }, "triggered")
}

func (c *Client) statusSensor(vid int, args []string) {
	if len(args) < 1 {
		return
	}

	level, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return
	}

	if c.OmniSensors.Apply(vid, func(s *OmniSensor) { s.Level = &level }, "level") {
		return
	}

	c.LightSensors.Apply(vid, func(s *LightSensor) { s.Level = &level }, "level")
}

func (c *Client) statusVariable(vid int, args []string) {
	if len(args) < 1 {
		return
	}

	raw := strings.Join(args, " ")

	c.GMems.Apply(vid, func(g *GMem) {
		switch {
		case g.IsBool():
			v := raw == "1" || strings.EqualFold(raw, "true")
			g.BoolValue = &v
		case g.IsNumber():
			if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
				g.IntValue = &v
			}
		default:
			v := strings.Trim(raw, `"`)
			g.StringValue = &v
		}
	}, "value")
}

func (c *Client) statusTask(vid int, args []string) {
	if len(args) < 1 {
		return
	}

	if args[0] == "RUNNING" || args[0] == "DONE" {
		running := args[0] == "RUNNING"
		c.Tasks.Apply(vid, func(t *Task) { t.Running = running }, "running")
		return
	}

	state, err := strconv.Atoi(args[0])
	if err != nil {
		return
	}

	c.Tasks.Apply(vid, func(t *Task) { t.State = state }, "state")
}
