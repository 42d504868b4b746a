package vantage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Load commands. The controller echoes resulting state changes on the status
// feed; local objects are not mutated here.

func (c *Client) SetLoadLevel(ctx context.Context, vid int, level float64, transition time.Duration) error {
	if transition > 0 {
		_, err := c.session.Invoke(ctx, fmt.Sprintf("RAMPLOAD %d %s %d", vid, formatLevel(level), int(transition.Seconds())))
		return err
	}

	_, err := c.session.Invoke(ctx, fmt.Sprintf("LOAD %d %s", vid, formatLevel(level)))
	return err
}

func (c *Client) TurnLoadOn(ctx context.Context, vid int, level float64, transition time.Duration) error {
	return c.SetLoadLevel(ctx, vid, level, transition)
}

func (c *Client) TurnLoadOff(ctx context.Context, vid int, transition time.Duration) error {
	return c.SetLoadLevel(ctx, vid, 0, transition)
}

// GetLoadLevel polls the controller for a load's current level.
func (c *Client) GetLoadLevel(ctx context.Context, vid int) (float64, error) {
	resp, err := c.session.Invoke(ctx, fmt.Sprintf("GETLOAD %d", vid))
	if err != nil {
		return 0, err
	}

	fields := strings.Fields(resp)
	if len(fields) < 3 {
		return 0, fmt.Errorf("%w: malformed GETLOAD response: %s", ErrClient, resp)
	}

	level, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed GETLOAD response: %s", ErrClient, resp)
	}

	return level, nil
}

// RGB load commands, issued through object interface invocation.

func (c *Client) SetRGBLoadHSL(ctx context.Context, vid int, hue, saturation int, level float64) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("INVOKE %d RGBLoad.SetHSL %d %d %s", vid, hue, saturation, formatLevel(level)))
	return err
}

func (c *Client) SetRGBLoadRGB(ctx context.Context, vid int, r, g, b int) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("INVOKE %d RGBLoad.SetRGB %d %d %d", vid, r, g, b))
	return err
}

func (c *Client) SetRGBLoadRGBW(ctx context.Context, vid int, r, g, b, w int) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("INVOKE %d RGBLoad.SetRGBW %d %d %d %d", vid, r, g, b, w))
	return err
}

func (c *Client) SetRGBLoadColorTemp(ctx context.Context, vid int, kelvin int) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("INVOKE %d ColorTemperature.Set %d", vid, kelvin))
	return err
}

func (c *Client) SetRGBLoadLevel(ctx context.Context, vid int, level float64) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("INVOKE %d Load.SetLevel %s", vid, formatLevel(level)))
	return err
}

func (c *Client) TurnRGBLoadOff(ctx context.Context, vid int, transition time.Duration) error {
	return c.SetLoadLevel(ctx, vid, 0, transition)
}

// Blind commands.

func (c *Client) OpenBlind(ctx context.Context, vid int) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("BLIND %d OPEN", vid))
	return err
}

func (c *Client) CloseBlind(ctx context.Context, vid int) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("BLIND %d CLOSE", vid))
	return err
}

func (c *Client) StopBlind(ctx context.Context, vid int) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("BLIND %d STOP", vid))
	return err
}

func (c *Client) SetBlindPosition(ctx context.Context, vid int, position float64) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("BLIND %d POS %s", vid, formatLevel(position)))
	return err
}

// Thermostat commands.

func (c *Client) SetThermostatOperationMode(ctx context.Context, vid int, mode OperationMode) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("THERMOP %d %s", vid, mode))
	return err
}

func (c *Client) SetThermostatFanMode(ctx context.Context, vid int, mode FanMode) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("THERMFAN %d %s", vid, mode))
	return err
}

func (c *Client) SetThermostatCoolSetPoint(ctx context.Context, vid int, temp float64) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("THERMTEMP %d COOL %s", vid, formatLevel(temp)))
	return err
}

func (c *Client) SetThermostatHeatSetPoint(ctx context.Context, vid int, temp float64) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("THERMTEMP %d HEAT %s", vid, formatLevel(temp)))
	return err
}

// Variable commands.

func (c *Client) SetGMemBool(ctx context.Context, vid int, value bool) error {
	v := 0
	if value {
		v = 1
	}

	_, err := c.session.Invoke(ctx, fmt.Sprintf("INVOKE %d GMem.SetValue %d", vid, v))
	return err
}

func (c *Client) SetGMemNumber(ctx context.Context, vid int, value int64) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("INVOKE %d GMem.SetValue %d", vid, value))
	return err
}

func (c *Client) SetGMemText(ctx context.Context, vid int, value string) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf(`INVOKE %d GMem.SetValue "%s"`, vid, value))
	return err
}

// Task commands.

func (c *Client) StartTask(ctx context.Context, vid int) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("TASK %d START", vid))
	return err
}

func (c *Client) StopTask(ctx context.Context, vid int) error {
	_, err := c.session.Invoke(ctx, fmt.Sprintf("TASK %d STOP", vid))
	return err
}

// formatLevel renders a level or temperature without trailing zeros.
func formatLevel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
