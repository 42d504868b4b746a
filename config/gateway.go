package config

import (
	"encoding/json"
	"fmt"
	"github.com/tidwall/gjson"
)

type GatewayConfig struct {
	Name   string `json:"-"`
	Type   string
	Config any
}

func (g *GatewayConfig) UnmarshalJSON(data []byte) error {
	if result := gjson.GetBytes(data, "Type"); !result.Exists() {
		return fmt.Errorf("failed to find gateway type information")
	} else {
		g.Type = result.String()
	}

	switch g.Type {
	case "vantage":
		if result := gjson.GetBytes(data, "Config"); result.Exists() {
			g.Config = &VantageConfig{}
			return json.Unmarshal([]byte(result.Raw), g.Config)
		} else {
			return fmt.Errorf("unable to find Config stanza: %s", g.Type)
		}
	default:
		return fmt.Errorf("unknown gateway configuration type: %s", g.Type)
	}
}

type VantageConfig struct {
	Connection  VantageConnection
	Credentials *Credentials
	Project     string
}

type Credentials struct {
	Username string
	Password string
}

type VantageConnection struct {
	Type   string
	Config any
}

func (c *VantageConnection) UnmarshalJSON(data []byte) error {
	if result := gjson.GetBytes(data, "Type"); !result.Exists() {
		return fmt.Errorf("failed to find vantage connection type information")
	} else {
		c.Type = result.String()
	}

	switch c.Type {
	case "tcp":
		if result := gjson.GetBytes(data, "Config"); result.Exists() {
			c.Config = &TCPConnection{}
			return json.Unmarshal([]byte(result.Raw), c.Config)
		} else {
			return fmt.Errorf("unable to find Config stanza: %s", c.Type)
		}
	case "serial":
		if result := gjson.GetBytes(data, "Config"); result.Exists() {
			c.Config = &SerialConnection{}
			return json.Unmarshal([]byte(result.Raw), c.Config)
		} else {
			return fmt.Errorf("unable to find Config stanza: %s", c.Type)
		}
	default:
		return fmt.Errorf("unknown vantage connection configuration type: %s", c.Type)
	}
}

type TCPConnection struct {
	Host string
	Port int
	TLS  struct {
		Enabled            bool
		InsecureSkipVerify bool
	}
}

type SerialConnection struct {
	Port struct {
		Name string
		Baud int
	}
}
