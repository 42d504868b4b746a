package config

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParseGateway(t *testing.T) {
	t.Run("errors if json is invalid", func(t *testing.T) {
		data := []byte(`"`)
		gw := GatewayConfig{}

		err := json.Unmarshal(data, &gw)
		assert.Error(t, err)
	})

	t.Run("errors if type is unknown", func(t *testing.T) {
		data := []byte(`{"Type":"unknown"}`)
		gw := GatewayConfig{}

		err := json.Unmarshal(data, &gw)
		assert.Error(t, err)
	})

	t.Run("vantage gateway", func(t *testing.T) {
		t.Run("errors if connection type is not recognised", func(t *testing.T) {
			data := []byte(`{"Type":"vantage","Config":{"Connection":{"Type":"unknown"}}}`)
			gw := GatewayConfig{}

			err := json.Unmarshal(data, &gw)
			assert.Error(t, err)
		})

		t.Run("parses a tcp connection with credentials", func(t *testing.T) {
			data := []byte(`{"Type":"vantage","Config":{"Connection":{"Type":"tcp","Config":{"Host":"192.168.1.10","Port":3010,"TLS":{"Enabled":true}}},"Credentials":{"Username":"admin","Password":"hunter2"},"Project":"/data/project.json"}}`)
			gw := GatewayConfig{}

			err := json.Unmarshal(data, &gw)
			assert.NoError(t, err)

			vGw, ok := gw.Config.(*VantageConfig)
			assert.True(t, ok)
			assert.Equal(t, "/data/project.json", vGw.Project)
			assert.Equal(t, "admin", vGw.Credentials.Username)

			tcp, ok := vGw.Connection.Config.(*TCPConnection)
			assert.True(t, ok)
			assert.Equal(t, "192.168.1.10", tcp.Host)
			assert.Equal(t, 3010, tcp.Port)
			assert.True(t, tcp.TLS.Enabled)
		})

		t.Run("parses a serial connection", func(t *testing.T) {
			data := []byte(`{"Type":"vantage","Config":{"Connection":{"Type":"serial","Config":{"Port":{"Name":"/dev/ttyUSB0","Baud":115200}}}}}`)
			gw := GatewayConfig{}

			err := json.Unmarshal(data, &gw)
			assert.NoError(t, err)

			vGw, ok := gw.Config.(*VantageConfig)
			assert.True(t, ok)
			assert.Nil(t, vGw.Credentials)

			serial, ok := vGw.Connection.Config.(*SerialConnection)
			assert.True(t, ok)
			assert.Equal(t, "/dev/ttyUSB0", serial.Port.Name)
			assert.Equal(t, 115200, serial.Port.Baud)
		})
	})
}
