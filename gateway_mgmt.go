package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/nest"
	"github.com/vantagebridge/controller/bridge"
	"github.com/vantagebridge/controller/config"
	"github.com/vantagebridge/controller/state"
	"github.com/vantagebridge/controller/vantage"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type StartedGateway struct {
	Name     string
	Bridge   *bridge.Bridge
	Client   *vantage.Client
	Shutdown func()
}

const GatewayInitialiseTimeout = 2 * time.Minute
const GatewayResyncInterval = 15 * time.Minute

func startGateways(cfgs []config.GatewayConfig, mux *state.GatewayMux, directory *bridge.Directory, devices *state.DeviceRegistry, entities *state.EntityRegistry, bus *state.EventBus, l logwrap.Logger) ([]StartedGateway, error) {
	var retGws []StartedGateway

	for _, cfg := range cfgs {
		if gw, err := startGateway(cfg, mux, devices, entities, bus, l); err != nil {
			return nil, fmt.Errorf("failed to start gateway '%s': %w", cfg.Name, err)
		} else {
			mux.Add(cfg.Name, gw.Client)
			directory.Add(gw.Bridge)
			retGws = append(retGws, gw)
		}
	}

	return retGws, nil
}

func startGateway(cfg config.GatewayConfig, mux *state.GatewayMux, devices *state.DeviceRegistry, entities *state.EntityRegistry, bus *state.EventBus, l logwrap.Logger) (StartedGateway, error) {
	wl := logwrap.New(nest.Wrap(l))
	wl.AddOptionsToLogger(logwrap.Datum("gateway", cfg.Name))

	switch gwCfg := cfg.Config.(type) {
	case *config.VantageConfig:
		wl.AddOptionsToLogger(logwrap.Source("vantage"))
		return startVantageGateway(cfg.Name, *gwCfg, mux, devices, entities, bus, wl)
	default:
		return StartedGateway{}, fmt.Errorf("unknown gateway type loaded: %s", cfg.Type)
	}
}

// gatewayReauth binds the mux's reauthentication flow to one gateway name.
type gatewayReauth struct {
	mux  *state.GatewayMux
	name string
}

func (g gatewayReauth) StartReauth() {
	g.mux.StartReauth(g.name)
}

func startVantageGateway(name string, cfg config.VantageConfig, mux *state.GatewayMux, devices *state.DeviceRegistry, entities *state.EntityRegistry, bus *state.EventBus, l logwrap.Logger) (StartedGateway, error) {
	conn, err := openVantageConnection(cfg.Connection, l)
	if err != nil {
		return StartedGateway{}, fmt.Errorf("failed to open connection to controller: %w", err)
	}

	var opts []vantage.Option
	if cfg.Credentials != nil {
		opts = append(opts, vantage.WithCredentials(cfg.Credentials.Username, cfg.Credentials.Password))
	}

	session := vantage.NewSession(conn)
	client := vantage.NewClient(session, vantage.ProjectFile{Path: cfg.Project}, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), GatewayInitialiseTimeout)
	defer cancel()

	if err := client.Initialize(ctx); err != nil {
		client.Close()

		return StartedGateway{}, fmt.Errorf("failed to initialise client: %w", err)
	}

	b := bridge.New(name, client, devices, entities, bus, gatewayReauth{mux: mux, name: name}, l)
	bridge.Setup(b)

	resyncStop := make(chan struct{}, 1)

	go func() {
		t := time.NewTicker(GatewayResyncInterval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				if err := client.Resync(); err != nil {
					l.LogError(context.Background(), "Failed to resync object inventory.", logwrap.Err(err))
				}
			case <-resyncStop:
				return
			}
		}
	}()

	return StartedGateway{
		Name:   name,
		Bridge: b,
		Client: client,
		Shutdown: func() {
			resyncStop <- struct{}{}
			b.Unload()
		},
	}, nil
}

func openVantageConnection(cfg config.VantageConnection, l logwrap.Logger) (io.ReadWriteCloser, error) {
	switch connCfg := cfg.Config.(type) {
	case *config.TCPConnection:
		var tlsConfig *tls.Config

		if connCfg.TLS.Enabled {
			tlsConfig = &tls.Config{InsecureSkipVerify: connCfg.TLS.InsecureSkipVerify}

			if connCfg.TLS.InsecureSkipVerify {
				l.LogWarn(context.Background(), "Set to ignore remote TLS certificate, this is considered insecure.")
			}
		}

		address := connCfg.Host
		if connCfg.Port != 0 {
			address = fmt.Sprintf("%s:%d", connCfg.Host, connCfg.Port)
		}

		return vantage.DialTCP(address, tlsConfig)
	case *config.SerialConnection:
		return vantage.OpenSerial(connCfg.Port.Name, connCfg.Port.Baud)
	default:
		return nil, fmt.Errorf("unknown connection type loaded: %s", cfg.Type)
	}
}

func loadGatewayConfigurations(dir string) ([]config.GatewayConfig, error) {
	if err := os.MkdirAll(dir, DefaultDirectoryPermissions); err != nil {
		return nil, fmt.Errorf("failed to ensure gateway configuration directory exists: %w", err)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory listing for gateway configurations: %w", err)
	}

	var retCfgs []config.GatewayConfig

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		fullPath := filepath.Join(dir, file.Name())
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read gateway configuration file '%s': %w", fullPath, err)
		}

		cfg := config.GatewayConfig{
			Name: strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())),
		}

		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse gateway configuration file '%s': %w", fullPath, err)
		}

		retCfgs = append(retCfgs, cfg)
	}

	return retCfgs, nil
}
