package main

import (
	"context"
	"fmt"
	lw "github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"github.com/vantagebridge/controller/bridge"
	"github.com/vantagebridge/controller/state"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"
)

func main() {
	ctx := context.Background()
	l := lw.New(golog.Wrap(log.New(os.Stderr, "", log.LstdFlags)))

	l.LogInfo(ctx, "Vantage Bridge: Controller - Starting...")

	directories := enumerateDirectories(ctx, l)

	l.LogInfo(ctx, "Directory enumeration complete.", lw.Datum("directories", directories))

	if fl, err := configureLogging(filepath.Join(directories.Config, "logging"), directories.Log, l); err != nil {
		l.LogFatal(ctx, "Failed to configure logging.", lw.Err(err))
	} else {
		l = fl
	}

	gatewayCfgs, err := loadGatewayConfigurations(filepath.Join(directories.Config, "gateways"))
	if err != nil {
		l.LogFatal(ctx, "Failed to load gateway configurations.", lw.Err(err))
	}

	interfaceCfgs, err := loadInterfaceConfigurations(filepath.Join(directories.Config, "interfaces"))
	if err != nil {
		l.LogFatal(ctx, "Failed to load interface configurations.", lw.Err(err))
	}

	l.LogInfo(ctx, "Initialising registries.")
	bus := state.NewEventBus()
	devices := state.NewDeviceRegistry(bus)
	entities := state.NewEntityRegistry(bus)

	shutdownRegistries, err := initialiseRegistries(l, directories.Data, devices, entities)
	if err != nil {
		l.LogFatal(ctx, "Failed to initialise registries.", lw.Err(err))
	}

	l.LogInfo(ctx, "Loaded gateway configurations.", lw.Datum("configCount", len(gatewayCfgs)))
	gwMux := state.NewGatewayMux(bus)
	directory := bridge.NewDirectory()

	l.LogInfo(ctx, "Starting interfaces.")
	deps := interfaceDependencies{
		mux:       gwMux,
		directory: directory,
		devices:   devices,
		entities:  entities,
		bus:       bus,
	}

	startedInterfaces, err := startInterfaces(interfaceCfgs, deps, directories, l)
	if err != nil {
		l.LogFatal(ctx, "Failed to start interfaces.", lw.Err(err))
	}

	l.LogInfo(ctx, "Starting gateways.")
	startedGateways, err := startGateways(gatewayCfgs, gwMux, directory, devices, entities, bus, l)
	if err != nil {
		l.LogFatal(ctx, "Failed to start gateways.", lw.Err(err))
	}

	l.LogInfo(ctx, "Controller ready.")

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, os.Kill)

	s := <-signalCh
	l.LogInfo(ctx, "Signal received, shutting down.", lw.Datum("signal", s.String()))

	for _, intf := range startedInterfaces {
		l.LogInfo(ctx, "Shutting down interface.", lw.Datum("interface", intf.Name))

		if err := intf.Shutdown(); err != nil {
			l.LogError(ctx, "Failed to shutdown interface.", lw.Err(err), lw.Datum("interface", intf.Name))
		}
	}

	for _, gw := range startedGateways {
		l.LogInfo(ctx, "Shutting down gateway.", lw.Datum("gateway", gw.Name))
		gw.Shutdown()
	}

	l.LogInfo(ctx, "Shutting down gateway mux.")
	gwMux.Stop()

	l.LogInfo(ctx, "Shutting down registries.")
	shutdownRegistries()

	l.LogInfo(ctx, "Shut down complete.")
}

func initialiseRegistries(l lw.Logger, dir string, devices *state.DeviceRegistry, entities *state.EntityRegistry) (func(), error) {
	deviceFile := filepath.Join(dir, "devices.json")
	entityFile := filepath.Join(dir, "entities.json")

	if err := state.LoadDevices(deviceFile, devices); err != nil {
		return func() {}, fmt.Errorf("failed to load devices: %w", err)
	}

	if err := state.LoadEntities(entityFile, entities); err != nil {
		return func() {}, fmt.Errorf("failed to load entities: %w", err)
	}

	if err := state.SaveDevices(deviceFile, devices); err != nil {
		return func() {}, fmt.Errorf("failed initial save of devices: %w", err)
	}

	if err := state.SaveEntities(entityFile, entities); err != nil {
		return func() {}, fmt.Errorf("failed initial save of entities: %w", err)
	}

	save := func() {
		if err := state.SaveDevices(deviceFile, devices); err != nil {
			l.LogError(context.Background(), "Failed to periodically save device registry.", lw.Err(err))
		}

		if err := state.SaveEntities(entityFile, entities); err != nil {
			l.LogError(context.Background(), "Failed to periodically save entity registry.", lw.Err(err))
		}
	}

	shutCh := make(chan struct{}, 1)

	go func() {
		t := time.NewTicker(1 * time.Minute)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				save()
			case <-shutCh:
				save()
				return
			}
		}
	}()

	return func() {
		shutCh <- struct{}{}
	}, nil
}
