package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"metzctl/internal/bridge"
	"metzctl/internal/config"
	"metzctl/internal/hub"
	"metzctl/internal/logger"
	"metzctl/internal/metrics"
)

const (
	bridgeMACCacheSize = 64
	shutdownTimeout    = 5 * time.Second
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP bridge",
	Long: `Expose the configured televisions over a REST API.
Commands are serialized per television and Prometheus metrics are served on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !debug {
			logger.SetSilentMode(false)
			logger.SetLevel("info")
		}
		log := logger.New()

		cfg, devices, registry, err := startDeviceManager()
		if err != nil {
			return err
		}

		address := cfg.HTTP.Listen
		if serveListen != "" {
			address = serveListen
		}

		server := bridge.NewHTTPServer(devices.manager, registry, devices.collector)

		errChan := make(chan error, 1)
		go func() {
			errChan <- server.Start(address)
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("HTTP bridge error: %w", err)
			}
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

var mqttCmd = &cobra.Command{
	Use:   "mqtt",
	Short: "Run the MQTT bridge",
	Long: `Subscribe to {prefix}/command/{device_id} on the configured broker and publish
the outcome of every command to {prefix}/result/{device_id}.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !debug {
			logger.SetSilentMode(false)
			logger.SetLevel("info")
		}

		cfg, devices, _, err := startDeviceManager()
		if err != nil {
			return err
		}
		if cfg.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is not set in %s", configPath)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return bridge.NewMQTTBridge(cfg.MQTT, devices.manager).Start(ctx)
	},
}

type bridgeDevices struct {
	manager   *hub.DeviceManager
	collector *metrics.Collector
}

// startDeviceManager loads the config and builds the shared device manager of the bridges
func startDeviceManager() (*config.Config, bridgeDevices, *prometheus.Registry, error) {
	cfg, err := config.NewManager(configPath).Load()
	if err != nil {
		return nil, bridgeDevices{}, nil, err
	}
	if len(cfg.Devices) == 0 {
		return nil, bridgeDevices{}, nil, fmt.Errorf("no televisions configured in %s", configPath)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	manager := hub.NewDeviceManager(hub.NewNonceCache(0, 0), collector)
	err = manager.Initialize(cfg, hub.ClientOptions{
		Debug:    debug,
		Timeout:  timeout,
		ARPTable: arpTable,
		MACCache: bridgeMACCacheSize,
	})
	if err != nil {
		return nil, bridgeDevices{}, nil, err
	}

	return cfg, bridgeDevices{manager: manager, collector: collector}, registry, nil
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides http.listen)")
}
