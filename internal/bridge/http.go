// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"metzctl/internal/device"
	"metzctl/internal/hub"
	"metzctl/internal/logger"
	"metzctl/internal/metrics"
)

const maxActionBody = 64 << 10

// HTTPServer exposes the configured sets over a small REST API
type HTTPServer struct {
	devices   *hub.DeviceManager
	gatherer  prometheus.Gatherer
	collector *metrics.Collector
	logger    zerolog.Logger
	server    *http.Server
	started   time.Time
}

// NewHTTPServer creates the API server. collector may be nil.
func NewHTTPServer(devices *hub.DeviceManager, gatherer prometheus.Gatherer, collector *metrics.Collector) *HTTPServer {
	return &HTTPServer{
		devices:   devices,
		gatherer:  gatherer,
		collector: collector,
		logger:    logger.With("http"),
		started:   time.Now(),
	}
}

// Router builds the route table
func (s *HTTPServer) Router() http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	api.Handle("/health", s.instrument("/health", s.handleHealth)).Methods("GET")
	api.Handle("/devices", s.instrument("/devices", s.handleListDevices)).Methods("GET")
	api.Handle("/devices/{device_id}/action", s.instrument("/devices/action", s.handleDeviceAction)).Methods("POST")

	if s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	return router
}

func (s *HTTPServer) instrument(route string, h http.HandlerFunc) http.Handler {
	if s.collector == nil {
		return h
	}
	return metrics.HTTPMetricsMiddleware(s.collector, route)(h)
}

// Start serves until Shutdown is called
func (s *HTTPServer) Start(address string) error {
	s.server = &http.Server{
		Addr:              address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	s.logger.Info().Str("address", address).Msg("Starting HTTP bridge")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"devices": s.devices.GetDeviceCount(),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *HTTPServer) handleListDevices(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"devices": s.devices.GetAllDeviceInfo(),
	})
}

func (s *HTTPServer) handleDeviceAction(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["device_id"]

	body, err := io.ReadAll(io.LimitReader(r.Body, maxActionBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	response, err := s.devices.ProcessDeviceAction(deviceID, nonceOf(body), body)
	if err != nil {
		if errors.Is(err, hub.ErrDeviceNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("device_id", deviceID).Msg("Action failed")
		s.writeError(w, http.StatusInternalServerError, "action processing failed")
		return
	}

	s.writeJSON(w, StatusFor(response), response)
}

// StatusFor maps the failure kind of a response to an HTTP status
func StatusFor(response *device.ActionResponse) int {
	if response.Success {
		return http.StatusOK
	}

	switch response.Kind {
	case "unknown_command":
		return http.StatusBadRequest
	case "mac_resolution":
		return http.StatusFailedDependency
	case "remote_command":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// nonceOf extracts the optional "nonce" field used to drop redelivered requests
func nonceOf(body []byte) string {
	var envelope struct {
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Nonce
}
