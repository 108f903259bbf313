package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chrrivee/HerculesPi/internal/config"
	"github.com/chrrivee/HerculesPi/internal/monitor"
	"github.com/chrrivee/HerculesPi/internal/sensor"
)

func newTestServer() *Server {
	m := sensor.NewManager(sensor.Config{Enabled: false})
	return NewServer(config.APIOpt{Interface: "127.0.0.1", Port: 0}, m)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestSystemEndpointServesPublishedSnapshot(t *testing.T) {
	srv := newTestServer()
	srv.Publish(monitor.Snapshot{
		TakenAt: time.Now(),
		Host:    monitor.HostInfo{Hostname: "bench"},
		CPU:     monitor.CPUStats{GlobalPercent: 12.5},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/system", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var body struct {
		Host struct {
			Hostname string `json:"hostname"`
		} `json:"host"`
		CPU struct {
			GlobalPercent float64 `json:"global_percent"`
		} `json:"cpu"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Host.Hostname != "bench" || body.CPU.GlobalPercent != 12.5 {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestSensorEndpointDisabled(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/sensor", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var body struct {
		Enabled   bool `json:"enabled"`
		Connected bool `json:"connected"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Enabled || body.Connected {
		t.Errorf("disabled sensor reported as active: %s", rec.Body.String())
	}
}
