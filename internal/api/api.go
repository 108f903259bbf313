// Package api exposes the latest metrics over a small HTTP surface.
package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/chrrivee/HerculesPi/internal/config"
	"github.com/chrrivee/HerculesPi/internal/monitor"
	"github.com/chrrivee/HerculesPi/internal/sensor"
)

// Server serves read-only status endpoints. The display loop pushes each
// fresh snapshot in; handlers only ever copy it out.
type Server struct {
	opt     config.APIOpt
	manager *sensor.Manager

	mu   sync.RWMutex
	snap monitor.Snapshot
}

func NewServer(opt config.APIOpt, manager *sensor.Manager) *Server {
	return &Server{opt: opt, manager: manager}
}

// Publish stores the snapshot handlers will serve.
func (s *Server) Publish(snap monitor.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Server) latestSnapshot() monitor.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/api/system", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.latestSnapshot())
	})

	router.GET("/api/sensor", func(c *gin.Context) {
		reading := s.manager.Latest()
		c.JSON(http.StatusOK, gin.H{
			"enabled":   s.manager.Config().Enabled,
			"connected": s.manager.Running(),
			"device":    s.manager.DeviceLabel(),
			"timestamp": reading.Timestamp,
			"acceleration": gin.H{
				"x": reading.Accel[0], "y": reading.Accel[1], "z": reading.Accel[2],
			},
			"gyro": gin.H{
				"x": reading.Gyro[0], "y": reading.Gyro[1], "z": reading.Gyro[2],
			},
			"orientation": gin.H{
				"roll": reading.Orientation[0], "pitch": reading.Orientation[1], "yaw": reading.Orientation[2],
			},
			"temperature": reading.Temperature,
		})
	})

	return router
}

// Serve blocks on the listener; callers run it in a goroutine.
func (s *Server) Serve() error {
	addr := fmt.Sprintf("%s:%d", s.opt.Interface, s.opt.Port)
	log.Infoln("start HTTP API listen on", addr)
	return s.Router().Run(addr)
}
