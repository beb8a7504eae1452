package api

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/clintecker/clanker-radio-sub000/internal/config"
	"github.com/clintecker/clanker-radio-sub000/internal/engine"
)

// Server is the read-only operator/listener status surface exposed by the
// radiod supervisor. It never mutates engine or library state.
type Server struct {
	cfg     *config.Config
	gateway *engine.Gateway
	router  *gin.Engine
}

func New(cfg *config.Config, gateway *engine.Gateway) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		gateway: gateway,
		router:  gin.Default(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)
	s.router.GET("/api/v1/now-playing", s.nowPlaying)
	s.router.GET("/api/v1/queues", s.queues)
}

func (s *Server) health(c *gin.Context) {
	// Engine reachability is the only dependency worth reporting here.
	reachable := s.gateway.GetQueueLength(engine.QueueMusic) != -1
	status := http.StatusOK
	if !reachable {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":           "ok",
		"service":          "clanker-radio",
		"engine_reachable": reachable,
	})
}

func (s *Server) nowPlaying(c *gin.Context) {
	data, err := os.ReadFile(s.cfg.Export.OutputPath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no now-playing snapshot yet"})
		return
	}
	var snap map[string]any
	if err := json.Unmarshal(data, &snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot unreadable"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) queues(c *gin.Context) {
	depths := gin.H{}
	for _, q := range []string{engine.QueueMusic, engine.QueueBreaks, engine.QueueOverride} {
		depths[q] = s.gateway.GetQueueLength(q)
	}
	c.JSON(http.StatusOK, gin.H{"queues": depths})
}

// Run blocks serving the status API.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
