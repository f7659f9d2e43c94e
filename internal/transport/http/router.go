package http

import (
	"net/http"
	"time"

	"quiz-game-service/internal/app"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// NewRouter wires the REST API, the websocket play endpoint and health checks.
func NewRouter(service *app.GameService, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), CORS(cfg.AllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// long-lived; only the initial lookup is bounded
	r.GET("/ws/play", gin.WrapF(NewPlayHandler(service, cfg.RequestTimeout).ServeWS))

	api := r.Group("/api/games", Timeout(cfg.RequestTimeout))
	NewGamesHandler(service).Register(api)

	return r
}
