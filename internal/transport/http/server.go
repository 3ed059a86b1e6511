package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/intervue/session-server/internal/auth"
	"github.com/intervue/session-server/internal/config"
	"github.com/intervue/session-server/internal/core"
	"github.com/intervue/session-server/internal/store"
)

// NewServer builds the HTTP server: health, the session WebSocket and room introspection.
// history may be nil when auditing is disabled.
func NewServer(gateway *core.Gateway, history store.SessionStore, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	}

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(gateway, jwtConfig, cfg, logger)))

	api := router.Group("/api")
	if jwtConfig.Enabled() {
		api.Use(AuthMiddleware(jwtConfig, logger))
	}
	rooms := NewRoomHandlers(gateway.Rooms(), history, logger)
	api.GET("/rooms", rooms.ListRooms)
	api.GET("/rooms/:roomId", rooms.GetRoom)
	api.GET("/rooms/:roomId/history", rooms.History)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
