package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sigmabread/breadchat-server/internal/config"
	"github.com/sigmabread/breadchat-server/internal/core"
)

// NewServer builds the HTTP server: health check, the WebSocket
// endpoint, and the public user list.
func NewServer(hub *core.Hub, directory *core.Directory, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	users := NewUserHandlers(directory, logger)
	router.GET("/api/users", users.List)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
