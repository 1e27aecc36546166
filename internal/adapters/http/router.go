package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkeye/Chatter/internal/adapters/signal"
	"github.com/dkeye/Chatter/internal/auth"
	"github.com/dkeye/Chatter/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthMiddleware validates the handshake credential and stows the
// identity for the websocket handler. It does not abort: the relay
// rejects unauthenticated connections with an error event after the
// upgrade, so the failure reason travels the same wire as everything
// else.
func AuthMiddleware(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("accessToken")
		if token == "" {
			header := c.GetHeader("Authorization")
			token = strings.TrimPrefix(header, "Bearer ")
		}
		user, err := verifier.Verify(token)
		if err != nil {
			c.Set("auth_error", err.Error())
			c.Next()
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, verifier *auth.Verifier, ctrl *signal.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(AuthMiddleware(verifier))
	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Msg("ws endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	return r
}
