package http

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/app"
	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/config"
	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/domain"
)

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(cfg *config.Config, reg *app.Registry, guard *app.Guard) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("MarketSessions", store))
	r.Use(ClientTokenMiddleware())

	api := r.Group("/api")

	// Bootstrap: make sure the signaling server is up. Both the fresh-start
	// and the already-running case answer the same way; the difference only
	// shows in the logs.
	api.GET("/server", func(c *gin.Context) {
		started, err := guard.Ensure()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		log.Info().Str("module", "adapters.http").Bool("started", started).Msg("bootstrap hit")
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	api.GET("/presence/:email", func(c *gin.Context) {
		email := c.Param("email")
		c.JSON(http.StatusOK, gin.H{
			"email":  email,
			"online": reg.IsOnline(domain.Identity(email)),
		})
	})

	api.GET("/presence", func(c *gin.Context) {
		online := reg.Online()
		c.JSON(http.StatusOK, gin.H{
			"online": online,
			"count":  len(online),
		})
	})

	api.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"registered":       reg.Count(),
			"signaling_server": guard.Running(),
		})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
