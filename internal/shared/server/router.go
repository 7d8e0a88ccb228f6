package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pethub-backend/internal/pets"
	"pethub-backend/internal/petservices"
	"pethub-backend/internal/shared/config"
	"pethub-backend/internal/shared/metrics"
	"pethub-backend/internal/shared/server/middleware"
	"pethub-backend/internal/shared/server/respond"
	"pethub-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config             config.Config
	UsersHandler       *users.Handler
	PetsHandler        *pets.Handler
	PetServicesHandler *petservices.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	// Credential endpoints get a tighter rate limit than the rest.
	authGroup := api.Group("")
	authGroup.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"AUTH": {Rate: 1, Burst: 10},
		},
		DefaultGroup: "AUTH",
	}))
	deps.UsersHandler.RegisterAuthRoutes(authGroup)

	deps.PetsHandler.RegisterPublicRoutes(api)
	deps.PetServicesHandler.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth())
	deps.UsersHandler.RegisterRoutes(protected)
	deps.PetsHandler.RegisterRoutes(protected)
	deps.PetServicesHandler.RegisterRoutes(protected)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
