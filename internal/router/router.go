package router // package router wires HTTP routes to their handlers and middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinetick/booking-engine/internal/config"
	"github.com/cinetick/booking-engine/internal/handler"
	"github.com/cinetick/booking-engine/internal/middleware"
)

// Deps bundles everything route registration needs. The Redis client
// may be nil, in which case caching and rate limiting are disabled and
// the middlewares become pass-throughs.
type Deps struct {
	Public    *handler.PublicHandler
	Bookings  *handler.BookingHandler
	Admin     *handler.AdminBookingHandler
	JWTSecret string
	Redis     *redis.Client
}

// Register mounts all routes on the Echo instance.
//
// Public browsing sits behind the response cache; the booking write
// path sits behind the rate limiter and never behind the cache, since
// availability must always reflect committed state.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	public := e.Group("/v1/showtimes", cacheMW)
	public.GET("", d.Public.ListShowtimes)
	public.GET("/:id", d.Public.GetShowtime)
	public.GET("/:id/seats", d.Public.GetSeatMap)

	auth := e.Group("/v1", middleware.JWTAuth(d.JWTSecret))

	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)
	auth.POST("/bookings", d.Bookings.Create, rateMW)
	auth.GET("/bookings", d.Bookings.List)
	auth.GET("/bookings/:id", d.Bookings.Get)
	auth.DELETE("/bookings/:id", d.Bookings.Cancel)

	admin := auth.Group("/admin", middleware.RequireRole("ADMIN"))
	admin.PATCH("/bookings/:id/payment", d.Admin.SetPaymentStatus)
	admin.PATCH("/bookings/:id/status", d.Admin.SetBookingStatus)
	admin.DELETE("/bookings/:id", d.Admin.Delete)
	admin.GET("/bookings/stats", d.Admin.Stats)
}
