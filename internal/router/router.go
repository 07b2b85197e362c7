package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-resource-booking/internal/handler"
	"github.com/iliyamo/lab-resource-booking/internal/middleware"
	"github.com/iliyamo/lab-resource-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check
// used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes and the protected
// /v1 group. Unauthenticated operations live under /v1/auth; everything
// registered on the returned group runs JWTAuth and RequireRole first.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) *echo.Group {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; the old one is revoked.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a JSON body with a refresh_token and invalidates
	// it. No JWT is required so a client with an expired access token
	// can still end its session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleMember, model.RoleStaff))
	auth.GET("/me", a.Me)
	return auth
}

// RegisterPublic registers the unauthenticated catalog endpoints. These
// are the only routes wrapped by the Redis response cache: availability
// and requirements answers depend on the instant of the request and on
// the caller's identity, so they must never be cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{}
	if cache != nil {
		mw = append(mw, cache)
	}
	e.GET("/v1/labs", p.ListLabs, mw...)
	e.GET("/v1/labs/:id/resources", p.ListLabResources, mw...)
}

// RegisterBooking registers the member-facing availability, requirements,
// booking and notification routes on the protected group returned by
// RegisterAuth.
func RegisterBooking(auth *echo.Group, av *handler.AvailabilityHandler, b *handler.BookingHandler, n *handler.NotificationHandler) {
	auth.GET("/labs/:id/availability", av.CheckAvailability)
	auth.GET("/labs/:id/requirements", av.CheckRequirements)

	auth.POST("/reservations", b.CreateReservation)
	auth.GET("/reservations", b.ListReservations)
	auth.POST("/loans", b.CreateLoan)
	auth.GET("/loans", b.ListLoans)

	auth.GET("/notifications", n.List)
}

// RegisterStaff registers the calendar block management routes. They sit
// on the protected group but additionally require the staff role.
func RegisterStaff(auth *echo.Group, bl *handler.BlockHandler) {
	staff := auth.Group("/labs/:id/blocks")
	staff.Use(middleware.RequireRole(model.RoleStaff))
	staff.POST("", bl.Create)
	staff.GET("", bl.List)
}
