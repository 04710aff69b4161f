package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/movie-catalog/internal/config"     // runtime configuration (storage root for static uploads)
	"github.com/iliyamo/movie-catalog/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/movie-catalog/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: the health check and the static file tree where
// uploaded pictures and posters are served from.
func RegisterRoutes(e *echo.Echo, cfg config.Config) {
	// The health endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
	// Files written by the disk storage backend are served under /uploads,
	// matching the URLs the storage layer hands back on save.
	e.Static("/uploads", cfg.StorageRoot)
}

// RegisterAuth registers all authentication-related routes.  Register, login,
// refresh and logout run without middleware; /api/auth/me requires a valid
// access token of any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access issues a new
	// access token while reusing the existing refresh token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a bearer token (revoke all sessions) or a
	// refresh_token body (revoke one), so it runs without the middleware.
	g.POST("/logout", a.Logout)

	me := e.Group("/api/auth")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterCatalog registers the catalog resources.  Reads are anonymous and
// pass through the shared response cache when one is configured; every write
// requires a valid access token carrying the ADMIN role.
func RegisterCatalog(e *echo.Echo, actors *handler.ActorHandler, genres *handler.GenreHandler,
	theaters *handler.TheaterHandler, movies *handler.MovieHandler, ratings *handler.RatingHandler,
	jwtSecret string, cache echo.MiddlewareFunc) {

	// Admin gate shared by every mutating catalog route.
	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	}

	read := e.Group("/api")
	if cache != nil {
		read.Use(cache)
	}

	// ----- actors -----
	read.GET("/actors", actors.List)
	read.GET("/actors/searchByName/:query", actors.SearchByName)
	read.GET("/actors/:id", actors.Get)
	e.POST("/api/actors", actors.Create, admin...)
	e.PUT("/api/actors/:id", actors.Update, admin...)
	e.DELETE("/api/actors/:id", actors.Delete, admin...)

	// ----- genres -----
	read.GET("/genres", genres.List)
	read.GET("/genres/all", genres.ListAll)
	read.GET("/genres/:id", genres.Get)
	e.POST("/api/genres", genres.Create, admin...)
	e.PUT("/api/genres/:id", genres.Update, admin...)
	e.DELETE("/api/genres/:id", genres.Delete, admin...)

	// ----- movie theaters -----
	read.GET("/movietheaters", theaters.List)
	read.GET("/movietheaters/:id", theaters.Get)
	e.POST("/api/movietheaters", theaters.Create, admin...)
	e.PUT("/api/movietheaters/:id", theaters.Update, admin...)
	e.DELETE("/api/movietheaters/:id", theaters.Delete, admin...)

	// ----- movies -----
	read.GET("/movies", movies.Landing)
	read.GET("/movies/filter", movies.Filter)
	// The detail route resolves the caller's identity when a token is
	// present so the response can carry the caller's own vote, but the
	// route itself stays open to anonymous users.  It is registered
	// outside the cached group: a per-user field must not be cached.
	e.GET("/api/movies/:id", movies.Get, middleware.OptionalJWTAuth(jwtSecret))
	e.GET("/api/movies/postget", movies.PostGet, admin...)
	e.GET("/api/movies/putget/:id", movies.PutGet, admin...)
	e.POST("/api/movies", movies.Create, admin...)
	e.PUT("/api/movies/:id", movies.Update, admin...)
	e.DELETE("/api/movies/:id", movies.Delete, admin...)

	// ----- ratings -----
	// Any authenticated user may rate; no role restriction here.
	e.POST("/api/ratings", ratings.Submit, middleware.JWTAuth(jwtSecret))
}
