package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/handler"
)

// RegisterCatalog registers the public movie endpoints.  cache wraps the
// list and detail routes; seat grids are generated per request and are
// never cached.
func RegisterCatalog(e *echo.Echo, m *handler.MovieHandler, cache echo.MiddlewareFunc) {
	cached := e.Group("/v1", cache)
	cached.GET("/movies", m.List)
	cached.GET("/movies/popular", m.Popular)
	cached.GET("/movies/now-showing", m.NowShowing)
	cached.GET("/movies/:id", m.Get)
	cached.GET("/search/movies", m.Search)

	e.GET("/v1/movies/:id/seats", m.Seats)
}
