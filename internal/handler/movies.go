package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/catalog"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/seating"
)

// maxListLimit caps ?limit= on the list endpoints.
const maxListLimit = 100

// Catalog is implemented by *catalog.Service.
type Catalog interface {
	ListAll(ctx context.Context) []model.Movie
	ListPopular(ctx context.Context, limit int) []model.Movie
	ListNowShowing(ctx context.Context, limit int) []model.Movie
	GetByID(ctx context.Context, id string) *model.Movie
	Search(ctx context.Context, text string) []model.Movie
}

// MovieHandler serves the public catalog and seat grids.
type MovieHandler struct {
	Catalog Catalog
	Gen     *seating.Generator
}

func NewMovieHandler(cat Catalog, seats *seating.Generator) *MovieHandler {
	return &MovieHandler{Catalog: cat, Gen: seats}
}

type seatsResp struct {
	MovieID string `json:"movie_id"`
	model.SeatLayout
}

// List returns every movie.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	return c.JSON(http.StatusOK, h.Catalog.ListAll(ctx))
}

// Popular returns movies by rating, highest first.
func (h *MovieHandler) Popular(c echo.Context) error {
	limit, ok := queryLimit(c, catalog.DefaultLimit, maxListLimit)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	return c.JSON(http.StatusOK, h.Catalog.ListPopular(ctx, limit))
}

// NowShowing returns movies by release date, newest first.
func (h *MovieHandler) NowShowing(c echo.Context) error {
	limit, ok := queryLimit(c, catalog.DefaultLimit, maxListLimit)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	return c.JSON(http.StatusOK, h.Catalog.ListNowShowing(ctx, limit))
}

// Get returns one movie or 404.
func (h *MovieHandler) Get(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	m := h.Catalog.GetByID(ctx, c.Param("id"))
	if m == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	return c.JSON(http.StatusOK, m)
}

// Search matches ?q= against titles.  An empty query returns no movies.
func (h *MovieHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusOK, []model.Movie{})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	return c.JSON(http.StatusOK, h.Catalog.Search(ctx, q))
}

// Seats returns a freshly generated grid for the movie.  Occupancy is
// random on every call; nothing is reserved.
func (h *MovieHandler) Seats(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	m := h.Catalog.GetByID(ctx, c.Param("id"))
	if m == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	return c.JSON(http.StatusOK, seatsResp{MovieID: m.ID, SeatLayout: h.Gen.Generate()})
}
