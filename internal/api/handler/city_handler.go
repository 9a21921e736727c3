package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

type CityHandler struct {
	directory ports.Directory
}

func NewCityHandler(directory ports.Directory) *CityHandler {
	return &CityHandler{directory: directory}
}

type cityQuery struct {
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
	Search  string `query:"search"`
}

// List returns one page of cities.
//
// @Summary      List cities
// @Tags         villes
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page, 1-based"
// @Param        per_page  query     int     false  "Page size, at most 1000"
// @Param        search    query     string  false  "Name filter"
// @Success      200       {object}  envelope
// @Router       /villes [get]
func (h *CityHandler) List(c echo.Context) error {
	var q cityQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return invalid("Paramètres de pagination invalides.")
	}

	filter := ports.ListCitiesFilter{Page: q.Page, PerPage: q.PerPage, Search: q.Search}
	cities, total, err := h.directory.ListCities(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	page := clampPage(q.Page)
	perPage := clampPerPage(q.PerPage)
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return respond(c, http.StatusOK, "", domain.CityPage{
		Data: cities,
		Pagination: domain.Pagination{
			CurrentPage: page,
			LastPage:    lastPage,
			PerPage:     perPage,
			Total:       total,
		},
	})
}

func clampPage(p int) int {
	if p < 1 {
		return 1
	}
	return p
}

// clampPerPage mirrors the bounds the directory applies.
func clampPerPage(n int) int {
	switch {
	case n < 1:
		return 15
	case n > 1000:
		return 1000
	}
	return n
}
