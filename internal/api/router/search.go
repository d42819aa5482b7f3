package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/letspunt/adpage/internal/api/dto"
	"github.com/letspunt/adpage/internal/search"
)

type SearchRouter struct {
	e           *echo.Echo
	resolver    SearchResolver
	maxPageSize int
}

func NewSearchRouter(e *echo.Echo, resolver SearchResolver, maxPageSize int) *SearchRouter {
	return &SearchRouter{
		e:           e,
		resolver:    resolver,
		maxPageSize: maxPageSize,
	}
}

func (r *SearchRouter) Bind() {
	r.e.GET("/search", r.searchHandler)
}

// searchHandler godoc
// @Summary Search listings
// @Description Ranked listing search. Tries trigram similarity, then full-text rank, then substring match. Without a term returns a plain page.
// @Tags search
// @Produce json
// @Param search query string false "Search term"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.SearchResponse
// @Failure 500 {object} map[string]string
// @Router /search [get]
func (r *SearchRouter) searchHandler(c echo.Context) error {
	q := search.NewQuery(
		c.QueryParam("search"),
		c.QueryParam("page"),
		c.QueryParam("pageSize"),
		r.maxPageSize,
	)

	page, err := r.resolver.Resolve(c.Request().Context(), q)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.SearchResponse{
		SearchData: page.Rows,
		SearchTerm: page.SearchTerm,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Strategy:   string(page.Strategy),
	})
}
