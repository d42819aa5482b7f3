package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/letspunt/adpage/internal/api/dto"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/domain"
	"github.com/letspunt/adpage/internal/filter"
	"github.com/letspunt/adpage/pkg/pagination"
)

type PostsRouter struct {
	e           *echo.Echo
	store       ListingStore
	stats       ListingStats
	requireAuth echo.MiddlewareFunc
}

func NewPostsRouter(e *echo.Echo, store ListingStore, stats ListingStats, requireAuth echo.MiddlewareFunc) *PostsRouter {
	return &PostsRouter{
		e:           e,
		store:       store,
		stats:       stats,
		requireAuth: requireAuth,
	}
}

func (r *PostsRouter) Bind() {
	r.e.GET("/posts", r.listHandler)
	r.e.POST("/filteredposts", r.filteredHandler)
	r.e.GET("/posts/slug/:slug", r.getBySlugHandler)
	r.e.GET("/posts/:id", r.getHandler)
	r.e.POST("/posts/create", r.createHandler, r.requireAuth)
	r.e.PUT("/posts/:id", r.updateHandler, r.requireAuth)
	r.e.DELETE("/posts/:id", r.deleteHandler, r.requireAuth)
}

// listHandler godoc
// @Summary List posts
// @Tags posts
// @Produce json
// @Param userId query int false "Owner id"
// @Param location query string false "Location"
// @Param postStatus query string false "Status"
// @Param category query string false "Category"
// @Param slug query string false "Slug"
// @Param postId query int false "Post id"
// @Param searchTerm query string false "Substring of title or content"
// @Param order query string false "asc or desc" default(desc)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.PostsResponse
// @Router /posts [get]
func (r *PostsRouter) listHandler(c echo.Context) error {
	fs := filter.FilterSet{
		UserID:     c.QueryParam("userId"),
		Location:   c.QueryParam("location"),
		Status:     c.QueryParam("postStatus"),
		Category:   c.QueryParam("category"),
		Slug:       c.QueryParam("slug"),
		PostID:     c.QueryParam("postId"),
		SearchTerm: c.QueryParam("searchTerm"),
		Order:      filter.ParseOrder(c.QueryParam("order")),
		Page:       pagination.ParseOffsetRequest(c.QueryParam("page"), c.QueryParam("pageSize"), pagination.PageMaxSize),
	}

	ctx := c.Request().Context()
	posts, err := r.store.List(ctx, filter.Compile(fs))
	if err != nil {
		return err
	}

	stats, err := r.stats.Get(ctx, strings.TrimSpace(fs.Location))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.PostsResponse{Posts: posts, ListingStats: stats})
}

// filteredHandler godoc
// @Summary Filter posts by value sets
// @Tags posts
// @Accept json
// @Produce json
// @Param body body dto.FilteredPostsRequest true "Filters"
// @Success 200 {object} dto.FilteredPostsResponse
// @Router /filteredposts [post]
func (r *PostsRouter) filteredHandler(c echo.Context) error {
	var req dto.FilteredPostsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	page := pagination.OffsetRequest{Page: req.Page, Size: req.PageSize}
	page.Normalize(pagination.PageMaxSize)

	posts, err := r.store.List(c.Request().Context(), filter.Compile(filter.FilterSet{
		Colors:    req.Colors,
		Services:  req.Services,
		Locations: req.Locations,
		Countries: req.Countries,
		Other:     req.Other,
		Order:     filter.ParseOrder(req.Order),
		Page:      page,
	}))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.FilteredPostsResponse{Posts: posts})
}

// @Summary Get a post by slug
// @Tags posts
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} domain.Listing
// @Failure 404 {object} map[string]string
// @Router /posts/slug/{slug} [get]
func (r *PostsRouter) getBySlugHandler(c echo.Context) error {
	post, err := r.store.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// @Summary Get a post by id
// @Tags posts
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} domain.Listing
// @Failure 404 {object} map[string]string
// @Router /posts/{id} [get]
func (r *PostsRouter) getHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	post, err := r.store.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// createHandler godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.PostResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /posts/create [post]
func (r *PostsRouter) createHandler(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	var req dto.CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return apperr.NewValidation("title and content are required")
	}

	owner := who.ID
	if who.IsAdmin && req.UserID != nil {
		owner = *req.UserID
	}

	ctx := c.Request().Context()
	post, err := r.store.Create(ctx, domain.Listing{
		UserID:     owner,
		Title:      req.Title,
		Content:    req.Content,
		Location:   req.Location,
		Category:   req.Category,
		Color:      req.Color,
		Service:    req.Service,
		Country:    req.Country,
		Other:      req.Other,
		Images:     req.Images,
		Price:      req.Price,
		DaysListed: req.DaysListed,
		Expires:    req.Expires,
	})
	if err != nil {
		return err
	}

	r.stats.Invalidate(ctx)
	return c.JSON(http.StatusCreated, dto.PostResponse{Message: "Post created", Post: post})
}

// updateHandler godoc
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post id"
// @Param body body dto.UpdatePostRequest true "Fields to change"
// @Success 200 {object} dto.PostResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /posts/{id} [put]
func (r *PostsRouter) updateHandler(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return apperr.NewValidation("title must not be empty")
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return apperr.NewValidation("content must not be empty")
	}
	if s := req.PostStatus; s != nil && *s != domain.ListingStatusActive && *s != domain.ListingStatusExpired {
		return apperr.NewValidation("postStatus must be active or expired")
	}

	ctx := c.Request().Context()
	existing, err := r.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !who.CanActOn(existing.UserID) {
		return apperr.NewForbidden("you are not allowed to update this post")
	}

	post, err := r.store.Update(ctx, id, domain.ListingPatch{
		Title:      req.Title,
		Content:    req.Content,
		Location:   req.Location,
		Category:   req.Category,
		Color:      req.Color,
		Service:    req.Service,
		Country:    req.Country,
		Other:      req.Other,
		Images:     req.Images,
		Price:      req.Price,
		DaysListed: req.DaysListed,
		Expires:    req.Expires,
		Status:     req.PostStatus,
	})
	if err != nil {
		return err
	}

	r.stats.Invalidate(ctx)
	return c.JSON(http.StatusOK, dto.PostResponse{Message: "Post updated", Post: post})
}

// deleteHandler godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post id"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /posts/{id} [delete]
func (r *PostsRouter) deleteHandler(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	existing, err := r.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !who.CanActOn(existing.UserID) {
		return apperr.NewForbidden("you are not allowed to delete this post")
	}

	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}

	r.stats.Invalidate(ctx)
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Post deleted"})
}
