package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/letspunt/adpage/internal/api/dto"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/domain"
	"github.com/letspunt/adpage/internal/filter"
	"github.com/letspunt/adpage/pkg/pagination"
)

type CommentsRouter struct {
	e            *echo.Echo
	store        CommentStore
	requireAuth  echo.MiddlewareFunc
	requireAdmin echo.MiddlewareFunc
}

func NewCommentsRouter(e *echo.Echo, store CommentStore, requireAuth, requireAdmin echo.MiddlewareFunc) *CommentsRouter {
	return &CommentsRouter{
		e:            e,
		store:        store,
		requireAuth:  requireAuth,
		requireAdmin: requireAdmin,
	}
}

func (r *CommentsRouter) Bind() {
	g := r.e.Group("/comments")
	g.POST("/create", r.createHandler, r.requireAuth)
	g.GET("/getComments", r.listHandler, r.requireAuth, r.requireAdmin)
	g.GET("/:postId", r.byPostHandler)
	g.PUT("/editComment/:commentId", r.editHandler, r.requireAuth)
	g.DELETE("/deleteComment/:commentId", r.deleteHandler, r.requireAuth)
	g.PUT("/likecomment/:commentId", r.likeHandler, r.requireAuth)
}

// @Summary Create a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} domain.Comment
// @Failure 403 {object} map[string]string
// @Router /comments/create [post]
func (r *CommentsRouter) createHandler(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	var req dto.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.UserID != who.ID {
		return apperr.NewForbidden("you are not allowed to create this comment")
	}
	if strings.TrimSpace(req.Content) == "" || req.PostID <= 0 {
		return apperr.NewValidation("content and postId are required")
	}

	comment, err := r.store.Create(c.Request().Context(), domain.Comment{
		Content: req.Content,
		PostID:  req.PostID,
		UserID:  who.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// @Summary List all comments
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param startIndex query int false "Offset" default(0)
// @Param sort query string false "asc or desc" default(desc)
// @Success 200 {object} dto.CommentsResponse
// @Router /comments/getComments [get]
func (r *CommentsRouter) listHandler(c echo.Context) error {
	ctx := c.Request().Context()
	start := pagination.ParseStartIndex(c.QueryParam("startIndex"))
	asc := filter.ParseOrder(c.QueryParam("sort")) == filter.OrderAsc

	comments, err := r.store.List(ctx, start, windowSize, asc)
	if err != nil {
		return err
	}
	stats, err := r.store.Stats(ctx, time.Now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CommentsResponse{Comments: comments, CommentStats: stats})
}

// @Summary Comments of a post
// @Tags comments
// @Produce json
// @Param postId path int true "Post id"
// @Success 200 {array} domain.Comment
// @Router /comments/{postId} [get]
func (r *CommentsRouter) byPostHandler(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}

	comments, err := r.store.ListByPost(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// ownedComment loads the comment and checks the caller may modify it.
func (r *CommentsRouter) ownedComment(c echo.Context) (int64, error) {
	who, err := caller(c)
	if err != nil {
		return 0, err
	}
	id, err := pathID(c, "commentId")
	if err != nil {
		return 0, err
	}

	existing, err := r.store.Get(c.Request().Context(), id)
	if err != nil {
		return 0, err
	}
	if !who.CanActOn(existing.UserID) {
		return 0, apperr.NewForbidden("you are not allowed to modify this comment")
	}
	return id, nil
}

// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment id"
// @Param body body dto.EditCommentRequest true "New content"
// @Success 200 {object} domain.Comment
// @Router /comments/editComment/{commentId} [put]
func (r *CommentsRouter) editHandler(c echo.Context) error {
	var req dto.EditCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Content) == "" {
		return apperr.NewValidation("content is required")
	}

	id, err := r.ownedComment(c)
	if err != nil {
		return err
	}

	comment, err := r.store.UpdateContent(c.Request().Context(), id, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment id"
// @Success 200 {object} dto.MessageResponse
// @Router /comments/deleteComment/{commentId} [delete]
func (r *CommentsRouter) deleteHandler(c echo.Context) error {
	id, err := r.ownedComment(c)
	if err != nil {
		return err
	}

	if err := r.store.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Comment has been deleted"})
}

// @Summary Like or unlike a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment id"
// @Success 200 {object} domain.Comment
// @Router /comments/likecomment/{commentId} [put]
func (r *CommentsRouter) likeHandler(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "commentId")
	if err != nil {
		return err
	}

	comment, err := r.store.ToggleLike(c.Request().Context(), id, who.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}
