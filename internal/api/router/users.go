package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/letspunt/adpage/internal/api/dto"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/auth"
	"github.com/letspunt/adpage/internal/domain"
	"github.com/letspunt/adpage/internal/filter"
	"github.com/letspunt/adpage/pkg/pagination"
)

type UsersRouter struct {
	e            *echo.Echo
	store        UserStore
	requireAuth  echo.MiddlewareFunc
	requireAdmin echo.MiddlewareFunc
}

func NewUsersRouter(e *echo.Echo, store UserStore, requireAuth, requireAdmin echo.MiddlewareFunc) *UsersRouter {
	return &UsersRouter{
		e:            e,
		store:        store,
		requireAuth:  requireAuth,
		requireAdmin: requireAdmin,
	}
}

func (r *UsersRouter) Bind() {
	g := r.e.Group("/users")
	g.GET("", r.listHandler, r.requireAuth, r.requireAdmin)
	g.GET("/:userId", r.getHandler)
	g.PUT("/:userId", r.updateHandler, r.requireAuth)
	g.DELETE("/:userId", r.deleteHandler, r.requireAuth)
	g.PATCH("/:userId/email", r.updateEmailHandler, r.requireAuth)
	g.PATCH("/:userId/password", r.updatePasswordHandler, r.requireAuth)
}

// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param startIndex query int false "Offset" default(0)
// @Param sort query string false "asc or desc" default(desc)
// @Success 200 {object} dto.UsersResponse
// @Router /users [get]
func (r *UsersRouter) listHandler(c echo.Context) error {
	ctx := c.Request().Context()
	start := pagination.ParseStartIndex(c.QueryParam("startIndex"))
	asc := filter.ParseOrder(c.QueryParam("sort")) == filter.OrderAsc

	users, err := r.store.List(ctx, start, windowSize, asc)
	if err != nil {
		return err
	}
	stats, err := r.store.Stats(ctx, time.Now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.UsersResponse{Users: users, UserStats: stats})
}

// @Summary Get a user
// @Tags users
// @Produce json
// @Param userId path int true "User id"
// @Success 200 {object} domain.User
// @Failure 404 {object} map[string]string
// @Router /users/{userId} [get]
func (r *UsersRouter) getHandler(c echo.Context) error {
	id, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	user, err := r.store.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// targetUser resolves the path user and checks the caller may modify it.
func targetUser(c echo.Context) (auth.Identity, int64, error) {
	who, err := caller(c)
	if err != nil {
		return auth.Identity{}, 0, err
	}
	id, err := pathID(c, "userId")
	if err != nil {
		return auth.Identity{}, 0, err
	}
	if !who.CanActOn(id) {
		return auth.Identity{}, 0, apperr.NewForbidden("you are not allowed to modify this user")
	}
	return who, id, nil
}

// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Param body body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} domain.User
// @Router /users/{userId} [put]
func (r *UsersRouter) updateHandler(c echo.Context) error {
	who, id, err := targetUser(c)
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.IsAdmin != nil && !who.IsAdmin {
		return apperr.NewForbidden("only admins can change admin rights")
	}
	if req.Username != nil {
		if err := domain.ValidateUsername(*req.Username); err != nil {
			return apperr.NewValidation(err.Error())
		}
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		return apperr.NewValidation("email must not be empty")
	}

	patch := domain.UserPatch{
		Username:       req.Username,
		Email:          req.Email,
		ProfilePicture: req.ProfilePicture,
		IsAdmin:        req.IsAdmin,
	}
	if req.Password != nil {
		if err := domain.ValidatePassword(*req.Password); err != nil {
			return apperr.NewValidation(err.Error())
		}
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return err
		}
		patch.Password = &hashed
	}

	user, err := r.store.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Success 200 {object} dto.MessageResponse
// @Router /users/{userId} [delete]
func (r *UsersRouter) deleteHandler(c echo.Context) error {
	_, id, err := targetUser(c)
	if err != nil {
		return err
	}

	if err := r.store.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "User has been deleted"})
}

// @Summary Change email
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Param body body dto.UpdateEmailRequest true "New email"
// @Success 200 {object} domain.User
// @Router /users/{userId}/email [patch]
func (r *UsersRouter) updateEmailHandler(c echo.Context) error {
	_, id, err := targetUser(c)
	if err != nil {
		return err
	}

	var req dto.UpdateEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return apperr.NewValidation("email is required")
	}

	user, err := r.store.Update(c.Request().Context(), id, domain.UserPatch{Email: &email})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Param body body dto.UpdatePasswordRequest true "Passwords"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} map[string]string
// @Router /users/{userId}/password [patch]
func (r *UsersRouter) updatePasswordHandler(c echo.Context) error {
	who, id, err := targetUser(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return apperr.NewValidation(err.Error())
	}

	ctx := c.Request().Context()
	if who.ID == id {
		current, err := r.store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !auth.CheckPassword(current.Password, req.CurrentPassword) {
			return apperr.NewUnauthorized("current password is incorrect")
		}
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if _, err := r.store.Update(ctx, id, domain.UserPatch{Password: &hashed}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password updated"})
}
