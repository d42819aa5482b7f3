package router

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/letspunt/adpage/internal/api/dto"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/auth"
	"github.com/letspunt/adpage/internal/domain"
)

type AuthRouter struct {
	e      *echo.Echo
	users  UserStore
	tokens TokenIssuer
}

func NewAuthRouter(e *echo.Echo, users UserStore, tokens TokenIssuer) *AuthRouter {
	return &AuthRouter{
		e:      e,
		users:  users,
		tokens: tokens,
	}
}

func (r *AuthRouter) Bind() {
	g := r.e.Group("/auth")
	g.POST("/signup", r.signUpHandler)
	g.POST("/signin", r.signInHandler)
	g.POST("/google", r.googleHandler)
}

// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.SignUpRequest true "Credentials"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/signup [post]
func (r *AuthRouter) signUpHandler(c echo.Context) error {
	var req dto.SignUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperr.NewValidation("all fields are required")
	}
	if err := domain.ValidateUsername(req.Username); err != nil {
		return apperr.NewValidation(err.Error())
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return apperr.NewValidation(err.Error())
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user, err := r.users.Create(c.Request().Context(), domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.SignInRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} map[string]string
// @Router /auth/signin [post]
func (r *AuthRouter) signInHandler(c echo.Context) error {
	var req dto.SignInRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperr.NewValidation("all fields are required")
	}

	user, err := r.users.GetByEmail(c.Request().Context(), strings.TrimSpace(req.Email))
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return apperr.NewUnauthorized("invalid email or password")
	}
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return apperr.NewUnauthorized("invalid email or password")
	}

	return r.respondWithToken(c, http.StatusOK, user)
}

// @Summary Sign in with a Google profile
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.GoogleAuthRequest true "Google profile"
// @Success 200 {object} dto.AuthResponse
// @Router /auth/google [post]
func (r *AuthRouter) googleHandler(c echo.Context) error {
	var req dto.GoogleAuthRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return apperr.NewValidation("email is required")
	}

	ctx := c.Request().Context()
	user, err := r.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return r.respondWithToken(c, http.StatusOK, user)
	}
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		return err
	}

	password, err := auth.RandomPassword()
	if err != nil {
		return err
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user, err = r.users.Create(ctx, domain.User{
		Username:       usernameFromName(req.Name, req.Email),
		Email:          req.Email,
		Password:       hashed,
		ProfilePicture: req.GooglePhotoURL,
	})
	if err != nil {
		return err
	}
	return r.respondWithToken(c, http.StatusOK, user)
}

func (r *AuthRouter) respondWithToken(c echo.Context, status int, user domain.User) error {
	token, err := r.tokens.Issue(auth.Identity{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin})
	if err != nil {
		return err
	}
	return c.JSON(status, dto.AuthResponse{User: user, Token: token})
}

var nonUsernameChars = regexp.MustCompile(`[^a-z0-9]`)

// usernameFromName lowercases the display name, strips anything outside
// [a-z0-9] and appends four random digits.
func usernameFromName(name, email string) string {
	base := nonUsernameChars.ReplaceAllString(strings.ToLower(name), "")
	if base == "" {
		local, _, _ := strings.Cut(email, "@")
		base = nonUsernameChars.ReplaceAllString(strings.ToLower(local), "")
	}
	if len(base) < domain.UsernameMinLen-4 {
		base += "user"
	}
	if limit := domain.UsernameMaxLen - 4; len(base) > limit {
		base = base[:limit]
	}
	return fmt.Sprintf("%s%04d", base, rand.IntN(10000))
}
