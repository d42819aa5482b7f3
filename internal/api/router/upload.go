package router

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/letspunt/adpage/internal/api/dto"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/domain"
	"github.com/letspunt/adpage/internal/objectstore"
)

type UploadRouter struct {
	e           *echo.Echo
	uploader    ImageUploader
	users       UserStore
	requireAuth echo.MiddlewareFunc
}

func NewUploadRouter(e *echo.Echo, uploader ImageUploader, users UserStore, requireAuth echo.MiddlewareFunc) *UploadRouter {
	return &UploadRouter{
		e:           e,
		uploader:    uploader,
		users:       users,
		requireAuth: requireAuth,
	}
}

func (r *UploadRouter) Bind() {
	g := r.e.Group("/s3", r.requireAuth)
	g.POST("/upload", r.uploadHandler)
	g.POST("/avatar", r.avatarHandler)
}

func readImage(c echo.Context, field string) (objectstore.Image, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return objectstore.Image{}, apperr.NewValidationWrap("no file uploaded in field "+field, err)
	}
	if fh.Size > objectstore.MaxImageSize {
		return objectstore.Image{}, apperr.NewValidation("file exceeds the 5MB limit")
	}

	f, err := fh.Open()
	if err != nil {
		return objectstore.Image{}, apperr.NewValidationWrap("unreadable upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, objectstore.MaxImageSize+1))
	if err != nil {
		return objectstore.Image{}, apperr.NewValidationWrap("unreadable upload", err)
	}
	return objectstore.NewImage(data)
}

// @Summary Upload a listing image
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image (jpeg, png, gif up to 5MB)"
// @Success 200 {object} dto.UploadResponse
// @Router /s3/upload [post]
func (r *UploadRouter) uploadHandler(c echo.Context) error {
	img, err := readImage(c, "image")
	if err != nil {
		return err
	}

	url, err := r.uploader.Upload(c.Request().Context(), "posts", img)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.UploadResponse{URL: url})
}

// @Summary Upload the caller's avatar
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Image (jpeg, png, gif up to 5MB)"
// @Success 200 {object} dto.UploadResponse
// @Router /s3/avatar [post]
func (r *UploadRouter) avatarHandler(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	img, err := readImage(c, "avatar")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	url, err := r.uploader.Upload(ctx, "avatars", img)
	if err != nil {
		return err
	}

	user, err := r.users.Update(ctx, who.ID, domain.UserPatch{ProfilePicture: &url})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.UploadResponse{URL: url, User: &user})
}
