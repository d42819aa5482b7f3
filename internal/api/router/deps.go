package router

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/auth"
	"github.com/letspunt/adpage/internal/domain"
	"github.com/letspunt/adpage/internal/filter"
	"github.com/letspunt/adpage/internal/objectstore"
	"github.com/letspunt/adpage/internal/search"
)

type SearchResolver interface {
	Resolve(ctx context.Context, q search.Query) (*search.ResultPage, error)
}

type ListingStore interface {
	Create(ctx context.Context, l domain.Listing) (domain.Listing, error)
	GetByID(ctx context.Context, id int64) (domain.Listing, error)
	GetBySlug(ctx context.Context, slug string) (domain.Listing, error)
	List(ctx context.Context, pred filter.CompiledPredicate) ([]domain.Listing, error)
	Update(ctx context.Context, id int64, p domain.ListingPatch) (domain.Listing, error)
	Delete(ctx context.Context, id int64) error
}

type ListingStats interface {
	Get(ctx context.Context, location string) (domain.ListingStats, error)
	Invalidate(ctx context.Context)
}

type CommentStore interface {
	Create(ctx context.Context, c domain.Comment) (domain.Comment, error)
	Get(ctx context.Context, id int64) (domain.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error)
	List(ctx context.Context, startIndex, limit int, ascending bool) ([]domain.Comment, error)
	Stats(ctx context.Context, now time.Time) (domain.CommentStats, error)
	UpdateContent(ctx context.Context, id int64, content string) (domain.Comment, error)
	Delete(ctx context.Context, id int64) error
	ToggleLike(ctx context.Context, id, userID int64) (domain.Comment, error)
}

type UserStore interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context, startIndex, limit int, ascending bool) ([]domain.User, error)
	Stats(ctx context.Context, now time.Time) (domain.UserStats, error)
	Update(ctx context.Context, id int64, p domain.UserPatch) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, folder string, img objectstore.Image) (string, error)
}

// windowSize is the fixed page length of the admin comment and user lists.
const windowSize = 9

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NewValidation("invalid " + name)
	}
	return id, nil
}

func caller(c echo.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, apperr.NewUnauthorized("missing bearer token")
	}
	return id, nil
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("malformed request body", err)
	}
	return nil
}
