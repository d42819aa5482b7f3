package pg

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapErr translates pgx errors into the application taxonomy.
func mapErr(op, resource string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NewNotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.NewConflict(fmt.Sprintf("%s already exists", resource))
		case pgForeignKeyViolation:
			return apperr.NewNotFound("referenced " + pgErr.TableName)
		}
	}

	return apperr.NewDataStore(op, err)
}

const listingColumns = `id, user_id, title, content, slug, location, category, color, service, country,
	other, images, price, days_listed, expires, post_status, created_at, updated_at`

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Title,
		&l.Content,
		&l.Slug,
		&l.Location,
		&l.Category,
		&l.Color,
		&l.Service,
		&l.Country,
		&l.Other,
		&l.Images,
		&l.Price,
		&l.DaysListed,
		&l.Expires,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

const commentColumns = `id, content, post_id, user_id, likes, number_of_likes, created_at, updated_at`

func scanComment(row pgx.Row) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(
		&c.ID,
		&c.Content,
		&c.PostID,
		&c.UserID,
		&c.Likes,
		&c.NumberOfLikes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

const userColumns = `id, username, email, password, profile_picture, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Password,
		&u.ProfilePicture,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// collect scans every row with scan, closing rows when done.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
