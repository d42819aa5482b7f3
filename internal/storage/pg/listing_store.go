package pg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/domain"
	"github.com/letspunt/adpage/internal/filter"
)

type ListingStore struct {
	db *pgxpool.Pool
}

func NewListingStore(pool *ConnectionPool) *ListingStore {
	return &ListingStore{db: pool.conn}
}

func (s *ListingStore) Create(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	if l.Slug == "" {
		l.Slug = domain.Slugify(l.Title)
	}
	if l.Category == "" {
		l.Category = domain.ListingDefaultCategory
	}
	if l.Status == "" {
		l.Status = domain.ListingStatusActive
	}
	if l.Images == nil {
		l.Images = []string{}
	}

	cmd := `
		INSERT INTO posts (user_id, title, content, slug, location, category, color, service, country,
			other, images, price, days_listed, expires, post_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + listingColumns

	created, err := scanListing(s.db.QueryRow(ctx, cmd,
		l.UserID,
		l.Title,
		l.Content,
		l.Slug,
		l.Location,
		l.Category,
		l.Color,
		l.Service,
		l.Country,
		l.Other,
		l.Images,
		l.Price,
		l.DaysListed,
		l.Expires,
		l.Status,
	))
	if err != nil {
		return domain.Listing{}, mapErr("insert post", "post", err)
	}

	slog.Debug("Created post", "id", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *ListingStore) GetByID(ctx context.Context, id int64) (domain.Listing, error) {
	l, err := scanListing(s.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM posts WHERE id = $1`, id))
	if err != nil {
		return domain.Listing{}, mapErr("get post", "post", err)
	}
	return l, nil
}

func (s *ListingStore) GetBySlug(ctx context.Context, slug string) (domain.Listing, error) {
	l, err := scanListing(s.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM posts WHERE slug = $1`, slug))
	if err != nil {
		return domain.Listing{}, mapErr("get post by slug", "post", err)
	}
	return l, nil
}

// List fetches the page of posts selected by a compiled filter.
func (s *ListingStore) List(ctx context.Context, pred filter.CompiledPredicate) ([]domain.Listing, error) {
	if err := pred.Validate(); err != nil {
		return nil, fmt.Errorf("refusing malformed predicate: %w", err)
	}

	stmt := pred.Statement(`SELECT ` + listingColumns + ` FROM posts WHERE 1=1`)
	slog.Debug("Executing pg filtered listing", "clause", pred.ClauseText, "params", len(pred.OrderedParams))

	rows, err := s.db.Query(ctx, stmt, pred.OrderedParams...)
	if err != nil {
		return nil, apperr.NewDataStore("list posts", err)
	}

	listings, err := collect(rows, scanListing)
	if err != nil {
		return nil, apperr.NewDataStore("scan posts", err)
	}
	return listings, nil
}

// Update applies patch. The slug is recomputed only when the title changes.
func (s *ListingStore) Update(ctx context.Context, id int64, p domain.ListingPatch) (domain.Listing, error) {
	var newSlug *string
	if p.Title != nil {
		slug := domain.Slugify(*p.Title)
		newSlug = &slug
	}

	cmd := `
		UPDATE posts SET
			slug        = CASE WHEN $2::text IS NOT NULL AND $2::text <> title THEN $3 ELSE slug END,
			title       = COALESCE($2, title),
			content     = COALESCE($4, content),
			location    = COALESCE($5, location),
			category    = COALESCE($6, category),
			color       = COALESCE($7, color),
			service     = COALESCE($8, service),
			country     = COALESCE($9, country),
			other       = COALESCE($10, other),
			images      = COALESCE($11, images),
			price       = COALESCE($12, price),
			days_listed = COALESCE($13, days_listed),
			expires     = COALESCE($14, expires),
			post_status = COALESCE($15, post_status),
			updated_at  = now()
		WHERE id = $1
		RETURNING ` + listingColumns

	updated, err := scanListing(s.db.QueryRow(ctx, cmd,
		id,
		p.Title,
		newSlug,
		p.Content,
		p.Location,
		p.Category,
		p.Color,
		p.Service,
		p.Country,
		p.Other,
		p.Images,
		p.Price,
		p.DaysListed,
		p.Expires,
		p.Status,
	))
	if err != nil {
		return domain.Listing{}, mapErr("update post", "post", err)
	}
	return updated, nil
}

func (s *ListingStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete post", "post", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("post")
	}
	return nil
}

// Stats computes the listing counters. An empty location counts every post.
func (s *ListingStore) Stats(ctx context.Context, location string, now time.Time) (domain.ListingStats, error) {
	query := `
		SELECT
			count(*),
			count(*) FILTER (WHERE $1::text = '' OR location = $1),
			count(*) FILTER (WHERE ($1::text = '' OR location = $1) AND post_status = $2),
			count(*) FILTER (WHERE created_at >= $3)
		FROM posts`

	var st domain.ListingStats
	err := s.db.QueryRow(ctx, query, location, domain.ListingStatusActive, now.AddDate(0, -1, 0)).Scan(
		&st.TotalPosts,
		&st.TotalPostsByLocation,
		&st.TotalActivePostsByLocation,
		&st.LastMonthPosts,
	)
	if err != nil {
		return domain.ListingStats{}, apperr.NewDataStore("post stats", err)
	}
	return st, nil
}

// ExpireOverdue marks active posts whose expiry is before now as expired and
// returns how many changed.
func (s *ListingStore) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE posts
		SET post_status = $1, updated_at = now()
		WHERE post_status = $2 AND expires IS NOT NULL AND expires < $3`,
		domain.ListingStatusExpired, domain.ListingStatusActive, now)
	if err != nil {
		return 0, apperr.NewDataStore("expire posts", err)
	}
	return tag.RowsAffected(), nil
}
