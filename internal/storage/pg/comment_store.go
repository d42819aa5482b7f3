package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/domain"
)

type CommentStore struct {
	db *pgxpool.Pool
}

func NewCommentStore(pool *ConnectionPool) *CommentStore {
	return &CommentStore{db: pool.conn}
}

func (s *CommentStore) Create(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	cmd := `
		INSERT INTO comments (content, post_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING ` + commentColumns

	created, err := scanComment(s.db.QueryRow(ctx, cmd, c.Content, c.PostID, c.UserID))
	if err != nil {
		return domain.Comment{}, mapErr("insert comment", "comment", err)
	}
	return created, nil
}

func (s *CommentStore) Get(ctx context.Context, id int64) (domain.Comment, error) {
	c, err := scanComment(s.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		return domain.Comment{}, mapErr("get comment", "comment", err)
	}
	return c, nil
}

// ListByPost returns the comments of a post, newest first.
func (s *CommentStore) ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY created_at DESC, id DESC`, postID)
	if err != nil {
		return nil, apperr.NewDataStore("list post comments", err)
	}

	comments, err := collect(rows, scanComment)
	if err != nil {
		return nil, apperr.NewDataStore("scan comments", err)
	}
	return comments, nil
}

// List returns a window of all comments ordered by creation time.
func (s *CommentStore) List(ctx context.Context, startIndex, limit int, ascending bool) ([]domain.Comment, error) {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	query := fmt.Sprintf(`SELECT %s FROM comments ORDER BY created_at %s, id %s LIMIT $1 OFFSET $2`,
		commentColumns, dir, dir)

	rows, err := s.db.Query(ctx, query, limit, startIndex)
	if err != nil {
		return nil, apperr.NewDataStore("list comments", err)
	}

	comments, err := collect(rows, scanComment)
	if err != nil {
		return nil, apperr.NewDataStore("scan comments", err)
	}
	return comments, nil
}

func (s *CommentStore) Stats(ctx context.Context, now time.Time) (domain.CommentStats, error) {
	var st domain.CommentStats
	err := s.db.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE created_at >= $1) FROM comments`,
		now.AddDate(0, -1, 0),
	).Scan(&st.TotalComments, &st.LastMonthComments)
	if err != nil {
		return domain.CommentStats{}, apperr.NewDataStore("comment stats", err)
	}
	return st, nil
}

func (s *CommentStore) UpdateContent(ctx context.Context, id int64, content string) (domain.Comment, error) {
	c, err := scanComment(s.db.QueryRow(ctx,
		`UPDATE comments SET content = $2, updated_at = now() WHERE id = $1 RETURNING `+commentColumns,
		id, content))
	if err != nil {
		return domain.Comment{}, mapErr("update comment", "comment", err)
	}
	return c, nil
}

func (s *CommentStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete comment", "comment", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("comment")
	}
	return nil
}

// ToggleLike adds or removes userID from the comment likes under a row lock.
func (s *CommentStore) ToggleLike(ctx context.Context, id, userID int64) (domain.Comment, error) {
	var out domain.Comment

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		c, err := scanComment(tx.QueryRow(ctx,
			`SELECT `+commentColumns+` FROM comments WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		c.ToggleLike(userID)

		out, err = scanComment(tx.QueryRow(ctx, `
			UPDATE comments SET likes = $2, number_of_likes = $3, updated_at = now()
			WHERE id = $1
			RETURNING `+commentColumns,
			id, c.Likes, c.NumberOfLikes))
		return err
	})
	if err != nil {
		return domain.Comment{}, mapErr("like comment", "comment", err)
	}
	return out, nil
}
