package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/domain"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(pool *ConnectionPool) *UserStore {
	return &UserStore{db: pool.conn}
}

// Create inserts u. Password must already be hashed.
func (s *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ProfilePicture == "" {
		u.ProfilePicture = domain.DefaultProfilePicture
	}

	cmd := `
		INSERT INTO users (username, email, password, profile_picture, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created, err := scanUser(s.db.QueryRow(ctx, cmd,
		u.Username, u.Email, u.Password, u.ProfilePicture, u.IsAdmin))
	if err != nil {
		return domain.User{}, mapErr("insert user", "user", err)
	}
	return created, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return domain.User{}, mapErr("get user", "user", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return domain.User{}, mapErr("get user by email", "user", err)
	}
	return u, nil
}

func (s *UserStore) List(ctx context.Context, startIndex, limit int, ascending bool) ([]domain.User, error) {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at %s, id %s LIMIT $1 OFFSET $2`,
		userColumns, dir, dir)

	rows, err := s.db.Query(ctx, query, limit, startIndex)
	if err != nil {
		return nil, apperr.NewDataStore("list users", err)
	}

	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, apperr.NewDataStore("scan users", err)
	}
	return users, nil
}

func (s *UserStore) Stats(ctx context.Context, now time.Time) (domain.UserStats, error) {
	var st domain.UserStats
	err := s.db.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE created_at >= $1) FROM users`,
		now.AddDate(0, -1, 0),
	).Scan(&st.TotalUsers, &st.LastMonthUsers)
	if err != nil {
		return domain.UserStats{}, apperr.NewDataStore("user stats", err)
	}
	return st, nil
}

func (s *UserStore) Update(ctx context.Context, id int64, p domain.UserPatch) (domain.User, error) {
	cmd := `
		UPDATE users SET
			username        = COALESCE($2, username),
			email           = COALESCE($3, email),
			password        = COALESCE($4, password),
			profile_picture = COALESCE($5, profile_picture),
			is_admin        = COALESCE($6, is_admin),
			updated_at      = now()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, cmd, id, p.Username, p.Email, p.Password, p.ProfilePicture, p.IsAdmin))
	if err != nil {
		return domain.User{}, mapErr("update user", "user", err)
	}
	return u, nil
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete user", "user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("user")
	}
	return nil
}
