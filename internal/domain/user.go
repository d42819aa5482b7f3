package domain

import (
	"errors"
	"regexp"
	"time"
)

const (
	UsernameMinLen = 7
	UsernameMaxLen = 20
	PasswordMinLen = 6

	DefaultProfilePicture = "https://cdn.pixabay.com/photo/2015/10/05/22/37/blank-profile-picture-973460_1280.png"
)

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	ProfilePicture string    `json:"profilePicture"`
	IsAdmin        bool      `json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserPatch carries a partial update. Nil fields keep the stored value.
type UserPatch struct {
	Username       *string
	Email          *string
	Password       *string
	ProfilePicture *string
	IsAdmin        *bool
}

type UserStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	LastMonthUsers int64 `json:"lastMonthUsers"`
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9]+$`)

// ValidateUsername returns a user facing reason when name is not acceptable.
func ValidateUsername(name string) error {
	switch {
	case len(name) < UsernameMinLen || len(name) > UsernameMaxLen:
		return errors.New("username must be between 7 and 20 characters")
	case !usernamePattern.MatchString(name):
		return errors.New("username can only contain lowercase letters and numbers")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < PasswordMinLen {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}
