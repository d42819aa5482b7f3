package dto

import "github.com/letspunt/adpage/internal/domain"

type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleAuthRequest struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	GooglePhotoURL string `json:"googlePhotoUrl"`
}

type AuthResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

type UpdateUserRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	ProfilePicture *string `json:"profilePicture"`
	IsAdmin        *bool   `json:"isAdmin"`
}

type UpdateEmailRequest struct {
	Email string `json:"email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UsersResponse struct {
	Users []domain.User `json:"users"`
	domain.UserStats
}

type UploadResponse struct {
	URL  string       `json:"url"`
	User *domain.User `json:"user,omitempty"`
}
