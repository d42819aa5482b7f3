package dto

import (
	"time"

	"github.com/letspunt/adpage/internal/domain"
)

type CreatePostRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Location   *string    `json:"location"`
	Category   string     `json:"category"`
	Color      *string    `json:"color"`
	Service    *string    `json:"service"`
	Country    *string    `json:"country"`
	Other      *string    `json:"other"`
	Images     []string   `json:"images"`
	Price      *float64   `json:"price"`
	DaysListed *int32     `json:"daysListed"`
	Expires    *time.Time `json:"expires"`
	// UserID is honoured only for admins.
	UserID *int64 `json:"userId"`
}

type UpdatePostRequest struct {
	Title      *string    `json:"title"`
	Content    *string    `json:"content"`
	Location   *string    `json:"location"`
	Category   *string    `json:"category"`
	Color      *string    `json:"color"`
	Service    *string    `json:"service"`
	Country    *string    `json:"country"`
	Other      *string    `json:"other"`
	Images     []string   `json:"images"`
	Price      *float64   `json:"price"`
	DaysListed *int32     `json:"daysListed"`
	Expires    *time.Time `json:"expires"`
	PostStatus *string    `json:"postStatus"`
}

type FilteredPostsRequest struct {
	Colors    []string `json:"colors"`
	Services  []string `json:"services"`
	Locations []string `json:"locations"`
	Countries []string `json:"countries"`
	Other     []string `json:"other"`
	Order     string   `json:"order"`
	Page      int      `json:"page"`
	PageSize  int      `json:"pageSize"`
}

type PostResponse struct {
	Message string         `json:"message,omitempty"`
	Post    domain.Listing `json:"post"`
}

type PostsResponse struct {
	Posts []domain.Listing `json:"posts"`
	domain.ListingStats
}

type FilteredPostsResponse struct {
	Posts []domain.Listing `json:"posts"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
