package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	ListingStatusActive  = "active"
	ListingStatusExpired = "expired"

	ListingDefaultCategory = "uncategorized"
)

type Listing struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Slug       string     `json:"slug"`
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
	Status     string     `json:"postStatus"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// ListingPatch carries a partial update. Nil fields keep the stored value.
type ListingPatch struct {
	Title      *string
	Content    *string
	Location   *string
	Category   *string
	Color      *string
	Service    *string
	Country    *string
	Other      *string
	Images     []string
	Price      *float64
	DaysListed *int32
	Expires    *time.Time
	Status     *string
}

// ListingSummary is the projection returned by search.
type ListingSummary struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Location  *string   `json:"location"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	Score     *float64  `json:"score,omitempty"`
}

// ListingStats are the counters shown next to a listing page.
type ListingStats struct {
	TotalPosts                 int64 `json:"totalPosts"`
	TotalPostsByLocation       int64 `json:"totalPostsByLocation"`
	TotalActivePostsByLocation int64 `json:"totalActivePostsByLocation"`
	LastMonthPosts             int64 `json:"lastMonthPosts"`
}

var slugDisallowed = regexp.MustCompile(`[^a-z0-9-]`)

// Slugify derives a URL slug from a title: spaces become dashes, letters are
// lowercased and anything outside [a-z0-9-] is dropped.
func Slugify(title string) string {
	s := strings.ToLower(strings.Join(strings.Split(title, " "), "-"))
	return slugDisallowed.ReplaceAllString(s, "")
}
