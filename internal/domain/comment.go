package domain

import "time"

type Comment struct {
	ID            int64     `json:"id"`
	Content       string    `json:"content"`
	PostID        int64     `json:"postId"`
	UserID        int64     `json:"userId"`
	Likes         []int64   `json:"likes"`
	NumberOfLikes int32     `json:"numberOfLikes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToggleLike adds userID to the likers or removes it when already present,
// keeping NumberOfLikes in step with Likes.
func (c *Comment) ToggleLike(userID int64) {
	for i, id := range c.Likes {
		if id == userID {
			c.Likes = append(c.Likes[:i], c.Likes[i+1:]...)
			c.NumberOfLikes = int32(len(c.Likes))
			return
		}
	}
	c.Likes = append(c.Likes, userID)
	c.NumberOfLikes = int32(len(c.Likes))
}

type CommentStats struct {
	TotalComments     int64 `json:"totalComments"`
	LastMonthComments int64 `json:"lastMonthComments"`
}
