package dto

import "github.com/letspunt/adpage/internal/domain"

type CreateCommentRequest struct {
	Content string `json:"content"`
	PostID  int64  `json:"postId"`
	UserID  int64  `json:"userId"`
}

type EditCommentRequest struct {
	Content string `json:"content"`
}

type CommentsResponse struct {
	Comments []domain.Comment `json:"comments"`
	domain.CommentStats
}
