package dto

import "github.com/google/uuid"

type CreateCommentRequest struct {
	PostID   uuid.UUID  `json:"post_id" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
	Content  string     `json:"content" binding:"required,min=1,max=5000"`
}
