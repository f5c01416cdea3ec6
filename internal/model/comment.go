package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID       uuid.UUID  `json:"id"`
	PostID   uuid.UUID  `json:"post_id"`
	ParentID *uuid.UUID `json:"parent_id"`
	AuthorID uuid.UUID  `json:"author_id"`
	Content  string     `json:"content"`
	Votes
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentNode is a top-level comment together with its direct replies.
// It is rebuilt from the flat comment collection on every read.
type CommentNode struct {
	Comment Comment       `json:"comment"`
	Replies []CommentNode `json:"replies"`
}
