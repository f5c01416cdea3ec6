package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID       uuid.UUID `json:"id"`
	AuthorID uuid.UUID `json:"author_id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Votes
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

type FullPost struct {
	Post   Post       `json:"post"`
	Author UserAuthor `json:"author"`
}
