package model

import "github.com/google/uuid"

type CachedUser struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
}

type UserAuthor struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}
