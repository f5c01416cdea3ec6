package dto

import "github.com/BloggingApp/social-service/internal/model"

type GetPost struct {
	Post   model.FullPost `json:"post"`
	MyVote model.VoteType `json:"my_vote"`
}
