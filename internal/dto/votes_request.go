package dto

import "github.com/BloggingApp/social-service/internal/model"

type VoteRequest struct {
	Type model.VoteType `json:"type" binding:"required,votetype"`
}

type VoteResponse struct {
	Votes  model.Votes    `json:"votes"`
	MyVote model.VoteType `json:"my_vote"`
}
