package model

import "github.com/google/uuid"

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (t VoteType) Valid() bool {
	return t == VoteUp || t == VoteDown
}

type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Votes is the denormalized vote state of a post or comment.
// UpCount and DownCount always equal len(Upvoters) and len(Downvoters),
// and a user id never appears in both sets.
type Votes struct {
	Upvoters   []string `json:"upvoters"`
	Downvoters []string `json:"downvoters"`
	UpCount    int64    `json:"up_count"`
	DownCount  int64    `json:"down_count"`
}

// VoteState is a snapshot of an item's votes together with the version it was read at.
type VoteState struct {
	Votes   Votes
	Version int64
}

type VoteTarget struct {
	Kind TargetKind
	ID   uuid.UUID
}
