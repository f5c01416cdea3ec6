// Package ledger computes vote state transitions for posts and comments.
package ledger

import (
	"errors"
	"slices"

	"github.com/BloggingApp/social-service/internal/model"
)

var (
	ErrInvalidVoteType = errors.New("vote type must be up or down")
	ErrEmptyUserID     = errors.New("user id is required")
)

// Apply returns the vote state after userID casts a vote of type t.
//
// Voting the same way twice retracts the vote. Voting the other way moves the
// user from the opposite set. The input is not modified.
func Apply(votes model.Votes, userID string, t model.VoteType) (model.Votes, error) {
	if !t.Valid() {
		return votes, ErrInvalidVoteType
	}
	if userID == "" {
		return votes, ErrEmptyUserID
	}

	next := model.Votes{
		Upvoters:   slices.Clone(votes.Upvoters),
		Downvoters: slices.Clone(votes.Downvoters),
		UpCount:    votes.UpCount,
		DownCount:  votes.DownCount,
	}

	same, sameCount := &next.Upvoters, &next.UpCount
	opposite, oppositeCount := &next.Downvoters, &next.DownCount
	if t == model.VoteDown {
		same, sameCount, opposite, oppositeCount = opposite, oppositeCount, same, sameCount
	}

	if slices.Contains(*same, userID) {
		*same = without(*same, userID)
		*sameCount--
		return next, nil
	}

	*same = append(*same, userID)
	*sameCount++

	if slices.Contains(*opposite, userID) {
		*opposite = without(*opposite, userID)
		*oppositeCount--
	}

	return next, nil
}

func without(ids []string, id string) []string {
	ids = slices.DeleteFunc(ids, func(v string) bool { return v == id })
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// Current reports how userID has voted on the item, or "" if it has not.
func Current(votes model.Votes, userID string) model.VoteType {
	switch {
	case slices.Contains(votes.Upvoters, userID):
		return model.VoteUp
	case slices.Contains(votes.Downvoters, userID):
		return model.VoteDown
	}
	return ""
}
