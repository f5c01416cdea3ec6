package badgerrepo

import (
	"context"
	"errors"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// votesRepo implements docstore.Votable over documents of type D.
type votesRepo[D any] struct {
	db    *badger.DB
	key   func(uuid.UUID) []byte
	votes func(doc *D) (*model.Votes, *int64)
}

func (r *votesRepo[D]) FindVotes(ctx context.Context, id uuid.UUID) (*model.VoteState, error) {
	var state model.VoteState
	err := r.db.View(func(txn *badger.Txn) error {
		var doc D
		if err := getJSON(txn, r.key(id), &doc); err != nil {
			return err
		}
		votes, version := r.votes(&doc)
		state = model.VoteState{Votes: *votes, Version: *version}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &state, nil
}

func (r *votesRepo[D]) UpdateVotes(ctx context.Context, id uuid.UUID, votes model.Votes) error {
	return update(r.db, func(txn *badger.Txn) error {
		var doc D
		if err := getJSON(txn, r.key(id), &doc); err != nil {
			return err
		}
		current, version := r.votes(&doc)
		*current = votes
		*version++
		return setJSON(txn, r.key(id), &doc)
	})
}

func (r *votesRepo[D]) CompareAndSwapVotes(ctx context.Context, id uuid.UUID, version int64, votes model.Votes) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		var doc D
		if err := getJSON(txn, r.key(id), &doc); err != nil {
			return err
		}
		current, stored := r.votes(&doc)
		if *stored != version {
			return docstore.ErrVersionConflict
		}
		*current = votes
		*stored++
		return setJSON(txn, r.key(id), &doc)
	})
	if errors.Is(err, badger.ErrConflict) {
		return docstore.ErrVersionConflict
	}

	return err
}
