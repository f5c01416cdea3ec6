package postgres

import (
	"context"
	"errors"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// votesRepo implements docstore.Votable for any table with the vote columns.
type votesRepo struct {
	db    *pgxpool.Pool
	table string
}

func (r *votesRepo) FindVotes(ctx context.Context, id uuid.UUID) (*model.VoteState, error) {
	var state model.VoteState
	if err := r.db.QueryRow(
		ctx,
		"SELECT upvoters, downvoters, up_count, down_count, version FROM "+r.table+" WHERE id = $1",
		id,
	).Scan(
		&state.Votes.Upvoters,
		&state.Votes.Downvoters,
		&state.Votes.UpCount,
		&state.Votes.DownCount,
		&state.Version,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}

	return &state, nil
}

func (r *votesRepo) UpdateVotes(ctx context.Context, id uuid.UUID, votes model.Votes) error {
	tag, err := r.db.Exec(
		ctx,
		"UPDATE "+r.table+" SET upvoters = $1, downvoters = $2, up_count = $3, down_count = $4, version = version + 1 WHERE id = $5",
		nonNil(votes.Upvoters),
		nonNil(votes.Downvoters),
		votes.UpCount,
		votes.DownCount,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}

	return nil
}

func (r *votesRepo) CompareAndSwapVotes(ctx context.Context, id uuid.UUID, version int64, votes model.Votes) error {
	tag, err := r.db.Exec(
		ctx,
		"UPDATE "+r.table+" SET upvoters = $1, downvoters = $2, up_count = $3, down_count = $4, version = version + 1 WHERE id = $5 AND version = $6",
		nonNil(votes.Upvoters),
		nonNil(votes.Downvoters),
		votes.UpCount,
		votes.DownCount,
		id,
		version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM "+r.table+" WHERE id = $1)", id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return docstore.ErrNotFound
	}

	return docstore.ErrVersionConflict
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
