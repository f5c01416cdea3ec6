package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepo struct {
	votesRepo
}

func newCommentRepo(db *pgxpool.Pool) docstore.Comment {
	return &commentRepo{
		votesRepo: votesRepo{db: db, table: "comments"},
	}
}

const commentColumns = "id, post_id, parent_id, author_id, content, upvoters, downvoters, up_count, down_count, version, created_at"

func scanComment(row pgx.Row) (*model.Comment, error) {
	var comment model.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.ParentID,
		&comment.AuthorID,
		&comment.Content,
		&comment.Upvoters,
		&comment.Downvoters,
		&comment.UpCount,
		&comment.DownCount,
		&comment.Version,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.CreatedAt = time.Now().UTC()
	comment.Votes = model.Votes{}
	comment.Version = 0

	if _, err := r.db.Exec(
		ctx,
		"INSERT INTO comments(id, post_id, parent_id, author_id, content, created_at) VALUES($1, $2, $3, $4, $5, $6)",
		comment.ID,
		comment.PostID,
		comment.ParentID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, err := scanComment(r.db.QueryRow(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}

	return comment, nil
}

func (r *commentRepo) FindPostComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT "+commentColumns+" FROM comments WHERE post_id = $1 ORDER BY created_at, id",
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*model.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}

		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepo) Delete(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1 AND author_id = $2", id, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}

	return nil
}

func (r *commentRepo) DeletePostComments(ctx context.Context, postID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM comments WHERE post_id = $1", postID)
	return err
}
