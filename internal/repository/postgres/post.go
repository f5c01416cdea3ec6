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

type postRepo struct {
	votesRepo
}

func newPostRepo(db *pgxpool.Pool) docstore.Post {
	return &postRepo{
		votesRepo: votesRepo{db: db, table: "posts"},
	}
}

const postColumns = "id, author_id, title, content, upvoters, downvoters, up_count, down_count, version, created_at"

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	if err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.Upvoters,
		&post.Downvoters,
		&post.UpCount,
		&post.DownCount,
		&post.Version,
		&post.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	post.CreatedAt = time.Now().UTC()
	post.Votes = model.Votes{}
	post.Version = 0

	if _, err := r.db.Exec(
		ctx,
		"INSERT INTO posts(id, author_id, title, content, created_at) VALUES($1, $2, $3, $4, $5)",
		post.ID,
		post.AuthorID,
		post.Title,
		post.Content,
		post.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}

	return post, nil
}

func (r *postRepo) FindLatest(ctx context.Context, limit int, offset int) ([]*model.Post, error) {
	docstore.MaxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		"SELECT "+postColumns+" FROM posts ORDER BY created_at DESC, id LIMIT $1 OFFSET $2",
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1 AND author_id = $2", id, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}

	return nil
}
