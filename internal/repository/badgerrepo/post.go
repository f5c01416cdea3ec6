package badgerrepo

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type postRepo struct {
	votesRepo[model.Post]
}

func newPostRepo(db *badger.DB) docstore.Post {
	return &postRepo{
		votesRepo: votesRepo[model.Post]{
			db:  db,
			key: postKey,
			votes: func(p *model.Post) (*model.Votes, *int64) {
				return &p.Votes, &p.Version
			},
		},
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	post.CreatedAt = time.Now().UTC()
	post.Votes = model.Votes{}
	post.Version = 0

	if err := update(r.db, func(txn *badger.Txn) error {
		return setJSON(txn, postKey(post.ID), post)
	}); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, postKey(id), &post)
	}); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindLatest(ctx context.Context, limit int, offset int) ([]*model.Post, error) {
	docstore.MaxLimit(&limit)

	posts := []*model.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("post/")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post model.Post
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &post)
			}); err != nil {
				return err
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID.String() < posts[j].ID.String()
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(posts) {
		return []*model.Post{}, nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}

	return posts[offset:end], nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error {
	return update(r.db, func(txn *badger.Txn) error {
		var post model.Post
		if err := getJSON(txn, postKey(id), &post); err != nil {
			return err
		}
		if post.AuthorID != authorID {
			return docstore.ErrNotFound
		}
		return txn.Delete(postKey(id))
	})
}
