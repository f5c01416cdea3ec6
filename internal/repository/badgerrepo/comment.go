package badgerrepo

import (
	"context"
	"sort"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type commentRepo struct {
	votesRepo[model.Comment]
}

func newCommentRepo(db *badger.DB) docstore.Comment {
	return &commentRepo{
		votesRepo: votesRepo[model.Comment]{
			db:  db,
			key: commentKey,
			votes: func(c *model.Comment) (*model.Votes, *int64) {
				return &c.Votes, &c.Version
			},
		},
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.CreatedAt = time.Now().UTC()
	comment.Votes = model.Votes{}
	comment.Version = 0

	if err := update(r.db, func(txn *badger.Txn) error {
		if err := setJSON(txn, commentKey(comment.ID), comment); err != nil {
			return err
		}
		return txn.Set(postCommentKey(comment.PostID, comment.ID), []byte{})
	}); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, commentKey(id), &comment)
	}); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindPostComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	comments := []*model.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		ids, err := postCommentIDs(txn, postID)
		if err != nil {
			return err
		}

		for _, id := range ids {
			var comment model.Comment
			if err := getJSON(txn, commentKey(id), &comment); err != nil {
				return err
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID.String() < comments[j].ID.String()
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	return comments, nil
}

func postCommentIDs(txn *badger.Txn, postID uuid.UUID) ([]uuid.UUID, error) {
	prefix := postCommentsPrefix(postID)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []uuid.UUID
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		id, err := uuid.Parse(string(it.Item().Key()[len(prefix):]))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *commentRepo) Delete(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error {
	return update(r.db, func(txn *badger.Txn) error {
		var comment model.Comment
		if err := getJSON(txn, commentKey(id), &comment); err != nil {
			return err
		}
		if comment.AuthorID != authorID {
			return docstore.ErrNotFound
		}
		if err := txn.Delete(commentKey(id)); err != nil {
			return err
		}
		return txn.Delete(postCommentKey(comment.PostID, id))
	})
}

func (r *commentRepo) DeletePostComments(ctx context.Context, postID uuid.UUID) error {
	return update(r.db, func(txn *badger.Txn) error {
		ids, err := postCommentIDs(txn, postID)
		if err != nil {
			return err
		}

		for _, id := range ids {
			if err := txn.Delete(commentKey(id)); err != nil {
				return err
			}
			if err := txn.Delete(postCommentKey(postID, id)); err != nil {
				return err
			}
		}
		return nil
	})
}
