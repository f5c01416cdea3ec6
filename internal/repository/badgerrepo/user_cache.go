package badgerrepo

import (
	"context"
	"fmt"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type userCacheRepo struct {
	db *badger.DB
}

func newUserCacheRepo(db *badger.DB) docstore.UserCache {
	return &userCacheRepo{
		db: db,
	}
}

func (r *userCacheRepo) Upsert(ctx context.Context, cachedUser model.CachedUser) error {
	return update(r.db, func(txn *badger.Txn) error {
		return setJSON(txn, userKey(cachedUser.ID), cachedUser)
	})
}

func (r *userCacheRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	if err := docstore.CheckUserUpdates(updates); err != nil {
		return err
	}

	return update(r.db, func(txn *badger.Txn) error {
		var user model.CachedUser
		if err := getJSON(txn, userKey(id), &user); err != nil {
			return err
		}

		for field, value := range updates {
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("field %s must be a string", field)
			}
			switch field {
			case "username":
				user.Username = str
			case "display_name":
				user.DisplayName = str
			}
		}

		return setJSON(txn, userKey(id), user)
	})
}

func (r *userCacheRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	var user model.CachedUser
	if err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &user)
	}); err != nil {
		return nil, err
	}

	return &user, nil
}
