// Package badgerrepo is an embedded document store backed by BadgerDB.
//
// Documents are stored as JSON under collection-prefixed keys:
//
//	post/<postID>                     post document
//	comment/<commentID>               comment document
//	post-comment/<postID>/<commentID> index of a post's comments
//	user/<userID>                     cached user profile
//
// It serves single-node deployments and tests; production uses the postgres store.
package badgerrepo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path       string
	InMemory   bool
	SyncWrites bool
	Logger     *zap.Logger
}

// zapLogger adapts zap to BadgerDB's Logger interface.
type zapLogger struct {
	logger *zap.SugaredLogger
}

func (l *zapLogger) Errorf(format string, args ...interface{})   { l.logger.Errorf(format, args...) }
func (l *zapLogger) Warningf(format string, args ...interface{}) { l.logger.Warnf(format, args...) }
func (l *zapLogger) Infof(format string, args ...interface{})    { l.logger.Infof(format, args...) }
func (l *zapLogger) Debugf(format string, args ...interface{})   { l.logger.Debugf(format, args...) }

func Open(cfg Config) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&zapLogger{logger: cfg.Logger.Sugar()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	return db, nil
}

func New(db *badger.DB) *docstore.Store {
	return docstore.New(
		newPostRepo(db),
		newCommentRepo(db),
		newUserCacheRepo(db),
		db.Close,
	)
}

func postKey(id uuid.UUID) []byte {
	return []byte("post/" + id.String())
}

func commentKey(id uuid.UUID) []byte {
	return []byte("comment/" + id.String())
}

func postCommentsPrefix(postID uuid.UUID) []byte {
	return []byte("post-comment/" + postID.String() + "/")
}

func postCommentKey(postID, commentID uuid.UUID) []byte {
	return append(postCommentsPrefix(postID), commentID.String()...)
}

func userKey(id uuid.UUID) []byte {
	return []byte("user/" + id.String())
}

func getJSON(txn *badger.Txn, key []byte, v interface{}) error {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return docstore.ErrNotFound
		}
		return err
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return txn.Set(key, value)
}

const maxConflictRetries = 10

// update runs fn in a read-write transaction, retrying when badger reports
// that a concurrent transaction committed a conflicting write.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}
