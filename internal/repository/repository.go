package repository

import (
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
)

type Repository struct {
	Store *docstore.Store
	Redis *redisrepo.RedisRepository
}

func New(store *docstore.Store, rdb *redis.Client) *Repository {
	return &Repository{
		Store: store,
		Redis: redisrepo.New(rdb),
	}
}
