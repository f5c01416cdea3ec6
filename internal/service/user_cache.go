package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/rabbitmq"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/docstore"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type userCacheService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newUserCacheService(logger *zap.Logger, repo *repository.Repository) *userCacheService {
	return &userCacheService{
		logger: logger,
		repo:   repo,
	}
}

func (s *userCacheService) CreateOrUpdate(ctx context.Context, user model.CachedUser) error {
	if user.ID == uuid.Nil || user.Username == "" {
		return ErrInvalidArgument
	}

	if err := s.repo.Store.UserCache.Upsert(ctx, user); err != nil {
		s.logger.Sugar().Errorf("failed to upsert cached user(%s): %s", user.ID.String(), err.Error())
		return ErrBackendUnavailable
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserCacheKey(user.ID.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete cached user(%s) from redis: %s", user.ID.String(), err.Error())
	}

	return nil
}

func (s *userCacheService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if err := s.repo.Store.UserCache.Update(ctx, id, updates); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		if errors.Is(err, docstore.ErrFieldsNotAllowedToUpdate) {
			return fmt.Errorf("%w: %s", ErrInvalidArgument, err.Error())
		}
		s.logger.Sugar().Errorf("failed to update cached user(%s): %s", id.String(), err.Error())
		return ErrBackendUnavailable
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserCacheKey(id.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete cached user(%s) from redis: %s", id.String(), err.Error())
	}

	return nil
}

func (s *userCacheService) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	cachedUser, err := redisrepo.Get[model.CachedUser](s.repo.Redis.Default, ctx, redisrepo.UserCacheKey(id.String()))
	if err == nil && cachedUser != nil {
		return cachedUser, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get cached user(%s) from redis: %s", id.String(), err.Error())
	}

	user, err := s.repo.Store.UserCache.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}

		s.logger.Sugar().Errorf("failed to get cached user(%s) from store: %s", id.String(), err.Error())
		return nil, ErrBackendUnavailable
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserCacheKey(id.String()), user, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id.String(), err.Error())
	}

	return user, nil
}

// HandleUserUpdate applies a user-info-updated message: a JSON object with a
// "user_id" field and the changed profile fields.
func (s *userCacheService) HandleUserUpdate(ctx context.Context, body []byte) error {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, err.Error())
	}

	userIDString, ok := data["user_id"].(string)
	if !ok {
		return fmt.Errorf("%w: 'user_id' field is not provided", ErrInvalidArgument)
	}
	userID, err := uuid.Parse(userIDString)
	if err != nil {
		return fmt.Errorf("%w: provided an invalid user_id", ErrInvalidArgument)
	}

	delete(data, "user_id")

	return s.Update(ctx, userID, data)
}

func (s *Service) consumeUserUpdates(ctx context.Context, consumer Consumer) error {
	queue := rabbitmq.USER_INFO_UPDATED_QUEUE
	msgs, err := consumer.Consume(queue)
	if err != nil {
		return fmt.Errorf("start consuming queue(%s): %w", queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}

			err := s.UserCache.HandleUserUpdate(ctx, msg.Body)
			switch {
			case err == nil:
				msg.Ack(false)
			case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrNotFound):
				s.logger.Sugar().Errorf("dropping message in queue(%s): %s", queue, err.Error())
				msg.Nack(false, false)
			default:
				msg.Nack(false, true)
			}
		}
	}
}

// StartConsumeAll consumes every queue the service listens on until ctx is done.
func (s *Service) StartConsumeAll(ctx context.Context, consumer Consumer) error {
	return s.consumeUserUpdates(ctx, consumer)
}
