package service

import (
	"context"

	"github.com/BloggingApp/social-service/internal/config"
	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/live"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error)
	List(ctx context.Context, limit int, offset int) ([]*model.FullPost, error)
	Delete(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error
}

type Comment interface {
	Create(ctx context.Context, authorID uuid.UUID, req dto.CreateCommentRequest) (*model.Comment, error)
	// Tree returns the post's comments grouped into top-level comments with their replies.
	Tree(ctx context.Context, postID uuid.UUID) ([]model.CommentNode, error)
	Delete(ctx context.Context, postID uuid.UUID, commentID uuid.UUID, authorID uuid.UUID) error
}

type Vote interface {
	Vote(ctx context.Context, target model.VoteTarget, userID uuid.UUID, voteType model.VoteType) (*model.Votes, error)
}

type UserCache interface {
	CreateOrUpdate(ctx context.Context, user model.CachedUser) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	HandleUserUpdate(ctx context.Context, body []byte) error
}

type Live interface {
	WatchFeed(ctx context.Context) (*live.Watch[[]*model.FullPost], error)
	WatchComments(ctx context.Context, postID uuid.UUID) (*live.Watch[[]model.CommentNode], error)
}

// EventPublisher sends domain events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, queue string, v interface{}) error
}

type Consumer interface {
	Consume(queue string) (<-chan amqp.Delivery, error)
}

type Service struct {
	Post
	Comment
	Vote
	UserCache
	Live
	logger *zap.Logger
}

type Deps struct {
	Logger    *zap.Logger
	Repo      *repository.Repository
	Broker    live.Broker
	Publisher EventPublisher
	Votes     config.VotesConfig
}

func New(deps Deps) *Service {
	if deps.Publisher == nil {
		deps.Publisher = nopPublisher{}
	}

	n := &notifier{logger: deps.Logger, broker: deps.Broker, publisher: deps.Publisher}
	users := newUserCacheService(deps.Logger, deps.Repo)
	posts := newPostService(deps.Logger, deps.Repo, n, users)
	comments := newCommentService(deps.Logger, deps.Repo, n)

	return &Service{
		Post:      posts,
		Comment:   comments,
		Vote:      newVoteService(deps.Logger, deps.Repo, n, deps.Votes),
		UserCache: users,
		Live:      newLiveService(deps.Logger, deps.Broker, posts, comments),
		logger:    deps.Logger,
	}
}
