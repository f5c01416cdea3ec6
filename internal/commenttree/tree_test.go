package commenttree

import (
	"testing"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func comment(id uuid.UUID, parent *uuid.UUID) model.Comment {
	return model.Comment{ID: id, ParentID: parent, Content: id.String()}
}

func TestBuildEmpty(t *testing.T) {
	forest := Build(nil)
	require.NotNil(t, forest)
	assert.Empty(t, forest)

	assert.Empty(t, Build([]model.Comment{}))
}

func TestBuildGroupsDirectRepliesAndDropsOrphans(t *testing.T) {
	id := ids(4)
	missing := uuid.New()

	forest := Build([]model.Comment{
		comment(id[0], nil),
		comment(id[1], &id[0]),
		comment(id[2], &id[0]),
		comment(id[3], &missing),
	})

	require.Len(t, forest, 1)
	assert.Equal(t, id[0], forest[0].Comment.ID)
	require.Len(t, forest[0].Replies, 2)
	assert.Equal(t, id[1], forest[0].Replies[0].Comment.ID)
	assert.Equal(t, id[2], forest[0].Replies[1].Comment.ID)
	assert.Equal(t, 3, Count(forest))
}

func TestBuildKeepsInputOrder(t *testing.T) {
	id := ids(5)

	forest := Build([]model.Comment{
		comment(id[2], &id[1]),
		comment(id[1], nil),
		comment(id[3], &id[0]),
		comment(id[0], nil),
		comment(id[4], &id[1]),
	})

	require.Len(t, forest, 2)
	assert.Equal(t, id[1], forest[0].Comment.ID)
	assert.Equal(t, id[0], forest[1].Comment.ID)

	require.Len(t, forest[0].Replies, 2)
	assert.Equal(t, id[2], forest[0].Replies[0].Comment.ID)
	assert.Equal(t, id[4], forest[0].Replies[1].Comment.ID)

	require.Len(t, forest[1].Replies, 1)
	assert.Equal(t, id[3], forest[1].Replies[0].Comment.ID)
}

func TestBuildDoesNotNestGrandchildren(t *testing.T) {
	id := ids(3)

	forest := Build([]model.Comment{
		comment(id[0], nil),
		comment(id[1], &id[0]),
		comment(id[2], &id[1]),
	})

	require.Len(t, forest, 1)
	require.Len(t, forest[0].Replies, 1)
	assert.Empty(t, forest[0].Replies[0].Replies)
	assert.Equal(t, 2, Count(forest))
}

func TestBuildIsDeterministic(t *testing.T) {
	id := ids(4)
	records := []model.Comment{
		comment(id[0], nil),
		comment(id[1], &id[0]),
		comment(id[2], nil),
		comment(id[3], &id[2]),
	}

	assert.Equal(t, Build(records), Build(records))
}
