package ledger

import (
	"testing"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consistent(t *testing.T, v model.Votes) {
	t.Helper()
	assert.Equal(t, int64(len(v.Upvoters)), v.UpCount)
	assert.Equal(t, int64(len(v.Downvoters)), v.DownCount)
	for _, id := range v.Upvoters {
		assert.NotContains(t, v.Downvoters, id)
	}
}

func TestApplyUpvote(t *testing.T) {
	next, err := Apply(model.Votes{}, "alice", model.VoteUp)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, next.Upvoters)
	assert.Empty(t, next.Downvoters)
	assert.Equal(t, int64(1), next.UpCount)
	assert.Equal(t, int64(0), next.DownCount)
}

func TestApplyToggleRestoresBaseline(t *testing.T) {
	base := model.Votes{
		Upvoters:   []string{"bob"},
		Downvoters: []string{"carol"},
		UpCount:    1,
		DownCount:  1,
	}

	for _, vt := range []model.VoteType{model.VoteUp, model.VoteDown} {
		once, err := Apply(base, "alice", vt)
		require.NoError(t, err)
		twice, err := Apply(once, "alice", vt)
		require.NoError(t, err)

		assert.Equal(t, base, twice, "vote type %s", vt)
	}
}

func TestApplyToggleFromEmpty(t *testing.T) {
	once, err := Apply(model.Votes{}, "alice", model.VoteDown)
	require.NoError(t, err)
	twice, err := Apply(once, "alice", model.VoteDown)
	require.NoError(t, err)

	assert.Equal(t, model.Votes{}, twice)
}

func TestApplySwitchUpToDown(t *testing.T) {
	item := model.Votes{
		Upvoters:   []string{"alice", "bob"},
		Downvoters: []string{"carol"},
		UpCount:    2,
		DownCount:  1,
	}

	next, err := Apply(item, "alice", model.VoteDown)
	require.NoError(t, err)

	assert.Equal(t, []string{"bob"}, next.Upvoters)
	assert.ElementsMatch(t, []string{"carol", "alice"}, next.Downvoters)
	assert.Equal(t, item.UpCount-1, next.UpCount)
	assert.Equal(t, item.DownCount+1, next.DownCount)
	consistent(t, next)
}

func TestApplyMutualExclusionOverAlternatingSequence(t *testing.T) {
	seq := []model.VoteType{
		model.VoteUp, model.VoteDown, model.VoteDown, model.VoteUp,
		model.VoteUp, model.VoteDown, model.VoteUp, model.VoteDown,
	}

	votes := model.Votes{Upvoters: []string{"bob"}, UpCount: 1}
	for i, vt := range seq {
		var err error
		votes, err = Apply(votes, "alice", vt)
		require.NoError(t, err)

		consistent(t, votes)
		contribution := 0
		for _, id := range append(append([]string{}, votes.Upvoters...), votes.Downvoters...) {
			if id == "alice" {
				contribution++
			}
		}
		assert.LessOrEqual(t, contribution, 1, "step %d", i)
		assert.Contains(t, votes.Upvoters, "bob")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	item := model.Votes{Upvoters: []string{"alice", "bob"}, UpCount: 2}

	_, err := Apply(item, "alice", model.VoteDown)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, item.Upvoters)
	assert.Equal(t, int64(2), item.UpCount)
}

func TestApplyInvalidArguments(t *testing.T) {
	_, err := Apply(model.Votes{}, "alice", model.VoteType("sideways"))
	assert.ErrorIs(t, err, ErrInvalidVoteType)

	_, err = Apply(model.Votes{}, "", model.VoteUp)
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestCurrent(t *testing.T) {
	votes := model.Votes{
		Upvoters:   []string{"alice"},
		Downvoters: []string{"bob"},
		UpCount:    1,
		DownCount:  1,
	}

	assert.Equal(t, model.VoteUp, Current(votes, "alice"))
	assert.Equal(t, model.VoteDown, Current(votes, "bob"))
	assert.Equal(t, model.VoteType(""), Current(votes, "carol"))
}
