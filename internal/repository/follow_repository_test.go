package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/socialgraph/internal/model"
	"github.com/d60-Lab/socialgraph/pkg/database"
)

func usernames(users []*model.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}

func TestFollowRepository_FollowAndDuplicate(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	alice := r.user(t, "alice")
	bob := r.user(t, "bob")

	require.NoError(t, r.follows.Create(ctx, alice.ID, bob.ID))

	following, err := r.follows.ListFollowing(ctx, alice.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, usernames(following))

	followers, err := r.follows.ListFollowers(ctx, bob.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, usernames(followers))

	// 关系是有向的
	ok, err := r.follows.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	err = r.follows.Create(ctx, alice.ID, bob.ID)
	require.ErrorIs(t, err, database.ErrUniqueViolation)
	assert.EqualValues(t, 1, r.count(t, &model.Follow{}, "1 = 1"))

	// 反向关注是另一条边
	require.NoError(t, r.follows.Create(ctx, bob.ID, alice.ID))
}

func TestFollowRepository_SelfFollowAllowedBySchema(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	alice := r.user(t, "alice")

	require.NoError(t, r.follows.Create(ctx, alice.ID, alice.ID))
	followers, err := r.follows.CountFollowers(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, followers)
}

func TestFollowRepository_InvalidEndpoints(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	alice := r.user(t, "alice")

	assert.ErrorIs(t, r.follows.Create(ctx, alice.ID, 404), database.ErrForeignKeyViolation)
	assert.ErrorIs(t, r.follows.Create(ctx, 0, alice.ID), database.ErrNotNullViolation)
}

func TestFollowRepository_ListsCountsAndDelete(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	star := r.user(t, "star")
	fans := []*model.User{r.user(t, "f1"), r.user(t, "f2"), r.user(t, "f3")}
	for _, f := range fans {
		require.NoError(t, r.follows.Create(ctx, f.ID, star.ID))
	}
	require.NoError(t, r.follows.Create(ctx, star.ID, fans[0].ID))

	cnt, err := r.follows.CountFollowers(ctx, star.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cnt)
	cnt, err = r.follows.CountFollowing(ctx, star.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	all, err := r.follows.ListFollowers(ctx, star.ID, 0, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"f1", "f2", "f3"}, usernames(all))

	page, err := r.follows.ListFollowers(ctx, star.ID, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	require.NoError(t, r.follows.Delete(ctx, fans[1].ID, star.ID))
	assert.ErrorIs(t, r.follows.Delete(ctx, fans[1].ID, star.ID), database.ErrNotFound)

	all, err = r.follows.ListFollowers(ctx, star.ID, 0, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"f1", "f3"}, usernames(all))

	// 删除粉丝用户后边随之消失
	require.NoError(t, r.users.Delete(ctx, fans[0].ID))
	cnt, err = r.follows.CountFollowers(ctx, star.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
	cnt, err = r.follows.CountFollowing(ctx, star.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}
