package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/socialgraph/internal/model"
	"github.com/d60-Lab/socialgraph/pkg/database"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	u := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Bio: strPtr("hi")}
	require.NoError(t, r.users.Create(ctx, u))
	require.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero(), "created_at stamped on insert")

	byID, err := r.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	require.NotNil(t, byID.Bio)
	assert.Equal(t, "hi", *byID.Bio)
	assert.Nil(t, byID.ProfilePicture)

	byName, err := r.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := r.users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = r.users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUserRepository_DuplicateUsernameOrEmail(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	r.user(t, "alice")

	err := r.users.Create(ctx, &model.User{Username: "alice", Email: "new@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, database.ErrUniqueViolation)

	err = r.users.Create(ctx, &model.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, database.ErrUniqueViolation)
	assert.True(t, database.IsConstraintViolation(err))

	n, err := r.users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUserRepository_RequiredFields(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	cases := map[string]struct {
		user   model.User
		column string
	}{
		"username":      {model.User{Email: "a@example.com", PasswordHash: "x"}, "users.username"},
		"email":         {model.User{Username: "a", PasswordHash: "x"}, "users.email"},
		"password hash": {model.User{Username: "a", Email: "a@example.com"}, "users.password_hash"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			u := tc.user
			err := r.users.Create(ctx, &u)
			require.ErrorIs(t, err, database.ErrNotNullViolation)
			var ce *database.ConstraintError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.column, ce.Constraint)
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	alice := r.user(t, "alice")
	r.user(t, "bob")

	alice.Bio = strPtr("photographer")
	alice.ProfilePicture = strPtr("https://cdn.example.com/alice.png")
	require.NoError(t, r.users.Update(ctx, alice))

	got, err := r.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "photographer", *got.Bio)
	assert.Equal(t, "https://cdn.example.com/alice.png", *got.ProfilePicture)

	alice.Username = "bob"
	assert.ErrorIs(t, r.users.Update(ctx, alice), database.ErrUniqueViolation)

	ghost := &model.User{ID: 999, Username: "ghost", Email: "g@example.com", PasswordHash: "x"}
	assert.ErrorIs(t, r.users.Update(ctx, ghost), database.ErrNotFound)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	alice := r.user(t, "alice")
	bob := r.user(t, "bob")

	alicePost := r.post(t, alice)
	bobPost := r.post(t, bob)
	r.comment(t, alice, bobPost, "alice on bob")
	r.comment(t, bob, alicePost, "bob on alice")
	_, err := r.likes.Create(ctx, alice.ID, bobPost.ID)
	require.NoError(t, err)
	_, err = r.likes.Create(ctx, bob.ID, alicePost.ID)
	require.NoError(t, err)
	require.NoError(t, r.follows.Create(ctx, alice.ID, bob.ID))
	require.NoError(t, r.follows.Create(ctx, bob.ID, alice.ID))

	require.NoError(t, r.users.Delete(ctx, alice.ID))

	// alice 自己的数据
	assert.Zero(t, r.count(t, &model.Post{}, "user_id = ?", alice.ID))
	assert.Zero(t, r.count(t, &model.Comment{}, "user_id = ?", alice.ID))
	assert.Zero(t, r.count(t, &model.Like{}, "user_id = ?", alice.ID))
	// alice 帖子上别人的评论和点赞随帖子传递删除
	assert.Zero(t, r.count(t, &model.Comment{}, "post_id = ?", alicePost.ID))
	assert.Zero(t, r.count(t, &model.Like{}, "post_id = ?", alicePost.ID))
	// 关注边两个方向都被清理
	assert.Zero(t, r.count(t, &model.Follow{}, "follower_id = ? OR followee_id = ?", alice.ID, alice.ID))

	// bob 的帖子保留
	assert.EqualValues(t, 1, r.count(t, &model.Post{}, "id = ?", bobPost.ID))
	_, err = r.users.GetByID(ctx, bob.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, r.users.Delete(ctx, alice.ID), database.ErrNotFound)
}

func TestUserRepository_CascadeChainScenario(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	a := r.user(t, "alice")
	b := r.user(t, "bob")

	p := r.post(t, a)
	c := r.comment(t, b, p, "nice shot")

	require.NoError(t, r.users.Delete(ctx, a.ID))

	_, err := r.posts.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = r.comments.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, database.ErrNotFound, "bob's comment goes with alice's post")

	_, err = r.users.GetByID(ctx, b.ID)
	assert.NoError(t, err, "bob still exists")
}

func TestModelString(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	alice := r.user(t, "alice")
	p := r.post(t, alice)

	loaded, err := r.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "<User alice>", alice.String())
	assert.Equal(t, fmt.Sprintf("<Post %d by alice>", p.ID), loaded.String())
}
