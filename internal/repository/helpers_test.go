package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/socialgraph/config"
	"github.com/d60-Lab/socialgraph/internal/model"
	"github.com/d60-Lab/socialgraph/pkg/database"
)

type repos struct {
	db       *gorm.DB
	users    UserRepository
	posts    PostRepository
	comments CommentRepository
	likes    LikeRepository
	follows  FollowRepository
}

func openTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:", LogLevel: "silent"})
	require.NoError(tb, err)
	require.NoError(tb, database.Migrate(db))
	tb.Cleanup(func() { _ = database.Close(db) })
	return db
}

func setup(t *testing.T) *repos {
	t.Helper()
	db := openTestDB(t)
	return &repos{
		db:       db,
		users:    NewUserRepository(db),
		posts:    NewPostRepository(db),
		comments: NewCommentRepository(db),
		likes:    NewLikeRepository(db),
		follows:  NewFollowRepository(db),
	}
}

func (r *repos) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "hash:" + name}
	require.NoError(t, r.users.Create(context.Background(), u))
	return u
}

func (r *repos) post(t *testing.T, author *model.User) *model.Post {
	t.Helper()
	p := &model.Post{UserID: author.ID, ContentURL: fmt.Sprintf("https://cdn.example.com/%s.jpg", uuid.NewString())}
	require.NoError(t, r.posts.Create(context.Background(), p))
	return p
}

func (r *repos) comment(t *testing.T, by *model.User, on *model.Post, text string) *model.Comment {
	t.Helper()
	c := &model.Comment{UserID: by.ID, PostID: on.ID, Content: text}
	require.NoError(t, r.comments.Create(context.Background(), c))
	return c
}

func (r *repos) count(t *testing.T, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }
