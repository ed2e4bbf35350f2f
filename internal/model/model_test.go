package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "posts", Post{}.TableName())
	assert.Equal(t, "comments", Comment{}.TableName())
	assert.Equal(t, "likes", Like{}.TableName())
	assert.Equal(t, "follows", Follow{}.TableName())
}

func TestString(t *testing.T) {
	alice := &User{ID: 1, Username: "alice"}

	assert.Equal(t, "<User alice>", alice.String())
	assert.Equal(t, "<Post 3>", Post{ID: 3}.String())
	assert.Equal(t, "<Post 3 by alice>", Post{ID: 3, Author: alice}.String())
	assert.Equal(t, "<Comment 5 on Post 3>", Comment{ID: 5, PostID: 3}.String())
	assert.Equal(t, "<Like by User 1 on Post 3>", Like{UserID: 1, PostID: 3}.String())
	assert.Equal(t, "<Follow: 1 follows 2>", Follow{FollowerID: 1, FolloweeID: 2}.String())
}

func TestAllMigrationOrder(t *testing.T) {
	all := All()
	assert.Len(t, all, 5)
	assert.IsType(t, &User{}, all[0])
	assert.IsType(t, &Follow{}, all[len(all)-1])
}
