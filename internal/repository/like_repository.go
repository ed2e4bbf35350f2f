package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/socialgraph/internal/model"
	"github.com/d60-Lab/socialgraph/pkg/database"
)

// LikeRepository 点赞仓储。(user_id, post_id) 唯一由数据库保证，
// 并发重复点赞只有一条成功，其余返回 database.ErrUniqueViolation
type LikeRepository interface {
	Create(ctx context.Context, userID, postID uint) (*model.Like, error)
	Delete(ctx context.Context, userID, postID uint) error
	Exists(ctx context.Context, userID, postID uint) (bool, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
	ListByPost(ctx context.Context, postID uint, offset, limit int) ([]*model.Like, error)
	// ListLikedPosts 用户点过赞的帖子，按点赞时间倒序
	ListLikedPosts(ctx context.Context, userID uint, offset, limit int) ([]*model.Post, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, userID, postID uint) (*model.Like, error) {
	l := &model.Like{UserID: userID, PostID: postID}
	if err := checkRequired(l); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error; err != nil {
		return nil, database.Translate(err)
	}
	return l, nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	if res.Error != nil {
		return database.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&cnt).Error; err != nil {
		return false, database.Translate(err)
	}
	return cnt > 0, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, database.Translate(err)
}

func (r *likeRepository) ListByPost(ctx context.Context, postID uint, offset, limit int) ([]*model.Like, error) {
	var res []*model.Like
	err := r.db.WithContext(ctx).
		Preload("Liker").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Scopes(window(offset, limit)).
		Find(&res).Error
	return res, database.Translate(err)
}

func (r *likeRepository) ListLikedPosts(ctx context.Context, userID uint, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC, likes.id DESC").
		Scopes(window(offset, limit)).
		Find(&res).Error
	return res, database.Translate(err)
}
