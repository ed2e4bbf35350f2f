package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/socialgraph/internal/model"
	"github.com/d60-Lab/socialgraph/pkg/database"
)

// PostRepository 帖子仓储
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// GetByID 同时加载作者
	GetByID(ctx context.Context, id uint) (*model.Post, error)
	// ListByUser 按创建时间倒序
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*model.Post, error)
	// Update 只更新 content_url 与 caption
	Update(ctx context.Context, post *model.Post) error
	// Delete 删除帖子，数据库级联删除其评论与点赞
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if err := checkRequired(post); err != nil {
		return err
	}
	return database.Translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &post, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Scopes(window(offset, limit)).
		Find(&res).Error
	return res, database.Translate(err)
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	if post.ContentURL == "" {
		return notNull(post, "content_url")
	}
	res := r.db.WithContext(ctx).
		Model(&model.Post{ID: post.ID}).
		Select("content_url", "caption").
		Updates(post)
	if res.Error != nil {
		return database.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Post{}, id)
	if res.Error != nil {
		return database.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&cnt).Error
	return cnt, database.Translate(err)
}
