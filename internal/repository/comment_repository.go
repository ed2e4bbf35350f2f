package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/socialgraph/internal/model"
	"github.com/d60-Lab/socialgraph/pkg/database"
)

// CommentRepository 评论仓储
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uint) (*model.Comment, error)
	// ListByPost 按时间正序，附带评论者
	ListByPost(ctx context.Context, postID uint, offset, limit int) ([]*model.Comment, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*model.Comment, error)
	Update(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := checkRequired(comment); err != nil {
		return err
	}
	return database.Translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &c, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, offset, limit int) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).
		Preload("Commenter").
		Where("post_id = ?", postID).
		Order("created_at, id").
		Scopes(window(offset, limit)).
		Find(&res).Error
	return res, database.Translate(err)
}

func (r *commentRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Scopes(window(offset, limit)).
		Find(&res).Error
	return res, database.Translate(err)
}

func (r *commentRepository) Update(ctx context.Context, id uint, content string) error {
	if content == "" {
		return notNull(model.Comment{}, "content")
	}
	res := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return database.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return database.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Count(&cnt).Error
	return cnt, database.Translate(err)
}
