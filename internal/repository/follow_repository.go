package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/socialgraph/internal/model"
	"github.com/d60-Lab/socialgraph/pkg/database"
)

// FollowRepository 关注关系仓储，有向边 follower -> followee
type FollowRepository interface {
	// Create 重复关注返回 database.ErrUniqueViolation（复合主键冲突）
	Create(ctx context.Context, followerID, followeeID uint) error
	Delete(ctx context.Context, followerID, followeeID uint) error
	Exists(ctx context.Context, followerID, followeeID uint) (bool, error)
	// ListFollowers 关注了 userID 的用户（粉丝）
	ListFollowers(ctx context.Context, userID uint, offset, limit int) ([]*model.User, error)
	// ListFollowing userID 关注的用户
	ListFollowing(ctx context.Context, userID uint, offset, limit int) ([]*model.User, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followeeID uint) error {
	f := &model.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := checkRequired(f); err != nil {
		return err
	}
	return database.Translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return database.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error; err != nil {
		return false, database.Translate(err)
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint, offset, limit int) ([]*model.User, error) {
	return r.listUsers(ctx, "follows.follower_id", "follows.followee_id", userID, offset, limit)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint, offset, limit int) ([]*model.User, error) {
	return r.listUsers(ctx, "follows.followee_id", "follows.follower_id", userID, offset, limit)
}

// listUsers 按关注时间倒序，join 出边另一端的用户
func (r *followRepository) listUsers(ctx context.Context, joinCol, filterCol string, userID uint, offset, limit int) ([]*model.User, error) {
	var res []*model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON "+joinCol+" = users.id").
		Where(filterCol+" = ?", userID).
		Order("follows.created_at DESC, users.id").
		Scopes(window(offset, limit)).
		Find(&res).Error
	return res, database.Translate(err)
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("followee_id = ?", userID).Count(&cnt).Error
	return cnt, database.Translate(err)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&cnt).Error
	return cnt, database.Translate(err)
}
