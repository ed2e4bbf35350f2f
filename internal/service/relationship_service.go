package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/socialgraph/internal/model"
	"github.com/d60-Lab/socialgraph/internal/repository"
	"github.com/d60-Lab/socialgraph/pkg/logger"
)

var (
	ErrFollowSelf = errors.New("cannot follow self")
)

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, followerID, followeeID uint) error
	Unfollow(ctx context.Context, followerID, followeeID uint) error
	ListFollowing(ctx context.Context, userID uint, page, pageSize int) ([]uint, error)
	ListFollowers(ctx context.Context, userID uint, page, pageSize int) ([]uint, error)
}

type relationshipService struct {
	followRepo      repository.FollowRepository
	allowSelfFollow bool
}

// NewRelationshipService allowSelfFollow 为 false 时 Follow 拒绝自关注
func NewRelationshipService(followRepo repository.FollowRepository, allowSelfFollow bool) RelationshipService {
	return &relationshipService{followRepo: followRepo, allowSelfFollow: allowSelfFollow}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, followeeID uint) error {
	if !s.allowSelfFollow && followerID == followeeID {
		return ErrFollowSelf
	}
	if err := s.followRepo.Create(ctx, followerID, followeeID); err != nil {
		return err
	}
	logger.Debug("follow created", zap.Uint("follower_id", followerID), zap.Uint("followee_id", followeeID))
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	return s.followRepo.Delete(ctx, followerID, followeeID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID uint, page, pageSize int) ([]uint, error) {
	offset, limit := pageWindow(page, pageSize)
	items, err := s.followRepo.ListFollowing(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return userIDs(items), nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID uint, page, pageSize int) ([]uint, error) {
	offset, limit := pageWindow(page, pageSize)
	items, err := s.followRepo.ListFollowers(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return userIDs(items), nil
}

// pageWindow page 从 1 开始，pageSize 默认 10
func pageWindow(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return (page - 1) * pageSize, pageSize
}

func userIDs(users []*model.User) []uint {
	res := make([]uint, len(users))
	for i, u := range users {
		res[i] = u.ID
	}
	return res
}
