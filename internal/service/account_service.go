package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/d60-Lab/socialgraph/internal/model"
	"github.com/d60-Lab/socialgraph/internal/repository"
	"github.com/d60-Lab/socialgraph/pkg/logger"
)

// ErrEmptyPassword 明文密码为空
var ErrEmptyPassword = errors.New("password is empty")

// RegisterInput 注册参数，可选字段为空表示不设置
type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	ProfilePicture *string
	Bio            *string
}

// AccountService 注册与改密，哈希交给注入的 PasswordHasher
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, plain string) error
	// Authenticate 按用户名校验密码
	Authenticate(ctx context.Context, username, plain string) (*model.User, error)
}

type accountService struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

func NewAccountService(users repository.UserRepository, hasher PasswordHasher) AccountService {
	return &accountService{users: users, hasher: hasher}
}

func (s *accountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   hash,
		ProfilePicture: in.ProfilePicture,
		Bio:            in.Bio,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Info("user registered", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

func (s *accountService) ChangePassword(ctx context.Context, userID uint, plain string) error {
	hash, err := s.hash(plain)
	if err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.users.Update(ctx, u)
}

func (s *accountService) Authenticate(ctx context.Context, username, plain string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.hasher.Compare(u.PasswordHash, plain); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *accountService) hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}
