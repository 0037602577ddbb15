package service

import (
	"errors"
	"strings"
	"youth_hub_backend/internal/config"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/internal/token"
	"youth_hub_backend/internal/util"
	"youth_hub_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Tokens   token.Store
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, tokens token.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Tokens:   tokens,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(user)
}

// Login 校验凭据并签发不透明令牌
func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	user, err := s.UserRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	if user.Disabled {
		return nil, "", util.ErrAccountDisabled
	}

	tok, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	go func() {
		if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
			logger.Log.Warn("last login update failed", zap.String("userId", user.ID), zap.Error(err))
		}
	}()

	return user, tok, nil
}

// Logout 撤销令牌，之后同一令牌校验失败
func (s *AuthService) Logout(tok string) error {
	return s.Tokens.Revoke(tok)
}

// ValidateToken 解析令牌为用户；未知/过期令牌和被禁用的账号都视为未认证
func (s *AuthService) ValidateToken(tok string) (*model.User, bool) {
	userID, ok := s.Tokens.Validate(tok)
	if !ok {
		return nil, false
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil || user.Disabled {
		return nil, false
	}
	return user, true
}
