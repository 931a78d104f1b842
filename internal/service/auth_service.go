package service

import (
	"class_tracker/internal/config"
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"class_tracker/pkg/logger"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Identity 登录后返回给前端的身份信息
type Identity struct {
	ID          uint           `json:"id"`
	Username    string         `json:"username"`
	FullName    string         `json:"fullName"`
	Role        model.UserRole `json:"role"`
	Permissions []string       `json:"permissions"`
}

func NewIdentity(user *model.User) *Identity {
	return &Identity{
		ID:          user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		Role:        user.Role,
		Permissions: user.PermissionNames(),
	}
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *Identity `json:"user"`
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Sessions SessionStore
	Cfg      *config.Config
	secret   string
}

func NewAuthService(userRepo *repository.UserRepository, sessions SessionStore, cfg *config.Config) *AuthService {
	secret := cfg.JWT.Secret
	if secret == "" {
		// 仅在开发模式下出现，重启后已有会话全部失效
		buf := make([]byte, 32)
		_, _ = rand.Read(buf)
		secret = hex.EncodeToString(buf)
		logger.Log.Warn("jwt.secret is empty, using a random secret for this process")
	}
	return &AuthService{
		UserRepo: userRepo,
		Sessions: sessions,
		Cfg:      cfg,
		secret:   secret,
	}
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.Cfg.JWT.ExpireTime <= 0 {
		return 12 * time.Hour
	}
	return s.Cfg.JWT.ExpireTime
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// legacyHash 旧版本使用的无盐 SHA-256 十六进制摘要
func legacyHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword 第二个返回值表示命中旧格式哈希，需要升级
func VerifyPassword(hash, password string) (bool, bool) {
	if len(hash) == sha256.Size*2 {
		if _, err := hex.DecodeString(hash); err == nil {
			ok := subtle.ConstantTimeCompare([]byte(hash), []byte(legacyHash(password))) == 1
			return ok, ok
		}
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, false
}

// Login 未知用户、密码错误和停用账号返回同一个错误
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.UserRepo.FindActiveByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, legacy := VerifyPassword(user.PasswordHash, password)
	if !ok {
		return nil, util.ErrInvalidCredentials
	}

	if legacy {
		if hash, err := HashPassword(password); err == nil {
			if err := s.UserRepo.UpdatePasswordHash(user.ID, hash); err != nil {
				logger.Log.Warn("Failed to upgrade legacy password hash", zap.Uint("user_id", user.ID), zap.Error(err))
			}
		}
	}

	session, err := s.Sessions.Create(ctx, user.ID, s.sessionTTL())
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, session.ID, s.secret, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID, time.Now()); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	logger.Log.Info("User logged in", zap.String("username", user.Username))
	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt, User: NewIdentity(user)}, nil
}

// Authenticate 校验令牌和会话，并用数据库中的最新角色和权限刷新 claims
func (s *AuthService) Authenticate(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.secret)
	if err != nil {
		return nil, util.ErrSessionExpired
	}

	session, err := s.Sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, util.ErrSessionExpired
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil || !user.IsActive {
		_ = s.Sessions.Delete(ctx, session.ID)
		return nil, util.ErrSessionExpired
	}

	if err := s.Sessions.Touch(ctx, session.ID); err != nil {
		logger.Log.Debug("Failed to touch session", zap.Error(err))
	}

	claims.Username = user.Username
	claims.Role = user.Role
	claims.Permissions = user.PermissionNames()
	return claims, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}

func (s *AuthService) Profile(userID uint) (*Identity, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return NewIdentity(user), nil
}

// ChangePassword 用户修改自己的密码，需要提供旧密码
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}
	if ok, _ := VerifyPassword(user.PasswordHash, oldPassword); !ok {
		return util.ValidationError("current password is incorrect")
	}
	if len(newPassword) < MinPasswordLength {
		return util.ValidationError("password must be at least %d characters", MinPasswordLength)
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdatePasswordHash(userID, hash)
}
