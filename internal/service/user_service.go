package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"class_tracker/pkg/logger"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MinPasswordLength = 4

type CreateUserRequest struct {
	Username    string         `json:"username" binding:"required" validate:"required,max=100"`
	Password    string         `json:"password" binding:"required" validate:"required,min=4"`
	FullName    string         `json:"fullName" binding:"required" validate:"required,max=100"`
	Role        model.UserRole `json:"role" validate:"omitempty,oneof=teacher admin"`
	Permissions []string       `json:"permissions" validate:"dive,oneof=admin_panel db_browser purge_data"`
}

// UserService 管理员对账号和权限的维护
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) CreateUser(req CreateUserRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Role == "" {
		req.Role = model.Teacher
	}
	if err := util.ValidateStruct(req); err != nil {
		return nil, err
	}
	if strings.ContainsAny(req.Username, " \t\n") {
		return nil, util.ValidationError("username must not contain whitespace")
	}

	if _, err := s.UserRepo.FindByUsername(req.Username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     true,
	}
	err = s.UserRepo.DB.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewUserRepository(tx)
		if err := repo.Create(user); err != nil {
			return err
		}
		for _, p := range req.Permissions {
			if err := repo.GrantPermission(user.ID, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User created", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return s.UserRepo.FindByID(user.ID)
}

// EnsureAdmin 已存在则重置密码并提升为管理员，否则新建；返回是否新建
func (s *UserService) EnsureAdmin(username, password, fullName string) (bool, error) {
	if len(password) < MinPasswordLength {
		return false, util.ValidationError("password must be at least %d characters", MinPasswordLength)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	created := false
	err = s.UserRepo.DB.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewUserRepository(tx)
		user, err := repo.FindByUsername(username)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = &model.User{
				Username:     username,
				PasswordHash: hash,
				FullName:     fullName,
				Role:         model.Admin,
				IsActive:     true,
			}
			if err := repo.Create(user); err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			if err := tx.Model(user).Updates(map[string]interface{}{
				"password_hash": hash,
				"full_name":     fullName,
				"role":          model.Admin,
				"is_active":     true,
			}).Error; err != nil {
				return err
			}
		}

		for _, p := range model.AllPermissions {
			if err := repo.GrantPermission(user.ID, p); err != nil {
				return err
			}
		}
		return nil
	})
	return created, err
}

func (s *UserService) ListUsers() ([]model.User, error) {
	return s.UserRepo.List()
}

// SetActive 管理员不能停用自己
func (s *UserService) SetActive(actorID, userID uint, active bool) error {
	if !active && actorID == userID {
		return util.ValidationError("you cannot deactivate your own account")
	}
	n, err := s.UserRepo.SetActive(userID, active)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

func (s *UserService) GrantPermission(userID uint, name string) error {
	if !model.ValidPermission(name) {
		return util.ValidationError("unknown permission %q", name)
	}
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return util.ErrUserNotFound
	}
	return s.UserRepo.GrantPermission(userID, name)
}

func (s *UserService) RevokePermission(userID uint, name string) error {
	if !model.ValidPermission(name) {
		return util.ValidationError("unknown permission %q", name)
	}
	return s.UserRepo.RevokePermission(userID, name)
}

func (s *UserService) ResetPassword(userID uint, password string) error {
	if len(password) < MinPasswordLength {
		return util.ValidationError("password must be at least %d characters", MinPasswordLength)
	}
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return util.ErrUserNotFound
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdatePasswordHash(userID, hash)
}

func (s *UserService) ResetPasswordByUsername(username, password string) error {
	user, err := s.UserRepo.FindByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	return s.ResetPassword(user.ID, password)
}

// CleanupUsers 删除保留名单以外的账号及其全部数据
func (s *UserService) CleanupUsers(keep []string) (int64, error) {
	if len(keep) == 0 {
		return 0, util.ValidationError("keep list must not be empty")
	}
	n, err := s.UserRepo.DeleteExcept(keep)
	if err != nil {
		return 0, err
	}
	logger.Log.Info("Users cleaned up", zap.Int64("deleted", n), zap.Strings("kept", keep))
	return n, nil
}
