package repository

import (
	"class_tracker/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Permissions").First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Permissions").Where("username = ?", username).First(&user).Error
	return &user, err
}

// FindActiveByUsername 停用账号视同不存在
func (r *UserRepository) FindActiveByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Permissions").
		Where("username = ? AND is_active = ?", username, true).
		First(&user).Error
	return &user, err
}

func (r *UserRepository) List() ([]model.User, error) {
	var users []model.User
	err := r.DB.Preload("Permissions").Order("username").Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdatePasswordHash(id uint, hash string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *UserRepository) UpdateLastLogin(id uint, at time.Time) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("last_login", at).Error
}

func (r *UserRepository) SetActive(id uint, active bool) (int64, error) {
	result := r.DB.Model(&model.User{}).Where("id = ?", id).Update("is_active", active)
	return result.RowsAffected, result.Error
}

func (r *UserRepository) Delete(id uint) error {
	return r.DB.Delete(&model.User{}, id).Error
}

// DeleteExcept 删除用户名不在保留列表中的账号，关联数据由外键级联删除
func (r *UserRepository) DeleteExcept(keep []string) (int64, error) {
	result := r.DB.Where("username NOT IN ?", keep).Delete(&model.User{})
	return result.RowsAffected, result.Error
}

func (r *UserRepository) GrantPermission(userID uint, name string) error {
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Permission{UserID: userID, Name: name}).Error
}

func (r *UserRepository) RevokePermission(userID uint, name string) error {
	return r.DB.Where("user_id = ? AND name = ?", userID, name).Delete(&model.Permission{}).Error
}
