package repository

import (
	"class_tracker/internal/model"
	"time"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(s *model.Session) error {
	return r.DB.Create(s).Error
}

func (r *SessionRepository) FindByID(id string) (*model.Session, error) {
	var s model.Session
	err := r.DB.Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *SessionRepository) Touch(id string, at time.Time) error {
	return r.DB.Model(&model.Session{}).Where("id = ?", id).Update("last_seen_at", at).Error
}

func (r *SessionRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Session{}).Error
}

func (r *SessionRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.Session{}).Error
}

func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.DB.Where("expires_at <= ?", now).Delete(&model.Session{})
	return result.RowsAffected, result.Error
}
