package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStore 登录会话存储，数据库和 Redis 两种实现
type SessionStore interface {
	Create(ctx context.Context, userID uint, ttl time.Duration) (*model.Session, error)
	// Get 会话不存在或已过期时返回 util.ErrSessionExpired
	Get(ctx context.Context, id string) (*model.Session, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

func newSession(userID uint, ttl time.Duration) *model.Session {
	now := time.Now()
	return &model.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		ExpiresAt:  now.Add(ttl),
		LastSeenAt: now,
		CreatedAt:  now,
	}
}

type DBSessionStore struct {
	Repo *repository.SessionRepository
}

func NewDBSessionStore(repo *repository.SessionRepository) *DBSessionStore {
	return &DBSessionStore{Repo: repo}
}

func (s *DBSessionStore) Create(ctx context.Context, userID uint, ttl time.Duration) (*model.Session, error) {
	session := newSession(userID, ttl)
	if err := s.Repo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DBSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = s.Repo.Delete(id)
		return nil, util.ErrSessionExpired
	}
	return session, nil
}

func (s *DBSessionStore) Touch(ctx context.Context, id string) error {
	return s.Repo.Touch(id, time.Now())
}

func (s *DBSessionStore) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(id)
}

// RedisSessionStore 过期由 Redis TTL 负责
type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisSessionStore) Create(ctx context.Context, userID uint, ttl time.Duration) (*model.Session, error) {
	session := newSession(userID, ttl)
	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := s.Client.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := s.Client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, util.ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, util.ErrSessionExpired
	}
	return &session, nil
}

func (s *RedisSessionStore) Touch(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	session.LastSeenAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionKey(id), data, redis.KeepTTL).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, sessionKey(id)).Err()
}
