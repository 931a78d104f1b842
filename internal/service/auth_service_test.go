package service

import (
	"class_tracker/internal/config"
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/testutil"
	"class_tracker/internal/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	db := testutil.NewDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	svc := NewAuthService(
		repository.NewUserRepository(db),
		NewDBSessionStore(repository.NewSessionRepository(db)),
		cfg,
	)
	return svc, db
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	ok, legacy := VerifyPassword(hash, "secret")
	assert.True(t, ok)
	assert.False(t, legacy)

	ok, _ = VerifyPassword(hash, "wrong")
	assert.False(t, ok)

	ok, legacy = VerifyPassword(legacyHash("secret"), "secret")
	assert.True(t, ok)
	assert.True(t, legacy)

	ok, legacy = VerifyPassword(legacyHash("secret"), "wrong")
	assert.False(t, ok)
	assert.False(t, legacy)
}

func TestAuthService_Login(t *testing.T) {
	svc, db := newAuthService(t)
	testutil.CreateUser(t, db, "teacher1", "pass1234", model.Teacher)
	testutil.CreateUser(t, db, "boss", "pass1234", model.Admin, model.PermAdminPanel, model.PermDBBrowser)

	result, err := svc.Login(context.Background(), "teacher1", "pass1234")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "teacher1", result.User.Username)
	assert.Equal(t, "Teacher1", result.User.FullName)
	assert.Equal(t, model.Teacher, result.User.Role)
	assert.Empty(t, result.User.Permissions)

	admin, err := svc.Login(context.Background(), "boss", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, model.Admin, admin.User.Role)
	assert.ElementsMatch(t, []string{model.PermAdminPanel, model.PermDBBrowser}, admin.User.Permissions)

	var user model.User
	require.NoError(t, db.Where("username = ?", "teacher1").First(&user).Error)
	assert.NotNil(t, user.LastLogin)
}

func TestAuthService_LoginFailuresLookTheSame(t *testing.T) {
	svc, db := newAuthService(t)
	testutil.CreateUser(t, db, "teacher1", "pass1234", model.Teacher)
	inactive := testutil.CreateUser(t, db, "gone", "pass1234", model.Teacher)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "unknown user", username: "nobody", password: "pass1234"},
		{name: "wrong password", username: "teacher1", password: "nope"},
		{name: "inactive user", username: "gone", password: "pass1234"},
		{name: "empty password", username: "teacher1", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.Nil(t, result)
			assert.Equal(t, util.ErrInvalidCredentials, err)
		})
	}
}

func TestAuthService_LegacyHashUpgraded(t *testing.T) {
	svc, db := newAuthService(t)
	user := testutil.CreateUser(t, db, "old", "x", model.Teacher)
	require.NoError(t, db.Model(user).Update("password_hash", legacyHash("oldpass")).Error)

	_, err := svc.Login(context.Background(), "old", "oldpass")
	require.NoError(t, err)

	var refreshed model.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.NotEqual(t, legacyHash("oldpass"), refreshed.PasswordHash)
	ok, legacy := VerifyPassword(refreshed.PasswordHash, "oldpass")
	assert.True(t, ok)
	assert.False(t, legacy)
}

func TestAuthService_AuthenticateAndLogout(t *testing.T) {
	svc, db := newAuthService(t)
	user := testutil.CreateUser(t, db, "teacher1", "pass1234", model.Teacher)

	result, err := svc.Login(context.Background(), "teacher1", "pass1234")
	require.NoError(t, err)

	claims, err := svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)

	// 权限变化在下一次请求生效
	require.NoError(t, repository.NewUserRepository(db).GrantPermission(user.ID, model.PermAdminPanel))
	claims, err = svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.True(t, claims.HasPermission(model.PermAdminPanel))

	require.NoError(t, svc.Logout(context.Background(), claims.SessionID))
	_, err = svc.Authenticate(context.Background(), result.Token)
	assert.ErrorIs(t, err, util.ErrSessionExpired)
}

func TestAuthService_AuthenticateRejects(t *testing.T) {
	svc, db := newAuthService(t)
	user := testutil.CreateUser(t, db, "teacher1", "pass1234", model.Teacher)

	result, err := svc.Login(context.Background(), "teacher1", "pass1234")
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, util.ErrSessionExpired)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(svc.UserRepo, svc.Sessions, &config.Config{JWT: config.JWTConfig{Secret: "other"}})
		_, err := other.Authenticate(context.Background(), result.Token)
		assert.ErrorIs(t, err, util.ErrSessionExpired)
	})

	t.Run("expired session", func(t *testing.T) {
		second, err := svc.Login(context.Background(), "teacher1", "pass1234")
		require.NoError(t, err)
		claims, err := util.ParseJWT(second.Token, "test-secret")
		require.NoError(t, err)
		require.NoError(t, db.Model(&model.Session{}).Where("id = ?", claims.SessionID).
			Update("expires_at", time.Now().Add(-time.Minute)).Error)

		_, err = svc.Authenticate(context.Background(), second.Token)
		assert.ErrorIs(t, err, util.ErrSessionExpired)
	})

	t.Run("deactivated user", func(t *testing.T) {
		require.NoError(t, db.Model(user).Update("is_active", false).Error)
		_, err := svc.Authenticate(context.Background(), result.Token)
		assert.ErrorIs(t, err, util.ErrSessionExpired)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, db := newAuthService(t)
	user := testutil.CreateUser(t, db, "teacher1", "pass1234", model.Teacher)

	err := svc.ChangePassword(user.ID, "wrong", "newpass")
	assert.ErrorIs(t, err, util.ErrValidation)

	err = svc.ChangePassword(user.ID, "pass1234", "abc")
	assert.ErrorIs(t, err, util.ErrValidation)

	require.NoError(t, svc.ChangePassword(user.ID, "pass1234", "newpass"))
	_, err = svc.Login(context.Background(), "teacher1", "newpass")
	assert.NoError(t, err)
}
