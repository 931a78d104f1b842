// Package testutil 提供测试用的内存数据库和样例数据
package testutil

import (
	"class_tracker/internal/config"
	"class_tracker/internal/model"
	"class_tracker/pkg/database"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB 每个测试一个独立命名的内存库，已完成迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := database.Open(&config.DatabaseConfig{
		Driver:   database.DriverSQLite,
		Path:     "file:" + name + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser 创建一个使用 bcrypt 最低成本哈希的账号
func CreateUser(t *testing.T, db *gorm.DB, username, password string, role model.UserRole, perms ...string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.ToUpper(username[:1]) + username[1:],
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)

	for _, p := range perms {
		perm := model.Permission{UserID: user.ID, Name: p}
		require.NoError(t, db.Create(&perm).Error)
		user.Permissions = append(user.Permissions, perm)
	}
	return user
}

// CreateClass 创建班级及其学生
func CreateClass(t *testing.T, db *gorm.DB, teacher *model.User, name string, students ...string) (*model.Class, []model.Student) {
	t.Helper()

	class := &model.Class{Name: name, TeacherID: teacher.ID}
	require.NoError(t, db.Create(class).Error)

	created := make([]model.Student, 0, len(students))
	for _, s := range students {
		st := model.Student{Name: s, ClassName: name, ClassID: class.ID, TeacherID: teacher.ID}
		require.NoError(t, db.Create(&st).Error)
		created = append(created, st)
	}
	return class, created
}
