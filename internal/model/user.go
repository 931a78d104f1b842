package model

import (
	"time"
)

type UserRole string

const (
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == Teacher || r == Admin
}

// 权限名称，替代按用户名硬编码的特权账号
const (
	PermAdminPanel = "admin_panel"
	PermDBBrowser  = "db_browser"
	PermPurgeData  = "purge_data"
)

var AllPermissions = []string{PermAdminPanel, PermDBBrowser, PermPurgeData}

func ValidPermission(name string) bool {
	for _, p := range AllPermissions {
		if p == name {
			return true
		}
	}
	return false
}

// swagger:model User
type User struct {
	BaseModel
	Username     string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:100;not null" json:"-"`
	FullName     string     `gorm:"size:100;not null" json:"fullName"`
	Role         UserRole   `gorm:"size:20;not null;default:teacher" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`

	Permissions    []Permission    `gorm:"constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
	Sessions       []Session       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Classes        []Class         `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
	Students       []Student       `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
	DictationTasks []DictationTask `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
	Todos          []Todo          `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) HasPermission(name string) bool {
	for _, p := range u.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (u *User) PermissionNames() []string {
	names := make([]string, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		names = append(names, p.Name)
	}
	return names
}

type Permission struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_permission_user_name" json:"userId"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_permission_user_name" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Permission) TableName() string {
	return "permissions"
}

// Session 登录会话，JWT 中的 sid 指向这里
type Session struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	ExpiresAt  time.Time `gorm:"not null;index" json:"expiresAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
