package entity

import "github.com/ywitter/backend/pkg/enum"

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleAdmin      = enum.New(GlobalRole("admin"))
	RoleUser       = enum.New(GlobalRole("user"))
)

var GlobalAdminRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}

type User struct {
	Base

	Username     string `gorm:"unique;size:32"`
	Email        string `gorm:"unique;size:120"`
	PasswordHash string
	Bio          string `gorm:"size:500"`
	Avatar       string
	Role         GlobalRole `gorm:"size:16"`

	IsVerified         bool
	IsPrivate          bool
	IsModerator        bool
	IsBanned           bool
	CanReceiveMessages bool
}

// IsProtected reports whether the user can never be banned.
func (u *User) IsProtected() bool {
	return u.Role == RoleSuperAdmin
}

// CanModerate reports whether the user may resolve reports and ban users.
func (u *User) CanModerate() bool {
	return u.IsModerator || u.Role == RoleSuperAdmin || u.Role == RoleAdmin
}
