package entity

import "time"

type LoginRecord struct {
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	LoggedAt  time.Time `json:"logged_at"`
}

type UserSecurity struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	TwoFactorEnabled bool
	TwoFactorSecret  string `gorm:"size:64"`

	// BackupCodes holds bcrypt hashes, a used code is removed from the list.
	BackupCodes Array[string]

	LastPasswordChange time.Time
	LoginHistory       Array[LoginRecord]

	CreatedAt time.Time
	UpdatedAt time.Time
}
