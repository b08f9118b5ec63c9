package entity

import (
	"database/sql"
	"time"
)

type LiveStream struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Title        string `gorm:"size:100"`
	Description  string `gorm:"size:500"`
	StreamKey    string `gorm:"unique;size:64"`
	IsLive       bool   `gorm:"index"`
	StartedAt    time.Time
	EndedAt      sql.NullTime
	ViewersCount int
}
