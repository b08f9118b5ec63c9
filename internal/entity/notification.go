package entity

import (
	"database/sql"

	"github.com/ywitter/backend/pkg/enum"
)

type NotificationType string

var (
	NotificationMention = enum.New(NotificationType("mention"))
)

type Notification struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Type    NotificationType `gorm:"size:32"`
	Message string           `gorm:"size:512"`
	ActorID sql.NullString
	PostID  sql.NullString
	IsRead  bool
}
