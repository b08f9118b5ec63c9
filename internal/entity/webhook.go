package entity

import "github.com/ywitter/backend/pkg/enum"

type EventType string

var (
	EventPostCreated    = enum.New(EventType("post.created"))
	EventPostEdited     = enum.New(EventType("post.edited"))
	EventPostLiked      = enum.New(EventType("post.liked"))
	EventPostRetweeted  = enum.New(EventType("post.retweeted"))
	EventUserFollowed   = enum.New(EventType("user.followed"))
	EventReportResolved = enum.New(EventType("report.resolved"))
)

type Webhook struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	URL      string `gorm:"size:256"`
	Events   Array[EventType]
	Secret   string `gorm:"size:64"`
	IsActive bool
}
