package entity

import (
	"time"

	"github.com/ywitter/backend/pkg/enum"
)

type Like struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	PostID string `gorm:"primaryKey;index"`
	Post   Post   `gorm:"foreignKey:PostID"`

	CreatedAt time.Time
}

// Retweet is not a toggle, a repeated retweet is rejected by the primary key.
type Retweet struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	PostID string `gorm:"primaryKey;index"`
	Post   Post   `gorm:"foreignKey:PostID"`

	CreatedAt time.Time
}

type ReactionType string

var (
	ReactionLike  = enum.New(ReactionType("like"))
	ReactionHeart = enum.New(ReactionType("heart"))
	ReactionLaugh = enum.New(ReactionType("laugh"))
	ReactionWow   = enum.New(ReactionType("wow"))
	ReactionSad   = enum.New(ReactionType("sad"))
	ReactionAngry = enum.New(ReactionType("angry"))
)

type Reaction struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	PostID string `gorm:"primaryKey;index"`
	Post   Post   `gorm:"foreignKey:PostID"`

	Type ReactionType `gorm:"primaryKey;size:16"`

	CreatedAt time.Time
}
