package entity

import (
	"database/sql"
	"time"

	"github.com/ywitter/backend/pkg/enum"
)

type MediaType string

var (
	MediaNone  = enum.New(MediaType(""))
	MediaImage = enum.New(MediaType("image"))
	MediaVideo = enum.New(MediaType("video"))
	MediaPoll  = enum.New(MediaType("poll"))
)

type EditHistoryEntry struct {
	Content  string    `json:"content"`
	EditedAt time.Time `json:"edited_at"`
}

type Post struct {
	Base

	AuthorID string `gorm:"index"`
	Author   User   `gorm:"foreignKey:AuthorID"`

	Content       string    `gorm:"size:1120"`
	MediaType     MediaType `gorm:"size:10"`
	MediaFilename string

	ReplyToID sql.NullString `gorm:"index"`
	ReplyTo   *Post          `gorm:"foreignKey:ReplyToID"`

	IsEdited    bool
	EditHistory Array[EditHistoryEntry]

	LikeCount    int
	RetweetCount int
	ReplyCount   int
}

type Hashtag struct {
	Base
	Name string `gorm:"unique;size:64"`
}

type PostHashtag struct {
	PostID string `gorm:"primaryKey"`
	Post   Post   `gorm:"foreignKey:PostID"`

	HashtagID string  `gorm:"primaryKey;index"`
	Hashtag   Hashtag `gorm:"foreignKey:HashtagID"`

	CreatedAt time.Time
}

type Draft struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Content       string    `gorm:"size:1120"`
	MediaType     MediaType `gorm:"size:10"`
	MediaFilename string
}
