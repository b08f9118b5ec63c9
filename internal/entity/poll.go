package entity

import "time"

type Poll struct {
	Base

	PostID string `gorm:"unique"`
	Post   Post   `gorm:"foreignKey:PostID"`

	Question string `gorm:"size:1120"`
	EndTime  time.Time
}

// IsClosed reports whether the poll stopped accepting votes at t. The state is
// derived from the end time and never stored.
func (p *Poll) IsClosed(t time.Time) bool {
	return !t.Before(p.EndTime)
}

type PollOption struct {
	Base

	PollID string `gorm:"index"`
	Poll   Poll   `gorm:"foreignKey:PollID"`

	Text     string `gorm:"size:400"`
	Position int
	Votes    int
}

// PollVote allows one vote per user and poll through its primary key.
type PollVote struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	PollID string `gorm:"primaryKey"`
	Poll   Poll   `gorm:"foreignKey:PollID"`

	OptionID string     `gorm:"index"`
	Option   PollOption `gorm:"foreignKey:OptionID"`

	CreatedAt time.Time
}
