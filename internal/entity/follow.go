package entity

import "time"

// Follow is a directed edge, the composite primary key keeps at most one edge
// per ordered pair.
type Follow struct {
	FollowerID string `gorm:"primaryKey"`
	Follower   User   `gorm:"foreignKey:FollowerID"`

	FollowedID string `gorm:"primaryKey;index"`
	Followed   User   `gorm:"foreignKey:FollowedID"`

	CreatedAt time.Time
}
