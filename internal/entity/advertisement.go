package entity

import (
	"time"

	"github.com/ywitter/backend/pkg/enum"
)

type AdStatus string

var (
	AdPending  = enum.New(AdStatus("pending"))
	AdActive   = enum.New(AdStatus("active"))
	AdRejected = enum.New(AdStatus("rejected"))
)

type Advertisement struct {
	Base

	CreatedBy     string `gorm:"index"`
	CreatedByUser User   `gorm:"foreignKey:CreatedBy"`

	Title     string `gorm:"size:100"`
	Content   string `gorm:"size:500"`
	ImageURL  string
	TargetURL string
	StartDate time.Time
	EndDate   time.Time
	Budget    float64
	Spent     float64
	Status    AdStatus `gorm:"size:16;index"`

	Impressions int
	Clicks      int
}

type AdImpression struct {
	Base

	AdID string        `gorm:"index"`
	Ad   Advertisement `gorm:"foreignKey:AdID"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`
}

type AdClick struct {
	Base

	AdID string        `gorm:"index"`
	Ad   Advertisement `gorm:"foreignKey:AdID"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`
}
