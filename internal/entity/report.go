package entity

import (
	"database/sql"

	"github.com/ywitter/backend/pkg/enum"
)

type ReportStatus string

var (
	ReportPending = enum.New(ReportStatus("pending"))
	ReportBanned  = enum.New(ReportStatus("banned"))
	ReportFalse   = enum.New(ReportStatus("false"))
)

type Report struct {
	Base

	ReporterID string `gorm:"index"`
	Reporter   User   `gorm:"foreignKey:ReporterID"`

	ReportedUserID sql.NullString `gorm:"index"`
	PostID         sql.NullString `gorm:"index"`

	Reason string       `gorm:"size:256"`
	Status ReportStatus `gorm:"size:16;index"`

	// PendingKey identifies the reporter and the target while the report is
	// pending and is cleared on resolution. Its unique index rejects duplicate
	// pending reports.
	PendingKey sql.NullString `gorm:"unique;size:128"`

	ResolvedBy sql.NullString
	ResolvedAt sql.NullTime
}
