package model

import "time"

const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

type Report struct {
	ID                uint64  `gorm:"primaryKey"`
	ReporterID        uint64  `gorm:"not null;index:idx_reporter_id"`
	ReportedUserID    *uint64 `gorm:"index"`
	ReportedVideoID   *uint64 `gorm:"index"`
	ReportedCommentID *uint64 `gorm:"index"`
	ReportType        string  `gorm:"type:varchar(20);not null"`
	Reason            *string `gorm:"type:varchar(500)"`
	Status            string  `gorm:"type:varchar(20);not null;default:'pending';index:idx_status"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Report) TableName() string {
	return "reports"
}
