package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                   uint64     `gorm:"primaryKey"`
	Username             string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_username"`
	Email                string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_email"`
	HashedPassword       string     `gorm:"type:varchar(255);not null"`
	DisplayName          *string    `gorm:"type:varchar(100)"`
	Bio                  *string    `gorm:"type:varchar(500)"`
	ProfileImageURL      *string    `gorm:"type:varchar(500)"`
	Credits              int        `gorm:"not null;default:100"`
	LastDailyCreditClaim *time.Time `gorm:"index"`
	IsActive             bool       `gorm:"type:tinyint(1);not null;default:1"`
	Role                 string     `gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (User) TableName() string {
	return "users"
}
