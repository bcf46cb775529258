package model

import (
	"time"
)

// Organization represents one tenant in the master directory.
// The organization name is stored normalized (lowercase) and is globally
// unique; the unique index is the arbiter for concurrent creates.
type Organization struct {
	ID               string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	OrganizationName string     `json:"organization_name" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email            string     `json:"email" gorm:"type:varchar(100);not null"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        *time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}
