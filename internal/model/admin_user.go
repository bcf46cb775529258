package model

import (
	"time"
)

// AdminUser is the admin credential for an organization. Exactly one admin
// exists per organization; OrganizationName is denormalized from the owning
// Organization so tokens can be issued without a second lookup, and must be
// kept in sync on rename.
type AdminUser struct {
	ID               string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email            string     `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password         string     `json:"-" gorm:"type:varchar(255);not null"`
	OrganizationID   string     `json:"organization_id" gorm:"type:varchar(36);index;not null"`
	OrganizationName string     `json:"organization_name" gorm:"type:varchar(50)"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        *time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}
