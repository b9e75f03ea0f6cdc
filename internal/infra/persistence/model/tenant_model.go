package model

import (
	"time"

	"github.com/google/uuid"
)

// TenantModel mirrors the 'tenants' table. Google connection columns are nullable.
type TenantModel struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name                  string    `gorm:"type:varchar(255);not null"`
	GoogleTokensEncrypted *string   `gorm:"column:google_tokens_encrypted;type:text"`
	GoogleConnectedAt     *time.Time
	GoogleReauthAt        *time.Time `gorm:"column:google_reauth_required_at"`
	GoogleAccountID       *string    `gorm:"type:varchar(255)"`
	GoogleLocationID      *string    `gorm:"type:varchar(255)"`
	GoogleLocationName    *string    `gorm:"type:varchar(255)"`
	ReviewsLastSyncedAt   *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName explicitly sets the table name for GORM.
func (TenantModel) TableName() string {
	return "tenants"
}
