// Package domain contains the household registry model. A household occupies
// exactly one apartment.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// FallbackName is used when an upload row creates a household without a name.
const FallbackName = "Unknown"

type Household struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	HouseholdName string       `gorm:"type:text;not null" json:"household_name"`
	ContactInfo   *string      `gorm:"type:text" json:"contact_info,omitempty"`
	ApartmentID   snowflake.ID `gorm:"not null;uniqueIndex" json:"apartment_id"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Household) TableName() string { return "households" }
