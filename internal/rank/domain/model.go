// Package domain contains the risk-tier classification policy and the pure
// classifier that applies it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RankConfiguration is one threshold rule of the classification policy.
// Active rules partition the balance axis and are evaluated highest
// threshold first.
type RankConfiguration struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	RankName        string          `gorm:"type:text;not null;uniqueIndex" json:"rank_name"`
	ThresholdAmount decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"threshold_amount"`
	Description     *string         `gorm:"type:text" json:"description,omitempty"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	ColorCode       *string         `gorm:"type:text" json:"color_code,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (RankConfiguration) TableName() string { return "rank_configurations" }
