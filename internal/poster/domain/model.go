// Package domain contains the poster content catalog consumed by the poster
// renderer. Only the catalog lives here; rendering is a separate concern.
package domain

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// ContentKind is a closed set: a content row is either an image reference or
// a text snippet.
type ContentKind string

const (
	KindImageURL ContentKind = "image_url"
	KindText     ContentKind = "text"
)

func (k ContentKind) Valid() error {
	switch k {
	case KindImageURL, KindText:
		return nil
	}
	return fmt.Errorf("unknown poster content kind %q", k)
}

type Content struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Kind         ContentKind  `gorm:"type:text;not null" json:"kind"`
	Content      string       `gorm:"type:text;not null" json:"content"`
	IsActive     bool         `gorm:"not null;default:true" json:"is_active"`
	DisplayOrder int          `gorm:"not null;default:0" json:"display_order"`
}

func (Content) TableName() string { return "poster_contents" }

type Repository interface {
	Insert(ctx context.Context, content *Content) error
	Save(ctx context.Context, content *Content) error
	FindByID(ctx context.Context, id snowflake.ID) (*Content, error)
	// ListActive returns active content in display order.
	ListActive(ctx context.Context) ([]Content, error)
	List(ctx context.Context) ([]Content, error)
}
