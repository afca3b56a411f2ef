package media

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("image not found")

type Image struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"size:2000;not null;default:''"`
	File        string `gorm:"column:image;size:500;not null"`
	ContentType string `gorm:"size:50;not null;default:''"`
	Width       int    `gorm:"not null;default:0"`
	Height      int    `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields holds the writable attributes supplied by a request. Nil means the
// attribute was not part of the payload.
type Fields struct {
	Title       *string
	Description *string
	File        *string
	ContentType *string
	Width       *int
	Height      *int
}

// Apply copies every supplied value onto img.
func (f Fields) Apply(img *Image) {
	if f.Title != nil {
		img.Title = *f.Title
	}
	if f.Description != nil {
		img.Description = *f.Description
	}
	if f.File != nil {
		img.File = *f.File
	}
	if f.ContentType != nil {
		img.ContentType = *f.ContentType
	}
	if f.Width != nil {
		img.Width = *f.Width
	}
	if f.Height != nil {
		img.Height = *f.Height
	}
}

type Repository interface {
	List(ctx context.Context) ([]Image, error)
	Get(ctx context.Context, id uint) (*Image, error)
	Create(ctx context.Context, fields Fields) (*Image, error)
	Update(ctx context.Context, id uint, fields Fields) (*Image, error)
	Delete(ctx context.Context, id uint) error
}
