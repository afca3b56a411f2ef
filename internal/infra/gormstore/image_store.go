package gormstore

import (
	"context"
	"errors"
	"fmt"

	"image-api/internal/domain/media"

	"gorm.io/gorm"
)

var _ media.Repository = (*ImageStore)(nil)

// ImageStore implements media.Repository on top of GORM.
type ImageStore struct {
	db *gorm.DB
}

func NewImageStore(db *gorm.DB) *ImageStore {
	return &ImageStore{db: db}
}

func (s *ImageStore) List(ctx context.Context) ([]media.Image, error) {
	images := make([]media.Image, 0)
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("ImageStore - List: %w", err)
	}
	return images, nil
}

func (s *ImageStore) Get(ctx context.Context, id uint) (*media.Image, error) {
	var img media.Image
	if err := s.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, wrap("Get", err)
	}
	return &img, nil
}

func (s *ImageStore) Create(ctx context.Context, fields media.Fields) (*media.Image, error) {
	var img media.Image
	fields.Apply(&img)

	if err := s.db.WithContext(ctx).Create(&img).Error; err != nil {
		return nil, fmt.Errorf("ImageStore - Create: %w", err)
	}
	return &img, nil
}

// Update loads, patches and saves the record in one transaction.
func (s *ImageStore) Update(ctx context.Context, id uint, fields media.Fields) (*media.Image, error) {
	var img media.Image

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&img, id).Error; err != nil {
			return err
		}
		fields.Apply(&img)
		return tx.Save(&img).Error
	})
	if err != nil {
		return nil, wrap("Update", err)
	}

	return &img, nil
}

func (s *ImageStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&media.Image{}, id)
	if res.Error != nil {
		return fmt.Errorf("ImageStore - Delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ImageStore - Delete: %w", media.ErrNotFound)
	}
	return nil
}

func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("ImageStore - %s: %w", op, media.ErrNotFound)
	}
	return fmt.Errorf("ImageStore - %s: %w", op, err)
}
