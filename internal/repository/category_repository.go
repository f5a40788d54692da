package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"goforum/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("create category failed: %w", err)
	}
	return nil
}

// GetByID loads a category with its subforums attached.
func (r *CategoryRepository) GetByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("Subforums").First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query category by id failed: %w", err)
	}
	return &category, nil
}

// Exists is the cheap variant for parent checks before creating a subforum.
func (r *CategoryRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check category exists failed: %w", err)
	}
	return count > 0, nil
}

// List returns one page of categories with subforums preloaded plus the
// total category count.
func (r *CategoryRepository) List(offset, limit int) ([]model.Category, int64, error) {
	var total int64
	if err := r.db.Model(&model.Category{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count categories failed: %w", err)
	}

	var categories []model.Category
	if err := r.db.Preload("Subforums").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("list categories failed: %w", err)
	}
	return categories, total, nil
}
