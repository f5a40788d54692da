package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"goforum/internal/model"
)

type SubforumRepository struct {
	db *gorm.DB
}

func NewSubforumRepository(db *gorm.DB) *SubforumRepository {
	return &SubforumRepository{db: db}
}

func (r *SubforumRepository) Create(subforum *model.Subforum) error {
	if err := r.db.Create(subforum).Error; err != nil {
		return fmt.Errorf("create subforum failed: %w", err)
	}
	return nil
}

func (r *SubforumRepository) GetByID(id uint) (*model.Subforum, error) {
	var subforum model.Subforum
	if err := r.db.First(&subforum, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query subforum by id failed: %w", err)
	}
	return &subforum, nil
}

// ListByCategory returns one name-ascending page of a category's
// subforums plus the total count for that category.
func (r *SubforumRepository) ListByCategory(categoryID uint, offset, limit int) ([]model.Subforum, int64, error) {
	var total int64
	if err := r.db.Model(&model.Subforum{}).Where("category_id = ?", categoryID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count subforums failed: %w", err)
	}

	var subforums []model.Subforum
	err := r.db.Where("category_id = ?", categoryID).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&subforums).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list subforums failed: %w", err)
	}
	return subforums, total, nil
}
