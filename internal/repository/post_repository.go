package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"goforum/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *model.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post by id failed: %w", err)
	}
	return &post, nil
}

// ListByThread returns one oldest-first page of a thread's posts with
// authors attached, plus the thread's total post count.
func (r *PostRepository) ListByThread(threadID uint, offset, limit int) ([]model.Post, int64, error) {
	var total int64
	if err := r.db.Model(&model.Post{}).Where("thread_id = ?", threadID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts failed: %w", err)
	}

	var posts []model.Post
	err := r.db.Preload("Author").
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list posts failed: %w", err)
	}
	return posts, total, nil
}

// SearchByContent finds posts whose content contains the query
// substring, newest first, with the matching total.
func (r *PostRepository) SearchByContent(query string, offset, limit int) ([]model.Post, int64, error) {
	pattern := "%" + query + "%"

	var total int64
	if err := r.db.Model(&model.Post{}).Where("content LIKE ?", pattern).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count post matches failed: %w", err)
	}

	var posts []model.Post
	err := r.db.Preload("Author").
		Where("content LIKE ?", pattern).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("search posts failed: %w", err)
	}
	return posts, total, nil
}

func (r *PostRepository) Update(post *model.Post) error {
	if err := r.db.Save(post).Error; err != nil {
		return fmt.Errorf("update post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Post{}, id).Error; err != nil {
		return fmt.Errorf("delete post failed: %w", err)
	}
	return nil
}
