package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"goforum/internal/model"
)

type ThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// CreateWithInitialPost inserts the thread and its first post in one
// transaction. A thread never exists without at least one post.
func (r *ThreadRepository) CreateWithInitialPost(thread *model.Thread, content string) (*model.Post, error) {
	var post *model.Post
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(thread).Error; err != nil {
			return err
		}
		post = &model.Post{
			Content:  content,
			ThreadID: thread.ID,
			AuthorID: thread.AuthorID,
		}
		return tx.Create(post).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create thread with initial post failed: %w", err)
	}
	return post, nil
}

func (r *ThreadRepository) GetByID(id uint) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.Preload("Author").First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query thread by id failed: %w", err)
	}
	return &thread, nil
}

// ListBySubforum returns one newest-first page of a subforum's threads
// plus the subforum's total thread count.
func (r *ThreadRepository) ListBySubforum(subforumID uint, offset, limit int) ([]model.Thread, int64, error) {
	var total int64
	if err := r.db.Model(&model.Thread{}).Where("subforum_id = ?", subforumID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count threads failed: %w", err)
	}

	var threads []model.Thread
	err := r.db.Where("subforum_id = ?", subforumID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list threads failed: %w", err)
	}
	return threads, total, nil
}

// SearchByTitle finds threads whose title contains the query substring,
// newest first, with the matching total.
func (r *ThreadRepository) SearchByTitle(query string, offset, limit int) ([]model.Thread, int64, error) {
	pattern := "%" + query + "%"

	var total int64
	if err := r.db.Model(&model.Thread{}).Where("title LIKE ?", pattern).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count thread matches failed: %w", err)
	}

	var threads []model.Thread
	err := r.db.Preload("Author").
		Where("title LIKE ?", pattern).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, 0, fmt.Errorf("search threads failed: %w", err)
	}
	return threads, total, nil
}

// DeleteWithPosts removes the thread's posts first, then the thread.
// The schema defines no cascades, so the order matters.
func (r *ThreadRepository) DeleteWithPosts(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Thread{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete thread with posts failed: %w", err)
	}
	return nil
}
