package model

import "time"

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ThreadID  uint      `gorm:"not null;index" json:"threadId"`
	AuthorID  uint      `gorm:"not null;index" json:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
