package model

import "time"

type Thread struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	SubforumID uint      `gorm:"not null;index" json:"subforumId"`
	AuthorID   uint      `gorm:"not null;index" json:"authorId"`
	Author     *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Posts      []Post    `gorm:"foreignKey:ThreadID" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
