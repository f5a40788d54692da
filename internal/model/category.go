package model

type Category struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"size:500;not null" json:"description"`
	Subforums   []Subforum `gorm:"foreignKey:CategoryID" json:"subforums"`
}
