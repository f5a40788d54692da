package model

type Subforum struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Name        string   `gorm:"size:100;not null" json:"name"`
	Description string   `gorm:"size:500;not null" json:"description"`
	CategoryID  uint     `gorm:"not null;index" json:"categoryId"`
	Threads     []Thread `gorm:"foreignKey:SubforumID" json:"-"`
}
