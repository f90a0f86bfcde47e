package models

import (
	"time"
)

// Student is an enrolled subject with a reference face image and the label ID
// the classifier is trained against.
type Student struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"not null;uniqueIndex" json:"name"`
	Department string `gorm:"not null" json:"department"`
	ImagePath  string `gorm:"not null" json:"imagePath"`
	LabelID    int    `gorm:"not null;uniqueIndex" json:"labelId"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Student) TableName() string {
	return "students"
}
