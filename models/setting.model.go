package models

import "time"

// Setting is an admin-editable site setting (key/value).
type Setting struct {
	ID    uint   `json:"id" gorm:"primarykey"`
	Key   string `json:"key" gorm:"uniqueIndex;not null"`
	Value string `json:"value" gorm:"default:''"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
