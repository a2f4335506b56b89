package models

import (
	"filae/src/types"
)

type User struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `gorm:"uniqueIndex" json:"email,omitempty"`
	Role  string `gorm:"default:'customer'" json:"role,omitempty"`

	QueueEntries   []QueueEntry    `gorm:"foreignKey:user_id" json:"queue_entries,omitempty"`
	Establishments []Establishment `gorm:"foreignKey:merchant_id" json:"establishments,omitempty"`

	types.Timestamps
}
