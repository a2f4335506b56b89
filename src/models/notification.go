package models

import (
	"filae/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID            uuid.UUID    `gorm:"primarykey;type:uuid" json:"id"`
	UserID        uint         `gorm:"index" json:"user_id"`
	Title         string       `json:"title"`
	Body          string       `json:"body,omitempty"`
	EventType     string       `json:"event_type"`
	Read          bool         `gorm:"default:false" json:"read"`
	ReferenceBody *types.JSONB `gorm:"type:jsonb" json:"ref_body,omitempty"`

	types.Timestamps
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
