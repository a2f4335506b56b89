package models

import (
	"filae/src/types"
	"time"
)

// QueueEntry is one customer's place in one establishment's line.
// Position is a 1-based rank among WAITING entries and is rewritten on every
// admission or removal; once the entry leaves WAITING the column keeps its
// last value. Ticket codes are globally unique and never reused.
type QueueEntry struct {
	ID              uint              `gorm:"primarykey" json:"id"`
	TicketCode      string            `gorm:"uniqueIndex;not null" json:"ticket_code"`
	EstablishmentID uint              `gorm:"index;not null" json:"establishment_id"`
	UserID          uint              `gorm:"index;not null" json:"user_id"`
	PartySize       int               `gorm:"default:1" json:"party_size"`
	Notes           string            `json:"notes,omitempty"`
	Status          types.QueueStatus `gorm:"default:'WAITING'" json:"status"`
	Position        int               `json:"position"`
	TotalInQueue    int               `json:"total_in_queue"`
	EstimatedWait   int               `gorm:"column:estimated_wait_minutes" json:"estimated_wait_minutes"`
	JoinedAt        time.Time         `json:"joined_at"`
	CalledAt        *time.Time        `json:"called_at,omitempty"`
	FinishedAt      *time.Time        `json:"finished_at,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty"`

	Establishment *Establishment `gorm:"foreignKey:establishment_id" json:"establishment,omitempty"`
	User          *User          `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
