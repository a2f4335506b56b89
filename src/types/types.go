package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported type for JSONB")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type QueueStatus string

const (
	QUEUE_WAITING   QueueStatus = "WAITING"
	QUEUE_CALLED    QueueStatus = "CALLED"
	QUEUE_FINISHED  QueueStatus = "FINISHED"
	QUEUE_CANCELLED QueueStatus = "CANCELLED"
)

// Terminal reports whether a status admits no further transitions.
func (s QueueStatus) Terminal() bool {
	return s == QUEUE_FINISHED || s == QUEUE_CANCELLED
}

// CanTransitionTo encodes the queue state machine:
// WAITING -> CALLED -> FINISHED, WAITING -> CANCELLED, WAITING -> FINISHED.
func (s QueueStatus) CanTransitionTo(next QueueStatus) bool {
	switch s {
	case QUEUE_WAITING:
		return next == QUEUE_CALLED || next == QUEUE_CANCELLED || next == QUEUE_FINISHED
	case QUEUE_CALLED:
		return next == QUEUE_FINISHED
	default:
		return false
	}
}

type QueueEventType string

const (
	QUEUE_EVENT_JOINED    QueueEventType = "JOINED"
	QUEUE_EVENT_CALLED    QueueEventType = "CALLED"
	QUEUE_EVENT_CANCELLED QueueEventType = "CANCELLED"
	QUEUE_EVENT_FINISHED  QueueEventType = "FINISHED"
)

type UserRole string

const (
	ROLE_CUSTOMER UserRole = "customer"
	ROLE_MERCHANT UserRole = "merchant"
)

type JoinQueueRequestBody struct {
	EstablishmentID uint   `json:"establishment_id" binding:"required"`
	PartySize       int    `json:"party_size,omitempty" binding:"omitempty,partysize"`
	Notes           string `json:"notes,omitempty" binding:"omitempty,max=500"`
}

type CreateEstablishmentRequestBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category" binding:"required,max=100"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required,len=2"`
	ZipCode     string `json:"zip_code,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty" binding:"omitempty,email"`
}

type UpdateAcceptingRequestBody struct {
	Accepting *bool `json:"accepting" binding:"required"`
}

type RegisterUserRequestBody struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role,omitempty" binding:"omitempty,oneof=customer merchant"`
}

type LoginRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type APIResponseQueueEntry struct {
	ID              uint       `json:"id"`
	TicketCode      string     `json:"ticket_code"`
	EstablishmentID uint       `json:"establishment_id"`
	UserID          uint       `json:"user_id"`
	PartySize       int        `json:"party_size"`
	Notes           string     `json:"notes,omitempty"`
	Status          string     `json:"status"`
	Position        int        `json:"position"`
	TotalInQueue    int        `json:"total_in_queue"`
	EstimatedWait   int        `json:"estimated_wait_minutes"`
	JoinedAt        *time.Time `json:"joined_at,omitempty"`
	CalledAt        *time.Time `json:"called_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type QueueEventPayload struct {
	Type            QueueEventType `json:"type"`
	EntryID         uint           `json:"entry_id"`
	TicketCode      string         `json:"ticket_code"`
	EstablishmentID uint           `json:"establishment_id"`
	UserID          uint           `json:"user_id"`
	Position        int            `json:"position"`
	TotalInQueue    int            `json:"total_in_queue"`
	EstimatedWait   int            `json:"estimated_wait_minutes"`
}

type Handler func(payload string)
