package common

import (
	"filae/src/config"
	"filae/src/db"
	"filae/src/lib"
	"filae/src/models"
	"filae/src/types"
	"filae/src/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// Queue lifecycle engine. Every mutation for one establishment runs inside
// that establishment's lock, so position assignment and renumbering always
// see a consistent waiting list. Operations on different establishments do
// not contend.

func JoinQueue(ctx context.Context, establishmentID uint, userID uint, partySize int, notes string) (*models.QueueEntry, error) {
	mu := lib.EstablishmentLock(establishmentID)
	mu.Lock()
	defer mu.Unlock()

	dbi := db.GetDb().WithContext(ctx)

	establishment, err := GetEstablishment(dbi, establishmentID)
	if err != nil {
		return nil, err
	}
	if !establishment.QueueEnabled {
		return nil, types.ErrQueueDisabled
	}
	if !establishment.IsAcceptingCustomers {
		return nil, types.ErrNotAccepting
	}

	exists, err := UserExists(dbi, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user [%d]", types.ErrNotFound, userID)
	}

	// One active entry per user per establishment. CALLED counts as active:
	// a customer who has been called but not finished cannot rejoin.
	var active int64
	err = dbi.
		Model(&models.QueueEntry{}).
		Where("user_id = ? AND establishment_id = ? AND status IN ?",
			userID, establishmentID,
			[]types.QueueStatus{types.QUEUE_WAITING, types.QUEUE_CALLED}).
		Count(&active).
		Error
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, types.ErrAlreadyQueued
	}

	var waiting int64
	err = dbi.
		Model(&models.QueueEntry{}).
		Where(&models.QueueEntry{EstablishmentID: establishmentID, Status: types.QUEUE_WAITING}).
		Count(&waiting).
		Error
	if err != nil {
		return nil, err
	}

	if partySize < 1 {
		partySize = 1
	}
	position := int(waiting) + 1
	entry := models.QueueEntry{
		EstablishmentID: establishmentID,
		UserID:          userID,
		PartySize:       partySize,
		Notes:           notes,
		Status:          types.QUEUE_WAITING,
		Position:        position,
		TotalInQueue:    position,
		EstimatedWait:   position * config.AVERAGE_SERVICE_MINUTES,
		JoinedAt:        time.Now(),
	}

	// The unique index on ticket_code is the arbiter: insert and regenerate
	// on a duplicate-key rejection instead of checking first.
	for attempt := 0; ; attempt++ {
		entry.TicketCode = utils.GenerateTicketCode(establishment.Name)
		err = dbi.Create(&entry).Error
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < config.TICKET_CODE_MAX_ATTEMPTS {
			log.Printf("[queue] ticket code %s already taken, regenerating\n", entry.TicketCode)
			continue
		}
		return nil, err
	}

	log.Printf("[queue] user %d joined establishment %d with ticket %s at position %d\n", userID, establishmentID, entry.TicketCode, entry.Position)
	EmitQueueEvent(ctx, types.QUEUE_EVENT_JOINED, &entry)
	return &entry, nil
}

func CallNext(ctx context.Context, establishmentID uint) (*models.QueueEntry, error) {
	mu := lib.EstablishmentLock(establishmentID)
	mu.Lock()
	defer mu.Unlock()

	dbi := db.GetDb().WithContext(ctx)

	if _, err := GetEstablishment(dbi, establishmentID); err != nil {
		return nil, err
	}

	var entry models.QueueEntry
	err := dbi.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&models.QueueEntry{}).
			Where(&models.QueueEntry{EstablishmentID: establishmentID, Status: types.QUEUE_WAITING}).
			Order("position asc").
			First(&entry).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrEmptyQueue
			}
			return err
		}
		now := time.Now()
		entry.Status = types.QUEUE_CALLED
		entry.CalledAt = &now
		err = tx.
			Model(&models.QueueEntry{}).
			Where("id = ?", entry.ID).
			Updates(map[string]any{"status": types.QUEUE_CALLED, "called_at": now}).
			Error
		if err != nil {
			return err
		}
		return renumberQueue(tx, establishmentID)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[queue] called ticket %s at establishment %d\n", entry.TicketCode, establishmentID)
	EmitQueueEvent(ctx, types.QUEUE_EVENT_CALLED, &entry)
	return &entry, nil
}

func CancelQueue(ctx context.Context, entryID uint, requestingUserID uint) (*models.QueueEntry, error) {
	dbi := db.GetDb().WithContext(ctx)

	// Resolve the establishment before taking its lock; ownership and
	// status are re-checked inside the critical section.
	peek, err := GetQueueEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	mu := lib.EstablishmentLock(peek.EstablishmentID)
	mu.Lock()
	defer mu.Unlock()

	var entry models.QueueEntry
	err = dbi.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&models.QueueEntry{}).
			Where("id = ?", entryID).
			First(&entry).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: queue entry [%d]", types.ErrNotFound, entryID)
			}
			return err
		}
		if entry.UserID != requestingUserID {
			return fmt.Errorf("%w: queue entry [%d] does not belong to user [%d]", types.ErrForbidden, entryID, requestingUserID)
		}
		if entry.Status != types.QUEUE_WAITING {
			return types.ErrWrongStatus
		}
		now := time.Now()
		entry.Status = types.QUEUE_CANCELLED
		entry.CancelledAt = &now
		err = tx.
			Model(&models.QueueEntry{}).
			Where("id = ?", entry.ID).
			Updates(map[string]any{"status": types.QUEUE_CANCELLED, "cancelled_at": now}).
			Error
		if err != nil {
			return err
		}
		return renumberQueue(tx, entry.EstablishmentID)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[queue] cancelled ticket %s at establishment %d\n", entry.TicketCode, entry.EstablishmentID)
	EmitQueueEvent(ctx, types.QUEUE_EVENT_CANCELLED, &entry)
	return &entry, nil
}

func FinishQueue(ctx context.Context, entryID uint) (*models.QueueEntry, error) {
	dbi := db.GetDb().WithContext(ctx)

	peek, err := GetQueueEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	mu := lib.EstablishmentLock(peek.EstablishmentID)
	mu.Lock()
	defer mu.Unlock()

	var entry models.QueueEntry
	err = dbi.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&models.QueueEntry{}).
			Where("id = ?", entryID).
			First(&entry).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: queue entry [%d]", types.ErrNotFound, entryID)
			}
			return err
		}
		// Finishing is tolerated from WAITING as well as CALLED (customers
		// served out of band), but terminal entries stay terminal.
		if !entry.Status.CanTransitionTo(types.QUEUE_FINISHED) {
			return types.ErrWrongStatus
		}
		wasWaiting := entry.Status == types.QUEUE_WAITING
		now := time.Now()
		entry.Status = types.QUEUE_FINISHED
		entry.FinishedAt = &now
		err = tx.
			Model(&models.QueueEntry{}).
			Where("id = ?", entry.ID).
			Updates(map[string]any{"status": types.QUEUE_FINISHED, "finished_at": now}).
			Error
		if err != nil {
			return err
		}
		if wasWaiting {
			return renumberQueue(tx, entry.EstablishmentID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[queue] finished ticket %s at establishment %d\n", entry.TicketCode, entry.EstablishmentID)
	EmitQueueEvent(ctx, types.QUEUE_EVENT_FINISHED, &entry)
	return &entry, nil
}

// renumberQueue rewrites position, total_in_queue and the wait estimate for
// every WAITING entry of the establishment, in admission order. Runs inside
// the caller's transaction and establishment lock, so no reader observes a
// gapped or duplicated sequence.
func renumberQueue(tx *gorm.DB, establishmentID uint) error {
	var waiting []models.QueueEntry
	err := tx.
		Model(&models.QueueEntry{}).
		Where(&models.QueueEntry{EstablishmentID: establishmentID, Status: types.QUEUE_WAITING}).
		Order("joined_at asc, id asc").
		Find(&waiting).
		Error
	if err != nil {
		return err
	}
	total := len(waiting)
	for i := range waiting {
		position := i + 1
		err := tx.
			Model(&models.QueueEntry{}).
			Where("id = ?", waiting[i].ID).
			Updates(map[string]any{
				"position":               position,
				"total_in_queue":         total,
				"estimated_wait_minutes": position * config.AVERAGE_SERVICE_MINUTES,
			}).
			Error
		if err != nil {
			return err
		}
	}
	return nil
}

func GetQueueEntry(ctx context.Context, entryID uint) (*models.QueueEntry, error) {
	dbi := db.GetDb().WithContext(ctx)
	var entry models.QueueEntry
	err := dbi.
		Model(&models.QueueEntry{}).
		Where("id = ?", entryID).
		First(&entry).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: queue entry [%d]", types.ErrNotFound, entryID)
		}
		return nil, err
	}
	return &entry, nil
}

func GetEstablishmentQueue(ctx context.Context, establishmentID uint) ([]models.QueueEntry, error) {
	dbi := db.GetDb().WithContext(ctx)
	if _, err := GetEstablishment(dbi, establishmentID); err != nil {
		return nil, err
	}
	var entries []models.QueueEntry
	err := dbi.
		Model(&models.QueueEntry{}).
		Where(&models.QueueEntry{EstablishmentID: establishmentID, Status: types.QUEUE_WAITING}).
		Order("position asc").
		Find(&entries).
		Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func GetUserQueues(ctx context.Context, userID uint) ([]models.QueueEntry, error) {
	dbi := db.GetDb().WithContext(ctx)
	var entries []models.QueueEntry
	err := dbi.
		Model(&models.QueueEntry{}).
		Where("user_id = ? AND status IN ?", userID,
			[]types.QueueStatus{types.QUEUE_WAITING, types.QUEUE_CALLED}).
		Order("joined_at desc").
		Find(&entries).
		Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
