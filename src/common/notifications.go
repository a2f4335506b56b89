package common

import (
	"filae/src/db"
	"filae/src/models"
	"filae/src/types"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func GetUserNotifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	dbi := db.GetDb().WithContext(ctx)
	var notifications []models.Notification
	err := dbi.
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(100).
		Find(&notifications).
		Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func MarkNotificationRead(ctx context.Context, id uuid.UUID, userID uint) error {
	dbi := db.GetDb().WithContext(ctx)
	var notification models.Notification
	err := dbi.
		Model(&models.Notification{}).
		Where("id = ?", id).
		First(&notification).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification [%s]", types.ErrNotFound, id)
		}
		return err
	}
	if notification.UserID != userID {
		return fmt.Errorf("%w: notification [%s] does not belong to user [%d]", types.ErrForbidden, id, userID)
	}
	return dbi.
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).
		Error
}

// CleanupReadNotifications removes read notifications older than the cutoff.
// Scheduled daily from boot.
func CleanupReadNotifications(olderThan time.Duration) {
	dbi := db.GetDb()
	cutoff := time.Now().Add(-olderThan)
	result := dbi.
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		log.Printf("[notifications] cleanup failed: %s\n", result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[notifications] cleaned up %d read notifications\n", result.RowsAffected)
	}
}
