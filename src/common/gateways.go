package common

import (
	"filae/src/models"
	"filae/src/types"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Lookups the queue engine performs before mutating state. Always read
// fresh so a merchant flipping the accepting flag takes effect on the very
// next join attempt.

func GetEstablishment(tx *gorm.DB, id uint) (*models.Establishment, error) {
	var establishment models.Establishment
	err := tx.
		Model(&models.Establishment{}).
		Where(&models.Establishment{ID: id}).
		First(&establishment).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: establishment [%d]", types.ErrNotFound, id)
		}
		return nil, err
	}
	return &establishment, nil
}

func UserExists(tx *gorm.DB, id uint) (bool, error) {
	var count int64
	err := tx.
		Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
