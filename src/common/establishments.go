package common

import (
	"filae/src/db"
	"filae/src/models"
	"filae/src/types"
	"context"
	"fmt"
	"log"

	"github.com/gosimple/slug"
)

func CreateEstablishment(ctx context.Context, params *types.CreateEstablishmentRequestBody, merchantID uint) (uint, error) {
	dbi := db.GetDb().WithContext(ctx)
	establishment := models.Establishment{
		Name:        params.Name,
		Slug:        slug.Make(params.Name),
		Description: params.Description,
		Category:    params.Category,
		Address:     params.Address,
		City:        params.City,
		State:       params.State,
		ZipCode:     params.ZipCode,
		PhoneNumber: params.PhoneNumber,
		Email:       params.Email,
		MerchantID:  merchantID,
		// New establishments start open for business.
		IsAcceptingCustomers: true,
		QueueEnabled:         true,
	}
	if err := dbi.Create(&establishment).Error; err != nil {
		log.Printf("[establishments] create failed: %s\n", err.Error())
		return 0, err
	}
	return establishment.ID, nil
}

func ListEstablishments(ctx context.Context, city string, category string) ([]models.Establishment, error) {
	dbi := db.GetDb().WithContext(ctx)
	query := dbi.Model(&models.Establishment{})
	if city != "" {
		query = query.Where("city = ?", city)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var establishments []models.Establishment
	if err := query.Order("name asc").Limit(100).Find(&establishments).Error; err != nil {
		return nil, err
	}
	return establishments, nil
}

// SetAccepting flips the walk-in gate for an establishment. Only the owning
// merchant may do it.
func SetAccepting(ctx context.Context, establishmentID uint, merchantID uint, accepting bool) error {
	dbi := db.GetDb().WithContext(ctx)
	establishment, err := GetEstablishment(dbi, establishmentID)
	if err != nil {
		return err
	}
	if establishment.MerchantID != merchantID {
		return fmt.Errorf("%w: establishment [%d] is not managed by user [%d]", types.ErrForbidden, establishmentID, merchantID)
	}
	return dbi.
		Model(&models.Establishment{}).
		Where("id = ?", establishmentID).
		Update("is_accepting_customers", accepting).
		Error
}
