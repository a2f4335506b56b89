package models

import (
	"filae/src/types"
)

type Establishment struct {
	ID                   uint    `gorm:"primarykey;uniqueIndex:slugid" json:"id"`
	Name                 string  `json:"name,omitempty"`
	Slug                 string  `gorm:"uniqueIndex:slugid" json:"slug"`
	Description          string  `json:"description,omitempty"`
	Category             string  `json:"category,omitempty"`
	Address              string  `json:"address,omitempty"`
	City                 string  `json:"city,omitempty"`
	State                string  `json:"state,omitempty"`
	ZipCode              string  `json:"zip_code,omitempty"`
	PhoneNumber          string  `json:"phone_number,omitempty"`
	Email                string  `json:"email,omitempty"`
	Rating               float64 `gorm:"default:0" json:"rating"`
	ReviewCount          int     `gorm:"default:0" json:"review_count"`
	IsAcceptingCustomers bool    `gorm:"default:true" json:"is_accepting_customers"`
	QueueEnabled         bool    `gorm:"default:true" json:"queue_enabled"`
	MerchantID           uint    `json:"merchant_id,omitempty"`

	Merchant *User `gorm:"foreignKey:merchant_id" json:"-"`

	types.Timestamps
}
