package model

import (
	"time"

	"github.com/google/uuid"
)

// SystemActor is the CreateName recorded when no authenticated user is acting.
const SystemActor = "SYSTEM"

// CommonFields carries the audit metadata shared by every entity. It is
// embedded by value, not inherited; FormID identifies the record independently
// of the storage-assigned primary key.
type CommonFields struct {
	CreateDate time.Time  `gorm:"not null" json:"CreateDate"`
	CreateName string     `gorm:"size:50;not null" json:"CreateName"`
	UpdateDate *time.Time `json:"UpdateDate"`
	UpdateName *string    `gorm:"size:50" json:"UpdateName"`
	IsDelete   bool       `gorm:"not null;default:false" json:"IsDelete"`
	FormID     string     `gorm:"size:36;not null" json:"FormID"`
}

// NewCommonFields stamps a fresh audit block for a record created by actor.
func NewCommonFields(actor string) CommonFields {
	return CommonFields{
		CreateDate: time.Now(),
		CreateName: actor,
		FormID:     uuid.NewString(),
	}
}

// Touch records a modification by actor.
func (c *CommonFields) Touch(actor string) {
	now := time.Now()
	c.UpdateDate = &now
	c.UpdateName = &actor
}
