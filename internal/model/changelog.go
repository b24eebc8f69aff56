package model

import "time"

// ChangeLogDetails is a single rollout ticket reference. Created only as part
// of a ChangeLog batch and immutable afterwards except for soft delete.
type ChangeLogDetails struct {
	ID         uint   `gorm:"primaryKey" json:"ID"`
	TicketInfo string `gorm:"size:1000;not null" json:"TicketInfo"`

	CommonFields
}

// ChangeLog is one rollout record owning an ordered list of detail ids.
// DetailIDs is stored as a JSON column; Details is resolved at read time and
// never persisted. Deleting a ChangeLog does not cascade to its details.
type ChangeLog struct {
	ID          uint               `gorm:"primaryKey" json:"ID"`
	RollOutDate time.Time          `gorm:"not null" json:"RollOutDate"`
	DetailIDs   []uint             `gorm:"serializer:json;not null" json:"-"`
	Details     []ChangeLogDetails `gorm:"-" json:"Details"`

	CommonFields
}
