package model

// User represents an account holder. The Normalized shadow fields hold
// lowercase copies used for case-insensitive lookup; EmailNormalized carries
// the authoritative unique index, raw Email does not.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"ID"`
	FirstName string `gorm:"size:50;not null" json:"FirstName"`
	LastName  string `gorm:"size:50;not null" json:"LastName"`
	Email     string `gorm:"size:100;not null" json:"Email"`
	Password  string `gorm:"size:100;not null" json:"-"` // bcrypt hash, never serialized

	FirstNameNormalized string `gorm:"size:50;not null" json:"FirstNameNormalized"`
	LastNameNormalized  string `gorm:"size:50;not null" json:"LastNameNormalized"`
	EmailNormalized     string `gorm:"size:100;not null;uniqueIndex" json:"EmailNormalized"`

	CommonFields
}

// DisplayName is the full name embedded in session tokens.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
