package entity

import (
	"time"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

type User struct {
	ID           string   `gorm:"type:uuid;primaryKey" bson:"_id"`
	Username     string   `gorm:"type:varchar(100);uniqueIndex:idx_users_username;not null" bson:"username"`
	Email        string   `gorm:"type:varchar(255);uniqueIndex:idx_users_email;not null" bson:"email"`
	PasswordHash string   `gorm:"column:password;type:text;not null" bson:"password"`
	Role         UserRole `gorm:"type:varchar(10);default:'user';not null" bson:"role"`

	FirstName    string `gorm:"type:varchar(100)" bson:"firstName,omitempty"`
	LastName     string `gorm:"type:varchar(100)" bson:"lastName,omitempty"`
	MobileNumber string `gorm:"type:varchar(32)" bson:"mobileNumber,omitempty"`
	Profile      string `gorm:"type:text" bson:"profile,omitempty"`

	IsDeleted bool `gorm:"default:false;not null;index" bson:"isDeleted"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// UserUpdate lists the profile fields a client may change. Nil fields are
// left untouched.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	MobileNumber *string
	Email        *string
	Profile      *string
}

func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.MobileNumber == nil && u.Email == nil && u.Profile == nil
}

// Columns returns the changed fields keyed by storage name.
func (u UserUpdate) Columns() map[string]any {
	columns := map[string]any{}
	if u.FirstName != nil {
		columns["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		columns["last_name"] = *u.LastName
	}
	if u.MobileNumber != nil {
		columns["mobile_number"] = *u.MobileNumber
	}
	if u.Email != nil {
		columns["email"] = *u.Email
	}
	if u.Profile != nil {
		columns["profile"] = *u.Profile
	}
	return columns
}

func (u UserUpdate) Apply(user *User) {
	if u.FirstName != nil {
		user.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		user.LastName = *u.LastName
	}
	if u.MobileNumber != nil {
		user.MobileNumber = *u.MobileNumber
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Profile != nil {
		user.Profile = *u.Profile
	}
}
