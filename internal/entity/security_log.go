package entity

import (
	"time"

	"gorm.io/datatypes"
)

type SecurityAction string

const (
	LoginSuccess  SecurityAction = "login_success"
	LoginFailed   SecurityAction = "login_failed"
	OTPIssued     SecurityAction = "otp_issued"
	OTPFailed     SecurityAction = "otp_failed"
	OTPVerified   SecurityAction = "otp_verified"
	PasswordReset SecurityAction = "password_reset"
	UserDeleted   SecurityAction = "user_deleted"
	UserReverted  SecurityAction = "user_reverted"
)

type SecurityLog struct {
	ID string `gorm:"type:uuid;primaryKey" bson:"_id"`

	UserID *string `gorm:"type:uuid;index" bson:"userId,omitempty"`

	IPAddress *string        `gorm:"type:varchar(45)" bson:"ipAddress,omitempty"`
	Action    SecurityAction `gorm:"type:varchar(32);not null" bson:"action"`

	Metadata datatypes.JSON `bson:"metadata,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
}
