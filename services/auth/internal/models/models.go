package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:""                         json:"email,omitempty"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null"                 json:"role"`
	IsActive     bool      `gorm:"not null;default:true"    json:"is_active"`
	CreatedAt    time.Time `gorm:""                         json:"created_at"`
}

// RefreshSession tracks an outstanding refresh token. Only the sha256 of
// the token is stored; the JTI claim identifies the session.
type RefreshSession struct {
	ID        uint   `gorm:"primaryKey"            json:"id"`
	JTI       string `gorm:"uniqueIndex;not null"  json:"jti"`
	TokenHash string `gorm:"uniqueIndex;not null"  json:"-"`
	UserID    uint   `gorm:"index;not null"        json:"user_id"`
	ExpiresAt int64  `gorm:"not null"              json:"expires_at"`
	Revoked   bool   `gorm:"not null;default:false" json:"revoked"`
}
