package model

import "time"

// LoginRecord is append-only: one row per successful login, never updated
// or deleted.
type LoginRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	LoginTime time.Time `gorm:"not null;index" json:"login_time"`
	IPAddress string    `gorm:"size:45;not null" json:"ip_address"`
}
