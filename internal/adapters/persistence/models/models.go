package models

import (
	"time"

	"imc-punching/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Legacy account tables (read only for the punch core)
// ============================================================

// User represents acc_users table
type User struct {
	ID       string `gorm:"column:id;primaryKey;size:50" json:"id"`
	// Password holds a bcrypt hash. Accounts created by the back office
	// before hashing was introduced hold plain text until
	// cmd/rehash-passwords has been run.
	Password string `gorm:"column:pass;size:255;not null" json:"-"`
	ClientID string `gorm:"column:client_id;size:50;index;not null" json:"client_id"`
	IsAdmin  bool   `gorm:"column:is_admin;default:false" json:"is_admin"`
	Name     string `gorm:"column:name;size:100" json:"name"`
}

func (User) TableName() string {
	return "acc_users"
}

// Customer represents acc_master table
type Customer struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Name     string `gorm:"column:name;size:150;not null" json:"name"`
	ClientID string `gorm:"column:client_id;size:50;index;not null" json:"-"`
}

func (Customer) TableName() string {
	return "acc_master"
}

// ============================================================
// Punch records
// ============================================================

// PunchRecord represents punch_records table
type PunchRecord struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	ClientID         string             `gorm:"column:client_id;size:50;not null;index:idx_punch_client_date" json:"client_id"`
	Username         string             `gorm:"column:username;size:50;not null;index" json:"username"`
	CustomerName     string             `gorm:"column:customer_name;size:150" json:"customer_name"`
	PunchDate        DateOnly           `gorm:"column:punch_date;type:date;not null;index:idx_punch_client_date" json:"punch_date"`
	PunchInTime      Timestamp          `gorm:"column:punch_in_time;not null" json:"punch_in_time"`
	PunchInLocation  string             `gorm:"column:punch_in_location;type:text" json:"punch_in_location"`
	PunchOutTime     *Timestamp         `gorm:"column:punch_out_time" json:"punch_out_time"`
	PunchOutLocation string             `gorm:"column:punch_out_location;type:text" json:"punch_out_location,omitempty"`
	PunchOutDate     *DateOnly          `gorm:"column:punch_out_date;type:date" json:"punch_out_date"`
	PhotoFilename    string             `gorm:"column:photo_filename;size:255" json:"photo_filename,omitempty"`
	PhotoURL         string             `gorm:"column:photo_url;size:500" json:"photo_url,omitempty"`
	TotalTimeSpent   *Interval          `gorm:"column:total_time_spent" json:"total_time_spent"`
	Status           domain.PunchStatus `gorm:"column:status;size:20;default:'PENDING'" json:"status"`
	CreatedAt        time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PunchRecord) TableName() string {
	return "punch_records"
}

// AfterFind treats legacy rows without a status as pending
func (p *PunchRecord) AfterFind(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = domain.PunchStatusPending
	}
	return nil
}

// IsCompleted reports whether the punch-out transition already happened
func (p *PunchRecord) IsCompleted() bool {
	return p.Status == domain.PunchStatusCompleted
}

// Attachment returns the photo linkage, or nil when none is stored
func (p *PunchRecord) Attachment() *domain.Attachment {
	if p.PhotoFilename == "" && p.PhotoURL == "" {
		return nil
	}
	return &domain.Attachment{Reference: p.PhotoFilename, URL: p.PhotoURL}
}

// PunchRecordWithUser is a punch row joined with the owner's display name
type PunchRecordWithUser struct {
	PunchRecord
	UserName string `gorm:"column:user_name" json:"user_name"`
}

// PunchOutUpdate carries the fields written by the punch-out transition
type PunchOutUpdate struct {
	PunchOutTime     time.Time
	PunchOutLocation string
	PunchOutDate     DateOnly
	TotalTimeSpent   time.Duration
	Photo            *domain.Attachment // nil keeps the existing photo
}

// Punch status values (string form for queries)
const (
	StatusPending   = string(domain.PunchStatusPending)
	StatusCompleted = string(domain.PunchStatusCompleted)
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for the punch table. The account tables
// are owned by the back office and only migrated when seeding dev data.
func AutoMigrate(db *gorm.DB, withAccounts bool) error {
	if withAccounts {
		if err := db.AutoMigrate(&User{}, &Customer{}); err != nil {
			return err
		}
	}
	return db.AutoMigrate(&PunchRecord{})
}
