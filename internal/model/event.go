package model

import (
	"time"

	"github.com/google/uuid"
)

// Event is one calendar entry. A recurring event is materialized at creation
// time as one row per applicable month rather than expanded on read; the
// rows of one series share a SeriesID.
type Event struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SeriesID     *uuid.UUID `gorm:"type:uuid;index" json:"series_id,omitempty"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	Date         time.Time  `gorm:"type:date;not null;index" json:"date"`
	IsImportant  bool       `gorm:"default:false" json:"is_important"`
	IsRecurring  bool       `gorm:"default:false" json:"is_recurring"`
	RecurringDay int        `gorm:"default:0" json:"recurring_day"` // 1..31 when IsRecurring
	Notes        string     `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Pendiente is a standalone to-do item shown next to the calendar
type Pendiente struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Date        time.Time `gorm:"type:date;index" json:"date"`
	IsImportant bool      `gorm:"default:false" json:"is_important"`
	Done        bool      `gorm:"default:false" json:"done"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
