package personnel

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive      = "ACTIVE"
	StatusRetired     = "RETIRED"
	StatusResigned    = "RESIGNED"
	StatusTransferred = "TRANSFERRED"
)

type Personnel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BadgeNumber string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	FullName    string    `gorm:"type:varchar(120);not null"`
	Rank        string    `gorm:"type:varchar(60)"`
	Email       string    `gorm:"type:varchar(120);uniqueIndex:uq_personnel_email"`
	DateHired   time.Time `gorm:"type:date;not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index:idx_personnel_status"`
	PhotoURL    *string   `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_personnel_deleted_at"`
}

// Active personnel are the only ones leave can be requested for and
// the only ones the monthly accrual touches.
func (p *Personnel) IsActive() bool {
	return p.Status == StatusActive
}
