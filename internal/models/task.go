package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task priorities.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description *string
	DueDate     *time.Time
	Priority    int  `gorm:"not null;default:2"`
	IsCompleted bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ValidPriority reports whether p is one of the accepted priority levels.
func ValidPriority(p int) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
