package models

import "time"

// Army is a named collection of units being painted together.
type Army struct {
	ID          string    `gorm:"primaryKey;size:32" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex;size:120" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Units []Unit `gorm:"foreignKey:ArmyID" json:"units,omitempty"`
}
