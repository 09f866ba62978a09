package models

import "time"

// Category values for Unit.Category.
const (
	CategoryUnit      = "Unit"
	CategoryCharacter = "Character"
)

// Unit is the core record in Muster: one unit or character entry with its
// painting state and per-model progress.
type Unit struct {
	ID            string    `gorm:"primaryKey;size:32" json:"id"`
	ArmyID        *string   `gorm:"size:32;index" json:"armyId"`
	Faction       string    `gorm:"size:120;index" json:"faction"`
	Name          string    `gorm:"not null;size:120" json:"name"`
	Category      string    `gorm:"size:16;default:Unit" json:"category"`
	ModelCount    int       `gorm:"default:1" json:"modelCount"`
	ProgressCount int       `gorm:"default:0" json:"progressCount"`
	State         string    `gorm:"size:32;index" json:"state"`
	Details       string    `gorm:"type:text" json:"details"`
	Champion      int       `gorm:"default:0" json:"champion"`
	Musician      int       `gorm:"default:0" json:"musician"`
	BannerBearer  int       `gorm:"default:0" json:"bannerBearer"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Army *Army `gorm:"foreignKey:ArmyID" json:"-"`
}

// IsCharacter reports whether the unit is a single character entry.
func (u *Unit) IsCharacter() bool {
	return u.Category == CategoryCharacter
}
