package models

import "time"

type Tenant struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	// Civil timezone every slot computation for this tenant happens in.
	Timezone string `gorm:"size:50" json:"timezone"`

	MinAdvanceMinutes int `gorm:"default:0" json:"min_advance_minutes"`

	LogoURL string `gorm:"size:255" json:"logo_url"`

	PlanStatus    string     `gorm:"size:20;default:'trial'" json:"plan_status"`
	PlanExpiresAt *time.Time `json:"plan_expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
