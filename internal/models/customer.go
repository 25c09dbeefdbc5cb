package models

import "time"

// Customer has no login; it exists only to attach bookings to a person.
// Phone is the dedup key inside a tenant.
type Customer struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index:idx_customers_tenant_phone,unique" json:"tenant_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;index:idx_customers_tenant_phone,unique" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
