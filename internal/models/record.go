package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record carries the columns the store assigns to every row.
type Record struct {
	ID        string     `json:"id,omitempty" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// BeforeCreate fills the server-side defaults when rows are written through GORM.
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if r.CreatedAt == nil {
		r.CreatedAt = &now
	}
	if r.UpdatedAt == nil {
		r.UpdatedAt = &now
	}
	return nil
}

// GetID returns the row identity.
func (r Record) GetID() string { return r.ID }

// Tabler is implemented by every persisted entity.
type Tabler interface {
	TableName() string
}

// Tables returns a prototype of every persisted entity, in migration order.
func Tables() []Tabler {
	return []Tabler{
		&Product{},
		&BlogPost{},
		&Order{},
		&InventoryItem{},
		&Inquiry{},
		&FAQ{},
		&Notice{},
		&Event{},
		&Subscription{},
		&Profile{},
		&Credential{},
	}
}
