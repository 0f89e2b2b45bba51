// Package lifecycle implements the versioned record lifecycle shared by all
// account entities: creation, restore-on-create, optimistic-locked updates,
// and soft deletion.
package lifecycle

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Envelope carries the lifecycle columns present on every entity. Entities
// embed it and gain the Record method set.
type Envelope struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
	DeletedAt *time.Time   `json:"deletedAt"`
	IsDeleted bool         `gorm:"not null;default:false;index" json:"isDeleted"`
	Version   int64        `gorm:"not null;default:1" json:"version"`
}

// Meta exposes the envelope to the protocol functions.
func (e *Envelope) Meta() *Envelope { return e }

// Record is any entity carrying a lifecycle envelope.
type Record interface {
	Meta() *Envelope
}
