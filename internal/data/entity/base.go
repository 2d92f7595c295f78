package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the store-assigned identity and audit timestamps.
type Base struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
