package entity

import (
	"time"
)

// Session is a bearer token issued by the identity service for a customer.
type Session struct {
	Token      string     `db:"token"`
	CustomerID int64      `db:"customer_id"`
	ExpiresAt  time.Time  `db:"expires_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
	CreatedAt  time.Time  `db:"created_at"`
}
