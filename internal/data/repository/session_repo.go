package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barbershop-booking/internal/data/entity"
	"barbershop-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SessionRepository reads bearer sessions issued by the identity service.
type SessionRepository interface {
	FindValidSession(ctx context.Context, token string) (*entity.Session, error)
}

type sessionRepository struct {
	db      database.PgxIface
	timeout time.Duration
	log     *zap.Logger
}

func NewSessionRepository(db database.PgxIface, timeout time.Duration, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:      db,
		timeout: timeout,
		log:     log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT token, customer_id, expires_at, revoked_at, created_at
		FROM sessions
		WHERE token = $1
		  AND revoked_at IS NULL
		  AND expires_at > NOW()
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.Token,
		&session.CustomerID,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}
