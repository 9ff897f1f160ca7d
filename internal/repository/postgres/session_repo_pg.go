package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/repository/ports"
)

type SessionRepository struct {
	db *sqlx.DB
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepo(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.Session, error) {
	const query = `
        INSERT INTO sessions (user_id, token_hash, expires_at, is_active)
        VALUES ($1, $2, $3, true)
        RETURNING id, user_id, token_hash, created_at, expires_at, is_active
    `
	row := r.db.QueryRowxContext(ctx, query, userID, tokenHash, expiresAt)
	var session domain.Session
	if err := row.StructScan(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) DeactivateSession(ctx context.Context, tokenHash string) error {
	const query = `
        UPDATE sessions SET is_active = false, expires_at = NOW()
        WHERE token_hash = $1 AND is_active = true
    `
	_, err := r.db.ExecContext(ctx, query, tokenHash)
	return err
}

func (r *SessionRepository) FindActiveSession(ctx context.Context, tokenHash string) (*domain.Session, error) {
	const query = `
        SELECT id, user_id, token_hash, created_at, expires_at, is_active
        FROM sessions
        WHERE token_hash = $1 AND is_active = true AND expires_at > NOW()
    `
	var session domain.Session
	if err := r.db.GetContext(ctx, &session, query, tokenHash); err != nil {
		return nil, err
	}
	return &session, nil
}
