package sessionrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ritwiksharan/event-recommendor/internal/domain/chat"
)

// PostgresRepository implements chat.SessionStore using pgx.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS sessions (
//	    id         TEXT PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Save upserts the session, keeping the original created_at on conflict.
func (r *PostgresRepository) Save(ctx context.Context, session chat.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO sessions (id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at
	`, session.ID, payload, session.CreatedAt, session.UpdatedAt)
	return err
}

// Get fetches a session by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (chat.Session, bool, error) {
	if id == "" {
		return chat.Session{}, false, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT payload, created_at, updated_at
		FROM sessions
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return chat.Session{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return chat.Session{}, false, rows.Err()
	}
	var (
		payload   []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := rows.Scan(&payload, &createdAt, &updatedAt); err != nil {
		return chat.Session{}, false, err
	}
	var session chat.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return chat.Session{}, false, err
	}
	session.ID = id
	session.CreatedAt = createdAt
	session.UpdatedAt = updatedAt
	return session, true, rows.Err()
}

var _ chat.SessionStore = (*PostgresRepository)(nil)
