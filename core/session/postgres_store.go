package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL via pgx. Each role
// partition points at its own table; deployments run one PostgresStore per
// partition (or one with the default table when not sharding).
//
// Expected schema:
//
//	CREATE TABLE sessions (
//	    token               TEXT PRIMARY KEY,
//	    user_id             UUID NOT NULL,
//	    email               TEXT NOT NULL,
//	    name                TEXT NOT NULL,
//	    role                TEXT NOT NULL,
//	    fingerprint         TEXT NOT NULL,
//	    created_at          TIMESTAMPTZ NOT NULL,
//	    expires_at          TIMESTAMPTZ NOT NULL,
//	    absolute_expires_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX sessions_user_id_idx ON sessions (user_id);
//	CREATE INDEX sessions_absolute_expires_at_idx ON sessions (absolute_expires_at);
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// PostgresStoreOption configures a PostgresStore.
type PostgresStoreOption func(*PostgresStore)

// WithTable sets the table name for this partition. The name is
// interpolated into SQL, so it must come from configuration, never from
// request data.
func WithTable(table string) PostgresStoreOption {
	return func(ps *PostgresStore) {
		if table != "" {
			ps.table = table
		}
	}
}

// NewPostgresStore creates a PostgreSQL-backed session store.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresStoreOption) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("pgx pool is required"))
	}

	ps := &PostgresStore{
		pool:  pool,
		table: "sessions",
	}

	for _, opt := range opts {
		opt(ps)
	}

	return ps, nil
}

func (ps *PostgresStore) Put(ctx context.Context, sess *Session) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			token, user_id, email, name, role, fingerprint,
			created_at, expires_at, absolute_expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			fingerprint = EXCLUDED.fingerprint,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at,
			absolute_expires_at = EXCLUDED.absolute_expires_at
	`, ps.table)

	_, err := ps.pool.Exec(ctx, query,
		sess.Token,
		sess.UserID,
		sess.Email,
		sess.Name,
		string(sess.Role),
		sess.Fingerprint,
		sess.CreatedAt,
		sess.ExpiresAt,
		sess.AbsoluteExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (ps *PostgresStore) GetByToken(ctx context.Context, token string) (*Session, error) {
	query := fmt.Sprintf(`
		SELECT token, user_id, email, name, role, fingerprint,
		       created_at, expires_at, absolute_expires_at
		FROM %s
		WHERE token = $1
	`, ps.table)

	var sess Session
	var role string
	err := ps.pool.QueryRow(ctx, query, token).Scan(
		&sess.Token,
		&sess.UserID,
		&sess.Email,
		&sess.Name,
		&role,
		&sess.Fingerprint,
		&sess.CreatedAt,
		&sess.ExpiresAt,
		&sess.AbsoluteExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}

	sess.Role = Role(role)
	return &sess, nil
}

func (ps *PostgresStore) UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET expires_at = $2 WHERE token = $1`, ps.table)

	tag, err := ps.pool.Exec(ctx, query, token, expiresAt)
	if err != nil {
		return fmt.Errorf("update session expiry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (ps *PostgresStore) Delete(ctx context.Context, token string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE token = $1`, ps.table)

	tag, err := ps.pool.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (ps *PostgresStore) DeleteByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 RETURNING token`, ps.table)

	rows, err := ps.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("delete user sessions: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return tokens, fmt.Errorf("scan deleted token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return tokens, fmt.Errorf("delete user sessions: %w", err)
	}

	return tokens, nil
}

func (ps *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE absolute_expires_at < $1`, ps.table)

	tag, err := ps.pool.Exec(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Healthcheck validates database connectivity.
func (ps *PostgresStore) Healthcheck(ctx context.Context) error {
	if err := ps.pool.Ping(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
