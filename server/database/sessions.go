package database

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrSessionExpired = errors.New("session expired")

func (d *Database) CreateSession(ctx context.Context, session Session) error {
	query := `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES (:id, :user_id, :created_at, :expires_at)
	`
	if _, err := d.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (d *Database) GetSessionWithUser(ctx context.Context, sessionID string) (*SessionWithUser, error) {
	query := `
		SELECT sessions.id,
		       sessions.user_id,
		       sessions.created_at,
		       sessions.expires_at,
		       users.id           AS "user.id",
		       users.username     AS "user.username",
		       users.email        AS "user.email",
		       users.password_hash AS "user.password_hash",
		       users.first_name   AS "user.first_name",
		       users.last_name    AS "user.last_name",
		       users.is_secretary AS "user.is_secretary",
		       users.date_joined  AS "user.date_joined"
		FROM sessions
		JOIN users ON users.id = sessions.user_id
		WHERE sessions.id = $1
	`

	var session SessionWithUser
	if err := d.db.GetContext(ctx, &session, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.ExpiresAt.Before(time.Now()) {
		return nil, ErrSessionExpired
	}

	return &session, nil
}

func (d *Database) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions invalidates every session of a user, used after a
// password change.
func (d *Database) DeleteUserSessions(ctx context.Context, userID int) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

func (d *Database) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < NOW()")
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}
