package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mani-shailesh/focus/internal/xrand"
)

func (d *Database) GetUserBySocialConnection(ctx context.Context, provider string, providerUserID string) (*User, error) {
	query := `
		SELECT users.id, users.username, users.email, users.password_hash, users.first_name, users.last_name, users.is_secretary, users.date_joined
		FROM users
		JOIN social_connections ON social_connections.user_id = users.id
		WHERE social_connections.provider = $1
		  AND social_connections.provider_user_id = $2
	`

	var user User
	if err := d.db.GetContext(ctx, &user, query, provider, providerUserID); err != nil {
		return nil, fmt.Errorf("failed to get user by social connection: %w", err)
	}

	return &user, nil
}

// FindOrCreateSocialUser resolves an OAuth identity to a local user, creating
// the account and the social connection on first login.
func (d *Database) FindOrCreateSocialUser(ctx context.Context, connection SocialConnection, user User) (*User, error) {
	existing, err := d.GetUserBySocialConnection(ctx, connection.Provider, connection.ProviderUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// ON CONFLICT DO NOTHING keeps the transaction usable when the username
	// collides with an unrelated local account, so the insert can be retried
	// with a generated name.
	insertUser := `
		INSERT INTO users (username, email, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO NOTHING
		RETURNING id, username, email, password_hash, first_name, last_name, is_secretary, date_joined
	`

	var created User
	if err = tx.GetContext(ctx, &created, insertUser, user.Username, user.Email, user.FirstName, user.LastName); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to create social user: %w", err)
		}
		user.Username = fmt.Sprintf("%s_%s", connection.Provider, xrand.RandomStr(8))
		if err = tx.GetContext(ctx, &created, insertUser, user.Username, user.Email, user.FirstName, user.LastName); err != nil {
			return nil, fmt.Errorf("failed to create social user: %w", err)
		}
	}

	insertConnection := `
		INSERT INTO social_connections (provider, provider_user_id, user_id)
		VALUES ($1, $2, $3)
	`
	if _, err = tx.ExecContext(ctx, insertConnection, connection.Provider, connection.ProviderUserID, created.ID); err != nil {
		return nil, fmt.Errorf("failed to create social connection: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &created, nil
}
