package database

import (
	"context"
	"fmt"

	"github.com/lib/pq"
)

func (d *Database) CreateUser(ctx context.Context, user User) (*User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, is_secretary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, username, email, password_hash, first_name, last_name, is_secretary, date_joined
	`

	var created User
	if err := d.db.GetContext(ctx, &created, query,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.IsSecretary,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create user: %w", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

func (d *Database) GetUsers(ctx context.Context, search string) ([]User, error) {
	query := `
		SELECT id, username, email, password_hash, first_name, last_name, is_secretary, date_joined
		FROM users
	`
	var args []any
	if search != "" {
		query += " WHERE username ILIKE '%' || $1 || '%'"
		args = append(args, search)
	}
	query += " ORDER BY username"

	var users []User
	if err := d.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return users, nil
}

func (d *Database) GetUser(ctx context.Context, userID int) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, first_name, last_name, is_secretary, date_joined
		FROM users
		WHERE id = $1
	`

	var user User
	if err := d.db.GetContext(ctx, &user, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (d *Database) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, first_name, last_name, is_secretary, date_joined
		FROM users
		WHERE username = $1
	`

	var user User
	if err := d.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (d *Database) GetUsersByIDs(ctx context.Context, userIDs []int) ([]User, error) {
	query := `
		SELECT id, username, email, password_hash, first_name, last_name, is_secretary, date_joined
		FROM users
		WHERE id = ANY ($1)
		ORDER BY username
	`

	var users []User
	if err := d.db.SelectContext(ctx, &users, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}

	return users, nil
}

func (d *Database) UpdateUser(ctx context.Context, userID int, email string, firstName string, lastName string) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4
		WHERE id = $1
	`

	if _, err := d.db.ExecContext(ctx, query, userID, email, firstName, lastName); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to update user: %w", ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (d *Database) UpdateUserPassword(ctx context.Context, userID int, passwordHash string) error {
	if _, err := d.db.ExecContext(ctx, "UPDATE users SET password_hash = $2 WHERE id = $1", userID, passwordHash); err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	return nil
}

func (d *Database) SetUserSecretary(ctx context.Context, userID int, isSecretary bool) error {
	if _, err := d.db.ExecContext(ctx, "UPDATE users SET is_secretary = $2 WHERE id = $1", userID, isSecretary); err != nil {
		return fmt.Errorf("failed to update user secretary flag: %w", err)
	}
	return nil
}
