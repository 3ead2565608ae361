package database

import (
	"context"
	"fmt"
)

// GetClubRoles lists roles of clubs the user is a member of, optionally
// restricted to a single club.
func (d *Database) GetClubRoles(ctx context.Context, userID int, clubID int) ([]ClubRole, error) {
	query := `
		SELECT club_roles.id, club_roles.club_id, club_roles.name, club_roles.description, club_roles.privilege
		FROM club_roles
		WHERE EXISTS (SELECT 1
		              FROM club_memberships
		              JOIN club_roles member_roles ON member_roles.id = club_memberships.club_role_id
		              WHERE member_roles.club_id = club_roles.club_id
		                AND club_memberships.user_id = $1)
	`
	args := []any{userID}
	if clubID != 0 {
		args = append(args, clubID)
		query += " AND club_roles.club_id = $2"
	}
	query += " ORDER BY club_roles.club_id, club_roles.id"

	var roles []ClubRole
	if err := d.db.SelectContext(ctx, &roles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get club roles: %w", err)
	}

	return roles, nil
}

func (d *Database) GetClubRole(ctx context.Context, roleID int) (*ClubRole, error) {
	query := `
		SELECT id, club_id, name, description, privilege
		FROM club_roles
		WHERE id = $1
	`

	var role ClubRole
	if err := d.db.GetContext(ctx, &role, query, roleID); err != nil {
		return nil, fmt.Errorf("failed to get club role: %w", err)
	}

	return &role, nil
}

func (d *Database) CreateClubRole(ctx context.Context, clubID int, name string, description string, privilege string) (*ClubRole, error) {
	query := `
		INSERT INTO club_roles (club_id, name, description, privilege)
		VALUES ($1, $2, $3, $4)
		RETURNING id, club_id, name, description, privilege
	`

	var role ClubRole
	if err := d.db.GetContext(ctx, &role, query, clubID, name, description, privilege); err != nil {
		return nil, fmt.Errorf("failed to create club role: %w", err)
	}

	return &role, nil
}

func (d *Database) UpdateClubRole(ctx context.Context, roleID int, name string, description string, privilege string) error {
	if _, err := d.db.ExecContext(ctx,
		"UPDATE club_roles SET name = $2, description = $3, privilege = $4 WHERE id = $1",
		roleID, name, description, privilege,
	); err != nil {
		return fmt.Errorf("failed to update club role: %w", err)
	}
	return nil
}

func (d *Database) DeleteClubRole(ctx context.Context, roleID int) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM club_roles WHERE id = $1", roleID); err != nil {
		return fmt.Errorf("failed to delete club role: %w", err)
	}
	return nil
}
