package database

import (
	"context"
	"fmt"
)

func (d *Database) GetClubs(ctx context.Context, search string, onlyMemberID int) ([]Club, error) {
	query := `
		SELECT clubs.id, clubs.name, clubs.description, clubs.created_at
		FROM clubs
	`
	var args []any
	if onlyMemberID != 0 {
		args = append(args, onlyMemberID)
		query += `
		WHERE EXISTS (SELECT 1
		              FROM club_memberships
		              JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		              WHERE club_roles.club_id = clubs.id
		                AND club_memberships.user_id = $1)
		`
	}
	if search != "" {
		if len(args) == 0 {
			query += " WHERE"
		} else {
			query += " AND"
		}
		args = append(args, search)
		query += fmt.Sprintf(" clubs.name ILIKE '%%' || $%d || '%%'", len(args))
	}
	query += " ORDER BY clubs.name"

	var clubs []Club
	if err := d.db.SelectContext(ctx, &clubs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get clubs: %w", err)
	}

	return clubs, nil
}

func (d *Database) GetClub(ctx context.Context, clubID int) (*Club, error) {
	query := `
		SELECT id, name, description, created_at
		FROM clubs
		WHERE id = $1
	`

	var club Club
	if err := d.db.GetContext(ctx, &club, query, clubID); err != nil {
		return nil, fmt.Errorf("failed to get club: %w", err)
	}

	return &club, nil
}

// CreateClub inserts a club together with its default representative and
// member roles and its communication channel.
func (d *Database) CreateClub(ctx context.Context, name string, description string) (*Club, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var club Club
	if err = tx.GetContext(ctx, &club,
		"INSERT INTO clubs (name, description) VALUES ($1, $2) RETURNING id, name, description, created_at",
		name, description,
	); err != nil {
		return nil, fmt.Errorf("failed to create club: %w", err)
	}

	insertRole := "INSERT INTO club_roles (club_id, name, description, privilege) VALUES ($1, $2, $3, $4)"
	if _, err = tx.ExecContext(ctx, insertRole, club.ID, "Representative", "Default representative role", PrivilegeRep); err != nil {
		return nil, fmt.Errorf("failed to create default representative role: %w", err)
	}
	if _, err = tx.ExecContext(ctx, insertRole, club.ID, "Member", "Default member role", PrivilegeMem); err != nil {
		return nil, fmt.Errorf("failed to create default member role: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO channels (club_id, name, description) VALUES ($1, $2, $3)",
		club.ID, name, "Channel of "+name,
	); err != nil {
		return nil, fmt.Errorf("failed to create club channel: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &club, nil
}

func (d *Database) UpdateClub(ctx context.Context, clubID int, name string, description string) error {
	if _, err := d.db.ExecContext(ctx,
		"UPDATE clubs SET name = $2, description = $3 WHERE id = $1",
		clubID, name, description,
	); err != nil {
		return fmt.Errorf("failed to update club: %w", err)
	}
	return nil
}

func (d *Database) DeleteClub(ctx context.Context, clubID int) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM clubs WHERE id = $1", clubID); err != nil {
		return fmt.Errorf("failed to delete club: %w", err)
	}
	return nil
}

// ClubHasMember reports whether the user holds any role in the club.
func (d *Database) ClubHasMember(ctx context.Context, clubID int, userID int) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1
		               FROM club_memberships
		               JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		               WHERE club_roles.club_id = $1
		                 AND club_memberships.user_id = $2)
	`

	var hasMember bool
	if err := d.db.GetContext(ctx, &hasMember, query, clubID, userID); err != nil {
		return false, fmt.Errorf("failed to check club membership: %w", err)
	}

	return hasMember, nil
}

// ClubHasRep reports whether the user holds a representative role in the club.
func (d *Database) ClubHasRep(ctx context.Context, clubID int, userID int) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1
		               FROM club_memberships
		               JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		               WHERE club_roles.club_id = $1
		                 AND club_memberships.user_id = $2
		                 AND club_roles.privilege = $3)
	`

	var hasRep bool
	if err := d.db.GetContext(ctx, &hasRep, query, clubID, userID, PrivilegeRep); err != nil {
		return false, fmt.Errorf("failed to check club representative: %w", err)
	}

	return hasRep, nil
}

// GetClubPrivilege returns the highest privilege the user holds in the club,
// or an empty string for non-members.
func (d *Database) GetClubPrivilege(ctx context.Context, clubID int, userID int) (string, error) {
	query := `
		SELECT COALESCE((SELECT club_roles.privilege
		                 FROM club_memberships
		                 JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		                 WHERE club_roles.club_id = $1
		                   AND club_memberships.user_id = $2
		                 ORDER BY CASE club_roles.privilege WHEN 'REP' THEN 0 ELSE 1 END
		                 LIMIT 1), '')
	`

	var privilege string
	if err := d.db.GetContext(ctx, &privilege, query, clubID, userID); err != nil {
		return "", fmt.Errorf("failed to get club privilege: %w", err)
	}

	return privilege, nil
}
