package database

import (
	"context"
	"fmt"
)

// GetClubMemberships lists memberships of all clubs, optionally restricted
// to a single club. Membership rosters are visible to every signed-in user.
func (d *Database) GetClubMemberships(ctx context.Context, clubID int) ([]ClubMembershipWithDetails, error) {
	query := `
		SELECT club_memberships.id,
		       club_memberships.user_id,
		       club_memberships.club_role_id,
		       club_memberships.joined,
		       users.username,
		       club_roles.club_id,
		       club_roles.name AS role_name,
		       club_roles.privilege
		FROM club_memberships
		JOIN users ON users.id = club_memberships.user_id
		JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		WHERE TRUE
	`
	args := []any{}
	if clubID != 0 {
		args = append(args, clubID)
		query += fmt.Sprintf(" AND club_roles.club_id = $%d", len(args))
	}
	query += " ORDER BY club_memberships.joined"

	var memberships []ClubMembershipWithDetails
	if err := d.db.SelectContext(ctx, &memberships, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get club memberships: %w", err)
	}

	return memberships, nil
}

func (d *Database) GetClubMembership(ctx context.Context, membershipID int) (*ClubMembershipWithDetails, error) {
	query := `
		SELECT club_memberships.id,
		       club_memberships.user_id,
		       club_memberships.club_role_id,
		       club_memberships.joined,
		       users.username,
		       club_roles.club_id,
		       club_roles.name AS role_name,
		       club_roles.privilege
		FROM club_memberships
		JOIN users ON users.id = club_memberships.user_id
		JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		WHERE club_memberships.id = $1
	`

	var membership ClubMembershipWithDetails
	if err := d.db.GetContext(ctx, &membership, query, membershipID); err != nil {
		return nil, fmt.Errorf("failed to get club membership: %w", err)
	}

	return &membership, nil
}

func (d *Database) CreateClubMembership(ctx context.Context, userID int, roleID int) (*ClubMembership, error) {
	query := `
		INSERT INTO club_memberships (user_id, club_role_id)
		VALUES ($1, $2)
		RETURNING id, user_id, club_role_id, joined
	`

	var membership ClubMembership
	if err := d.db.GetContext(ctx, &membership, query, userID, roleID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create club membership: %w", err)
	}

	return &membership, nil
}

func (d *Database) UpdateClubMembershipRole(ctx context.Context, membershipID int, roleID int) error {
	if _, err := d.db.ExecContext(ctx,
		"UPDATE club_memberships SET club_role_id = $2 WHERE id = $1",
		membershipID, roleID,
	); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to update club membership: %w", err)
	}
	return nil
}

func (d *Database) DeleteClubMembership(ctx context.Context, membershipID int) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM club_memberships WHERE id = $1", membershipID); err != nil {
		return fmt.Errorf("failed to delete club membership: %w", err)
	}
	return nil
}
