package database

import (
	"context"
	"fmt"
)

// GetProjectMemberships lists memberships of projects owned by clubs the user
// belongs to, optionally restricted to a single project.
func (d *Database) GetProjectMemberships(ctx context.Context, userID int, projectID int) ([]ProjectMembership, error) {
	query := `
		SELECT project_memberships.id, project_memberships.project_id, project_memberships.user_id, project_memberships.joined
		FROM project_memberships
		JOIN projects ON projects.id = project_memberships.project_id
		WHERE EXISTS (SELECT 1
		              FROM club_memberships
		              JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		              WHERE club_roles.club_id = projects.owner_club_id
		                AND club_memberships.user_id = $1)
	`
	args := []any{userID}
	if projectID != 0 {
		args = append(args, projectID)
		query += " AND project_memberships.project_id = $2"
	}
	query += " ORDER BY project_memberships.joined"

	var memberships []ProjectMembership
	if err := d.db.SelectContext(ctx, &memberships, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get project memberships: %w", err)
	}

	return memberships, nil
}

func (d *Database) GetProjectMembership(ctx context.Context, membershipID int) (*ProjectMembership, error) {
	query := `
		SELECT id, project_id, user_id, joined
		FROM project_memberships
		WHERE id = $1
	`

	var membership ProjectMembership
	if err := d.db.GetContext(ctx, &membership, query, membershipID); err != nil {
		return nil, fmt.Errorf("failed to get project membership: %w", err)
	}

	return &membership, nil
}

func (d *Database) CreateProjectMembership(ctx context.Context, projectID int, userID int) (*ProjectMembership, error) {
	query := `
		INSERT INTO project_memberships (project_id, user_id)
		VALUES ($1, $2)
		RETURNING id, project_id, user_id, joined
	`

	var membership ProjectMembership
	if err := d.db.GetContext(ctx, &membership, query, projectID, userID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create project membership: %w", err)
	}

	return &membership, nil
}

func (d *Database) DeleteProjectMembership(ctx context.Context, membershipID int) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM project_memberships WHERE id = $1", membershipID); err != nil {
		return fmt.Errorf("failed to delete project membership: %w", err)
	}
	return nil
}
