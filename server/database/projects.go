package database

import (
	"context"
	"fmt"
)

// GetProjects lists projects of clubs the user is a member of, optionally
// restricted to projects the user is a member of or to a single club.
// Secretaries see projects of all clubs.
func (d *Database) GetProjects(ctx context.Context, userID int, isSecretary bool, onlyMy bool, clubID int, search string) ([]Project, error) {
	query := `
		SELECT projects.id, projects.name, projects.description, projects.owner_club_id, projects.leader_id, projects.started, projects.closed
		FROM projects
		WHERE TRUE
	`
	var args []any
	if !isSecretary {
		args = append(args, userID)
		query += fmt.Sprintf(`
		AND EXISTS (SELECT 1
		            FROM club_memberships
		            JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		            WHERE club_roles.club_id = projects.owner_club_id
		              AND club_memberships.user_id = $%d)
		`, len(args))
	}
	if onlyMy {
		args = append(args, userID)
		query += fmt.Sprintf(`
		AND EXISTS (SELECT 1
		            FROM project_memberships
		            WHERE project_memberships.project_id = projects.id
		              AND project_memberships.user_id = $%d)
		`, len(args))
	}
	if clubID != 0 {
		args = append(args, clubID)
		query += fmt.Sprintf(" AND projects.owner_club_id = $%d", len(args))
	}
	if search != "" {
		args = append(args, search)
		query += fmt.Sprintf(" AND projects.name ILIKE '%%' || $%d || '%%'", len(args))
	}
	query += " ORDER BY projects.started DESC"

	var projects []Project
	if err := d.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}

	return projects, nil
}

func (d *Database) GetProject(ctx context.Context, projectID int) (*Project, error) {
	query := `
		SELECT id, name, description, owner_club_id, leader_id, started, closed
		FROM projects
		WHERE id = $1
	`

	var project Project
	if err := d.db.GetContext(ctx, &project, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// CreateProject inserts a project and makes the leader its first member.
func (d *Database) CreateProject(ctx context.Context, name string, description string, ownerClubID int, leaderID int) (*Project, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var project Project
	if err = tx.GetContext(ctx, &project, `
		INSERT INTO projects (name, description, owner_club_id, leader_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, owner_club_id, leader_id, started, closed
	`, name, description, ownerClubID, leaderID); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO project_memberships (project_id, user_id) VALUES ($1, $2)",
		project.ID, leaderID,
	); err != nil {
		return nil, fmt.Errorf("failed to create leader project membership: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &project, nil
}

func (d *Database) UpdateProject(ctx context.Context, projectID int, name string, description string, leaderID int) error {
	if _, err := d.db.ExecContext(ctx,
		"UPDATE projects SET name = $2, description = $3, leader_id = $4 WHERE id = $1",
		projectID, name, description, leaderID,
	); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// CloseProject marks the project closed. Closing a closed project is a no-op.
func (d *Database) CloseProject(ctx context.Context, projectID int) error {
	if _, err := d.db.ExecContext(ctx,
		"UPDATE projects SET closed = now() WHERE id = $1 AND closed IS NULL",
		projectID,
	); err != nil {
		return fmt.Errorf("failed to close project: %w", err)
	}
	return nil
}

// ReopenProject clears the closed marker. Reopening an open project is a no-op.
func (d *Database) ReopenProject(ctx context.Context, projectID int) error {
	if _, err := d.db.ExecContext(ctx,
		"UPDATE projects SET closed = NULL WHERE id = $1",
		projectID,
	); err != nil {
		return fmt.Errorf("failed to reopen project: %w", err)
	}
	return nil
}

// ProjectHasClubMember reports whether the user belongs to the project's
// owning club.
func (d *Database) ProjectHasClubMember(ctx context.Context, projectID int, userID int) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1
		               FROM projects
		               JOIN club_roles ON club_roles.club_id = projects.owner_club_id
		               JOIN club_memberships ON club_memberships.club_role_id = club_roles.id
		               WHERE projects.id = $1
		                 AND club_memberships.user_id = $2)
	`

	var hasMember bool
	if err := d.db.GetContext(ctx, &hasMember, query, projectID, userID); err != nil {
		return false, fmt.Errorf("failed to check project club membership: %w", err)
	}

	return hasMember, nil
}
