package database

import (
	"context"
	"fmt"
)

func (d *Database) count(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := d.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func (d *Database) CountUsers(ctx context.Context) (int, error) {
	count, err := d.count(ctx, "SELECT COUNT(*) FROM users")
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (d *Database) CountClubs(ctx context.Context) (int, error) {
	count, err := d.count(ctx, "SELECT COUNT(*) FROM clubs")
	if err != nil {
		return 0, fmt.Errorf("failed to count clubs: %w", err)
	}
	return count, nil
}

func (d *Database) CountProjects(ctx context.Context) (int, error) {
	count, err := d.count(ctx, "SELECT COUNT(*) FROM projects")
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

func (d *Database) CountPosts(ctx context.Context) (int, error) {
	count, err := d.count(ctx, "SELECT COUNT(*) FROM posts")
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

func (d *Database) CountFeedbacks(ctx context.Context) (int, error) {
	count, err := d.count(ctx, "SELECT COUNT(*) FROM feedbacks")
	if err != nil {
		return 0, fmt.Errorf("failed to count feedbacks: %w", err)
	}
	return count, nil
}

func (d *Database) CountPendingMembershipRequests(ctx context.Context) (int, error) {
	count, err := d.count(ctx, "SELECT COUNT(*) FROM membership_requests WHERE status = $1", RequestStatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending membership requests: %w", err)
	}
	return count, nil
}
