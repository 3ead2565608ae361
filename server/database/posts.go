package database

import (
	"context"
	"fmt"
)

// GetPosts lists posts from a single channel, or from all channels the user
// subscribes to when no channel is given. Results can be narrowed by a
// content search.
func (d *Database) GetPosts(ctx context.Context, userID int, channelID int, search string, orderAsc bool) ([]Post, error) {
	query := `
		SELECT posts.id, posts.channel_id, posts.content, posts.created
		FROM posts
		WHERE TRUE
	`
	args := []any{}
	if channelID != 0 {
		args = append(args, channelID)
		query += fmt.Sprintf(" AND posts.channel_id = $%d", len(args))
	} else {
		args = append(args, userID)
		query += fmt.Sprintf(`
		AND EXISTS (SELECT 1
		            FROM channel_subscriptions
		            WHERE channel_subscriptions.channel_id = posts.channel_id
		              AND channel_subscriptions.user_id = $%d)
		`, len(args))
	}
	if search != "" {
		args = append(args, search)
		query += fmt.Sprintf(" AND posts.content ILIKE '%%' || $%d || '%%'", len(args))
	}
	if orderAsc {
		query += " ORDER BY posts.created"
	} else {
		query += " ORDER BY posts.created DESC"
	}

	var posts []Post
	if err := d.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}

	return posts, nil
}

func (d *Database) GetPost(ctx context.Context, postID int) (*Post, error) {
	query := `
		SELECT id, channel_id, content, created
		FROM posts
		WHERE id = $1
	`

	var post Post
	if err := d.db.GetContext(ctx, &post, query, postID); err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

func (d *Database) CreatePost(ctx context.Context, channelID int, content string) (*Post, error) {
	query := `
		INSERT INTO posts (channel_id, content)
		VALUES ($1, $2)
		RETURNING id, channel_id, content, created
	`

	var post Post
	if err := d.db.GetContext(ctx, &post, query, channelID, content); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &post, nil
}

func (d *Database) UpdatePost(ctx context.Context, postID int, content string) error {
	if _, err := d.db.ExecContext(ctx,
		"UPDATE posts SET content = $2 WHERE id = $1",
		postID, content,
	); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

func (d *Database) DeletePost(ctx context.Context, postID int) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
