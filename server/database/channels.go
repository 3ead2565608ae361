package database

import (
	"context"
	"fmt"
)

// GetChannels lists all channels, optionally restricted to a club, to
// channels the user subscribed to, or by a name search.
func (d *Database) GetChannels(ctx context.Context, userID int, onlyMy bool, clubID int, search string) ([]Channel, error) {
	query := `
		SELECT channels.id, channels.club_id, channels.name, channels.description
		FROM channels
		WHERE TRUE
	`
	args := []any{}
	if onlyMy {
		args = append(args, userID)
		query += fmt.Sprintf(`
		AND EXISTS (SELECT 1
		            FROM channel_subscriptions
		            WHERE channel_subscriptions.channel_id = channels.id
		              AND channel_subscriptions.user_id = $%d)
		`, len(args))
	}
	if clubID != 0 {
		args = append(args, clubID)
		query += fmt.Sprintf(" AND channels.club_id = $%d", len(args))
	}
	if search != "" {
		args = append(args, search)
		query += fmt.Sprintf(" AND channels.name ILIKE '%%' || $%d || '%%'", len(args))
	}
	query += " ORDER BY channels.name"

	var channels []Channel
	if err := d.db.SelectContext(ctx, &channels, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get channels: %w", err)
	}

	return channels, nil
}

func (d *Database) GetChannel(ctx context.Context, channelID int) (*Channel, error) {
	query := `
		SELECT id, club_id, name, description
		FROM channels
		WHERE id = $1
	`

	var channel Channel
	if err := d.db.GetContext(ctx, &channel, query, channelID); err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return &channel, nil
}

func (d *Database) UpdateChannel(ctx context.Context, channelID int, name string, description string) error {
	if _, err := d.db.ExecContext(ctx,
		"UPDATE channels SET name = $2, description = $3 WHERE id = $1",
		channelID, name, description,
	); err != nil {
		return fmt.Errorf("failed to update channel: %w", err)
	}
	return nil
}

// SubscribeChannel adds the user to the channel's subscribers. Subscribing
// twice is a no-op.
func (d *Database) SubscribeChannel(ctx context.Context, channelID int, userID int) error {
	if _, err := d.db.ExecContext(ctx,
		"INSERT INTO channel_subscriptions (channel_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		channelID, userID,
	); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	return nil
}

func (d *Database) UnsubscribeChannel(ctx context.Context, channelID int, userID int) error {
	if _, err := d.db.ExecContext(ctx,
		"DELETE FROM channel_subscriptions WHERE channel_id = $1 AND user_id = $2",
		channelID, userID,
	); err != nil {
		return fmt.Errorf("failed to unsubscribe from channel: %w", err)
	}
	return nil
}

func (d *Database) GetChannelSubscribers(ctx context.Context, channelID int) ([]User, error) {
	query := `
		SELECT users.id, users.username, users.email, users.first_name, users.last_name, users.password_hash, users.is_secretary, users.date_joined
		FROM users
		JOIN channel_subscriptions ON channel_subscriptions.user_id = users.id
		WHERE channel_subscriptions.channel_id = $1
		ORDER BY users.username
	`

	var users []User
	if err := d.db.SelectContext(ctx, &users, query, channelID); err != nil {
		return nil, fmt.Errorf("failed to get channel subscribers: %w", err)
	}

	return users, nil
}

func (d *Database) IsChannelSubscriber(ctx context.Context, channelID int, userID int) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1
		               FROM channel_subscriptions
		               WHERE channel_id = $1
		                 AND user_id = $2)
	`

	var subscribed bool
	if err := d.db.GetContext(ctx, &subscribed, query, channelID, userID); err != nil {
		return false, fmt.Errorf("failed to check channel subscription: %w", err)
	}

	return subscribed, nil
}
