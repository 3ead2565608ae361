package database

import (
	"context"
	"fmt"
)

// GetConversations lists conversations in channels of clubs the user is a
// member of. parentID of 0 with repliesOnly false lists top level messages,
// a non-zero parentID lists replies to that message.
func (d *Database) GetConversations(ctx context.Context, userID int, onlyMy bool, channelID int, parentID int, repliesOnly bool, search string, orderAsc bool) ([]ConversationWithAuthor, error) {
	query := `
		SELECT conversations.id,
		       conversations.channel_id,
		       conversations.author_id,
		       conversations.parent_id,
		       conversations.content,
		       conversations.created,
		       users.username AS author_username
		FROM conversations
		JOIN users ON users.id = conversations.author_id
		JOIN channels ON channels.id = conversations.channel_id
		WHERE EXISTS (SELECT 1
		              FROM club_memberships
		              JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		              WHERE club_roles.club_id = channels.club_id
		                AND club_memberships.user_id = $1)
	`
	args := []any{userID}
	if onlyMy {
		query += " AND conversations.author_id = $1"
	}
	if channelID != 0 {
		args = append(args, channelID)
		query += fmt.Sprintf(" AND conversations.channel_id = $%d", len(args))
	}
	if parentID != 0 {
		args = append(args, parentID)
		query += fmt.Sprintf(" AND conversations.parent_id = $%d", len(args))
	} else if repliesOnly {
		query += " AND conversations.parent_id IS NOT NULL"
	} else {
		query += " AND conversations.parent_id IS NULL"
	}
	if search != "" {
		args = append(args, search)
		query += fmt.Sprintf(" AND conversations.content ILIKE '%%' || $%d || '%%'", len(args))
	}
	if orderAsc {
		query += " ORDER BY conversations.created"
	} else {
		query += " ORDER BY conversations.created DESC"
	}

	var conversations []ConversationWithAuthor
	if err := d.db.SelectContext(ctx, &conversations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get conversations: %w", err)
	}

	return conversations, nil
}

func (d *Database) GetConversation(ctx context.Context, conversationID int) (*ConversationWithAuthor, error) {
	query := `
		SELECT conversations.id,
		       conversations.channel_id,
		       conversations.author_id,
		       conversations.parent_id,
		       conversations.content,
		       conversations.created,
		       users.username AS author_username
		FROM conversations
		JOIN users ON users.id = conversations.author_id
		WHERE conversations.id = $1
	`

	var conversation ConversationWithAuthor
	if err := d.db.GetContext(ctx, &conversation, query, conversationID); err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &conversation, nil
}

func (d *Database) CreateConversation(ctx context.Context, channelID int, authorID int, parentID *int, content string) (*Conversation, error) {
	query := `
		INSERT INTO conversations (channel_id, author_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, channel_id, author_id, parent_id, content, created
	`

	var conversation Conversation
	if err := d.db.GetContext(ctx, &conversation, query, channelID, authorID, parentID, content); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return &conversation, nil
}

func (d *Database) DeleteConversation(ctx context.Context, conversationID int) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = $1", conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
