package database

import (
	"context"
	"fmt"
)

// GetFeedbacks lists feedback the user wrote plus feedback for clubs the user
// represents. Secretaries see all feedback.
func (d *Database) GetFeedbacks(ctx context.Context, userID int, isSecretary bool, onlyMy bool, clubID int, orderAsc bool) ([]FeedbackWithReply, error) {
	query := `
		SELECT feedbacks.id,
		       feedbacks.club_id,
		       feedbacks.author_id,
		       feedbacks.content,
		       feedbacks.created,
		       feedback_replies.id AS reply_id
		FROM feedbacks
		LEFT JOIN feedback_replies ON feedback_replies.feedback_id = feedbacks.id
		WHERE TRUE
	`
	var args []any
	if !isSecretary {
		args = append(args, userID)
		query += fmt.Sprintf(`
		AND (feedbacks.author_id = $%[1]d
		     OR EXISTS (SELECT 1
		                FROM club_memberships
		                JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		                WHERE club_roles.club_id = feedbacks.club_id
		                  AND club_memberships.user_id = $%[1]d
		                  AND club_roles.privilege = 'REP'))
		`, len(args))
	}
	if onlyMy {
		args = append(args, userID)
		query += fmt.Sprintf(" AND feedbacks.author_id = $%d", len(args))
	}
	if clubID != 0 {
		args = append(args, clubID)
		query += fmt.Sprintf(" AND feedbacks.club_id = $%d", len(args))
	}
	if orderAsc {
		query += " ORDER BY feedbacks.created"
	} else {
		query += " ORDER BY feedbacks.created DESC"
	}

	var feedbacks []FeedbackWithReply
	if err := d.db.SelectContext(ctx, &feedbacks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get feedbacks: %w", err)
	}

	return feedbacks, nil
}

func (d *Database) GetFeedback(ctx context.Context, feedbackID int) (*FeedbackWithReply, error) {
	query := `
		SELECT feedbacks.id,
		       feedbacks.club_id,
		       feedbacks.author_id,
		       feedbacks.content,
		       feedbacks.created,
		       feedback_replies.id AS reply_id
		FROM feedbacks
		LEFT JOIN feedback_replies ON feedback_replies.feedback_id = feedbacks.id
		WHERE feedbacks.id = $1
	`

	var feedback FeedbackWithReply
	if err := d.db.GetContext(ctx, &feedback, query, feedbackID); err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return &feedback, nil
}

func (d *Database) CreateFeedback(ctx context.Context, clubID int, authorID int, content string) (*Feedback, error) {
	query := `
		INSERT INTO feedbacks (club_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, club_id, author_id, content, created
	`

	var feedback Feedback
	if err := d.db.GetContext(ctx, &feedback, query, clubID, authorID, content); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	return &feedback, nil
}

// GetFeedbackReplies lists replies to feedback the user can see, optionally
// restricted to a single feedback. Secretaries see all replies.
func (d *Database) GetFeedbackReplies(ctx context.Context, userID int, isSecretary bool, feedbackID int) ([]FeedbackReply, error) {
	query := `
		SELECT feedback_replies.id, feedback_replies.feedback_id, feedback_replies.content, feedback_replies.created
		FROM feedback_replies
		JOIN feedbacks ON feedbacks.id = feedback_replies.feedback_id
		WHERE TRUE
	`
	var args []any
	if !isSecretary {
		args = append(args, userID)
		query += fmt.Sprintf(`
		AND (feedbacks.author_id = $%[1]d
		     OR EXISTS (SELECT 1
		                FROM club_memberships
		                JOIN club_roles ON club_roles.id = club_memberships.club_role_id
		                WHERE club_roles.club_id = feedbacks.club_id
		                  AND club_memberships.user_id = $%[1]d
		                  AND club_roles.privilege = 'REP'))
		`, len(args))
	}
	if feedbackID != 0 {
		args = append(args, feedbackID)
		query += fmt.Sprintf(" AND feedback_replies.feedback_id = $%d", len(args))
	}
	query += " ORDER BY feedback_replies.created"

	var replies []FeedbackReply
	if err := d.db.SelectContext(ctx, &replies, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get feedback replies: %w", err)
	}

	return replies, nil
}

func (d *Database) GetFeedbackReply(ctx context.Context, replyID int) (*FeedbackReply, error) {
	query := `
		SELECT id, feedback_id, content, created
		FROM feedback_replies
		WHERE id = $1
	`

	var reply FeedbackReply
	if err := d.db.GetContext(ctx, &reply, query, replyID); err != nil {
		return nil, fmt.Errorf("failed to get feedback reply: %w", err)
	}

	return &reply, nil
}

// CreateFeedbackReply inserts the single reply to a feedback. A second reply
// returns ErrAlreadyExists.
func (d *Database) CreateFeedbackReply(ctx context.Context, feedbackID int, content string) (*FeedbackReply, error) {
	query := `
		INSERT INTO feedback_replies (feedback_id, content)
		VALUES ($1, $2)
		RETURNING id, feedback_id, content, created
	`

	var reply FeedbackReply
	if err := d.db.GetContext(ctx, &reply, query, feedbackID, content); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create feedback reply: %w", err)
	}

	return &reply, nil
}
